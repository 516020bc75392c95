// Package scanner implements the opportunity-detection pipeline: catalog
// filtering, outcome-token resolution, order-book analysis, and yield
// ranking.
package scanner

import (
	"strconv"
	"time"

	"github.com/polymkt/bondbot/internal/domain"
)

// Filter narrows the market catalog to contracts worth analyzing: close
// enough to resolution to price like a short-dated bond, far enough out to
// leave time to fill, and liquid enough to trust the tape. Bounds are
// inclusive on both ends.
type Filter struct {
	MinHours  float64
	MaxHours  float64
	MinVolume float64
}

// Apply returns the markets eligible for book analysis at the given time.
// Markets with a missing or unparseable resolution timestamp or volume are
// dropped silently; a malformed listing is ineligible, not an error.
// Survivors are annotated with their hours-to-resolution and numeric volume
// for downstream use.
func (f Filter) Apply(markets []domain.Market, now time.Time) []domain.Market {
	eligible := make([]domain.Market, 0, len(markets))

	for _, m := range markets {
		end, err := time.Parse(time.RFC3339, m.EndDate)
		if err != nil {
			continue
		}
		hours := end.Sub(now).Hours()
		if hours < f.MinHours || hours > f.MaxHours {
			continue
		}

		volume, err := strconv.ParseFloat(m.Volume24hr, 64)
		if err != nil || volume < f.MinVolume {
			continue
		}

		m.HoursLeft = hours
		m.Volume = volume
		eligible = append(eligible, m)
	}

	return eligible
}
