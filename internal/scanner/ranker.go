package scanner

import (
	"context"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/polymkt/bondbot/internal/domain"
)

// Thresholds holds the gates a candidate book must clear before it becomes
// an opportunity.
type Thresholds struct {
	MaxSpread float64
	MinDepth  float64
	MinYield  float64
}

// Ranker combines token resolution and book analysis into a scored, sorted
// candidate list. The strategy always takes the "no" side of a matched
// contract; that directional bias is intentional.
type Ranker struct {
	analyzer    *Analyzer
	thresholds  Thresholds
	concurrency int
	logger      *slog.Logger
}

// NewRanker creates a Ranker. concurrency bounds the number of in-flight
// book fetches; 1 restores fully sequential scanning.
func NewRanker(analyzer *Analyzer, thresholds Thresholds, concurrency int, logger *slog.Logger) *Ranker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Ranker{
		analyzer:    analyzer,
		thresholds:  thresholds,
		concurrency: concurrency,
		logger:      logger.With(slog.String("component", "ranker")),
	}
}

// FindOpportunities evaluates the eligible markets against the current open
// positions and returns the surviving opportunities ordered by descending
// implied yield. Ties keep catalog order. A market is skipped when its "no"
// token cannot be resolved, is already held, has no usable book, or fails
// any threshold gate; skips are silent by design.
//
// Book fetches for distinct tokens are independent, so they run under a
// bounded worker group; results are recombined in catalog order before
// ranking.
func (r *Ranker) FindOpportunities(ctx context.Context, markets []domain.Market, held map[string]domain.Position) []domain.Opportunity {
	type candidate struct {
		market  domain.Market
		tokenID string
	}

	candidates := make([]candidate, 0, len(markets))
	for _, m := range markets {
		ref := ResolveTokens(m)
		if ref.No == "" {
			continue
		}
		if _, open := held[ref.No]; open {
			continue
		}
		candidates = append(candidates, candidate{market: m, tokenID: ref.No})
	}

	r.logger.Info("analyzing candidate books",
		slog.Int("markets", len(markets)),
		slog.Int("candidates", len(candidates)),
	)

	results := make([]*domain.Opportunity, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			if opp, ok := r.evaluate(gctx, c.market, c.tokenID); ok {
				results[i] = &opp
			}
			return nil
		})
	}
	// Workers only report skips through the results slice, never errors.
	_ = g.Wait()

	opps := make([]domain.Opportunity, 0, len(candidates))
	for _, res := range results {
		if res != nil {
			opps = append(opps, *res)
		}
	}

	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].Yield > opps[j].Yield
	})

	return opps
}

// evaluate runs one candidate through the book gates and yield computation.
func (r *Ranker) evaluate(ctx context.Context, m domain.Market, tokenID string) (domain.Opportunity, bool) {
	summary, ok := r.analyzer.Summarize(ctx, tokenID)
	if !ok {
		return domain.Opportunity{}, false
	}

	if summary.Spread > r.thresholds.MaxSpread {
		return domain.Opportunity{}, false
	}
	if summary.Depth < r.thresholds.MinDepth {
		return domain.Opportunity{}, false
	}
	if summary.BestAsk < BandLow || summary.BestAsk > BandHigh {
		return domain.Opportunity{}, false
	}

	yield := (1.0 - summary.BestAsk) / summary.BestAsk
	if yield < r.thresholds.MinYield {
		return domain.Opportunity{}, false
	}

	return domain.Opportunity{
		Market:  m,
		TokenID: tokenID,
		Book:    summary,
		Price:   summary.BestAsk,
		Yield:   yield,
	}, true
}
