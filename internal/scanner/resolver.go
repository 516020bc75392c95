package scanner

import (
	"encoding/json"
	"strings"

	"github.com/polymkt/bondbot/internal/domain"
)

// ResolveTokens maps a market's outcome labels to its tradeable token IDs.
// The Gamma catalog delivers both as JSON-encoded string arrays that are
// index-aligned; labels are matched case-insensitively against "yes" and
// "no", first match winning per side. Any parse failure or a length
// mismatch between the two arrays yields an empty ContractRef; the market
// is simply not a plain binary and the scanner moves on.
func ResolveTokens(m domain.Market) domain.ContractRef {
	var ref domain.ContractRef

	if m.Outcomes == "" || m.ClobTokenIDs == "" {
		return ref
	}

	var outcomes, tokens []string
	if err := json.Unmarshal([]byte(m.Outcomes), &outcomes); err != nil {
		return ref
	}
	if err := json.Unmarshal([]byte(m.ClobTokenIDs), &tokens); err != nil {
		return ref
	}
	if len(outcomes) != len(tokens) {
		return ref
	}

	for i, outcome := range outcomes {
		switch {
		case ref.Yes == "" && strings.EqualFold(outcome, "yes"):
			ref.Yes = tokens[i]
		case ref.No == "" && strings.EqualFold(outcome, "no"):
			ref.No = tokens[i]
		}
	}

	return ref
}
