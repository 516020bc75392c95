package domain

// Market represents a Polymarket binary prediction market as listed by the
// Gamma catalog. Raw string fields are kept exactly as the API sent them;
// parsing happens in the scanner so one malformed market is skipped instead
// of failing the whole catalog.
type Market struct {
	ID           string
	Question     string
	Slug         string
	EndDate      string // resolution timestamp, RFC3339; may be empty
	Volume24hr   string // 24h trading volume as a decimal string; may be empty
	Outcomes     string // JSON-encoded label array, e.g. `["Yes","No"]`
	ClobTokenIDs string // JSON-encoded token-id array, index-aligned with Outcomes

	// Annotations written by the eligibility filter for downstream use.
	// Zero until the market has passed filtering.
	HoursLeft float64
	Volume    float64
}

// ContractRef holds the tradeable ERC-1155 token IDs for the two sides of a
// binary market. An empty string means that side could not be resolved from
// the market's outcome arrays.
type ContractRef struct {
	Yes string
	No  string
}
