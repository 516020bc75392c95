package domain

// Opportunity is a market that survived every ranking gate: a resolved
// "no"-side token, a live book inside the near-par band, and an implied
// yield above the configured floor. Price is the ask the executor will buy
// at; Yield is (1-ask)/ask at ranking time.
type Opportunity struct {
	Market  Market
	TokenID string // the "no"-side token the strategy buys
	Book    BookSummary
	Price   float64
	Yield   float64
}
