package domain

// PriceLevel is a single price+size entry in an orderbook.
type PriceLevel struct {
	Price float64
	Size  float64
}

// OrderBook is a full snapshot of resting bids and asks for one token. The
// CLOB API does not guarantee level ordering, so consumers must not assume
// either side is sorted.
type OrderBook struct {
	TokenID string
	Bids    []PriceLevel
	Asks    []PriceLevel
}

// BookSummary condenses an orderbook into the figures the strategy cares
// about: the touch on both sides, the spread between them, and the resting
// bid-side liquidity inside the near-par band.
type BookSummary struct {
	BestAsk float64
	BestBid float64
	Spread  float64 // BestAsk - BestBid, never negative in a valid summary
	Depth   float64 // sum of bid sizes priced in the near-par band
}
