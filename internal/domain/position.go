package domain

import "time"

// Position is one open bot-managed position, keyed in the ledger by the
// token ID it was opened on. The JSON tags define the on-disk ledger format
// and must stay stable across versions; a record is written exactly once at
// order submission and never mutated afterwards.
type Position struct {
	Title   string    `json:"title"`
	Price   float64   `json:"price"`
	Yield   float64   `json:"yield"`
	Time    time.Time `json:"time"`
	OrderID string    `json:"order_id"`
}
