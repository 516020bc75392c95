package scanner

import (
	"context"
	"log/slog"

	"github.com/polymkt/bondbot/internal/domain"
)

// The near-par band the whole strategy targets: contracts priced here are
// "almost certain to settle at 1" with a small residual yield. Depth inside
// the band approximates the capital defending that near-certain price.
const (
	BandLow  = 0.90
	BandHigh = 0.98
)

// BookFetcher is the narrow view of the CLOB client the analyzer needs.
type BookFetcher interface {
	GetOrderBook(ctx context.Context, tokenID string) (domain.OrderBook, error)
}

// Analyzer fetches live order books and condenses them into summaries. Any
// fetch or decode failure degrades to "no summary"; one broken book must
// never stop a scan.
type Analyzer struct {
	books  BookFetcher
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer over the given book source.
func NewAnalyzer(books BookFetcher, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		books:  books,
		logger: logger.With(slog.String("component", "analyzer")),
	}
}

// Summarize fetches the order book for tokenID and summarizes it. The
// second return is false when the book is unavailable, empty on either
// side, or crossed.
func (a *Analyzer) Summarize(ctx context.Context, tokenID string) (domain.BookSummary, bool) {
	book, err := a.books.GetOrderBook(ctx, tokenID)
	if err != nil {
		a.logger.Debug("book fetch failed",
			slog.String("token", tokenID),
			slog.String("error", err.Error()),
		)
		return domain.BookSummary{}, false
	}
	return SummarizeBook(book)
}

// SummarizeBook condenses an order book into a BookSummary. The book is not
// assumed sorted: best ask is the minimum ask price and best bid the
// maximum bid price. An empty side or a negative spread (crossed book, a
// data artifact this strategy cannot price) yields no summary.
func SummarizeBook(book domain.OrderBook) (domain.BookSummary, bool) {
	if len(book.Bids) == 0 || len(book.Asks) == 0 {
		return domain.BookSummary{}, false
	}

	bestAsk := book.Asks[0].Price
	for _, lvl := range book.Asks[1:] {
		if lvl.Price < bestAsk {
			bestAsk = lvl.Price
		}
	}

	bestBid := book.Bids[0].Price
	depth := 0.0
	for _, lvl := range book.Bids {
		if lvl.Price > bestBid {
			bestBid = lvl.Price
		}
		if lvl.Price >= BandLow && lvl.Price <= BandHigh {
			depth += lvl.Size
		}
	}

	spread := bestAsk - bestBid
	if spread < 0 {
		return domain.BookSummary{}, false
	}

	return domain.BookSummary{
		BestAsk: bestAsk,
		BestBid: bestBid,
		Spread:  spread,
		Depth:   depth,
	}, true
}
