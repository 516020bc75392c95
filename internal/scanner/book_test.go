package scanner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/polymkt/bondbot/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func levels(pairs ...float64) []domain.PriceLevel {
	out := make([]domain.PriceLevel, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, domain.PriceLevel{Price: pairs[i], Size: pairs[i+1]})
	}
	return out
}

func TestSummarizeBook_UnsortedSides(t *testing.T) {
	book := domain.OrderBook{
		// deliberately unsorted on both sides
		Asks: levels(0.97, 10, 0.95, 20, 0.99, 5),
		Bids: levels(0.91, 30, 0.94, 40, 0.90, 50),
	}

	sum, ok := SummarizeBook(book)
	if !ok {
		t.Fatal("expected a summary")
	}
	if sum.BestAsk != 0.95 {
		t.Errorf("BestAsk = %v, want 0.95 (min of asks)", sum.BestAsk)
	}
	if sum.BestBid != 0.94 {
		t.Errorf("BestBid = %v, want 0.94 (max of bids)", sum.BestBid)
	}
	if math.Abs(sum.Spread-0.01) > 1e-9 {
		t.Errorf("Spread = %v, want 0.01", sum.Spread)
	}
	// All three bids sit inside [0.90, 0.98].
	if sum.Depth != 120 {
		t.Errorf("Depth = %v, want 120", sum.Depth)
	}
}

func TestSummarizeBook_DepthBand(t *testing.T) {
	book := domain.OrderBook{
		Asks: levels(0.95, 10),
		Bids: levels(0.89, 100, 0.90, 25, 0.94, 25, 0.98, 10, 0.99, 500),
	}

	sum, ok := SummarizeBook(book)
	if !ok {
		t.Fatal("expected a summary")
	}
	// 0.89 and 0.99 are outside the band; 0.90 and 0.98 are inclusive.
	if sum.Depth != 60 {
		t.Errorf("Depth = %v, want 60", sum.Depth)
	}
}

func TestSummarizeBook_EmptySides(t *testing.T) {
	if _, ok := SummarizeBook(domain.OrderBook{Asks: levels(0.95, 10)}); ok {
		t.Error("expected no summary for empty bid side")
	}
	if _, ok := SummarizeBook(domain.OrderBook{Bids: levels(0.94, 10)}); ok {
		t.Error("expected no summary for empty ask side")
	}
	if _, ok := SummarizeBook(domain.OrderBook{}); ok {
		t.Error("expected no summary for empty book")
	}
}

func TestSummarizeBook_CrossedBook(t *testing.T) {
	book := domain.OrderBook{
		Asks: levels(0.93, 10),
		Bids: levels(0.95, 10),
	}
	if _, ok := SummarizeBook(book); ok {
		t.Error("expected no summary for crossed book")
	}
}

type fakeBooks struct {
	books map[string]domain.OrderBook
}

func (f *fakeBooks) GetOrderBook(_ context.Context, tokenID string) (domain.OrderBook, error) {
	book, ok := f.books[tokenID]
	if !ok {
		return domain.OrderBook{}, errors.New("book unavailable")
	}
	return book, nil
}

func TestAnalyzer_FetchFailureDegrades(t *testing.T) {
	a := NewAnalyzer(&fakeBooks{}, testLogger())
	if _, ok := a.Summarize(context.Background(), "missing"); ok {
		t.Error("expected no summary when the fetch fails")
	}
}
