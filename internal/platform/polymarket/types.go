package polymarket

import (
	"encoding/json"
	"strconv"

	"github.com/polymkt/bondbot/internal/domain"
)

// flexString unmarshals from a JSON string or number and keeps the raw
// decimal text either way. The Gamma API is inconsistent about whether
// numeric fields like volume24hr arrive quoted.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// --------------------------------------------------------------------------
// Gamma API DTOs
// --------------------------------------------------------------------------

// APIMarket represents a market as returned by the Polymarket Gamma API.
// Outcomes and ClobTokenIDs are JSON-encoded arrays inside the JSON payload
// (e.g. "[\"Yes\",\"No\"]"); they are passed through raw and parsed by the
// scanner so a malformed market never fails a whole page.
type APIMarket struct {
	ID           string     `json:"id"`
	Question     string     `json:"question"`
	Slug         string     `json:"slug"`
	EndDate      string     `json:"endDate"`
	Volume24hr   flexString `json:"volume24hr"`
	Outcomes     string     `json:"outcomes"`
	ClobTokenIDs string     `json:"clobTokenIds"`
}

// ToDomainMarket converts an APIMarket to a domain.Market.
func (m *APIMarket) ToDomainMarket() domain.Market {
	return domain.Market{
		ID:           m.ID,
		Question:     m.Question,
		Slug:         m.Slug,
		EndDate:      m.EndDate,
		Volume24hr:   string(m.Volume24hr),
		Outcomes:     m.Outcomes,
		ClobTokenIDs: m.ClobTokenIDs,
	}
}

// marketsEnvelope tolerates both response shapes the Gamma API has used:
// a bare array, or an object with a "data" key.
type marketsEnvelope struct {
	Data []APIMarket `json:"data"`
}

// decodeMarkets parses a Gamma /markets response body in either shape.
func decodeMarkets(body []byte) ([]APIMarket, error) {
	var markets []APIMarket
	if err := json.Unmarshal(body, &markets); err == nil {
		return markets, nil
	}
	var env marketsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// --------------------------------------------------------------------------
// CLOB API DTOs
// --------------------------------------------------------------------------

// APIBookLevel is one price level in a CLOB order book response. Prices and
// sizes arrive as decimal strings.
type APIBookLevel struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// APIBook is the response of GET /book for a single token.
type APIBook struct {
	Market  string         `json:"market"`
	AssetID string         `json:"asset_id"`
	Bids    []APIBookLevel `json:"bids"`
	Asks    []APIBookLevel `json:"asks"`
}

// ToDomainOrderBook converts an APIBook to a domain.OrderBook. Levels with
// unparseable prices or sizes are dropped rather than surfaced as errors;
// the analyzer treats a missing side as "no summary".
func (b *APIBook) ToDomainOrderBook() domain.OrderBook {
	book := domain.OrderBook{TokenID: b.AssetID}
	book.Bids = toLevels(b.Bids)
	book.Asks = toLevels(b.Asks)
	return book
}

func toLevels(in []APIBookLevel) []domain.PriceLevel {
	out := make([]domain.PriceLevel, 0, len(in))
	for _, lvl := range in {
		price, err := strconv.ParseFloat(lvl.Price, 64)
		if err != nil {
			continue
		}
		size, err := strconv.ParseFloat(lvl.Size, 64)
		if err != nil {
			continue
		}
		out = append(out, domain.PriceLevel{Price: price, Size: size})
	}
	return out
}

// APIOrderResult is the response from placing an order via the CLOB API.
type APIOrderResult struct {
	Success     bool   `json:"success"`
	ErrorMsg    string `json:"errorMsg,omitempty"`
	OrderID     string `json:"orderID,omitempty"`
	Status      string `json:"status,omitempty"`
	ShouldRetry bool   `json:"shouldRetry,omitempty"`
}

// ToDomainOrderResult converts an APIOrderResult to a domain.OrderResult.
func (r *APIOrderResult) ToDomainOrderResult() domain.OrderResult {
	return domain.OrderResult{
		Success:     r.Success,
		OrderID:     r.OrderID,
		Status:      r.Status,
		Message:     r.ErrorMsg,
		ShouldRetry: r.ShouldRetry,
	}
}
