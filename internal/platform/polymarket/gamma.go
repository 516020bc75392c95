package polymarket

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/polymkt/bondbot/internal/domain"
)

// pageSize is the Gamma pagination window. A page shorter than this signals
// the end of the catalog.
const pageSize = 100

// GammaClient is the REST client for the Polymarket Gamma API, which
// provides market discovery and metadata.
type GammaClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGammaClient creates a new Gamma API client.
//
// baseURL is the Gamma API root, e.g. "https://gamma-api.polymarket.com".
// timeout bounds each page request; a hung catalog call must never stall a
// scan cycle indefinitely.
func NewGammaClient(baseURL string, timeout time.Duration, logger *slog.Logger) *GammaClient {
	return &GammaClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With(slog.String("component", "gamma")),
	}
}

// ListActiveMarkets pages through the catalog of open markets and returns
// them all. Pagination stops on an empty or short page. If a page request
// fails mid-sequence, the markets fetched so far are returned with no error;
// a partial catalog still yields a useful scan.
func (g *GammaClient) ListActiveMarkets(ctx context.Context) ([]domain.Market, error) {
	var all []domain.Market

	for offset := 0; ; offset += pageSize {
		page, err := g.getMarketsPage(ctx, pageSize, offset)
		if err != nil {
			if len(all) > 0 {
				g.logger.Warn("catalog pagination aborted, returning partial results",
					slog.Int("fetched", len(all)),
					slog.String("error", err.Error()),
				)
				return all, nil
			}
			return nil, fmt.Errorf("polymarket/gamma: list active markets: %w", err)
		}

		for i := range page {
			all = append(all, page[i].ToDomainMarket())
		}

		if len(page) < pageSize {
			break
		}
	}

	return all, nil
}

// getMarketsPage fetches one page of active, non-closed markets.
func (g *GammaClient) getMarketsPage(ctx context.Context, limit, offset int) ([]APIMarket, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("closed", "false")
	params.Set("active", "true")

	body, err := g.doGet(ctx, "/markets?"+params.Encode())
	if err != nil {
		return nil, err
	}

	markets, err := decodeMarkets(body)
	if err != nil {
		return nil, fmt.Errorf("decode markets: %w", err)
	}
	return markets, nil
}

// doGet sends an unauthenticated GET request to the Gamma API.
func (g *GammaClient) doGet(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if err := checkHTTPStatus(resp.StatusCode, body); err != nil {
		return nil, err
	}

	return body, nil
}
