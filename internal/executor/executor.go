// Package executor sizes and submits buy orders for ranked opportunities.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/polymkt/bondbot/internal/domain"
)

// TradingClient is the interface through which the executor submits orders
// to the exchange.
type TradingClient interface {
	SubmitOrder(ctx context.Context, tokenID string, price, size float64, side domain.OrderSide, orderType domain.OrderType) (string, error)
}

// Sizing holds the position-sizing parameters, all in USDC terms.
type Sizing struct {
	// PositionSizePct is the fraction of available capital staked per trade.
	PositionSizePct float64
	// MaxPositionSize caps the stake regardless of capital.
	MaxPositionSize float64
	// MinStake is the smallest stake worth sending to the exchange; below
	// it the trade is skipped, not attempted.
	MinStake float64
}

// Result reports the outcome of one execution attempt. Skipped is the
// explicit "too small to trade" branch; submission failures come back as
// errors instead.
type Result struct {
	OrderID string
	Stake   float64
	Size    float64
	Skipped bool
	Reason  string
}

// Executor computes a risk-bounded stake for an opportunity and submits a
// good-till-cancelled buy at the opportunity's price.
type Executor struct {
	trader TradingClient
	sizing Sizing
	logger *slog.Logger
}

// New creates an Executor that submits orders through trader.
func New(trader TradingClient, sizing Sizing, logger *slog.Logger) *Executor {
	return &Executor{
		trader: trader,
		sizing: sizing,
		logger: logger.With(slog.String("component", "executor")),
	}
}

// Stake returns the USDC amount to put at risk given the available capital:
// a fixed percentage, capped at the configured maximum.
func (e *Executor) Stake(capital float64) float64 {
	return math.Min(capital*e.sizing.PositionSizePct, e.sizing.MaxPositionSize)
}

// Execute sizes and submits a buy order for the given opportunity. A stake
// below the viable minimum returns a skipped Result with no order sent. A
// submission failure returns an error; the caller decides whether to move
// on to the next candidate (it should: one failed trade never ends a
// cycle).
func (e *Executor) Execute(ctx context.Context, opp domain.Opportunity, capital float64) (Result, error) {
	stake := e.Stake(capital)
	if stake < e.sizing.MinStake {
		reason := fmt.Sprintf("stake %.2f below minimum %.2f (capital %.2f)", stake, e.sizing.MinStake, capital)
		e.logger.Info("trade skipped", slog.String("token", opp.TokenID), slog.String("reason", reason))
		return Result{Skipped: true, Reason: reason}, nil
	}

	size := stake / opp.Price

	orderID, err := e.trader.SubmitOrder(ctx, opp.TokenID, opp.Price, size, domain.OrderSideBuy, domain.OrderTypeGTC)
	if err != nil {
		return Result{}, fmt.Errorf("executor: submit order for %s: %w", opp.TokenID, err)
	}

	e.logger.Info("trade submitted",
		slog.String("token", opp.TokenID),
		slog.String("order_id", orderID),
		slog.Float64("price", opp.Price),
		slog.Float64("size", size),
		slog.Float64("stake", stake),
		slog.Float64("yield", opp.Yield),
	)

	return Result{OrderID: orderID, Stake: stake, Size: size}, nil
}
