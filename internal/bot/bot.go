// Package bot sequences one scan cycle (credentials, balance, ledger,
// catalog, filter, rank, execute, persist) and drives it on a fixed
// interval. A cycle is an ordinary function of (time, catalog, ledger,
// capital) so it can be tested without the loop around it.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/polymkt/bondbot/internal/domain"
	"github.com/polymkt/bondbot/internal/executor"
	"github.com/polymkt/bondbot/internal/ledger"
	"github.com/polymkt/bondbot/internal/scanner"
)

// MarketSource lists the catalog of open markets.
type MarketSource interface {
	ListActiveMarkets(ctx context.Context) ([]domain.Market, error)
}

// BalanceSource reads the wallet's spendable capital.
type BalanceSource interface {
	AvailableCapital(ctx context.Context) (float64, error)
}

// Authenticator prepares trading credentials for a cycle.
type Authenticator interface {
	EnsureAuth(ctx context.Context) error
}

// Bot wires the scan pipeline together and runs it until its context is
// cancelled. All collaborators are injected; the bot itself holds no
// network code.
type Bot struct {
	markets   MarketSource
	balance   BalanceSource
	auth      Authenticator
	filter    scanner.Filter
	ranker    *scanner.Ranker
	exec      *executor.Executor
	ledger    *ledger.File
	interval  time.Duration
	maxTrades int
	logger    *slog.Logger
}

// Options bundles the Bot's collaborators and loop parameters.
type Options struct {
	Markets   MarketSource
	Balance   BalanceSource
	Auth      Authenticator
	Filter    scanner.Filter
	Ranker    *scanner.Ranker
	Executor  *executor.Executor
	Ledger    *ledger.File
	Interval  time.Duration
	MaxTrades int
	Logger    *slog.Logger
}

// New creates a Bot from the given options.
func New(opts Options) *Bot {
	return &Bot{
		markets:   opts.Markets,
		balance:   opts.Balance,
		auth:      opts.Auth,
		filter:    opts.Filter,
		ranker:    opts.Ranker,
		exec:      opts.Executor,
		ledger:    opts.Ledger,
		interval:  opts.Interval,
		maxTrades: opts.MaxTrades,
		logger:    opts.Logger.With(slog.String("component", "bot")),
	}
}

// CycleReport summarizes what one scan cycle saw and did.
type CycleReport struct {
	Catalog       int
	Eligible      int
	Opportunities int
	Trades        int
}

// Run executes scan cycles on the configured interval until ctx is
// cancelled. A failed cycle is logged and retried on the next tick; nothing
// a cycle does can stop the loop.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("bot starting",
		slog.Duration("scan_interval", b.interval),
		slog.Int("max_trades_per_cycle", b.maxTrades),
	)

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		report, err := b.safeCycle(ctx)
		if err != nil {
			b.logger.Error("cycle failed", slog.String("error", err.Error()))
		} else {
			b.logger.Info("cycle complete",
				slog.Int("catalog", report.Catalog),
				slog.Int("eligible", report.Eligible),
				slog.Int("opportunities", report.Opportunities),
				slog.Int("trades", report.Trades),
			)
		}

		select {
		case <-ctx.Done():
			b.logger.Info("bot stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// safeCycle runs one cycle and converts a panic into a cycle error, so a
// bug in one scan never takes the process down.
func (b *Bot) safeCycle(ctx context.Context) (report CycleReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle panic: %v", r)
		}
	}()
	return b.RunCycle(ctx, time.Now().UTC())
}

// RunCycle performs one full scan at the given time. Credential or catalog
// failures abort the cycle (it is retried on the next tick); a balance
// failure degrades to zero capital; individual trade failures are logged
// and the remaining attempts still run.
func (b *Bot) RunCycle(ctx context.Context, now time.Time) (CycleReport, error) {
	var report CycleReport

	log := b.logger.With(slog.String("cycle_id", uuid.NewString()))
	log.Info("cycle start")

	if err := b.auth.EnsureAuth(ctx); err != nil {
		return report, fmt.Errorf("derive trading credentials: %w", err)
	}

	capital := b.readCapital(ctx, log)
	positions := b.ledger.Load()
	log.Info("cycle state",
		slog.Float64("capital", capital),
		slog.Int("open_positions", len(positions)),
	)

	markets, err := b.markets.ListActiveMarkets(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch catalog: %w", err)
	}
	report.Catalog = len(markets)

	eligible := b.filter.Apply(markets, now)
	report.Eligible = len(eligible)

	opps := b.ranker.FindOpportunities(ctx, eligible, positions)
	report.Opportunities = len(opps)
	b.logTopOpportunities(log, opps)

	// Only the top-ranked candidates are attempted; a rejected or skipped
	// attempt consumes its slot rather than promoting the next candidate.
	attempts := opps
	if len(attempts) > b.maxTrades {
		attempts = attempts[:b.maxTrades]
	}
	for _, opp := range attempts {
		// The ranker already consulted the ledger, but re-check against the
		// positions recorded earlier in this same cycle.
		if _, open := positions[opp.TokenID]; open {
			continue
		}

		res, err := b.exec.Execute(ctx, opp, capital)
		if err != nil {
			log.Error("trade failed",
				slog.String("token", opp.TokenID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if res.Skipped {
			continue
		}

		positions[opp.TokenID] = domain.Position{
			Title:   opp.Market.Question,
			Price:   opp.Price,
			Yield:   opp.Yield,
			Time:    time.Now().UTC(),
			OrderID: res.OrderID,
		}
		if err := b.ledger.Save(positions); err != nil {
			log.Error("ledger save failed", slog.String("error", err.Error()))
		}
		report.Trades++

		// Each fill reduces spendable capital; re-read before the next
		// attempt.
		capital = b.readCapital(ctx, log)
	}

	return report, nil
}

// readCapital fetches the wallet balance, degrading to zero on failure so
// the cycle can still run its analysis (and simply not trade).
func (b *Bot) readCapital(ctx context.Context, log *slog.Logger) float64 {
	capital, err := b.balance.AvailableCapital(ctx)
	if err != nil {
		log.Warn("balance lookup failed, assuming zero capital", slog.String("error", err.Error()))
		return 0
	}
	return capital
}

// logTopOpportunities prints a short preview of the best candidates.
func (b *Bot) logTopOpportunities(log *slog.Logger, opps []domain.Opportunity) {
	const preview = 5
	for i, opp := range opps {
		if i >= preview {
			break
		}
		log.Info("opportunity",
			slog.Int("rank", i+1),
			slog.String("question", opp.Market.Question),
			slog.Float64("price", opp.Price),
			slog.Float64("yield", opp.Yield),
			slog.Float64("depth", opp.Book.Depth),
			slog.Float64("volume", opp.Market.Volume),
		)
	}
}
