// Command bondbot scans Polymarket for near-resolution binary contracts
// trading at a small discount to par, ranks them by implied yield, and
// opens bounded-size "no"-side positions. It loads configuration, wires
// dependencies, sets up signal handling, and runs the scan loop until
// terminated.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/polymkt/bondbot/internal/bot"
	"github.com/polymkt/bondbot/internal/chain"
	"github.com/polymkt/bondbot/internal/config"
	"github.com/polymkt/bondbot/internal/crypto"
	"github.com/polymkt/bondbot/internal/executor"
	"github.com/polymkt/bondbot/internal/ledger"
	"github.com/polymkt/bondbot/internal/platform/polymarket"
	"github.com/polymkt/bondbot/internal/scanner"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to configuration file")
	encryptOut := flag.String("encrypt-key", "", "encrypt the configured wallet key into this file and exit")
	flag.Parse()

	// Setup structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration.
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config",
			slog.String("path", *configPath),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// Set log level from config.
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// One-shot mode: encrypt the wallet key for at-rest storage and exit.
	if *encryptOut != "" {
		if err := encryptKeyFile(cfg, *encryptOut); err != nil {
			logger.Error("failed to encrypt wallet key", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("encrypted wallet key written", slog.String("path", *encryptOut))
		return
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	b, cleanup, err := wire(cfg, logger)
	if err != nil {
		logger.Error("failed to wire dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	logger.Info("bond bot starting",
		slog.String("config", *configPath),
		slog.Duration("scan_interval", cfg.Scanner.ScanInterval.Duration),
		slog.Float64("min_volume", cfg.Scanner.MinVolume),
		slog.Float64("min_yield", cfg.Scanner.MinYield),
	)

	// Setup signal handling for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := b.Run(ctx); err != nil {
		// context.Canceled is expected on clean shutdown.
		if errors.Is(err, context.Canceled) {
			logger.Info("bot shut down gracefully")
		} else {
			logger.Error("bot exited with error", slog.String("error", err.Error()))
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
	}

	logger.Info("bond bot stopped")
}

// encryptKeyFile encrypts the raw private key from the configuration (or
// its environment overrides) with the configured key password and writes
// the result to path. The output is what wallet.encrypted_key_path expects.
func encryptKeyFile(cfg *config.Config, path string) error {
	if cfg.Wallet.PrivateKey == "" {
		return errors.New("no raw private key configured (set wallet.private_key or POLYMARKET_PRIVATE_KEY)")
	}
	blob, err := crypto.EncryptKey(cfg.Wallet.PrivateKey, cfg.Wallet.KeyPassword)
	if err != nil {
		return err
	}
	return os.WriteFile(path, blob, 0o600)
}

// wire constructs the bot's concrete collaborators from configuration and
// returns a cleanup function for shutdown.
func wire(cfg *config.Config, logger *slog.Logger) (*bot.Bot, func(), error) {
	privateKey, err := crypto.LoadKey(crypto.KeyConfig{
		RawPrivateKey:    cfg.Wallet.PrivateKey,
		EncryptedKeyPath: cfg.Wallet.EncryptedKeyPath,
		KeyPassword:      cfg.Wallet.KeyPassword,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("wire: resolve wallet key: %w", err)
	}

	signer, err := crypto.NewSigner(privateKey, cfg.Polymarket.ChainID)
	if err != nil {
		return nil, nil, fmt.Errorf("wire: signer: %w", err)
	}

	timeout := cfg.Polymarket.RequestTimeout.Duration

	gamma := polymarket.NewGammaClient(cfg.Polymarket.GammaHost, timeout, logger)
	clob := polymarket.NewClobClient(cfg.Polymarket.ClobHost, signer, timeout)
	trader := polymarket.NewTrader(clob, signer)

	balance, err := chain.NewBalanceReader(cfg.Chain.RPCURL, cfg.Chain.USDCContract, cfg.Wallet.Address, timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("wire: balance reader: %w", err)
	}

	analyzer := scanner.NewAnalyzer(clob, logger)
	ranker := scanner.NewRanker(analyzer, scanner.Thresholds{
		MaxSpread: cfg.Scanner.MaxSpread,
		MinDepth:  cfg.Scanner.MinDepth,
		MinYield:  cfg.Scanner.MinYield,
	}, cfg.Scanner.BookFetchers, logger)

	exec := executor.New(trader, executor.Sizing{
		PositionSizePct: cfg.Sizing.PositionSizePct,
		MaxPositionSize: cfg.Sizing.MaxPositionSize,
		MinStake:        cfg.Sizing.MinStake,
	}, logger)

	b := bot.New(bot.Options{
		Markets: gamma,
		Balance: balance,
		Auth:    trader,
		Filter: scanner.Filter{
			MinHours:  cfg.Scanner.MinHours,
			MaxHours:  cfg.Scanner.MaxHours,
			MinVolume: cfg.Scanner.MinVolume,
		},
		Ranker:    ranker,
		Executor:  exec,
		Ledger:    ledger.New(cfg.Ledger.Path, logger),
		Interval:  cfg.Scanner.ScanInterval.Duration,
		MaxTrades: cfg.Sizing.MaxTradesPerRun,
		Logger:    logger,
	})

	return b, balance.Close, nil
}
