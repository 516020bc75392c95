// Package config defines the top-level configuration for the bond bot and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by BONDBOT_* environment
// variables (plus a handful of bare names kept for compatibility with the
// original deployment, see loader.go).
type Config struct {
	Wallet     WalletConfig     `toml:"wallet"`
	Polymarket PolymarketConfig `toml:"polymarket"`
	Chain      ChainConfig      `toml:"chain"`
	Scanner    ScannerConfig    `toml:"scanner"`
	Sizing     SizingConfig     `toml:"sizing"`
	Ledger     LedgerConfig     `toml:"ledger"`
	LogLevel   string           `toml:"log_level"`
}

// WalletConfig holds Ethereum wallet credentials.
type WalletConfig struct {
	PrivateKey       string `toml:"private_key"`
	Address          string `toml:"address"`
	EncryptedKeyPath string `toml:"encrypted_key_path"`
	KeyPassword      string `toml:"key_password"`
}

// PolymarketConfig holds Polymarket API endpoints and chain parameters.
type PolymarketConfig struct {
	ClobHost       string   `toml:"clob_host"`
	GammaHost      string   `toml:"gamma_host"`
	ChainID        int      `toml:"chain_id"`
	RequestTimeout duration `toml:"request_timeout"`
}

// ChainConfig holds the Polygon RPC endpoint and the USDC contract used for
// balance lookups.
type ChainConfig struct {
	RPCURL       string `toml:"rpc_url"`
	USDCContract string `toml:"usdc_contract"`
}

// ScannerConfig holds the opportunity-detection thresholds. Bounds are
// inclusive on both ends.
type ScannerConfig struct {
	ScanInterval duration `toml:"scan_interval"`
	MinVolume    float64  `toml:"min_volume"`
	MinDepth     float64  `toml:"min_depth"`
	MaxSpread    float64  `toml:"max_spread"`
	MinYield     float64  `toml:"min_yield"`
	MinHours     float64  `toml:"min_hours"`
	MaxHours     float64  `toml:"max_hours"`
	BookFetchers int      `toml:"book_fetchers"`
}

// SizingConfig holds position-sizing parameters in USDC terms.
type SizingConfig struct {
	PositionSizePct float64 `toml:"position_size_pct"`
	MaxPositionSize float64 `toml:"max_position_size"`
	MinStake        float64 `toml:"min_stake"`
	MaxTradesPerRun int     `toml:"max_trades_per_run"`
}

// LedgerConfig holds the open-positions file location.
type LedgerConfig struct {
	Path string `toml:"path"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding, e.g. "30m" or "10s".
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "30m" or "10s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with the thresholds the strategy
// shipped with. These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Polymarket: PolymarketConfig{
			ClobHost:       "https://clob.polymarket.com",
			GammaHost:      "https://gamma-api.polymarket.com",
			ChainID:        137,
			RequestTimeout: duration{10 * time.Second},
		},
		Chain: ChainConfig{
			RPCURL:       "https://polygon-rpc.com",
			USDCContract: "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174",
		},
		Scanner: ScannerConfig{
			ScanInterval: duration{30 * time.Minute},
			MinVolume:    10_000,
			MinDepth:     50,
			MaxSpread:    0.05,
			MinYield:     0.01,
			MinHours:     12,
			MaxHours:     48,
			BookFetchers: 1,
		},
		Sizing: SizingConfig{
			PositionSizePct: 0.10,
			MaxPositionSize: 10.0,
			MinStake:        0.50,
			MaxTradesPerRun: 3,
		},
		Ledger: LedgerConfig{
			Path: "open_positions.json",
		},
		LogLevel: "info",
	}
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Wallet: at least one credential source must be specified.
	if c.Wallet.PrivateKey == "" && c.Wallet.EncryptedKeyPath == "" {
		errs = append(errs, "wallet: either private_key or encrypted_key_path must be set")
	}
	if c.Wallet.EncryptedKeyPath != "" && c.Wallet.KeyPassword == "" {
		errs = append(errs, "wallet: key_password is required when encrypted_key_path is set")
	}
	if c.Wallet.Address == "" {
		errs = append(errs, "wallet: address must not be empty")
	}

	// Polymarket endpoints
	if c.Polymarket.ClobHost == "" {
		errs = append(errs, "polymarket: clob_host must not be empty")
	}
	if c.Polymarket.GammaHost == "" {
		errs = append(errs, "polymarket: gamma_host must not be empty")
	}
	if c.Polymarket.ChainID <= 0 {
		errs = append(errs, "polymarket: chain_id must be positive")
	}
	if c.Polymarket.RequestTimeout.Duration <= 0 {
		errs = append(errs, "polymarket: request_timeout must be positive")
	}

	// Chain
	if c.Chain.RPCURL == "" {
		errs = append(errs, "chain: rpc_url must not be empty")
	}
	if c.Chain.USDCContract == "" {
		errs = append(errs, "chain: usdc_contract must not be empty")
	}

	// Scanner
	if c.Scanner.ScanInterval.Duration <= 0 {
		errs = append(errs, "scanner: scan_interval must be positive")
	}
	if c.Scanner.MinHours < 0 {
		errs = append(errs, "scanner: min_hours must be >= 0")
	}
	if c.Scanner.MaxHours < c.Scanner.MinHours {
		errs = append(errs, "scanner: max_hours must not be below min_hours")
	}
	if c.Scanner.MinVolume < 0 {
		errs = append(errs, "scanner: min_volume must be >= 0")
	}
	if c.Scanner.MaxSpread < 0 {
		errs = append(errs, "scanner: max_spread must be >= 0")
	}
	if c.Scanner.BookFetchers < 1 {
		errs = append(errs, "scanner: book_fetchers must be >= 1")
	}

	// Sizing
	if c.Sizing.PositionSizePct <= 0 || c.Sizing.PositionSizePct > 1 {
		errs = append(errs, fmt.Sprintf("sizing: position_size_pct must be in (0, 1], got %g", c.Sizing.PositionSizePct))
	}
	if c.Sizing.MaxPositionSize <= 0 {
		errs = append(errs, "sizing: max_position_size must be > 0")
	}
	if c.Sizing.MinStake < 0 {
		errs = append(errs, "sizing: min_stake must be >= 0")
	}
	if c.Sizing.MaxTradesPerRun < 1 {
		errs = append(errs, "sizing: max_trades_per_run must be >= 1")
	}

	// Ledger
	if c.Ledger.Path == "" {
		errs = append(errs, "ledger: path must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
