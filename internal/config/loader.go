package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies environment variable overrides, and returns the
// final Config. A missing config file is not an error; the defaults plus
// environment variables are enough to run. The returned Config has NOT been
// validated; the caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known BONDBOT_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e.
// not empty). This lets operators inject secrets at deploy time without
// touching the TOML file. The bare names (SCAN_INTERVAL_MINUTES, MIN_VOLUME,
// ... and POLYMARKET_PRIVATE_KEY / POLYMARKET_WALLET_ADDRESS) are aliases
// kept for compatibility with the original deployment's .env layout.
func applyEnvOverrides(cfg *Config) {
	// ── Wallet ──
	setStr(&cfg.Wallet.PrivateKey, "BONDBOT_WALLET_PRIVATE_KEY")
	setStr(&cfg.Wallet.PrivateKey, "POLYMARKET_PRIVATE_KEY") // compatibility alias
	setStr(&cfg.Wallet.Address, "BONDBOT_WALLET_ADDRESS")
	setStr(&cfg.Wallet.Address, "POLYMARKET_WALLET_ADDRESS") // compatibility alias
	setStr(&cfg.Wallet.EncryptedKeyPath, "BONDBOT_WALLET_ENCRYPTED_KEY_PATH")
	setStr(&cfg.Wallet.KeyPassword, "BONDBOT_WALLET_KEY_PASSWORD")

	// ── Polymarket ──
	setStr(&cfg.Polymarket.ClobHost, "BONDBOT_POLYMARKET_CLOB_HOST")
	setStr(&cfg.Polymarket.GammaHost, "BONDBOT_POLYMARKET_GAMMA_HOST")
	setInt(&cfg.Polymarket.ChainID, "BONDBOT_POLYMARKET_CHAIN_ID")
	setDuration(&cfg.Polymarket.RequestTimeout, "BONDBOT_POLYMARKET_REQUEST_TIMEOUT")

	// ── Chain ──
	setStr(&cfg.Chain.RPCURL, "BONDBOT_CHAIN_RPC_URL")
	setStr(&cfg.Chain.USDCContract, "BONDBOT_CHAIN_USDC_CONTRACT")

	// ── Scanner ──
	setDuration(&cfg.Scanner.ScanInterval, "BONDBOT_SCANNER_SCAN_INTERVAL")
	setMinutes(&cfg.Scanner.ScanInterval, "SCAN_INTERVAL_MINUTES") // compatibility alias
	setFloat64(&cfg.Scanner.MinVolume, "BONDBOT_SCANNER_MIN_VOLUME")
	setFloat64(&cfg.Scanner.MinVolume, "MIN_VOLUME")
	setFloat64(&cfg.Scanner.MinDepth, "BONDBOT_SCANNER_MIN_DEPTH")
	setFloat64(&cfg.Scanner.MinDepth, "MIN_DEPTH")
	setFloat64(&cfg.Scanner.MaxSpread, "BONDBOT_SCANNER_MAX_SPREAD")
	setFloat64(&cfg.Scanner.MaxSpread, "MAX_SPREAD")
	setFloat64(&cfg.Scanner.MinYield, "BONDBOT_SCANNER_MIN_YIELD")
	setFloat64(&cfg.Scanner.MinYield, "MIN_YIELD")
	setFloat64(&cfg.Scanner.MinHours, "BONDBOT_SCANNER_MIN_HOURS")
	setFloat64(&cfg.Scanner.MinHours, "MIN_HOURS")
	setFloat64(&cfg.Scanner.MaxHours, "BONDBOT_SCANNER_MAX_HOURS")
	setFloat64(&cfg.Scanner.MaxHours, "MAX_HOURS")
	setInt(&cfg.Scanner.BookFetchers, "BONDBOT_SCANNER_BOOK_FETCHERS")

	// ── Sizing ──
	setFloat64(&cfg.Sizing.PositionSizePct, "BONDBOT_SIZING_POSITION_SIZE_PCT")
	setFloat64(&cfg.Sizing.PositionSizePct, "POSITION_SIZE_PCT")
	setFloat64(&cfg.Sizing.MaxPositionSize, "BONDBOT_SIZING_MAX_POSITION_SIZE")
	setFloat64(&cfg.Sizing.MaxPositionSize, "MAX_POSITION_SIZE")
	setFloat64(&cfg.Sizing.MinStake, "BONDBOT_SIZING_MIN_STAKE")
	setInt(&cfg.Sizing.MaxTradesPerRun, "BONDBOT_SIZING_MAX_TRADES_PER_RUN")

	// ── Ledger ──
	setStr(&cfg.Ledger.Path, "BONDBOT_LEDGER_PATH")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "BONDBOT_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

// setMinutes interprets the variable as a whole number of minutes.
func setMinutes(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			dst.Duration = time.Duration(n) * time.Minute
		}
	}
}
