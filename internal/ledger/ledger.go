// Package ledger persists the bot's open positions as a single JSON file
// mapping token ID to position record. The whole file is read at the start
// of a cycle and rewritten after every trade; the ledger is small enough
// that rewriting beats append bookkeeping.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/polymkt/bondbot/internal/domain"
)

// File is a position ledger backed by one JSON file on disk.
type File struct {
	path   string
	logger *slog.Logger
}

// New creates a ledger at path. The file is created lazily on first Save.
func New(path string, logger *slog.Logger) *File {
	return &File{
		path:   path,
		logger: logger.With(slog.String("component", "ledger")),
	}
}

// Load reads the persisted positions. A missing file means a fresh start; a
// file that exists but cannot be parsed is treated as empty too, but logged
// loudly since previously recorded positions may be reopened. Neither case
// is an error; the bot must keep trading on the state it can see.
func (f *File) Load() map[string]domain.Position {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.logger.Debug("no ledger file, starting empty", slog.String("path", f.path))
		} else {
			f.logger.Warn("ledger unreadable, treating as empty",
				slog.String("path", f.path),
				slog.String("error", err.Error()),
			)
		}
		return map[string]domain.Position{}
	}

	var positions map[string]domain.Position
	if err := json.Unmarshal(data, &positions); err != nil {
		f.logger.Warn("ledger corrupt, treating as empty; open positions may be re-entered",
			slog.String("path", f.path),
			slog.String("error", err.Error()),
		)
		return map[string]domain.Position{}
	}
	if positions == nil {
		positions = map[string]domain.Position{}
	}
	return positions
}

// Save atomically replaces the persisted ledger with the given mapping. The
// payload is written to a temp file in the same directory and renamed over
// the target, so a crash mid-write never leaves a half-written ledger.
func (f *File) Save(positions map[string]domain.Position) error {
	data, err := json.MarshalIndent(positions, "", "  ")
	if err != nil {
		return fmt.Errorf("ledger: encode positions: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("ledger: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("ledger: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ledger: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ledger: replace ledger file: %w", err)
	}

	return nil
}
