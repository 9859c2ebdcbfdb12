// Package store persists the watchlist and the last snapshot of each symbol.
package store

import (
	"errors"
	"fmt"
	"strings"

	"StockWatch/internal/model"
)

// ErrNotFound is returned when a symbol is not on the watchlist.
var ErrNotFound = errors.New("stock not found")

// Store keeps one snapshot per symbol. Symbols are case-insensitive.
type Store interface {
	Exists(symbol string) (bool, error)
	// Put inserts or replaces the snapshot for snap.Symbol.
	Put(snap *model.Snapshot) error
	Get(symbol string) (*model.Snapshot, error)
	// List returns the stored symbols in insertion order.
	List() ([]string, error)
	Delete(symbol string) error
	Close() error
}

const (
	ModeFile     = "file"
	ModeDatabase = "database"
)

// Open returns the store for mode.
func Open(mode, filePath, sqlitePath string) (Store, error) {
	switch mode {
	case ModeFile:
		return NewFileStore(filePath)
	case ModeDatabase:
		return NewSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("unknown storage mode %q", mode)
	}
}

func key(symbol string) string {
	return strings.ToLower(strings.TrimSpace(symbol))
}
