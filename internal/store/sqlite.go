package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/phuslu/log"
	_ "modernc.org/sqlite"

	"StockWatch/internal/model"
)

// SQLiteStore keeps the watchlist in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stocks (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			name              TEXT NOT NULL UNIQUE,
			current_price     REAL,
			eps_ttm           REAL,
			pe_ratio          REAL,
			total_debt_equity REAL,
			change_since      TEXT,
			market_cap        TEXT,
			peg_ratio         REAL,
			price_to_book     REAL,
			revenue           TEXT,
			gross_profit      TEXT,
			total_cash        TEXT,
			total_debt        TEXT,
			return_on_equity  TEXT,
			return_on_assets  TEXT,
			bvps              REAL,
			missing           TEXT,
			fetched_at        INTEGER
		)`,
	}

	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("exec %q: %w", q[:40], err)
		}
	}
	return nil
}

const columns = `name, current_price, eps_ttm, pe_ratio, total_debt_equity, change_since,
	market_cap, peg_ratio, price_to_book, revenue, gross_profit, total_cash, total_debt,
	return_on_equity, return_on_assets, bvps, missing, fetched_at`

func (s *SQLiteStore) Exists(symbol string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM stocks WHERE name = ?`, key(symbol)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query stock: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) Put(snap *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO stocks (`+columns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT(name) DO UPDATE SET
			current_price = excluded.current_price,
			eps_ttm = excluded.eps_ttm,
			pe_ratio = excluded.pe_ratio,
			total_debt_equity = excluded.total_debt_equity,
			change_since = excluded.change_since,
			market_cap = excluded.market_cap,
			peg_ratio = excluded.peg_ratio,
			price_to_book = excluded.price_to_book,
			revenue = excluded.revenue,
			gross_profit = excluded.gross_profit,
			total_cash = excluded.total_cash,
			total_debt = excluded.total_debt,
			return_on_equity = excluded.return_on_equity,
			return_on_assets = excluded.return_on_assets,
			bvps = excluded.bvps,
			missing = excluded.missing,
			fetched_at = excluded.fetched_at`,
		key(snap.Symbol), snap.CurrentPrice, snap.TrailingEPS, snap.PERatio, snap.DebtEquity,
		snap.ChangeSince, snap.MarketCap, snap.PEGRatio, snap.PriceToBook,
		snap.Revenue, snap.GrossProfit, snap.TotalCash, snap.TotalDebt,
		snap.ReturnOnEquity, snap.ReturnOnAssets, snap.BookValuePerShare,
		strings.Join(snap.Missing, "|"), snap.FetchedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert stock %s: %w", snap.Symbol, err)
	}
	return nil
}

func (s *SQLiteStore) Get(symbol string) (*model.Snapshot, error) {
	var (
		snap    model.Snapshot
		missing string
		fetched int64
	)
	err := s.db.QueryRow(`SELECT `+columns+` FROM stocks WHERE name = ?`, key(symbol)).Scan(
		&snap.Symbol, &snap.CurrentPrice, &snap.TrailingEPS, &snap.PERatio, &snap.DebtEquity,
		&snap.ChangeSince, &snap.MarketCap, &snap.PEGRatio, &snap.PriceToBook,
		&snap.Revenue, &snap.GrossProfit, &snap.TotalCash, &snap.TotalDebt,
		&snap.ReturnOnEquity, &snap.ReturnOnAssets, &snap.BookValuePerShare,
		&missing, &fetched,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query stock %s: %w", symbol, err)
	}
	if missing != "" {
		snap.Missing = strings.Split(missing, "|")
	}
	if fetched > 0 {
		snap.FetchedAt = time.Unix(fetched, 0)
	}
	return &snap, nil
}

func (s *SQLiteStore) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM stocks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Delete(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM stocks WHERE name = ?`, key(symbol))
	if err != nil {
		return fmt.Errorf("delete stock %s: %w", symbol, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	log.Info().Msg("closing sqlite store")
	return s.db.Close()
}
