package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/phuslu/log"

	"StockWatch/internal/model"
)

// Row labels in the flat file, in column order.
const (
	colCurrentPrice = "Current Price"
	colEPS          = "EPS"
	colPE           = "P/E Ratio"
	colDebtEquity   = "Debt to Equity Ratio"
	colMarketCap    = "Market Cap"
	colPEG          = "PEG Ratio"
	colPriceToBook  = "Price to Book"
	colRevenue      = "Revenue"
	colGrossProfit  = "Gross Profit"
	colTotalCash    = "Total Cash"
	colTotalDebt    = "Total Debt"
	colROE          = "Return on Equity"
	colROA          = "Return on Assets"
	colBVPS         = "Book Value per Share"
)

// FileStore keeps the watchlist in a flat text file, one
// `symbol,Label: value,...;` row per line. The whole file is rewritten on
// every change.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore opens the file store at path, creating the file if needed.
func NewFileStore(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open stocks file: %w", err)
	}
	f.Close()
	log.Debug().Str("path", path).Msg("file store opened")
	return &FileStore{path: path}, nil
}

func (s *FileStore) Exists(symbol string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snaps, err := s.load()
	if err != nil {
		return false, err
	}
	return indexOf(snaps, key(symbol)) >= 0, nil
}

func (s *FileStore) Put(snap *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snaps, err := s.load()
	if err != nil {
		return err
	}
	c := *snap
	c.Symbol = key(snap.Symbol)
	if i := indexOf(snaps, c.Symbol); i >= 0 {
		snaps[i] = &c
	} else {
		snaps = append(snaps, &c)
	}
	return s.save(snaps)
}

func (s *FileStore) Get(symbol string) (*model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snaps, err := s.load()
	if err != nil {
		return nil, err
	}
	i := indexOf(snaps, key(symbol))
	if i < 0 {
		return nil, ErrNotFound
	}
	return snaps[i], nil
}

func (s *FileStore) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snaps, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(snaps))
	for i, sn := range snaps {
		out[i] = sn.Symbol
	}
	return out, nil
}

func (s *FileStore) Delete(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snaps, err := s.load()
	if err != nil {
		return err
	}
	i := indexOf(snaps, key(symbol))
	if i < 0 {
		return ErrNotFound
	}
	return s.save(append(snaps[:i], snaps[i+1:]...))
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) load() ([]*model.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read stocks file: %w", err)
	}
	var snaps []*model.Snapshot
	for _, row := range strings.Split(string(data), ";") {
		row = strings.TrimSpace(row)
		if row == "" {
			continue
		}
		snap, err := ParseRow(row)
		if err != nil {
			log.Warn().Err(err).Str("path", s.path).Msg("skipping malformed row")
			continue
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

func (s *FileStore) save(snaps []*model.Snapshot) error {
	var b strings.Builder
	for _, sn := range snaps {
		b.WriteString(FormatRow(sn))
		b.WriteByte('\n')
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write stocks file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace stocks file: %w", err)
	}
	return nil
}

func indexOf(snaps []*model.Snapshot, symbol string) int {
	for i, sn := range snaps {
		if sn.Symbol == symbol {
			return i
		}
	}
	return -1
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// FormatRow renders snap as one flat-file row including the trailing ';'.
func FormatRow(snap *model.Snapshot) string {
	return key(snap.Symbol) + "," + strings.Join(Columns(snap), ",") + ";"
}

// Columns returns the "Label: value" pairs of snap in row order.
func Columns(snap *model.Snapshot) []string {
	return []string{
		colCurrentPrice + ": " + strings.TrimSpace(ftoa(snap.CurrentPrice)+" "+snap.ChangeSince),
		colEPS + ": " + ftoa(snap.TrailingEPS),
		colPE + ": " + ftoa(snap.PERatio),
		colDebtEquity + ": " + ftoa(snap.DebtEquity),
		colMarketCap + ": " + snap.MarketCap,
		colPEG + ": " + ftoa(snap.PEGRatio),
		colPriceToBook + ": " + ftoa(snap.PriceToBook),
		colRevenue + ": " + snap.Revenue,
		colGrossProfit + ": " + snap.GrossProfit,
		colTotalCash + ": " + snap.TotalCash,
		colTotalDebt + ": " + snap.TotalDebt,
		colROE + ": " + snap.ReturnOnEquity,
		colROA + ": " + snap.ReturnOnAssets,
		colBVPS + ": " + ftoa(snap.BookValuePerShare),
	}
}

// ParseRow reads a row written by FormatRow. The trailing ';' is optional.
func ParseRow(row string) (*model.Snapshot, error) {
	row = strings.TrimSuffix(strings.TrimSpace(row), ";")
	parts := strings.Split(row, ",")
	snap := &model.Snapshot{Symbol: key(parts[0])}
	if snap.Symbol == "" {
		return nil, fmt.Errorf("row %q: empty symbol", row)
	}

	values := make(map[string]string, len(parts)-1)
	last := ""
	for _, p := range parts[1:] {
		label, value, ok := strings.Cut(p, ": ")
		if !ok && last != "" {
			// a comma inside a value
			values[last] += "," + p
			continue
		}
		last = label
		values[label] = value
	}

	num := func(label string) float64 {
		v, err := strconv.ParseFloat(strings.TrimSpace(values[label]), 64)
		if err != nil {
			return 0
		}
		return v
	}

	price, change, _ := strings.Cut(values[colCurrentPrice], " ")
	snap.CurrentPrice, _ = strconv.ParseFloat(price, 64)
	snap.ChangeSince = change
	snap.TrailingEPS = num(colEPS)
	snap.PERatio = num(colPE)
	snap.DebtEquity = num(colDebtEquity)
	snap.MarketCap = values[colMarketCap]
	snap.PEGRatio = num(colPEG)
	snap.PriceToBook = num(colPriceToBook)
	snap.Revenue = values[colRevenue]
	snap.GrossProfit = values[colGrossProfit]
	snap.TotalCash = values[colTotalCash]
	snap.TotalDebt = values[colTotalDebt]
	snap.ReturnOnEquity = values[colROE]
	snap.ReturnOnAssets = values[colROA]
	snap.BookValuePerShare = num(colBVPS)
	return snap, nil
}
