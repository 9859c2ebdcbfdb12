// Package watchlist ties collection, storage and price history together.
// Every operation runs sequentially; batch updates isolate failures per
// symbol.
package watchlist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/phuslu/log"

	"StockWatch/internal/calendar"
	"StockWatch/internal/collector"
	"StockWatch/internal/history"
	"StockWatch/internal/model"
	"StockWatch/internal/store"
)

var (
	ErrExists        = errors.New("stock already on the watchlist")
	ErrUnknownSymbol = errors.New("symbol not found at the provider")
)

// UpdateSummary is the outcome of UpdateAll.
type UpdateSummary struct {
	Updated []string
	Failed  map[string]error
}

// OK reports whether every symbol was refreshed.
func (s *UpdateSummary) OK() bool { return len(s.Failed) == 0 }

// Service manages the watchlist.
type Service struct {
	Store     store.Store
	Collector *collector.Collector
	Prices    *history.PriceResolver
	Dates     *calendar.Resolver
}

// New creates a Service fetching through f and persisting to st.
func New(st store.Store, f collector.Fetcher) *Service {
	return &Service{
		Store:     st,
		Collector: collector.NewCollector(f),
		Prices:    history.NewPriceResolver(f),
		Dates:     calendar.NewResolver(),
	}
}

// Add collects symbol and stores it.
func (s *Service) Add(ctx context.Context, symbol string) (*model.Snapshot, error) {
	symbol = normalize(symbol)
	ok, err := s.Store.Exists(symbol)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, fmt.Errorf("%s: %w", strings.ToUpper(symbol), ErrExists)
	}

	known, err := s.Collector.Exists(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, fmt.Errorf("%s: %w", strings.ToUpper(symbol), ErrUnknownSymbol)
	}

	snap, err := s.Collector.Collect(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if err := s.Store.Put(snap); err != nil {
		return nil, err
	}
	log.Info().Str("symbol", symbol).Msg("stock added")
	return snap, nil
}

func (s *Service) List() ([]string, error) { return s.Store.List() }

func (s *Service) Get(symbol string) (*model.Snapshot, error) {
	return s.Store.Get(normalize(symbol))
}

func (s *Service) Drop(symbol string) error {
	return s.Store.Delete(normalize(symbol))
}

// Update re-collects a stored symbol.
func (s *Service) Update(ctx context.Context, symbol string) (*model.Snapshot, error) {
	symbol = normalize(symbol)
	ok, err := s.Store.Exists(symbol)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", strings.ToUpper(symbol), store.ErrNotFound)
	}
	snap, err := s.Collector.Collect(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if err := s.Store.Put(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// UpdateAll refreshes every stored symbol. A failing symbol is recorded
// and the batch moves on. The returned error covers listing only.
func (s *Service) UpdateAll(ctx context.Context) (*UpdateSummary, error) {
	symbols, err := s.Store.List()
	if err != nil {
		return nil, err
	}
	sum := &UpdateSummary{Failed: make(map[string]error)}
	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			sum.Failed[sym] = err
			continue
		}
		if _, err := s.Update(ctx, sym); err != nil {
			log.Warn().Err(err).Str("symbol", sym).Msg("update failed")
			sum.Failed[sym] = err
			continue
		}
		sum.Updated = append(sum.Updated, sym)
	}
	log.Info().Int("updated", len(sum.Updated)).Int("failed", len(sum.Failed)).Msg("update all finished")
	return sum, nil
}

// History compares the current price of symbol with its close on the
// trading day named by expr. Rejected expressions come back as
// *calendar.DateError.
func (s *Service) History(ctx context.Context, symbol, expr string) (*history.Report, error) {
	symbol = normalize(symbol)
	day, from, shifted, err := s.Dates.TradingDay(expr)
	if err != nil {
		return nil, err
	}

	past, err := s.Prices.HistoricalPrice(ctx, symbol, day)
	if err != nil {
		return nil, err
	}

	var current float64
	if past != 0 {
		current, err = s.currentPrice(ctx, symbol)
		if err != nil {
			return nil, err
		}
	}

	r := history.Compare(symbol, current, past, day)
	r.Shifted, r.ShiftedFrom = shifted, from
	return r, nil
}

// currentPrice prefers the stored price and falls back to a live fetch.
func (s *Service) currentPrice(ctx context.Context, symbol string) (float64, error) {
	snap, err := s.Store.Get(symbol)
	switch {
	case err == nil && snap.Has(model.FieldCurrentPrice) && snap.CurrentPrice != 0:
		return snap.CurrentPrice, nil
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return 0, err
	}
	return s.Collector.CurrentPrice(ctx, symbol)
}

func normalize(symbol string) string {
	return strings.ToLower(strings.TrimSpace(symbol))
}
