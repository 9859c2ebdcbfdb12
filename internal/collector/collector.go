package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/phuslu/log"

	"StockWatch/internal/calendar"
	"StockWatch/internal/extract"
	"StockWatch/internal/model"
)

// MockFetcher serves fixed pages and series for development and testing.
// Pages are keyed by lower-case symbol; a symbol listed in Errors fails
// every fetch with that error.
type MockFetcher struct {
	Summary    map[string]string
	Statistics map[string]string
	Series     map[string]SeriesPayload
	Errors     map[string]error

	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSummary(_ context.Context, symbol string) (*goquery.Document, error) {
	return m.page(m.Summary, symbol)
}

func (m *MockFetcher) FetchStatistics(_ context.Context, symbol string) (*goquery.Document, error) {
	return m.page(m.Statistics, symbol)
}

func (m *MockFetcher) FetchSeries(_ context.Context, symbol string, _, _ int64) (SeriesPayload, error) {
	m.Calls++
	if err := m.Errors[strings.ToLower(symbol)]; err != nil {
		return nil, err
	}
	return m.Series[strings.ToLower(symbol)], nil
}

func (m *MockFetcher) page(pages map[string]string, symbol string) (*goquery.Document, error) {
	m.Calls++
	if err := m.Errors[strings.ToLower(symbol)]; err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(pages[strings.ToLower(symbol)]))
}

// Collector turns fetched pages into snapshots.
type Collector struct {
	Fetcher Fetcher
	Now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher, Now: time.Now}
}

// Exists reports whether the provider recognises symbol.
func (c *Collector) Exists(ctx context.Context, symbol string) (bool, error) {
	doc, err := c.Fetcher.FetchSummary(ctx, normalize(symbol))
	if err != nil {
		return false, fmt.Errorf("fetch summary: %w", err)
	}
	return !extract.IsNotFoundPage(doc), nil
}

// CurrentPrice fetches the summary page and returns the quoted price.
func (c *Collector) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	doc, err := c.Fetcher.FetchSummary(ctx, normalize(symbol))
	if err != nil {
		return 0, fmt.Errorf("fetch summary: %w", err)
	}
	raw, err := priceField.Extract(doc)
	if err != nil {
		return 0, err
	}
	return extract.Float(raw)
}

// Collect fetches the summary and statistics pages and extracts every
// field. A field that cannot be extracted is logged and left at its
// sentinel; only fetch failures are returned as errors.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.Snapshot, error) {
	symbol = normalize(symbol)
	summary, err := c.Fetcher.FetchSummary(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch summary: %w", err)
	}
	stats, err := c.Fetcher.FetchStatistics(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch statistics: %w", err)
	}

	now := c.now()
	snap := &model.Snapshot{Symbol: symbol, FetchedAt: now}

	snap.CurrentPrice = number(snap, summary, priceField)
	snap.TrailingEPS = number(snap, summary, epsField)
	snap.PERatio = number(snap, summary, peField)
	snap.MarketCap = text(snap, summary, capField, "")
	change := text(snap, summary, changeField, "")
	snap.ChangeSince = strings.TrimSpace(change + " " + calendar.Of(now).String())

	snap.DebtEquity = number(snap, stats, debtEquityField)
	snap.PriceToBook = number(snap, stats, priceToBookField)
	snap.PEGRatio = number(snap, stats, pegField)
	snap.Revenue = text(snap, stats, revenueField, extract.Sentinel)
	snap.GrossProfit = text(snap, stats, grossProfitField, extract.Sentinel)
	snap.TotalCash = text(snap, stats, totalCashField, extract.Sentinel)
	snap.TotalDebt = text(snap, stats, totalDebtField, extract.Sentinel)
	snap.ReturnOnEquity = percent(snap, stats, roeField)
	snap.ReturnOnAssets = percent(snap, stats, roaField)
	snap.BookValuePerShare = number(snap, stats, bvpsField)

	if len(snap.Missing) > 0 {
		log.Info().Str("symbol", symbol).Strs("missing", snap.Missing).Msg("snapshot collected with defaults")
	}
	return snap, nil
}

func (c *Collector) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func number(snap *model.Snapshot, doc *goquery.Document, f extract.Field) float64 {
	raw, err := f.Extract(doc)
	if err != nil {
		if !errors.Is(err, extract.ErrNoMatch) || isSelector(f) {
			log.Warn().Err(err).Msgf("could not get '%s', it will be displayed as 0.0", f.Name())
		}
		snap.Missing = append(snap.Missing, f.Name())
		return 0
	}
	v, err := extract.Float(raw)
	if err != nil {
		log.Warn().Err(err).Msgf("could not read '%s', it will be displayed as 0.0", f.Name())
		snap.Missing = append(snap.Missing, f.Name())
		return 0
	}
	return v
}

func text(snap *model.Snapshot, doc *goquery.Document, f extract.Field, sentinel string) string {
	raw, err := f.Extract(doc)
	if err != nil {
		if isSelector(f) {
			log.Warn().Err(err).Msgf("could not get '%s', it will be left empty", f.Name())
		}
		snap.Missing = append(snap.Missing, f.Name())
		return sentinel
	}
	return raw
}

func percent(snap *model.Snapshot, doc *goquery.Document, f extract.Field) string {
	before := len(snap.Missing)
	v := text(snap, doc, f, extract.Sentinel)
	if len(snap.Missing) > before {
		return v
	}
	return v + "%"
}

// RowScan logs its own misses.
func isSelector(f extract.Field) bool {
	_, ok := f.(extract.Selector)
	return ok
}

func normalize(symbol string) string {
	return strings.ToLower(strings.TrimSpace(symbol))
}
