package collector

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// SeriesPayload is a decoded daily-interval chart response.
type SeriesPayload map[string]any

// Fetcher retrieves the raw pages and series for a symbol.
// Each call issues one request; nothing is cached.
type Fetcher interface {
	FetchSummary(ctx context.Context, symbol string) (*goquery.Document, error)
	FetchStatistics(ctx context.Context, symbol string) (*goquery.Document, error)
	FetchSeries(ctx context.Context, symbol string, start, end int64) (SeriesPayload, error)
	Name() string
}
