// Package history looks up past closing prices and compares them with
// the current price.
package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
	"github.com/phuslu/log"

	"StockWatch/internal/calendar"
	"StockWatch/internal/collector"
)

// ErrNoTrading means the series holds no close for the requested day.
var ErrNoTrading = errors.New("no trading on that day")

const closePath = "$.chart.result[0].indicators.quote[0].close"

// SeriesFetcher retrieves a daily series between two Unix timestamps.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, symbol string, start, end int64) (collector.SeriesPayload, error)
}

// PriceResolver looks up closing prices for single days.
type PriceResolver struct {
	Fetcher SeriesFetcher
}

func NewPriceResolver(f SeriesFetcher) *PriceResolver {
	return &PriceResolver{Fetcher: f}
}

// HistoricalPrice returns the close of symbol on day. A day without
// trading yields 0 and a nil error; only fetch failures are errors.
func (r *PriceResolver) HistoricalPrice(ctx context.Context, symbol string, day calendar.Date) (float64, error) {
	payload, err := r.Fetcher.FetchSeries(ctx, symbol, day.StartUTC().Unix(), day.EndUTC().Unix())
	if err != nil {
		return 0, fmt.Errorf("fetch series %s: %w", symbol, err)
	}
	price, err := FirstClose(payload)
	if errors.Is(err, ErrNoTrading) {
		log.Info().Str("symbol", symbol).Str("date", day.String()).
			Msg("date is a holiday or a day on which the stock exchange was closed")
		return 0, nil
	}
	return price, err
}

// FirstClose returns the first non-null close in payload.
func FirstClose(payload collector.SeriesPayload) (float64, error) {
	if payload == nil {
		return 0, ErrNoTrading
	}
	v, err := jsonpath.Get(closePath, map[string]any(payload))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoTrading, err)
	}
	closes, ok := v.([]any)
	if !ok {
		return 0, ErrNoTrading
	}
	for _, c := range closes {
		if f, ok := c.(float64); ok {
			return f, nil
		}
	}
	return 0, ErrNoTrading
}
