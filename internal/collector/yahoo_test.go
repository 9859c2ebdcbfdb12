package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYahooFetcher_Pages(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path+"?"+r.URL.RawQuery)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(summaryPage))
	}))
	defer srv.Close()

	f := NewYahooFetcher(YahooOptions{QuoteURL: srv.URL})

	doc, err := f.FetchSummary(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("fin-streamer[data-test='qsp-price']").Length())

	_, err = f.FetchStatistics(context.Background(), "aapl")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/quote/aapl?p=aapl&.tsrc=fin-srch",
		"/quote/aapl/key-statistics?p=aapl",
	}, paths)
}

func TestYahooFetcher_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewYahooFetcher(YahooOptions{QuoteURL: srv.URL, ChartURL: srv.URL})

	_, err := f.FetchSummary(context.Background(), "aapl")
	assert.Error(t, err)
	_, err = f.FetchSeries(context.Background(), "aapl", 1, 2)
	assert.Error(t, err)
}

func TestYahooFetcher_Series(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/aapl", r.URL.Path)
		assert.Equal(t, "1704412800", r.URL.Query().Get("period1"))
		assert.Equal(t, "1704499199", r.URL.Query().Get("period2"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"chart":{"result":[{"indicators":{"quote":[{"close":[181.18]}]}}]}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher(YahooOptions{ChartURL: srv.URL})
	payload, err := f.FetchSeries(context.Background(), "aapl", 1704412800, 1704499199)
	require.NoError(t, err)
	assert.Contains(t, payload, "chart")
}

func TestYahooFetcher_SeriesClientErrorIsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found"}}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher(YahooOptions{ChartURL: srv.URL})
	payload, err := f.FetchSeries(context.Background(), "zzzz", 1, 2)
	require.NoError(t, err)
	assert.Contains(t, payload, "chart")
}

func TestYahooFetcher_SeriesBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	f := NewYahooFetcher(YahooOptions{ChartURL: srv.URL})
	_, err := f.FetchSeries(context.Background(), "aapl", 1, 2)
	assert.Error(t, err)
}
