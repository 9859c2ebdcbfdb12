package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/phuslu/log"
	"golang.org/x/time/rate"
)

const (
	DefaultQuoteURL  = "https://finance.yahoo.com"
	DefaultChartURL  = "https://query1.finance.yahoo.com"
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// YahooFetcher implements Fetcher against Yahoo Finance pages and the v8 chart API.
type YahooFetcher struct {
	QuoteURL  string
	ChartURL  string
	UserAgent string
	Client    *http.Client
	limiter   *rate.Limiter
}

// YahooOptions configures a YahooFetcher. Zero values select the defaults.
type YahooOptions struct {
	QuoteURL          string
	ChartURL          string
	UserAgent         string
	Proxy             string
	RequestsPerSecond float64
}

// NewYahooFetcher creates a Yahoo fetcher with optional proxy support.
// Requests are paced by RequestsPerSecond when it is positive.
func NewYahooFetcher(opts YahooOptions) *YahooFetcher {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if opts.Proxy != "" {
		if u, err := url.Parse(opts.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	f := &YahooFetcher{
		QuoteURL:  strings.TrimRight(opts.QuoteURL, "/"),
		ChartURL:  strings.TrimRight(opts.ChartURL, "/"),
		UserAgent: opts.UserAgent,
		Client:    &http.Client{Transport: transport},
		limiter:   rate.NewLimiter(limit, 1),
	}
	if f.QuoteURL == "" {
		f.QuoteURL = DefaultQuoteURL
	}
	if f.ChartURL == "" {
		f.ChartURL = DefaultChartURL
	}
	if f.UserAgent == "" {
		f.UserAgent = DefaultUserAgent
	}
	return f
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// FetchSummary fetches the quote summary page.
func (f *YahooFetcher) FetchSummary(ctx context.Context, symbol string) (*goquery.Document, error) {
	s := url.PathEscape(symbol)
	u := fmt.Sprintf("%s/quote/%s?p=%s&.tsrc=fin-srch", f.QuoteURL, s, url.QueryEscape(symbol))
	return f.fetchDocument(ctx, u)
}

// FetchStatistics fetches the key statistics page.
func (f *YahooFetcher) FetchStatistics(ctx context.Context, symbol string) (*goquery.Document, error) {
	s := url.PathEscape(symbol)
	u := fmt.Sprintf("%s/quote/%s/key-statistics?p=%s", f.QuoteURL, s, url.QueryEscape(symbol))
	return f.fetchDocument(ctx, u)
}

// FetchSeries fetches the daily chart between two Unix timestamps.
// A response that decodes but carries no data is returned as is; the
// caller decides whether it means a day without trading.
func (f *YahooFetcher) FetchSeries(ctx context.Context, symbol string, start, end int64) (SeriesPayload, error) {
	q := url.QueryEscape(symbol)
	u := fmt.Sprintf("%s/v8/finance/chart/%s?symbol=%s&period1=%d&period2=%d&interval=1d",
		f.ChartURL, url.PathEscape(symbol), q, start, end)

	resp, err := f.get(ctx, u, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(body))
	}

	var payload SeriesPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("yahoo decode (status %d): %w", resp.StatusCode, err)
	}
	return payload, nil
}

func (f *YahooFetcher) fetchDocument(ctx context.Context, u string) (*goquery.Document, error) {
	resp, err := f.get(ctx, u, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, truncate(body))
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo parse page: %w", err)
	}
	return doc, nil
}

func (f *YahooFetcher) get(ctx context.Context, u, accept string) (*http.Response, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("yahoo rate limit: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	log.Debug().Str("url", u).Msg("yahoo request")
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	return resp, nil
}

func truncate(b []byte) string {
	const n = 256
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
