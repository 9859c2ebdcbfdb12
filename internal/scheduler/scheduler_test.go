package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockWatch/internal/calendar"
	"StockWatch/internal/collector"
	"StockWatch/internal/store"
	"StockWatch/internal/watchlist"
)

type recordingSender struct {
	sent []string
}

func (r *recordingSender) SendWithRetry(_ context.Context, text string, _ int) error {
	r.sent = append(r.sent, text)
	return nil
}

func newScheduler(t *testing.T) (*Scheduler, *recordingSender, *collector.MockFetcher) {
	t.Helper()
	m := &collector.MockFetcher{
		Summary: map[string]string{
			"aapl": `<fin-streamer data-test="qsp-price">110</fin-streamer>`,
			"msft": `<fin-streamer data-test="qsp-price">370</fin-streamer>`,
		},
		Statistics: map[string]string{},
		Series: map[string]collector.SeriesPayload{"aapl": {"chart": map[string]any{"result": []any{
			map[string]any{"indicators": map[string]any{"quote": []any{map[string]any{"close": []any{100.0}}}}},
		}}}},
		Errors: map[string]error{},
	}
	svc := watchlist.New(store.NewMemoryStore(), m)
	svc.Dates.Now = func() time.Time { return time.Date(2024, time.January, 8, 12, 0, 0, 0, time.Local) }
	for _, sym := range []string{"aapl", "msft"} {
		_, err := svc.Add(context.Background(), sym)
		require.NoError(t, err)
	}
	rs := &recordingSender{}
	return NewScheduler(context.Background(), svc, rs), rs, m
}

// overlapFetcher records how many fetches are in flight at once.
type overlapFetcher struct {
	inner   *collector.MockFetcher
	mu      sync.Mutex
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (f *overlapFetcher) enter() func() {
	n := f.active.Add(1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	f.mu.Lock()
	return func() {
		f.mu.Unlock()
		f.active.Add(-1)
	}
}

func (f *overlapFetcher) Name() string { return "overlap" }

func (f *overlapFetcher) FetchSummary(ctx context.Context, symbol string) (*goquery.Document, error) {
	defer f.enter()()
	return f.inner.FetchSummary(ctx, symbol)
}

func (f *overlapFetcher) FetchStatistics(ctx context.Context, symbol string) (*goquery.Document, error) {
	defer f.enter()()
	return f.inner.FetchStatistics(ctx, symbol)
}

func (f *overlapFetcher) FetchSeries(ctx context.Context, symbol string, start, end int64) (collector.SeriesPayload, error) {
	defer f.enter()()
	return f.inner.FetchSeries(ctx, symbol, start, end)
}

func TestRegister(t *testing.T) {
	s, _, _ := newScheduler(t)

	require.NoError(t, s.Register("0 30 22 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)
	assert.Error(t, s.Register("every day"))
}

func TestRunUpdateNow_SendsSummary(t *testing.T) {
	s, rs, m := newScheduler(t)
	m.Errors["msft"] = errors.New("timeout")

	s.RunUpdateNow()

	require.Len(t, rs.sent, 1)
	assert.Contains(t, rs.sent[0], "Updated 1 stock(s): AAPL")
	assert.Contains(t, rs.sent[0], "MSFT: ")
}

func TestHandleCommand(t *testing.T) {
	s, _, _ := newScheduler(t)
	ctx := context.Background()

	assert.Equal(t, "AAPL\nMSFT", s.HandleCommand(ctx, "/list"))
	assert.Contains(t, s.HandleCommand(ctx, "/search AAPL"), "Stock: AAPL")
	assert.Equal(t, "Stock was not found.", s.HandleCommand(ctx, "/search tsla"))
	assert.Equal(t, "Updated 2 stock(s): AAPL, MSFT", s.HandleCommand(ctx, "/update"))
	assert.Contains(t, s.HandleCommand(ctx, "/history aapl 05.01.2024"), "Increase until today: 10.00%")
	assert.Equal(t, calendar.Usage, s.HandleCommand(ctx, "/history aapl 1.fortnight"))
	assert.Equal(t, help, s.HandleCommand(ctx, "/weekly"))
	assert.Equal(t, help, s.HandleCommand(ctx, "  "))
}

func TestUpdates_NeverOverlap(t *testing.T) {
	base, _, m := newScheduler(t)
	f := &overlapFetcher{inner: m}
	svc := watchlist.New(base.Service.Store, f)
	svc.Dates.Now = base.Service.Dates.Now
	rs := &recordingSender{}
	s := NewScheduler(context.Background(), svc, rs)

	var wg sync.WaitGroup
	var reply string
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.RunUpdateNow()
	}()
	go func() {
		defer wg.Done()
		reply = s.HandleCommand(context.Background(), "/update")
	}()
	wg.Wait()

	assert.EqualValues(t, 1, f.maxSeen.Load(), "fetches ran concurrently")
	assert.Equal(t, "Updated 2 stock(s): AAPL, MSFT", reply)
	require.Len(t, rs.sent, 1)
	assert.Equal(t, "Updated 2 stock(s): AAPL, MSFT", rs.sent[0])
}

func TestHandleCommand_HistoryWaitsForUpdate(t *testing.T) {
	base, _, m := newScheduler(t)
	f := &overlapFetcher{inner: m}
	svc := watchlist.New(base.Service.Store, f)
	svc.Dates.Now = base.Service.Dates.Now
	s := NewScheduler(context.Background(), svc, nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.HandleCommand(context.Background(), "/update")
	}()
	go func() {
		defer wg.Done()
		s.HandleCommand(context.Background(), "/history aapl 05.01.2024")
	}()
	wg.Wait()

	assert.EqualValues(t, 1, f.maxSeen.Load())
}
