package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockWatch/internal/calendar"
	"StockWatch/internal/collector"
	"StockWatch/internal/store"
	"StockWatch/internal/watchlist"
)

func TestExitCode_RejectedDate(t *testing.T) {
	svc := watchlist.New(store.NewMemoryStore(), &collector.MockFetcher{})

	for _, expr := range []string{"1.fortnight", "31.02.2020", "0.days", "yesterday"} {
		_, err := svc.History(context.Background(), "aapl", expr)
		require.Error(t, err, expr)

		var buf bytes.Buffer
		assert.Equal(t, 2, exitCode(&buf, err), expr)
		assert.Equal(t, calendar.Usage+"\n", buf.String(), expr)
	}
}

func TestExitCode_WrappedDateError(t *testing.T) {
	err := fmt.Errorf("history: %w", &calendar.DateError{Expr: "x.days", Err: calendar.ErrMalformed})
	assert.Equal(t, 2, exitCode(&bytes.Buffer{}, err))
}

func TestExitCode_OtherErrors(t *testing.T) {
	for _, err := range []error{
		errors.New("boom"),
		store.ErrNotFound,
		fmt.Errorf("open store: %w", calendar.ErrMalformed),
	} {
		var buf bytes.Buffer
		assert.Equal(t, 1, exitCode(&buf, err), err.Error())
		assert.Equal(t, "Error: "+err.Error()+"\n", buf.String())
	}
}

func TestExitCode_Success(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, 0, exitCode(&buf, nil))
	assert.Empty(t, buf.String())
}
