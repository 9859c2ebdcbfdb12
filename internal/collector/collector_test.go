package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockWatch/internal/extract"
	"StockWatch/internal/model"
)

const summaryPage = `<html><body>
<div id="quote-header-info">
  <fin-streamer data-test="qsp-price" data-field="regularMarketPrice">189.84</fin-streamer>
  <fin-streamer data-field="regularMarketChangePercent"><span>(+0.45%)</span></fin-streamer>
</div>
<table>
  <tr><td>Market Cap</td><td data-test="MARKET_CAP-value">2.95T</td></tr>
  <tr><td>PE Ratio (TTM)</td><td data-test="PE_RATIO-value">31.24</td></tr>
  <tr><td>EPS (TTM)</td><td data-test="EPS_RATIO-value">6.08</td></tr>
</table>
</body></html>`

const statisticsPage = `<html><body><table>
<tr><td><span>PEG Ratio (5 yr expected)</span></td><td>2.71</td></tr>
<tr><td><span>Price/Book</span> <!-- -->(mrq)</td><td>47.53</td></tr>
<tr><td><span>Return on Assets</span> <!-- -->(ttm)</td><td>27.51%</td></tr>
<tr><td><span>Return on Equity</span> <!-- -->(ttm)</td><td>156.08%</td></tr>
<tr><td><span>Revenue</span> <!-- -->(ttm)</td><td>383.29B</td></tr>
<tr><td><span>Gross Profit</span> <!-- -->(ttm)</td><td>169.15B</td></tr>
<tr><td><span>Total Cash</span> <!-- -->(mrq)</td><td>61.55B</td></tr>
<tr><td><span>Total Debt</span> <!-- -->(mrq)</td><td>111.09B</td></tr>
<tr><td><span>Total Debt/Equity</span> <!-- -->(mrq)</td><td>199.42</td></tr>
<tr><td><span>Book Value Per Share</span> <!-- -->(mrq)</td><td>4.00</td></tr>
</table></body></html>`

func fixedNow() time.Time {
	return time.Date(2024, time.January, 5, 15, 30, 0, 0, time.Local)
}

func newMock() *MockFetcher {
	return &MockFetcher{
		Summary:    map[string]string{"aapl": summaryPage},
		Statistics: map[string]string{"aapl": statisticsPage},
	}
}

func TestCollect_AllFields(t *testing.T) {
	c := NewCollector(newMock())
	c.Now = fixedNow

	snap, err := c.Collect(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "aapl", snap.Symbol)
	assert.Equal(t, 189.84, snap.CurrentPrice)
	assert.Equal(t, "(+0.45%) 05.01.2024", snap.ChangeSince)
	assert.Equal(t, 6.08, snap.TrailingEPS)
	assert.Equal(t, 31.24, snap.PERatio)
	assert.Equal(t, "2.95T", snap.MarketCap)
	assert.Equal(t, 2.71, snap.PEGRatio)
	assert.Equal(t, 47.53, snap.PriceToBook)
	assert.Equal(t, "383.29B", snap.Revenue)
	assert.Equal(t, "169.15B", snap.GrossProfit)
	assert.Equal(t, "61.55B", snap.TotalCash)
	assert.Equal(t, "111.09B", snap.TotalDebt)
	assert.Equal(t, 199.42, snap.DebtEquity)
	assert.Equal(t, "27.51%", snap.ReturnOnAssets)
	assert.Equal(t, "156.08%", snap.ReturnOnEquity)
	assert.Equal(t, 4.00, snap.BookValuePerShare)
	assert.Empty(t, snap.Missing)
}

func TestCollect_DegradesMissingFields(t *testing.T) {
	m := &MockFetcher{
		Summary:    map[string]string{"aapl": `<fin-streamer data-test="qsp-price">12.50</fin-streamer>`},
		Statistics: map[string]string{"aapl": `<table><tr><td>Revenue</td><td>N/A</td></tr></table>`},
	}
	c := NewCollector(m)
	c.Now = fixedNow

	snap, err := c.Collect(context.Background(), "aapl")
	require.NoError(t, err)

	assert.Equal(t, 12.50, snap.CurrentPrice)
	assert.Equal(t, "05.01.2024", snap.ChangeSince)
	assert.Zero(t, snap.TrailingEPS)
	assert.Zero(t, snap.PERatio)
	assert.Equal(t, "", snap.MarketCap)
	assert.Zero(t, snap.DebtEquity)
	assert.Equal(t, extract.Sentinel, snap.Revenue)
	assert.Equal(t, extract.Sentinel, snap.ReturnOnEquity)
	assert.Equal(t, extract.Sentinel, snap.ReturnOnAssets)

	assert.True(t, snap.Has(model.FieldCurrentPrice))
	for _, f := range []string{
		model.FieldChangeSince, model.FieldTrailingEPS, model.FieldPERatio, model.FieldMarketCap,
		model.FieldDebtEquity, model.FieldRevenue, model.FieldReturnOnEquity, model.FieldBookValuePerShare,
	} {
		assert.False(t, snap.Has(f), f)
	}
}

func TestCollect_UnparseableNumberIsMissing(t *testing.T) {
	m := newMock()
	m.Summary["aapl"] = `<fin-streamer data-test="qsp-price">N/A</fin-streamer>`

	snap, err := NewCollector(m).Collect(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Zero(t, snap.CurrentPrice)
	assert.False(t, snap.Has(model.FieldCurrentPrice))
}

func TestCollect_FetchErrorAborts(t *testing.T) {
	boom := errors.New("connection refused")
	m := newMock()
	m.Errors = map[string]error{"aapl": boom}

	snap, err := NewCollector(m).Collect(context.Background(), "aapl")
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, boom)
}

func TestExists(t *testing.T) {
	m := newMock()
	m.Summary["zzzz"] = `<section id="lookup-page">Symbols similar to 'zzzz'</section>`
	c := NewCollector(m)

	ok, err := c.Exists(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Exists(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCurrentPrice(t *testing.T) {
	c := NewCollector(newMock())

	p, err := c.CurrentPrice(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, 189.84, p)

	_, err = c.CurrentPrice(context.Background(), "msft")
	assert.ErrorIs(t, err, extract.ErrNoMatch)
}
