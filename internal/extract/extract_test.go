package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

const statsPage = `<html><body><table>
<tr><td><span>Total Debt/Equity</span> <!-- -->(mrq)</td><td>145.80</td></tr>
<tr><td><span>Revenue</span> <!-- -->(ttm)</td><td>383.29B</td></tr>
<tr><td><span>Return on Equity</span> <!-- -->(ttm)</td><td>156.08%</td></tr>
<tr><td><span>Forward Annual Dividend Yield</span></td><td>N/A</td></tr>
</table></body></html>`

func TestSelector_Extract(t *testing.T) {
	d := doc(t, `<div><fin-streamer data-test="qsp-price"> 189.84 </fin-streamer>
<fin-streamer data-test="qsp-price">1.00</fin-streamer></div>`)

	v, err := Selector{Label: "price", Query: "fin-streamer[data-test='qsp-price']"}.Extract(d)
	require.NoError(t, err)
	assert.Equal(t, "189.84", v)
}

func TestSelector_NoMatch(t *testing.T) {
	d := doc(t, `<div></div>`)

	_, err := Selector{Label: "EPS", Query: "td[data-test='EPS_RATIO-value']"}.Extract(d)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestRowScan_Extract(t *testing.T) {
	d := doc(t, statsPage)

	for _, tc := range []struct {
		field RowScan
		want  string
	}{
		{RowScan{Label: "Total Debt/Equity", Display: "Total Debt/Equity"}, "145.80"},
		{RowScan{Label: "Revenue</span> <!-- -->(ttm)", Display: "Revenue (ttm)"}, "383.29B"},
		{RowScan{Label: "Return on Equity", Display: "Return on Equity (ttm)"}, "156.08"},
	} {
		v, err := tc.field.Extract(d)
		require.NoError(t, err)
		assert.Equal(t, tc.want, v, tc.field.Display)
	}
}

func TestRowScan_MissingLabelYieldsSentinel(t *testing.T) {
	d := doc(t, statsPage)

	v, err := RowScan{Label: "PEG Ratio (5 yr expected)", Display: "PEG Ratio"}.Extract(d)
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Equal(t, Sentinel, v)
}

func TestRowScan_NoNumberYieldsSentinel(t *testing.T) {
	d := doc(t, statsPage)

	v, err := RowScan{Label: "Forward Annual Dividend Yield", Display: "Dividend Yield"}.Extract(d)
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Equal(t, Sentinel, v)
}

func TestRowScan_AmbiguousLabelTakesFirstRow(t *testing.T) {
	// "Total Debt" also matches the debt/equity row, which comes first.
	d := doc(t, statsPage+`<table><tr><td>Total Debt (mrq)</td><td>111.09B</td></tr></table>`)

	v, err := RowScan{Label: "Total Debt", Display: "Total Debt"}.Extract(d)
	require.NoError(t, err)
	assert.Equal(t, "145.80", v)
}

func TestRowScan_OneDecimalTakesFollowingTagChar(t *testing.T) {
	d := doc(t, `<table><tr><td>Beta</td><td>5.1</td></tr></table>`)

	v, err := RowScan{Label: "Beta", Display: "Beta"}.Extract(d)
	require.NoError(t, err)
	assert.Equal(t, "5.1<", v)

	_, err = Float(v)
	assert.Error(t, err)
}

func TestIsNotFoundPage(t *testing.T) {
	assert.True(t, IsNotFoundPage(doc(t, `<section id="lookup-page">Symbols similar to 'zzzz'</section>`)))
	assert.False(t, IsNotFoundPage(doc(t, `<section id="quote-summary"></section>`)))
}

func TestFloat(t *testing.T) {
	v, err := Float(" 1,234.50 ")
	require.NoError(t, err)
	assert.Equal(t, 1234.5, v)

	_, err = Float("2.87T")
	assert.Error(t, err)
}
