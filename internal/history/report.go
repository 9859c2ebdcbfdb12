package history

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"StockWatch/internal/calendar"
)

var hundred = decimal.NewFromInt(100)

// Report compares a current price against the close on Day.
type Report struct {
	Symbol  string
	Current float64
	Past    float64
	Day     calendar.Date

	// Change is the percentage move, negative for a decrease.
	Change   decimal.Decimal
	Increase bool
	// NoData is set when Past is the no-trading sentinel.
	NoData bool

	// Shifted is set when the requested day fell on a weekend and Day is
	// the following Monday.
	Shifted     bool
	ShiftedFrom time.Weekday
}

// Compare builds a Report. A zero past price means no trading data, in
// which case no percentage is computed.
func Compare(symbol string, current, past float64, day calendar.Date) *Report {
	r := &Report{Symbol: symbol, Current: current, Past: past, Day: day}
	if past == 0 {
		r.NoData = true
		return r
	}
	pct := decimal.NewFromFloat(current).Div(decimal.NewFromFloat(past)).Mul(hundred)
	r.Increase = pct.GreaterThan(hundred)
	r.Change = pct.Sub(hundred)
	return r
}

// ChangeText is the two-decimal percentage, e.g. "10.00" or "-10.00".
func (r *Report) ChangeText() string { return r.Change.StringFixed(2) }

func (r *Report) String() string {
	var b strings.Builder
	if r.Shifted {
		fmt.Fprintf(&b, "It's a %s so we'll take %s.\n", r.ShiftedFrom, r.Day.Weekday())
	}
	if r.NoData {
		b.WriteString("Please take another day.")
		return b.String()
	}
	fmt.Fprintf(&b, "Stock: %s\n", strings.ToUpper(r.Symbol))
	fmt.Fprintf(&b, "Price since last update: %s\n", strconv.FormatFloat(r.Current, 'f', -1, 64))
	fmt.Fprintf(&b, "Date %s, %s\n", r.Day, r.Day.Weekday())
	fmt.Fprintf(&b, "Price: %.2f\n", r.Past)
	if r.Increase {
		fmt.Fprintf(&b, "Increase until today: %s%%", r.ChangeText())
	} else {
		fmt.Fprintf(&b, "Decrease until today: %s%%", r.ChangeText())
	}
	return b.String()
}
