package model

import "time"

// Snapshot holds the fundamental metrics collected for one symbol.
// Fields that could not be extracted carry their sentinel value
// (0 for numbers, "" or "0.0" for text) and are listed in Missing.
type Snapshot struct {
	Symbol string

	// Summary page.
	CurrentPrice float64
	ChangeSince  string // "<percent change> <DD.MM.YYYY>"
	TrailingEPS  float64
	PERatio      float64
	MarketCap    string

	// Key statistics page.
	DebtEquity        float64
	PriceToBook       float64
	PEGRatio          float64
	Revenue           string
	GrossProfit       string
	TotalCash         string
	TotalDebt         string
	ReturnOnEquity    string
	ReturnOnAssets    string
	BookValuePerShare float64

	Missing   []string
	FetchedAt time.Time
}

// Has reports whether the named field was extracted rather than defaulted.
func (s *Snapshot) Has(field string) bool {
	for _, m := range s.Missing {
		if m == field {
			return false
		}
	}
	return true
}

// Field names used in Snapshot.Missing and in diagnostics.
const (
	FieldCurrentPrice      = "Current Price"
	FieldChangeSince       = "Change"
	FieldTrailingEPS       = "EPS (ttm)"
	FieldPERatio           = "P/E Ratio"
	FieldMarketCap         = "Market Cap"
	FieldDebtEquity        = "Total Debt/Equity"
	FieldPriceToBook       = "Price/Book (mrq)"
	FieldPEGRatio          = "PEG Ratio"
	FieldRevenue           = "Revenue (ttm)"
	FieldGrossProfit       = "Gross Profit (ttm)"
	FieldTotalCash         = "Total Cash (mrq)"
	FieldTotalDebt         = "Total Debt (mrq)"
	FieldReturnOnEquity    = "Return on Equity (ttm)"
	FieldReturnOnAssets    = "Return on Assets (ttm)"
	FieldBookValuePerShare = "Book Value Per Share (mrq)"
)
