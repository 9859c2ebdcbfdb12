// Package glossary explains the financial ratios and terms shown by the
// watchlist.
package glossary

import (
	"fmt"
	"sort"
	"strings"
)

// Entry is one glossary term.
type Entry struct {
	Term    string
	Title   string
	Text    string
	Formula string
}

func (e Entry) String() string {
	var b strings.Builder
	b.WriteString("=============\n")
	b.WriteString(e.Title + "\n\n")
	b.WriteString(e.Text + "\n")
	if e.Formula != "" {
		b.WriteString("\n- " + e.Formula + "\n")
	}
	b.WriteString("=============")
	return b.String()
}

var entries = map[string]Entry{
	"pe_ratio": {
		Title:   "P/E Ratio",
		Text:    "Compares the share price with the company's earnings per share (EPS).\nLower is cheaper; a fairly priced company tends to trade at a P/E close to its growth rate.",
		Formula: "Stock price / EPS",
	},
	"equity": {
		Title:   "Shareholders' equity",
		Text:    "What would be returned to shareholders if every asset were sold and every debt paid off.\nThe closer equity is to the market value, the safer the investment.",
		Formula: "Total assets - Total liabilities",
	},
	"market_value": {
		Title:   "Market value (market cap)",
		Text:    "The value the market puts on the whole company.",
		Formula: "Current share price * Shares outstanding",
	},
	"pb_ratio": {
		Title:   "P/B Ratio",
		Text:    "How much is paid for each dollar of book value. Values under 1 are often considered solid,\nbut a very low ratio frequently comes with very low earnings.",
		Formula: "Stock price / Book value per share",
	},
	"bvps": {
		Title:   "Book value per share",
		Text:    "Equity available to common shareholders divided by the number of shares.\nIf it rises, the stock should be worth more.",
		Formula: "(Shareholders' equity - Preferred equity) / Shares outstanding",
	},
	"peg_ratio": {
		Title:   "PEG Ratio",
		Text:    "Price-to-earnings relative to growth. 1 or lower suggests the stock is fairly valued or cheap\nfor its growth rate. The dividend-adjusted variant adds the dividend yield to growth.",
		Formula: "P/E ratio / Earnings growth rate",
	},
	"debt_equity_ratio": {
		Title:   "Debt/Equity Ratio",
		Text:    "How much the company is financed by debt rather than by its owners.\nHigh values mean more risk for shareholders, especially when rates rise.",
		Formula: "Total liabilities / Shareholders' equity",
	},
	"return_on_equity": {
		Title:   "Return on Equity (ROE)",
		Text:    "How efficiently the company turns shareholders' money into profit.",
		Formula: "Net income / Shareholders' equity",
	},
	"return_on_assets": {
		Title:   "Return on Assets (ROA)",
		Text:    "How much profit the company makes from everything it owns.",
		Formula: "Net income / Total assets",
	},
	"current_ratio": {
		Title:   "Current Ratio",
		Text:    "Whether short-term obligations can be paid with short-term assets.\nBelow 1 the company may struggle to pay what is due within a year.",
		Formula: "Current assets / Current liabilities",
	},
	"assets": {
		Title: "Assets",
		Text:  "Everything the company owns that has value: cash, receivables, inventory, property and intangibles.",
	},
	"liabilities": {
		Title: "Liabilities",
		Text:  "Everything the company owes: loans, payables, bonds and other obligations.",
	},
	"cash_flow_statement": {
		Title: "Cash flow statement",
		Text:  "Shows where cash came from and where it went, split into operating, investing and financing activities.",
	},
	"income_investing": {
		Title: "Income investing",
		Text:  "Building a portfolio for regular income such as dividends and interest rather than price gains.",
	},
	"issuance_of_stock": {
		Title: "Issuance of stock",
		Text:  "Cash raised by selling new shares. It dilutes existing shareholders.",
	},
	"cash_from_operating_activities": {
		Title: "Cash from operating activities",
		Text:  "Cash generated by the core business, before investing and financing.",
	},
	"cash_from_financing_activities": {
		Title: "Cash from financing activities",
		Text:  "Cash exchanged with lenders and owners: borrowing, repaying debt, issuing or buying back shares, paying dividends.",
	},
	"cash_from_investing_activities": {
		Title: "Cash from investing activities",
		Text:  "Cash spent on or received from long-term assets such as equipment, acquisitions and securities.",
	},
	"cost_of_capital": {
		Title: "Cost of capital",
		Text:  "The return a company must earn on a project to satisfy its lenders and shareholders.",
	},
	"discount_rate": {
		Title: "Discount rate",
		Text:  "The rate used to bring future cash flows back to today's value.",
	},
	"discounted_cash_flow": {
		Title:   "Discounted cash flow (DCF)",
		Text:    "Values a company by discounting the cash it is expected to produce in the future.",
		Formula: "Sum of CF_t / (1 + r)^t",
	},
	"net_present_value": {
		Title:   "Net present value (NPV)",
		Text:    "The discounted value of future cash flows minus the initial investment. Positive means the investment adds value.",
		Formula: "Sum of CF_t / (1 + r)^t - Initial investment",
	},
	"wacc": {
		Title:   "Weighted average cost of capital (WACC)",
		Text:    "The blended cost of debt and equity financing, weighted by their share of total capital.",
		Formula: "E/V * Re + D/V * Rd * (1 - Tc)",
	},
}

// UnknownTermError lists the supported terms.
type UnknownTermError struct {
	Term string
}

func (e *UnknownTermError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no term %q was found. The following are supported:", e.Term)
	for _, t := range Terms() {
		b.WriteString("\n  - " + t)
	}
	return b.String()
}

// Lookup returns the entry for term. Case and dashes are ignored.
func Lookup(term string) (Entry, error) {
	k := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(term)), "-", "_")
	e, ok := entries[k]
	if !ok {
		return Entry{}, &UnknownTermError{Term: term}
	}
	e.Term = k
	return e, nil
}

// Terms returns every supported term, sorted.
func Terms() []string {
	out := make([]string, 0, len(entries))
	for k := range entries {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
