package collector

import (
	"StockWatch/internal/extract"
	"StockWatch/internal/model"
)

// Summary page selectors.
var (
	priceField  = extract.Selector{Label: model.FieldCurrentPrice, Query: "fin-streamer[data-test='qsp-price']"}
	changeField = extract.Selector{Label: model.FieldChangeSince, Query: "div[id='quote-header-info'] fin-streamer[data-field='regularMarketChangePercent'] span"}
	epsField    = extract.Selector{Label: model.FieldTrailingEPS, Query: "td[data-test='EPS_RATIO-value']"}
	peField     = extract.Selector{Label: model.FieldPERatio, Query: "td[data-test='PE_RATIO-value']"}
	capField    = extract.Selector{Label: model.FieldMarketCap, Query: "td[data-test='MARKET_CAP-value']"}
)

// Key statistics rows. Labels match against row markup, hence the tags.
var (
	debtEquityField  = extract.RowScan{Label: "Total Debt/Equity", Display: model.FieldDebtEquity}
	priceToBookField = extract.RowScan{Label: "Price/Book", Display: model.FieldPriceToBook}
	pegField         = extract.RowScan{Label: "PEG Ratio (5 yr expected)", Display: model.FieldPEGRatio}
	revenueField     = extract.RowScan{Label: "Revenue</span> <!-- -->(ttm)", Display: model.FieldRevenue}
	grossProfitField = extract.RowScan{Label: "Gross Profit</span> <!-- -->(ttm)", Display: model.FieldGrossProfit}
	totalCashField   = extract.RowScan{Label: "Total Cash</span> <!-- -->(mrq)", Display: model.FieldTotalCash}
	totalDebtField   = extract.RowScan{Label: "Total Debt</span> <!-- -->(mrq)", Display: model.FieldTotalDebt}
	roeField         = extract.RowScan{Label: "Return on Equity", Display: model.FieldReturnOnEquity}
	roaField         = extract.RowScan{Label: "Return on Assets", Display: model.FieldReturnOnAssets}
	bvpsField        = extract.RowScan{Label: "Book Value Per Share", Display: model.FieldBookValuePerShare}
)
