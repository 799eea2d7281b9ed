package folio

import (
	"slices"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// SharesOn returns the number of shares of ticker held on day, that is the sum
// of the quantities of its transactions dated on or before day.
func SharesOn(ticker string, day date.Date, txs []StockTransaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Ticker == ticker && !tx.Date.After(day) {
			total = total.Add(tx.Quantity)
		}
	}
	return total
}

// SharesThroughout returns the net quantity of ticker over all transactions.
func SharesThroughout(ticker string, txs []StockTransaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Ticker == ticker {
			total = total.Add(tx.Quantity)
		}
	}
	return total
}

// UniqueTickers returns the sorted set of tickers with at least one
// transaction between start and end included.
func UniqueTickers(txs []StockTransaction, start, end date.Date) []string {
	r := date.Range{From: start, To: end}
	seen := make(map[string]struct{})
	var tickers []string
	for _, tx := range txs {
		if !r.Contains(tx.Date) {
			continue
		}
		if _, ok := seen[tx.Ticker]; !ok {
			seen[tx.Ticker] = struct{}{}
			tickers = append(tickers, tx.Ticker)
		}
	}
	slices.Sort(tickers)
	return tickers
}
