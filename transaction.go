package folio

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// StockTransaction is a signed share movement: a positive quantity is a buy,
// a negative one a sell.
type StockTransaction struct {
	Ticker   string
	Quantity decimal.Decimal
	Date     date.Date
}

// NewStockTransaction returns a transaction of quantity shares of ticker on day.
func NewStockTransaction(ticker string, quantity decimal.Decimal, day date.Date) StockTransaction {
	return StockTransaction{Ticker: ticker, Quantity: quantity, Date: day}
}

// IsBuy reports whether tx adds shares.
func (tx StockTransaction) IsBuy() bool { return tx.Quantity.IsPositive() }

// IsSell reports whether tx removes shares.
func (tx StockTransaction) IsSell() bool { return tx.Quantity.IsNegative() }

// Equal reports whether both transactions have the same ticker, quantity and date.
func (tx StockTransaction) Equal(o StockTransaction) bool {
	return tx.Ticker == o.Ticker && tx.Date == o.Date && tx.Quantity.Equal(o.Quantity)
}

func (tx StockTransaction) String() string {
	return fmt.Sprintf("%s %s %s", tx.Date, tx.Ticker, tx.Quantity)
}

// position identifies the ledger entry a transaction is combined into.
type position struct {
	ticker string
	on     date.Date
}

func (tx StockTransaction) position() position { return position{tx.Ticker, tx.Date} }

// sortTransactions orders txs by date then ticker.
func sortTransactions(txs []StockTransaction) {
	slices.SortStableFunc(txs, func(a, b StockTransaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Ticker, b.Ticker)
	})
}
