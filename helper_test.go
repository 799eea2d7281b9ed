package folio

import (
	"testing"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// fixedToday is the current date seen by test historians.
var fixedToday = date.MustParse("2024-06-28")

func today() date.Date { return fixedToday }

// D is a helper for tests to create decimals from constants.
func D(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// flat returns a series of every weekday between from and to included, open
// and close at price, except for the given holidays.
func flat(from, to string, price float64, holidays ...string) *PriceSeries {
	skip := make(map[date.Date]bool)
	for _, h := range holidays {
		skip[date.MustParse(h)] = true
	}
	s := NewPriceSeries()
	end := date.MustParse(to)
	for on := date.MustParse(from); !on.After(end); on = on.Add(1) {
		if on.IsWeekend() || skip[on] {
			continue
		}
		s.Add(on, bar(price))
	}
	return s
}

// bar returns a bar opening and closing at price.
func bar(price float64) Bar {
	p := D(price)
	return Bar{Open: p, High: p, Low: p, Close: p, Volume: D(1000)}
}

// set overrides the bar of a day.
func set(s *PriceSeries, on string, b Bar) *PriceSeries {
	return s.Add(date.MustParse(on), b)
}

// testSource is the market used by most tests.
//
//   - NFLX trades from 2024-01-02 to today at 10, except 2024-03-21 where it closes at 15.6.
//     Good Friday 2024-03-29 is a holiday.
//   - GONE trades in January and February 2024 at 5, then is delisted.
func testSource() MemorySource {
	nflx := flat("2024-01-02", "2024-06-28", 10, "2024-03-29")
	set(nflx, "2024-03-21", Bar{Open: D(15), High: D(16), Low: D(14), Close: D(15.6), Volume: D(1000)})
	return MemorySource{
		"NFLX": nflx,
		"GONE": flat("2024-01-02", "2024-02-28", 5),
	}
}

func newTestLedger(t *testing.T, source PriceSource) *Ledger {
	t.Helper()
	return NewLedger(NewHistorian(source, today), nil)
}

// mustAdd adds a transaction or fails the test.
func mustAdd(t *testing.T, l *Ledger, name, ticker string, quantity float64, on string) {
	t.Helper()
	if err := l.AddStock(ticker, D(quantity), date.MustParse(on), name); err != nil {
		t.Fatalf("AddStock(%s, %v, %s, %s) unexpected error: %v", ticker, quantity, on, name, err)
	}
}
