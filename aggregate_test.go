package folio

import (
	"slices"
	"testing"

	"github.com/etnz/folio/date"
)

func TestSharesOn(t *testing.T) {
	txs := []StockTransaction{
		NewStockTransaction("NFLX", D(30), date.MustParse("2024-03-12")),
		NewStockTransaction("NFLX", D(-10), date.MustParse("2024-03-20")),
		NewStockTransaction("GONE", D(5), date.MustParse("2024-02-01")),
		NewStockTransaction("NFLX", D(2.5), date.MustParse("2024-04-02")),
	}
	tests := []struct {
		ticker string
		on     string
		want   float64
	}{
		{"NFLX", "2024-03-11", 0},
		{"NFLX", "2024-03-12", 30},
		{"NFLX", "2024-03-19", 30},
		{"NFLX", "2024-03-20", 20},
		{"NFLX", "2024-12-31", 22.5},
		{"GONE", "2024-03-20", 5},
		{"AAPL", "2024-03-20", 0},
	}
	for _, tc := range tests {
		got := SharesOn(tc.ticker, date.MustParse(tc.on), txs)
		if !got.Equal(D(tc.want)) {
			t.Errorf("SharesOn(%s, %s) = %v, want %v", tc.ticker, tc.on, got, tc.want)
		}
	}
	if got := SharesThroughout("NFLX", txs); !got.Equal(D(22.5)) {
		t.Errorf("SharesThroughout(NFLX) = %v, want 22.5", got)
	}
}

// Once every sale is covered, the held quantity never goes negative whatever
// the day.
func TestSharesOn_NeverNegative(t *testing.T) {
	l := newTestLedger(t, testSource())
	l.CreatePortfolio("p")
	mustAdd(t, l, "p", "NFLX", 10, "2024-02-01")
	mustAdd(t, l, "p", "NFLX", -4, "2024-02-05")
	mustAdd(t, l, "p", "NFLX", 1, "2024-02-06")
	mustAdd(t, l, "p", "NFLX", -7, "2024-02-07")

	txs := mustComposition(t, l, "p")
	for on := date.MustParse("2024-01-25"); on.Before(date.MustParse("2024-02-15")); on = on.Add(1) {
		if got := SharesOn("NFLX", on, txs); got.IsNegative() {
			t.Errorf("SharesOn(NFLX, %s) = %v, want >= 0", on, got)
		}
	}
}

func TestUniqueTickers(t *testing.T) {
	txs := []StockTransaction{
		NewStockTransaction("NFLX", D(30), date.MustParse("2024-03-12")),
		NewStockTransaction("GONE", D(5), date.MustParse("2024-02-01")),
		NewStockTransaction("AAPL", D(1), date.MustParse("2024-03-31")),
		NewStockTransaction("NFLX", D(-1), date.MustParse("2024-04-01")),
	}
	tests := []struct {
		start, end string
		want       []string
	}{
		{"2024-01-01", "2024-12-31", []string{"AAPL", "GONE", "NFLX"}},
		{"2024-03-01", "2024-03-31", []string{"AAPL", "NFLX"}},
		{"2024-02-01", "2024-02-01", []string{"GONE"}},
		{"2024-05-01", "2024-05-31", nil},
	}
	for _, tc := range tests {
		got := UniqueTickers(txs, date.MustParse(tc.start), date.MustParse(tc.end))
		if !slices.Equal(got, tc.want) {
			t.Errorf("UniqueTickers(%s, %s) = %v, want %v", tc.start, tc.end, got, tc.want)
		}
	}
}
