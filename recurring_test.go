package folio

import (
	"errors"
	"slices"
	"testing"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// dcaSource trades every ticker at 1.5 up to 2024-03-15 and at 2.5 afterwards.
func dcaSource(tickers ...string) MemorySource {
	m := make(MemorySource)
	for _, ticker := range tickers {
		s := flat("2024-03-01", "2024-03-15", 1.5)
		for on, b := range flat("2024-03-18", "2024-06-28", 2.5).Values() {
			s.Add(on, b)
		}
		m[ticker] = s
	}
	return m
}

func TestDollarCostAveraging_Regression(t *testing.T) {
	l := newTestLedger(t, dcaSource("NFLX", "IRTC", "GUTS", "F"))
	weights := map[string]decimal.Decimal{
		"NFLX": D(50),
		"IRTC": D(100),
		"GUTS": D(200),
		"F":    D(25),
	}
	start := date.MustParse("2024-03-15")
	if err := l.AddDollarCostAveragingPortfolio("dca", weights, start, date.Weeks, 1, Unbounded); err != nil {
		t.Fatalf("AddDollarCostAveragingPortfolio() unexpected error: %v", err)
	}
	mustAdd(t, l, "dca", "NFLX", 12, "2024-03-15")

	got, err := l.Value("dca", date.MustParse("2024-03-25"))
	if err != nil {
		t.Fatalf("Value() unexpected error: %v", err)
	}
	if !got.Round(6).Equal(decimal.NewFromInt(1030)) {
		t.Errorf("Value() = %v, want 1030", got)
	}

	// 375 invested on each of the two occurrences, plus 12 x 1.5.
	basis, err := l.CostBasis("dca", date.MustParse("2024-03-25"))
	if err != nil {
		t.Fatalf("CostBasis() unexpected error: %v", err)
	}
	if !basis.Round(6).Equal(decimal.NewFromInt(768)) {
		t.Errorf("CostBasis() = %v, want 768", basis)
	}
}

func TestDollarCostAveraging_Realization(t *testing.T) {
	l := newTestLedger(t, dcaSource("NFLX"))
	weights := map[string]decimal.Decimal{"NFLX": D(15)}
	// 2024-03-09 is a Saturday, the purchase happens on Monday.
	if err := l.AddDollarCostAveragingPortfolio("dca", weights, date.MustParse("2024-03-09"), date.Weeks, 1, 3); err != nil {
		t.Fatal(err)
	}

	txs := mustComposition(t, l, "dca")
	want := []StockTransaction{
		NewStockTransaction("NFLX", D(10), date.MustParse("2024-03-11")),
		NewStockTransaction("NFLX", D(6), date.MustParse("2024-03-18")),
		NewStockTransaction("NFLX", D(6), date.MustParse("2024-03-25")),
	}
	if !slices.EqualFunc(txs, want, StockTransaction.Equal) {
		t.Errorf("Composition() = %v, want %v", txs, want)
	}

	tests := []struct {
		on   string
		want float64
	}{
		{"2024-03-08", 0},
		{"2024-03-11", 15}, // 10 x 1.5
		{"2024-03-15", 15}, // ditto
		{"2024-03-18", 40}, // 16 x 2.5
		{"2024-04-26", 55}, // 22 x 2.5, three repetitions only
	}
	for _, tc := range tests {
		got, err := l.Value("dca", date.MustParse(tc.on))
		if err != nil {
			t.Errorf("Value(%s) unexpected error: %v", tc.on, err)
			continue
		}
		if !got.Equal(D(tc.want)) {
			t.Errorf("Value(%s) = %v, want %v", tc.on, got, tc.want)
		}
	}
}

func TestDollarCostAveraging_SellRealizedShares(t *testing.T) {
	l := newTestLedger(t, dcaSource("NFLX"))
	weights := map[string]decimal.Decimal{"NFLX": D(15)}
	if err := l.AddDollarCostAveragingPortfolio("dca", weights, date.MustParse("2024-03-11"), date.Days, 7, Unbounded); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, l, "dca", "NFLX", -10, "2024-03-12")

	err := l.AddStock("NFLX", D(-1), date.MustParse("2024-03-13"), "dca")
	if !errors.Is(err, ErrInsufficientShares) {
		t.Errorf("AddStock() error = %v, want %v", err, ErrInsufficientShares)
	}
	mustAdd(t, l, "dca", "NFLX", -6, "2024-03-18")
}

func TestAddDollarCostAveragingPortfolio_Errors(t *testing.T) {
	start := date.MustParse("2024-03-15")
	tests := []struct {
		name        string
		weights     map[string]decimal.Decimal
		start       date.Date
		unit        date.Unit
		length      int
		repetitions int
		want        error
	}{
		{"zero repetitions", map[string]decimal.Decimal{"NFLX": D(1)}, start, date.Weeks, 1, 0, ErrInvalidRepetitions},
		{"negative repetitions", map[string]decimal.Decimal{"NFLX": D(1)}, start, date.Weeks, 1, -2, ErrInvalidRepetitions},
		{"hours", map[string]decimal.Decimal{"NFLX": D(1)}, start, date.Hours, 1, 1, ErrUnsupportedUnit},
		{"zero length", map[string]decimal.Decimal{"NFLX": D(1)}, start, date.Days, 0, 1, ErrInvalidLength},
		{"unknown ticker", map[string]decimal.Decimal{"NOPE": D(1)}, start, date.Days, 1, 1, ErrInvalidTicker},
		{"before ipo", map[string]decimal.Decimal{"NFLX": D(1)}, date.MustParse("2024-02-01"), date.Days, 1, 1, ErrNotYetListed},
		{"duplicate", map[string]decimal.Decimal{"NFLX": D(1)}, start, date.Days, 1, 1, ErrDuplicateName},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := newTestLedger(t, dcaSource("NFLX"))
			l.CreatePortfolio("duplicate")
			err := l.AddDollarCostAveragingPortfolio(tc.name, tc.weights, tc.start, tc.unit, tc.length, tc.repetitions)
			if !errors.Is(err, tc.want) {
				t.Fatalf("AddDollarCostAveragingPortfolio() error = %v, want %v", err, tc.want)
			}
			if tc.want != ErrDuplicateName && slices.Contains(l.Names(), tc.name) {
				t.Errorf("rejected portfolio %q was created", tc.name)
			}
		})
	}
}

func TestSchedule_Occurrences(t *testing.T) {
	s := &Schedule{Start: date.MustParse("2024-01-31"), Unit: date.Months, Length: 1, Repetitions: 3}
	got := s.Occurrences(date.MustParse("2024-12-31"))
	want := []date.Date{date.MustParse("2024-01-31"), date.MustParse("2024-02-29"), date.MustParse("2024-03-31")}
	if !slices.Equal(got, want) {
		t.Errorf("Occurrences() = %v, want %v", got, want)
	}

	s.Repetitions = Unbounded
	if got := s.Occurrences(date.MustParse("2024-05-30")); len(got) != 4 {
		t.Errorf("unbounded Occurrences() = %v, want 4 dates", got)
	}
	if got := s.Occurrences(date.MustParse("2024-01-30")); len(got) != 0 {
		t.Errorf("Occurrences() before start = %v, want none", got)
	}
}

func TestLedger_Export_WithoutRecurringPurchases(t *testing.T) {
	l := newTestLedger(t, dcaSource("NFLX"))
	weights := map[string]decimal.Decimal{"NFLX": D(15)}
	if err := l.AddDollarCostAveragingPortfolio("dca", weights, date.MustParse("2024-03-11"), date.Weeks, 1, Unbounded); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, l, "dca", "NFLX", 2, "2024-03-12")

	got, err := l.Export("dca")
	if err != nil {
		t.Fatal(err)
	}
	want := []StockTransaction{NewStockTransaction("NFLX", D(2), date.MustParse("2024-03-12"))}
	if !slices.EqualFunc(got, want, StockTransaction.Equal) {
		t.Errorf("Export() = %v, want %v", got, want)
	}
	if all := mustComposition(t, l, "dca"); len(all) <= len(got) {
		t.Errorf("Composition() = %v, want recurring purchases too", all)
	}
}
