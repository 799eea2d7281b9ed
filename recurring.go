package folio

import (
	"maps"
	"slices"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// Unbounded is the Repetitions value of a schedule that never ends.
const Unbounded = -1

// Schedule is a recurring investment: every Length Units from Start, the
// amount of each ticker in Weights is invested.
type Schedule struct {
	Weights     map[string]decimal.Decimal // dollar amount per ticker
	Start       date.Date
	Unit        date.Unit
	Length      int
	Repetitions int // number of occurrences, or Unbounded
}

func (s *Schedule) validate() error {
	if !s.Unit.IsDateBased() {
		return failf(ErrUnsupportedUnit, "unsupported unit %q", s.Unit)
	}
	if s.Length < 1 {
		return failf(ErrInvalidLength, "invalid length %d, must be positive", s.Length)
	}
	if s.Repetitions == 0 || s.Repetitions < Unbounded {
		return failf(ErrInvalidRepetitions, "invalid repetitions %d, must be positive or %d for an unbounded schedule", s.Repetitions, Unbounded)
	}
	return nil
}

// occurrence returns the nominal date of the i-th investment.
func (s *Schedule) occurrence(i int) date.Date { return s.Unit.AddTo(s.Start, i*s.Length) }

// Occurrences returns the nominal investment dates up to until included.
func (s *Schedule) Occurrences(until date.Date) []date.Date {
	var dates []date.Date
	for i := 0; s.Repetitions == Unbounded || i < s.Repetitions; i++ {
		on := s.occurrence(i)
		if on.After(until) {
			break
		}
		dates = append(dates, on)
	}
	return dates
}

// realize converts the investments made up to until into share purchases.
//
// Each amount buys shares at the closing price of the first trading day on or
// after the nominal date. Purchases whose trading day falls after until are not
// realized yet.
func (s *Schedule) realize(q *quotes, until date.Date) ([]StockTransaction, error) {
	tickers := slices.Sorted(maps.Keys(s.Weights))
	var txs []StockTransaction
	for _, on := range s.Occurrences(until) {
		for _, ticker := range tickers {
			series, err := q.get(ticker)
			if err != nil {
				return nil, err
			}
			day, bar, ok := series.From(on)
			if !ok || day.After(until) || bar.Close.IsZero() {
				continue
			}
			shares := s.Weights[ticker].Div(bar.Close)
			txs = append(txs, NewStockTransaction(ticker, shares, day))
		}
	}
	return txs, nil
}

// AddDollarCostAveragingPortfolio creates a portfolio whose holdings grow
// with a recurring investment schedule. Its purchases are derived on demand
// from the schedule and the price source; transactions can also be added to it
// with AddStock.
func (l *Ledger) AddDollarCostAveragingPortfolio(name string, weights map[string]decimal.Decimal, start date.Date, unit date.Unit, length, repetitions int) error {
	if err := checkName(name); err != nil {
		return err
	}
	if _, exists := l.portfolios[name]; exists {
		return failf(ErrDuplicateName, "portfolio %q already exists", name)
	}
	s := &Schedule{
		Weights:     maps.Clone(weights),
		Start:       start,
		Unit:        unit,
		Length:      length,
		Repetitions: repetitions,
	}
	if err := s.validate(); err != nil {
		return err
	}
	for _, ticker := range slices.Sorted(maps.Keys(s.Weights)) {
		ipo, err := l.historian.IPO(ticker)
		if err != nil {
			return err
		}
		if start.Before(ipo) {
			return failf(ErrNotYetListed, "%s was not listed on %s, first available date is %s", ticker, start, ipo)
		}
	}
	p, err := l.create(name)
	if err != nil {
		return err
	}
	p.schedule = s
	return nil
}
