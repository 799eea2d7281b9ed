package folio

import (
	"errors"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// sampleLookback is how many days before an anchor a sample may be taken
// from, to step over holidays.
const sampleLookback = 7

// checkSampling validates the unit and length of a sampled series.
func checkSampling(unit date.Unit, length int) error {
	switch unit {
	case date.Days, date.Weeks, date.Months, date.Years:
	default:
		return failf(ErrUnsupportedUnit, "unsupported unit %q", unit)
	}
	if length <= 0 {
		return failf(ErrInvalidLength, "invalid length %d, must be positive", length)
	}
	return nil
}

// anchors returns up to count weekdays walking back from end, length units at a time.
// They are returned most recent first.
func anchors(unit date.Unit, end date.Date, count, length int) ([]date.Date, error) {
	dates := make([]date.Date, 0, max(count, 0))
	on := previousWeekday(end)
	for range count {
		dates = append(dates, on)
		var err error
		if on, err = LastWeekdayOfPreviousUnit(on, unit, length); err != nil {
			return nil, err
		}
	}
	return dates, nil
}

// StockPrices samples the price of ticker on up to count dates, walking back
// from end by length units. Dates where no price is available are skipped.
func (l *Ledger) StockPrices(unit date.Unit, ticker string, end date.Date, count int, closing bool, length int) (*date.History[decimal.Decimal], error) {
	if err := checkSampling(unit, length); err != nil {
		return nil, err
	}
	series, err := l.historian.Series(ticker)
	if err != nil {
		return nil, err
	}
	dates, err := anchors(unit, end, count, length)
	if err != nil {
		return nil, err
	}
	ipo, _, _ := series.First()
	samples := new(date.History[decimal.Decimal])
	for _, on := range dates {
		if on.Before(ipo) {
			break // older anchors are not listed either
		}
		_, v, err := latestWithin(ticker, series, on.Add(-sampleLookback), on, closing)
		if errors.Is(err, ErrNoValueInRange) {
			continue
		}
		if err != nil {
			return nil, err
		}
		samples.Append(on, v)
	}
	return samples, nil
}

// PortfolioValues samples the value of a portfolio on up to count dates,
// walking back from end by length units. Dates before the first transaction
// are valued at zero.
func (l *Ledger) PortfolioValues(unit date.Unit, name string, end date.Date, count, length int) (*date.History[decimal.Decimal], error) {
	if err := checkSampling(unit, length); err != nil {
		return nil, err
	}
	p, err := l.Portfolio(name)
	if err != nil {
		return nil, err
	}
	dates, err := anchors(unit, end, count, length)
	if err != nil {
		return nil, err
	}
	q := l.historian.batch()
	first, hasFirst := p.inception()
	samples := new(date.History[decimal.Decimal])
	for _, on := range dates {
		if !hasFirst || on.Before(first) {
			samples.Append(on, decimal.Zero)
			continue
		}
		txs, err := l.transactions(q, p, on)
		if err != nil {
			return nil, err
		}
		v, err := valuate(txs, on, func(ticker string) (decimal.Decimal, error) {
			s, err := q.get(ticker)
			if err != nil {
				return decimal.Zero, err
			}
			_, v, err := latestWithin(ticker, s, on.Add(-sampleLookback), on, true)
			return v, err
		})
		if errors.Is(err, ErrNoValueInRange) {
			continue
		}
		if err != nil {
			return nil, err
		}
		samples.Append(on, v)
	}
	return samples, nil
}

// inception returns the date of the earliest recorded transaction or
// scheduled investment.
func (p *Portfolio) inception() (date.Date, bool) {
	var first date.Date
	for pos := range p.entries {
		if first.IsZero() || pos.on.Before(first) {
			first = pos.on
		}
	}
	if p.schedule != nil && (first.IsZero() || p.schedule.Start.Before(first)) {
		first = p.schedule.Start
	}
	return first, !first.IsZero()
}
