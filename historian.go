package folio

import (
	"fmt"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// Historian resolves historical prices with market calendar semantics on top
// of a PriceSource.
type Historian struct {
	source PriceSource
	today  func() date.Date
}

// NewHistorian returns a Historian reading prices from source.
// today gives the current date, nil means date.Today.
func NewHistorian(source PriceSource, today func() date.Date) *Historian {
	if today == nil {
		today = date.Today
	}
	return &Historian{source: source, today: today}
}

// Today returns the historian's notion of the current date.
func (h *Historian) Today() date.Date { return h.today() }

// Series fetches the series of ticker, reporting any failure as ErrInvalidTicker.
func (h *Historian) Series(ticker string) (*PriceSeries, error) {
	s, err := h.source.Fetch(ticker)
	if err != nil {
		return nil, &Error{Kind: ErrInvalidTicker, Msg: fmt.Sprintf("invalid ticker %q: %v", ticker, err), Cause: err}
	}
	if s == nil || s.Len() == 0 {
		return nil, failf(ErrInvalidTicker, "invalid ticker %q: no price data", ticker)
	}
	return s, nil
}

// Value returns the closing (or opening) price of ticker on day.
func (h *Historian) Value(ticker string, day date.Date, closing bool) (decimal.Decimal, error) {
	s, err := h.Series(ticker)
	if err != nil {
		return decimal.Zero, err
	}
	bar, err := h.bar(ticker, s, day)
	if err != nil {
		return decimal.Zero, err
	}
	return bar.Price(closing), nil
}

// CheckStock validates that tx can be priced: its ticker exists and its date
// is a trading day within the listed life of the ticker.
func (h *Historian) CheckStock(tx StockTransaction) error {
	s, err := h.Series(tx.Ticker)
	if err != nil {
		return err
	}
	_, err = h.bar(tx.Ticker, s, tx.Date)
	return err
}

// bar returns the bar of day in s, or the reason why there is none.
func (h *Historian) bar(ticker string, s *PriceSeries, day date.Date) (Bar, error) {
	first, _, _ := s.First()
	if day.Before(first) {
		return Bar{}, failf(ErrNotYetListed, "%s was not listed on %s, first available date is %s", ticker, day, first)
	}
	if bar, ok := s.Get(day); ok {
		return bar, nil
	}
	if day.After(h.today()) {
		return Bar{}, failf(ErrFutureDate, "no data for %s on %s: date is in the future", ticker, day)
	}
	if last, _, _ := s.Latest(); day.After(last) {
		return Bar{}, failf(ErrDelisted, "%s was delisted on %s, no data on %s", ticker, last, day)
	}
	if day.IsWeekend() {
		return Bar{}, failf(ErrMarketClosed, "market closed on %s (weekend)", day)
	}
	return Bar{}, failf(ErrMarketClosed, "market closed on %s (holiday), no data for %s", day, ticker)
}

// LatestValueWithinRange scans from end back to start, both included, and
// returns the first trading day found with its price.
func (h *Historian) LatestValueWithinRange(ticker string, start, end date.Date, closing bool) (date.Date, decimal.Decimal, error) {
	s, err := h.Series(ticker)
	if err != nil {
		return date.Date{}, decimal.Zero, err
	}
	return latestWithin(ticker, s, start, end, closing)
}

func latestWithin(ticker string, s *PriceSeries, start, end date.Date, closing bool) (date.Date, decimal.Decimal, error) {
	on, bar, ok := s.AsOf(end)
	if !ok || on.Before(start) {
		return date.Date{}, decimal.Zero, failf(ErrNoValueInRange, "no value for %s between %s and %s", ticker, start, end)
	}
	return on, bar.Price(closing), nil
}

// IPO returns the first date of the ticker's series.
func (h *Historian) IPO(ticker string) (date.Date, error) {
	s, err := h.Series(ticker)
	if err != nil {
		return date.Date{}, err
	}
	first, _, _ := s.First()
	return first, nil
}

// FlexibleHistorian looks for the nearest trading day in a given direction.
type FlexibleHistorian struct {
	*Historian
}

// NewFlexibleHistorian wraps h.
func NewFlexibleHistorian(h *Historian) *FlexibleHistorian { return &FlexibleHistorian{h} }

// Earliest returns the first trading day on or after day with its opening
// price when forward is true, or the last trading day on or before day with its
// closing price otherwise.
func (f *FlexibleHistorian) Earliest(ticker string, day date.Date, forward bool) (date.Date, decimal.Decimal, error) {
	s, err := f.Series(ticker)
	if err != nil {
		return date.Date{}, decimal.Zero, err
	}
	return nearest(ticker, s, day, forward)
}

func nearest(ticker string, s *PriceSeries, day date.Date, forward bool) (date.Date, decimal.Decimal, error) {
	if forward {
		on, bar, ok := s.From(day)
		if !ok {
			return date.Date{}, decimal.Zero, failf(ErrNoLaterDatesAvailable, "no data for %s on or after %s", ticker, day)
		}
		return on, bar.Open, nil
	}
	on, bar, ok := s.AsOf(day)
	if !ok {
		return date.Date{}, decimal.Zero, failf(ErrNoLaterDatesAvailable, "no data for %s on or before %s", ticker, day)
	}
	return on, bar.Close, nil
}

// quotes memoizes series fetched during a single logical lookup, so that a
// valuation fetches each ticker at most once.
type quotes struct {
	h      *Historian
	series map[string]*PriceSeries
}

func (h *Historian) batch() *quotes {
	return &quotes{h: h, series: make(map[string]*PriceSeries)}
}

func (q *quotes) get(ticker string) (*PriceSeries, error) {
	if s, ok := q.series[ticker]; ok {
		return s, nil
	}
	s, err := q.h.Series(ticker)
	if err != nil {
		return nil, err
	}
	q.series[ticker] = s
	return s, nil
}

// value is Historian.Value within the batch.
func (q *quotes) value(ticker string, day date.Date, closing bool) (decimal.Decimal, error) {
	s, err := q.get(ticker)
	if err != nil {
		return decimal.Zero, err
	}
	bar, err := q.h.bar(ticker, s, day)
	if err != nil {
		return decimal.Zero, err
	}
	return bar.Price(closing), nil
}
