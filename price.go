package folio

import (
	"encoding/json"
	"fmt"

	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
)

// Bar is one trading day of a price series.
type Bar struct {
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
}

// Price returns the closing price if closing is true, the opening one otherwise.
func (b Bar) Price(closing bool) decimal.Decimal {
	if closing {
		return b.Close
	}
	return b.Open
}

// PriceSeries holds the daily bars of a single ticker.
//
// Only trading days are present: a missing date means the market was closed,
// or the ticker was not listed yet or already delisted.
type PriceSeries struct {
	date.History[Bar]
}

// NewPriceSeries returns an empty series.
func NewPriceSeries() *PriceSeries { return new(PriceSeries) }

// Add records the bar for a trading day, replacing any existing one.
func (s *PriceSeries) Add(on date.Date, bar Bar) *PriceSeries {
	s.Append(on, bar)
	return s
}

type jsonBar struct {
	Date date.Date `json:"date"`
	Bar
}

// MarshalJSON encodes the series as a chronological array of bars.
func (s *PriceSeries) MarshalJSON() ([]byte, error) {
	bars := make([]jsonBar, 0, s.Len())
	for on, bar := range s.Values() {
		bars = append(bars, jsonBar{Date: on, Bar: bar})
	}
	return json.Marshal(bars)
}

// UnmarshalJSON decodes a series encoded by MarshalJSON.
func (s *PriceSeries) UnmarshalJSON(data []byte) error {
	var bars []jsonBar
	if err := json.Unmarshal(data, &bars); err != nil {
		return fmt.Errorf("invalid price series: %w", err)
	}
	*s = PriceSeries{}
	for _, b := range bars {
		s.Add(b.Date, b.Bar)
	}
	return nil
}

// PriceSource fetches the full daily price series of a ticker.
//
// Implementations report unknown tickers with an error. They are free to cache,
// the core fetches at most once per logical lookup and never mutates the result.
type PriceSource interface {
	Fetch(ticker string) (*PriceSeries, error)
}

// PriceSourceFunc adapts an ordinary function to the PriceSource interface.
type PriceSourceFunc func(ticker string) (*PriceSeries, error)

// Fetch calls f(ticker).
func (f PriceSourceFunc) Fetch(ticker string) (*PriceSeries, error) { return f(ticker) }

// MemorySource is a PriceSource backed by series held in memory.
type MemorySource map[string]*PriceSeries

// Fetch returns the series registered for ticker.
func (m MemorySource) Fetch(ticker string) (*PriceSeries, error) {
	s, ok := m[ticker]
	if !ok {
		return nil, fmt.Errorf("no price series for %q", ticker)
	}
	return s, nil
}
