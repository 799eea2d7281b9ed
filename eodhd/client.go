// Package eodhd implements a folio.PriceSource on top of the EOD Historical
// Data API (https://eodhd.com).
package eodhd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultBaseURL is the root of the EODHD API.
const DefaultBaseURL = "https://eodhd.com/api"

// DefaultExchange is appended to tickers without an exchange suffix.
const DefaultExchange = "US"

// Client fetches daily prices from EODHD.
type Client struct {
	apiKey   string
	baseURL  string
	exchange string
	cacheDir string
	today    func() date.Date
	logger   *zap.Logger

	daily   *http.Client
	monthly *http.Client // for slow moving lists
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithLogger sets the logger, the default discards logs.
func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.logger = l } }

// WithExchange overrides DefaultExchange.
func WithExchange(e string) Option { return func(c *Client) { c.exchange = e } }

// WithCacheDir sets the directory of the on disk HTTP cache, os.TempDir() by
// default. An empty dir disables the cache.
func WithCacheDir(dir string) Option { return func(c *Client) { c.cacheDir = dir } }

// WithToday sets the clock used to expire cache entries.
func WithToday(today func() date.Date) Option { return func(c *Client) { c.today = today } }

// New returns a Client authenticated with apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		baseURL:  DefaultBaseURL,
		exchange: DefaultExchange,
		cacheDir: os.TempDir(),
		today:    date.Today,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.daily = c.newHTTPClient(false)
	c.monthly = c.newHTTPClient(true)
	return c
}

func (c *Client) newHTTPClient(monthly bool) *http.Client {
	client := new(http.Client)
	if c.cacheDir == "" {
		return client
	}
	client.Transport = &diskCache{
		base:    http.DefaultTransport,
		dir:     c.cacheDir,
		monthly: monthly,
		today:   c.today,
		logger:  c.logger,
	}
	return client
}

// symbol returns the EODHD symbol of ticker, "SYMBOL.EXCHANGE".
func (c *Client) symbol(ticker string) string {
	if strings.Contains(ticker, ".") {
		return ticker
	}
	return ticker + "." + c.exchange
}

// Fetch returns the full daily price series of ticker.
//
// It implements folio.PriceSource.
func (c *Client) Fetch(ticker string) (*folio.PriceSeries, error) {
	// https://eodhd.com/api/eod/NVD.F?api_token=demo&fmt=json
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	},
	addr := fmt.Sprintf("%s/eod/%s?fmt=json&api_token=%s", c.baseURL, url.PathEscape(c.symbol(ticker)), url.QueryEscape(c.apiKey))
	type Info struct {
		Date   date.Date       `json:"date"`
		Open   decimal.Decimal `json:"open"`
		High   decimal.Decimal `json:"high"`
		Low    decimal.Decimal `json:"low"`
		Close  decimal.Decimal `json:"close"`
		Volume decimal.Decimal `json:"volume"`
	}

	content := make([]Info, 0)
	if err := jwget(c.daily, addr, &content); err != nil {
		return nil, err
	}
	series := folio.NewPriceSeries()
	for _, info := range content {
		series.Add(info.Date, folio.Bar{Open: info.Open, High: info.High, Low: info.Low, Close: info.Close, Volume: info.Volume})
	}
	c.logger.Debug("prices fetched", zap.String("ticker", ticker), zap.Int("days", series.Len()))
	return series, nil
}

// SearchResult matches the structure of a single item in the EODHD search API response.
type SearchResult struct {
	Code              string    `json:"Code"`
	Exchange          string    `json:"Exchange"`
	Name              string    `json:"Name"`
	Type              string    `json:"Type"`
	Country           string    `json:"Country"`
	Currency          string    `json:"Currency"`
	ISIN              string    `json:"ISIN"`
	PreviousClose     float64   `json:"previousClose"`
	PreviousCloseDate date.Date `json:"previousCloseDate"`
}

// Ticker returns the symbol to use in transactions.
func (r SearchResult) Ticker() string { return r.Code + "." + r.Exchange }

// Search searches for securities matching term.
func (c *Client) Search(term string) ([]SearchResult, error) {
	addr := fmt.Sprintf("%s/search/%s?fmt=json&api_token=%s", c.baseURL, url.PathEscape(term), url.QueryEscape(c.apiKey))
	var results []SearchResult
	if err := jwget(c.monthly, addr, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// jwget performs an HTTP GET request to the given address and unmarshals the
// JSON response body into the provided data structure.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}
