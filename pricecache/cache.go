// Package pricecache wraps a folio.PriceSource with a Redis read-through cache.
package pricecache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/etnz/folio"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL is how long a fetched series is kept.
const DefaultTTL = 12 * time.Hour

// Timeout bounds each Redis call made by a fetch.
const Timeout = 500 * time.Millisecond

// Cache is a folio.PriceSource that reads through Redis.
//
// Series are stored as JSON under "prices:<ticker>". Redis failures are logged
// and never fail a fetch, failed fetches are not cached.
type Cache struct {
	source  folio.PriceSource
	rdb     *redis.Client
	ttl     time.Duration
	timeout time.Duration // per Redis call
	logger  *zap.Logger
}

// New returns a cache in front of source. A zero ttl means DefaultTTL and a
// nil logger discards logs.
func New(source folio.PriceSource, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{source: source, rdb: rdb, ttl: ttl, timeout: Timeout, logger: logger}
}

func key(ticker string) string { return "prices:" + ticker }

// Fetch returns the cached series of ticker, or fetches and caches it.
func (c *Cache) Fetch(ticker string) (*folio.PriceSeries, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	data, err := c.rdb.Get(ctx, key(ticker)).Bytes()
	cancel()
	switch {
	case err == nil:
		s := folio.NewPriceSeries()
		uerr := json.Unmarshal(data, s)
		if uerr == nil {
			c.logger.Debug("price cache hit", zap.String("ticker", ticker))
			return s, nil
		}
		c.logger.Warn("corrupted price cache entry", zap.String("ticker", ticker), zap.Error(uerr))
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn("price cache read failed", zap.String("ticker", ticker), zap.Error(err))
	}

	s, err := c.source.Fetch(ticker)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(s); err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		if err := c.rdb.Set(ctx, key(ticker), data, c.ttl).Err(); err != nil {
			c.logger.Warn("price cache write failed", zap.String("ticker", ticker), zap.Error(err))
		}
	}
	return s, nil
}

// Invalidate drops the cached series of the given tickers.
func (c *Cache) Invalidate(ctx context.Context, tickers ...string) error {
	if len(tickers) == 0 {
		return nil
	}
	keys := make([]string, len(tickers))
	for i, t := range tickers {
		keys[i] = key(t)
	}
	return c.rdb.Del(ctx, keys...).Err()
}
