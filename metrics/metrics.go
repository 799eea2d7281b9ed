// Package metrics provides Prometheus instrumentation for price sources.
package metrics

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/etnz/folio"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

var (
	// PriceFetchesTotal counts price series fetches, partitioned by result.
	PriceFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_price_fetches_total",
		Help: "Total number of price series fetches",
	}, []string{"result"})

	// PriceFetchDuration tracks the duration of price series fetches.
	PriceFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "folio_price_fetch_duration_seconds",
		Help:    "Price series fetch duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})

	// PriceSeriesDays tracks the number of trading days per fetched series.
	PriceSeriesDays = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "folio_price_series_days",
		Help:    "Number of trading days in fetched price series",
		Buckets: prometheus.ExponentialBuckets(10, 4, 6),
	})
)

type instrumented struct {
	source folio.PriceSource
}

// Instrument returns a PriceSource recording every fetch of source.
func Instrument(source folio.PriceSource) folio.PriceSource {
	return instrumented{source}
}

func (i instrumented) Fetch(ticker string) (*folio.PriceSeries, error) {
	start := time.Now()
	s, err := i.source.Fetch(ticker)
	PriceFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		PriceFetchesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	PriceFetchesTotal.WithLabelValues("ok").Inc()
	PriceSeriesDays.Observe(float64(s.Len()))
	return s, nil
}

// Dump writes the folio metrics in the Prometheus text format.
func Dump(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "folio_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("cannot write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
