// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vechain/electra/log"
)

const namespace = "electra_metrics"

// InitializePrometheusMetrics switches the backend to prometheus. Meters
// created before the switch stay no-ops, so it should run before the first
// operation of any instrumented component. Once switched, the backend stays.
func InitializePrometheusMetrics() {
	if _, ok := metrics.(*prometheusMetrics); !ok {
		metrics = newPrometheusMetrics()
	}
}

type prometheusMetrics struct {
	counters    sync.Map
	counterVecs sync.Map
	gauges      sync.Map
	histograms  sync.Map
}

func newPrometheusMetrics() Metrics {
	return &prometheusMetrics{}
}

// getOrCreate returns the meter stored under name, building it on first use.
// When two callers race on the first use, the stored meter wins.
func getOrCreate[T any](m *sync.Map, name string, create func() T) T {
	if item, ok := m.Load(name); ok {
		return item.(T)
	}
	item, _ := m.LoadOrStore(name, create())
	return item.(T)
}

func (o *prometheusMetrics) GetOrCreateCountMeter(name string) CountMeter {
	return getOrCreate(&o.counters, name, func() CountMeter {
		return newCountMeter(name)
	})
}

func (o *prometheusMetrics) GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter {
	return getOrCreate(&o.counterVecs, name, func() CountVecMeter {
		return newCountVecMeter(name, labels)
	})
}

func (o *prometheusMetrics) GetOrCreateGaugeMeter(name string) GaugeMeter {
	return getOrCreate(&o.gauges, name, func() GaugeMeter {
		return newGaugeMeter(name)
	})
}

func (o *prometheusMetrics) GetOrCreateHistogramMeter(name string, buckets []int64) HistogramMeter {
	return getOrCreate(&o.histograms, name, func() HistogramMeter {
		return newHistogramMeter(name, buckets)
	})
}

func (o *prometheusMetrics) GetOrCreateHandler() http.Handler {
	return promhttp.Handler()
}

func register(meter prometheus.Collector) {
	if err := prometheus.Register(meter); err != nil {
		log.Warn("unable to register metric", "err", err)
	}
}

func newCountMeter(name string) CountMeter {
	meter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
		},
	)
	register(meter)
	return &promCountMeter{counter: meter}
}

type promCountMeter struct {
	counter prometheus.Counter
}

func (c *promCountMeter) Add(i int64) {
	c.counter.Add(float64(i))
}

func newCountVecMeter(name string, labels []string) CountVecMeter {
	meter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
		},
		labels,
	)
	register(meter)
	return &promCountVecMeter{counter: meter}
}

type promCountVecMeter struct {
	counter *prometheus.CounterVec
}

func (c *promCountVecMeter) AddWithLabel(i int64, labels map[string]string) {
	c.counter.With(labels).Add(float64(i))
}

func newGaugeMeter(name string) GaugeMeter {
	meter := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
		},
	)
	register(meter)
	return &promGaugeMeter{gauge: meter}
}

type promGaugeMeter struct {
	gauge prometheus.Gauge
}

func (c *promGaugeMeter) Add(i int64) {
	c.gauge.Add(float64(i))
}

func (c *promGaugeMeter) Set(i int64) {
	c.gauge.Set(float64(i))
}

func newHistogramMeter(name string, buckets []int64) HistogramMeter {
	floatBuckets := make([]float64, len(buckets))
	for i, bucket := range buckets {
		floatBuckets[i] = float64(bucket)
	}

	meter := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Buckets:   floatBuckets,
		},
	)
	register(meter)
	return &promHistogramMeter{histogram: meter}
}

type promHistogramMeter struct {
	histogram prometheus.Histogram
}

func (c *promHistogramMeter) Observe(i int64) {
	c.histogram.Observe(float64(i))
}
