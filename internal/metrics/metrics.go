// Package metrics exposes Prometheus metrics for the parse service on a
// dedicated registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/genesis/internal/core"
)

const namespace = "genesis"

// Parse results used as the "result" label.
const (
	ResultOK         = "ok"
	ResultParseError = "parse_error"
	ResultError      = "error"
)

// Metrics holds the service collectors.
type Metrics struct {
	registry   *prometheus.Registry
	parses     *prometheus.CounterVec
	duration   prometheus.Histogram
	rows       prometheus.Histogram
	inputBytes prometheus.Counter
}

// New registers the parse collectors plus the Go runtime and process
// collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parses_total",
			Help:      "Parsed exports by result.",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time spent decoding and parsing one export.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		rows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parsed_rows",
			Help:      "Data rows per successfully parsed export.",
			Buckets:   prometheus.ExponentialBuckets(10, 10, 6),
		}),
		inputBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "input_bytes_total",
			Help:      "Raw export bytes read.",
		}),
	}

	m.registry.MustRegister(
		m.parses,
		m.duration,
		m.rows,
		m.inputBytes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveParse records one parse attempt. rows is ignored unless err is nil.
func (m *Metrics) ObserveParse(d time.Duration, bytes int64, rows int, err error) {
	m.parses.WithLabelValues(Result(err)).Inc()
	m.duration.Observe(d.Seconds())
	if bytes > 0 {
		m.inputBytes.Add(float64(bytes))
	}
	if err == nil {
		m.rows.Observe(float64(rows))
	}
}

// RegisterLimiter exposes the parse limiter's occupancy as gauges.
func (m *Metrics) RegisterLimiter(l *core.ParseLimiter) {
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "parses_in_flight",
			Help:      "Parses currently holding a limiter slot.",
		}, func() float64 { return float64(l.ActiveCount()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "parse_slots",
			Help:      "Configured number of concurrent parse slots.",
		}, func() float64 { return float64(l.MaxConcurrent()) }),
	)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Result classifies err for the result label.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case core.IsParseError(err):
		return ResultParseError
	default:
		return ResultError
	}
}
