package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	seriesFetched *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	rowsProduced  *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		seriesFetched: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macropull_series_fetched_total",
				Help: "Total number of series fetches, by source",
			},
			[]string{"series", "source"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macropull_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		rowsProduced: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "macropull_rows_produced",
				Help: "Rows produced by the last pipeline run, per table",
			},
			[]string{"table"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "macropull_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}
}

// RecordSeriesFetched records a series fetch from "api" or "cache".
func (r *Recorder) RecordSeriesFetched(series, source string) {
	r.seriesFetched.WithLabelValues(series, source).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordRows records the row count of a produced table.
func (r *Recorder) RecordRows(table string, n int) {
	r.rowsProduced.WithLabelValues(table).Set(float64(n))
}

// RecordLatency records stage latency in seconds.
func (r *Recorder) RecordLatency(stage string, seconds float64) {
	r.latency.WithLabelValues(stage).Observe(seconds)
}
