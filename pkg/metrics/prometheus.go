package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	studiesRun    *prometheus.CounterVec
	eventsStudied *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	terminalCAR   *prometheus.GaugeVec
	lastPrice     *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		studiesRun: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventpulse_studies_run_total",
				Help: "Total number of event studies executed",
			},
			[]string{"symbol"},
		),
		eventsStudied: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventpulse_events_studied_total",
				Help: "Total number of events evaluated across studies",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eventpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "eventpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		terminalCAR: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "eventpulse_terminal_car",
				Help: "Terminal mean cumulative abnormal return of the latest study per symbol",
			},
			[]string{"symbol"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "eventpulse_last_price",
				Help: "Last streamed price for a symbol",
			},
			[]string{"symbol"},
		),
	}
}

// RecordStudyRun records one executed study.
func (r *Recorder) RecordStudyRun(symbol string) {
	r.studiesRun.WithLabelValues(symbol).Inc()
}

// RecordEventsStudied records how many events a study evaluated.
func (r *Recorder) RecordEventsStudied(symbol string, n int) {
	r.eventsStudied.WithLabelValues(symbol).Add(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordTerminalCAR records the latest terminal mean CAR per symbol.
func (r *Recorder) RecordTerminalCAR(symbol string, car float64) {
	r.terminalCAR.WithLabelValues(symbol).Set(car)
}

// RecordLastPrice records the last streamed price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}
