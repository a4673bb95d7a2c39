package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the payload gauges of one report run
type Metrics struct {
	RawBytes     *prometheus.GaugeVec
	GzipBytes    *prometheus.GaugeVec
	Transactions *prometheus.GaugeVec
	Spans        *prometheus.GaugeVec
	TargetErrors *prometheus.CounterVec
	registry     *prometheus.Registry
}

// NewMetrics creates and registers all metrics on a private registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	labels := []string{"index", "url"}

	m := &Metrics{
		RawBytes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "loadsize_payload_raw_bytes",
				Help: "Canonical JSON size of the target body in bytes",
			},
			labels,
		),
		GzipBytes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "loadsize_payload_gzip_bytes",
				Help: "Gzip compressed size of the target body in bytes",
			},
			labels,
		),
		Transactions: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "loadsize_payload_transactions",
				Help: "Number of transactions in the target body",
			},
			labels,
		),
		Spans: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "loadsize_payload_spans",
				Help: "Number of spans across all transactions in the target body",
			},
			labels,
		),
		TargetErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loadsize_target_errors_total",
				Help: "Targets whose body could not be analyzed",
			},
			[]string{"kind"},
		),
		registry: registry,
	}

	registry.MustRegister(m.RawBytes)
	registry.MustRegister(m.GzipBytes)
	registry.MustRegister(m.Transactions)
	registry.MustRegister(m.Spans)
	registry.MustRegister(m.TargetErrors)

	return m
}

// PayloadSample is what gets recorded for one analyzed target.
type PayloadSample struct {
	Index          int
	URL            string
	RawSize        int
	CompressedSize int
	Transactions   int
	Spans          int
}

// RecordPayload sets the gauges for one target
func (m *Metrics) RecordPayload(s PayloadSample) {
	idx := strconv.Itoa(s.Index)
	m.RawBytes.WithLabelValues(idx, s.URL).Set(float64(s.RawSize))
	m.GzipBytes.WithLabelValues(idx, s.URL).Set(float64(s.CompressedSize))
	m.Transactions.WithLabelValues(idx, s.URL).Set(float64(s.Transactions))
	m.Spans.WithLabelValues(idx, s.URL).Set(float64(s.Spans))
}

// RecordError counts a failed target by error kind
func (m *Metrics) RecordError(kind string) {
	m.TargetErrors.WithLabelValues(kind).Inc()
}

// WriteTextfile writes all metrics in the node exporter textfile format
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	return nil
}
