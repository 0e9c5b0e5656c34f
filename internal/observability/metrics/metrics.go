package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricPrefix = "fuelswitch_"

var (
	registerOnce sync.Once

	runsTotal      prometheus.Counter
	runLatency     prometheus.Histogram
	cellsProcessed prometheus.Counter
	rowsEmitted    prometheus.Counter
	cellErrors     *prometheus.CounterVec

	exportTotal *prometheus.CounterVec
)

// Init registers the decomposition metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		runsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "runs_total",
			Help: "Total decomposition runs",
		})
		runLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    metricPrefix + "run_latency_seconds",
			Help:    "Decomposition run latency in seconds",
			Buckets: prometheus.DefBuckets,
		})
		cellsProcessed = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "cells_processed_total",
			Help: "Total cells decomposed successfully",
		})
		rowsEmitted = prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricPrefix + "rows_emitted_total",
			Help: "Total output rows emitted",
		})
		cellErrors = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "cell_errors_total",
				Help: "Total cell-scoped errors by reason",
			},
			[]string{"reason"},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "export_total",
				Help: "Total exports by format and result",
			},
			[]string{"format", "result"},
		)

		prometheus.MustRegister(
			runsTotal,
			runLatency,
			cellsProcessed,
			rowsEmitted,
			cellErrors,
			exportTotal,
		)
	})
}

// ObserveRun records one completed run.
func ObserveRun(cells, rows int, duration time.Duration) {
	if runsTotal != nil {
		runsTotal.Inc()
	}
	if runLatency != nil {
		runLatency.Observe(duration.Seconds())
	}
	if cellsProcessed != nil {
		cellsProcessed.Add(float64(cells))
	}
	if rowsEmitted != nil {
		rowsEmitted.Add(float64(rows))
	}
}

// IncCellError increments the cell error counter.
func IncCellError(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	if cellErrors != nil {
		cellErrors.WithLabelValues(reason).Inc()
	}
}

// IncExport increments the export counter.
func IncExport(format, result string) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = "success"
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
}

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)
