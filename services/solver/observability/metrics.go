// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides metrics and instrumentation for the solver.
//
// # Description
//
// This package implements Prometheus metrics for monitoring solve
// operations. Metrics include:
//   - Solve counters (by outcome status)
//   - Step counters (by deduction strategy)
//   - Latency and pass-count histograms
//   - Active solve gauge
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "aleutian"

// Subsystem for solver metrics
const solverSubsystem = "solver"

// SolverMetrics holds all Prometheus metrics for solve operations.
//
// # Description
//
// Provides counters, histograms, and gauges for monitoring deduction
// throughput and outcomes. Initialize once at startup via InitMetrics().
//
// # Fields
//
//   - SolvesTotal: Counter of completed solves by outcome status
//   - StepsTotal: Counter of deduced steps by strategy name
//   - SolveDurationSeconds: Histogram of solve wall time by status
//   - PassesPerSolve: Histogram of catalog passes per solve
//   - StuckCellsRemaining: Histogram of unfilled cells when a solve gets stuck
//   - ActiveSolves: Gauge of solves currently in flight
//
// # Thread Safety
//
// All operations are thread-safe.
type SolverMetrics struct {
	// SolvesTotal counts completed solves by outcome.
	// Labels: status (solved, stuck, invalid, error)
	SolvesTotal *prometheus.CounterVec

	// StepsTotal counts deduced steps by technique.
	// Labels: strategy (open-single-in-region, x-wing-in-rows, etc.)
	StepsTotal *prometheus.CounterVec

	// SolveDurationSeconds measures solve wall time.
	// Labels: status (solved, stuck, invalid, error)
	SolveDurationSeconds *prometheus.HistogramVec

	// PassesPerSolve measures how many catalog passes a solve took.
	PassesPerSolve prometheus.Histogram

	// StuckCellsRemaining measures unfilled cells when deduction stalls.
	StuckCellsRemaining prometheus.Histogram

	// ActiveSolves tracks solves currently in flight.
	ActiveSolves prometheus.Gauge
}

// DefaultMetrics is the singleton instance of SolverMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *SolverMetrics

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics. Should be called once
// at application startup, after the Prometheus registry is available.
//
// # Outputs
//
//   - *SolverMetrics: The initialized metrics instance.
//
// # Examples
//
//	func main() {
//	    observability.InitMetrics()
//	    // ... start server ...
//	}
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *SolverMetrics {
	DefaultMetrics = &SolverMetrics{
		SolvesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: solverSubsystem,
				Name:      "solves_total",
				Help:      "Total number of completed solves by outcome status",
			},
			[]string{"status"},
		),

		StepsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: solverSubsystem,
				Name:      "steps_total",
				Help:      "Total deduced steps by strategy name",
			},
			[]string{"strategy"},
		),

		SolveDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: solverSubsystem,
				Name:      "solve_duration_seconds",
				Help:      "Solve wall time in seconds by outcome status",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"status"},
		),

		PassesPerSolve: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: solverSubsystem,
				Name:      "passes_per_solve",
				Help:      "Catalog passes executed per solve",
				Buckets:   []float64{1, 2, 5, 10, 15, 20, 30, 45, 60},
			},
		),

		StuckCellsRemaining: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: solverSubsystem,
				Name:      "stuck_cells_remaining",
				Help:      "Unfilled cells remaining when deduction stalls",
				Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 64},
			},
		),

		ActiveSolves: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: solverSubsystem,
				Name:      "active_solves",
				Help:      "Number of solves currently in flight",
			},
		),
	}

	return DefaultMetrics
}

// =============================================================================
// Status Labels
// =============================================================================

// SolveStatus values label solve outcomes for metrics.
type SolveStatus string

const (
	// SolveStatusSolved indicates every cell was filled.
	SolveStatusSolved SolveStatus = "solved"

	// SolveStatusStuck indicates deduction stalled before completion.
	SolveStatusStuck SolveStatus = "stuck"

	// SolveStatusInvalid indicates the starting grid violated constraints.
	SolveStatusInvalid SolveStatus = "invalid"

	// SolveStatusError indicates the solve failed (timeout or cancellation).
	SolveStatusError SolveStatus = "error"
)

// =============================================================================
// Helper Methods
// =============================================================================

// RecordSolve records a completed solve.
//
// # Inputs
//
//   - status: The solve outcome.
//   - seconds: Solve wall time in seconds.
//   - passes: Number of catalog passes executed.
func (m *SolverMetrics) RecordSolve(status SolveStatus, seconds float64, passes int) {
	m.SolvesTotal.WithLabelValues(string(status)).Inc()
	m.SolveDurationSeconds.WithLabelValues(string(status)).Observe(seconds)
	m.PassesPerSolve.Observe(float64(passes))
}

// RecordStep records one deduced step.
//
// # Inputs
//
//   - strategy: The technique name that produced the step.
func (m *SolverMetrics) RecordStep(strategy string) {
	m.StepsTotal.WithLabelValues(strategy).Inc()
}

// RecordStuckCells records how many cells were left unfilled when a
// solve stalled.
//
// # Inputs
//
//   - cells: Count of unfilled cells.
func (m *SolverMetrics) RecordStuckCells(cells int) {
	m.StuckCellsRemaining.Observe(float64(cells))
}

// SolveStarted increments the active solves gauge.
func (m *SolverMetrics) SolveStarted() {
	m.ActiveSolves.Inc()
}

// SolveEnded decrements the active solves gauge.
func (m *SolverMetrics) SolveEnded() {
	m.ActiveSolves.Dec()
}
