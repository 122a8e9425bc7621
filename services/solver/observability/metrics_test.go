// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// ============================================================================
// Test Helper: Create isolated metrics for testing
// ============================================================================

// newTestMetrics creates a SolverMetrics instance with a custom registry.
// This avoids conflicts with the global Prometheus registry and allows
// parallel testing.
func newTestMetrics(t *testing.T) *SolverMetrics {
	t.Helper()

	reg := prometheus.NewRegistry()

	solvesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: solverSubsystem,
			Name:      "solves_total",
			Help:      "Total number of completed solves by outcome status",
		},
		[]string{"status"},
	)

	stepsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: solverSubsystem,
			Name:      "steps_total",
			Help:      "Total deduced steps by strategy name",
		},
		[]string{"strategy"},
	)

	solveDurationSeconds := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: solverSubsystem,
			Name:      "solve_duration_seconds",
			Help:      "Solve wall time in seconds by outcome status",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
		[]string{"status"},
	)

	passesPerSolve := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: solverSubsystem,
			Name:      "passes_per_solve",
			Help:      "Catalog passes executed per solve",
			Buckets:   []float64{1, 2, 5, 10, 15, 20, 30, 45, 60},
		},
	)

	stuckCellsRemaining := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: solverSubsystem,
			Name:      "stuck_cells_remaining",
			Help:      "Unfilled cells remaining when deduction stalls",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 64},
		},
	)

	activeSolves := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: solverSubsystem,
			Name:      "active_solves",
			Help:      "Number of solves currently in flight",
		},
	)

	// Register all metrics with the test registry
	reg.MustRegister(
		solvesTotal,
		stepsTotal,
		solveDurationSeconds,
		passesPerSolve,
		stuckCellsRemaining,
		activeSolves,
	)

	return &SolverMetrics{
		SolvesTotal:          solvesTotal,
		StepsTotal:           stepsTotal,
		SolveDurationSeconds: solveDurationSeconds,
		PassesPerSolve:       passesPerSolve,
		StuckCellsRemaining:  stuckCellsRemaining,
		ActiveSolves:         activeSolves,
	}
}

// ============================================================================
// InitMetrics Tests
// ============================================================================

// Note: InitMetrics uses promauto which registers with the default Prometheus
// registry. This test must only run once per test binary execution since
// duplicate registration will panic.
var initMetricsTestOnce bool

func TestInitMetrics(t *testing.T) {
	if initMetricsTestOnce {
		t.Skip("InitMetrics can only be called once per test run (promauto restriction)")
	}
	initMetricsTestOnce = true

	result := InitMetrics()

	if result == nil {
		t.Fatal("InitMetrics() returned nil")
	}
	if DefaultMetrics == nil {
		t.Fatal("DefaultMetrics should be set after InitMetrics()")
	}
	if DefaultMetrics != result {
		t.Error("DefaultMetrics should equal the returned value")
	}

	if result.SolvesTotal == nil {
		t.Error("SolvesTotal should not be nil")
	}
	if result.StepsTotal == nil {
		t.Error("StepsTotal should not be nil")
	}
	if result.SolveDurationSeconds == nil {
		t.Error("SolveDurationSeconds should not be nil")
	}
	if result.PassesPerSolve == nil {
		t.Error("PassesPerSolve should not be nil")
	}
	if result.StuckCellsRemaining == nil {
		t.Error("StuckCellsRemaining should not be nil")
	}
	if result.ActiveSolves == nil {
		t.Error("ActiveSolves should not be nil")
	}

	// Verify metrics can be used
	result.RecordSolve(SolveStatusSolved, 0.02, 12)
	result.RecordStep("open-single-in-region")
	result.RecordStuckCells(40)
	result.SolveStarted()
	result.SolveEnded()
}

// ============================================================================
// Constants Tests
// ============================================================================

func TestConstants(t *testing.T) {
	if metricsNamespace != "aleutian" {
		t.Errorf("metricsNamespace = %q, want %q", metricsNamespace, "aleutian")
	}
	if solverSubsystem != "solver" {
		t.Errorf("solverSubsystem = %q, want %q", solverSubsystem, "solver")
	}
}

func TestSolveStatusConstants(t *testing.T) {
	tests := []struct {
		status SolveStatus
		want   string
	}{
		{SolveStatusSolved, "solved"},
		{SolveStatusStuck, "stuck"},
		{SolveStatusInvalid, "invalid"},
		{SolveStatusError, "error"},
	}

	for _, tt := range tests {
		if string(tt.status) != tt.want {
			t.Errorf("SolveStatus = %q, want %q", tt.status, tt.want)
		}
	}
}

// ============================================================================
// RecordSolve Tests
// ============================================================================

func TestSolverMetrics_RecordSolve(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordSolve(SolveStatusSolved, 0.01, 8)
	m.RecordSolve(SolveStatusSolved, 0.05, 20)
	m.RecordSolve(SolveStatusStuck, 0.002, 3)

	solvedVal := testutil.ToFloat64(m.SolvesTotal.WithLabelValues("solved"))
	if solvedVal != 2 {
		t.Errorf("SolvesTotal[solved] = %f, want 2", solvedVal)
	}

	stuckVal := testutil.ToFloat64(m.SolvesTotal.WithLabelValues("stuck"))
	if stuckVal != 1 {
		t.Errorf("SolvesTotal[stuck] = %f, want 1", stuckVal)
	}

	// Histograms: verify the metric collects without panicking
	count := testutil.CollectAndCount(m.SolveDurationSeconds)
	if count == 0 {
		t.Error("Expected at least one duration series to be collected")
	}
}

// ============================================================================
// RecordStep Tests
// ============================================================================

func TestSolverMetrics_RecordStep(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordStep("open-single-in-region")
	m.RecordStep("open-single-in-region")
	m.RecordStep("x-wing-in-rows")

	openVal := testutil.ToFloat64(m.StepsTotal.WithLabelValues("open-single-in-region"))
	if openVal != 2 {
		t.Errorf("StepsTotal[open-single-in-region] = %f, want 2", openVal)
	}

	xwingVal := testutil.ToFloat64(m.StepsTotal.WithLabelValues("x-wing-in-rows"))
	if xwingVal != 1 {
		t.Errorf("StepsTotal[x-wing-in-rows] = %f, want 1", xwingVal)
	}
}

// ============================================================================
// StuckCells Tests
// ============================================================================

func TestSolverMetrics_RecordStuckCells(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordStuckCells(40)
	m.RecordStuckCells(3)

	count := testutil.CollectAndCount(m.StuckCellsRemaining)
	if count == 0 {
		t.Error("Expected stuck cells histogram to be collected")
	}
}

// ============================================================================
// ActiveSolves Tests
// ============================================================================

func TestSolverMetrics_SolveLifecycle(t *testing.T) {
	m := newTestMetrics(t)

	m.SolveStarted()
	m.SolveStarted()
	m.SolveStarted()

	val := testutil.ToFloat64(m.ActiveSolves)
	if val != 3 {
		t.Errorf("After 3 starts: ActiveSolves = %f, want 3", val)
	}

	m.SolveEnded()

	val = testutil.ToFloat64(m.ActiveSolves)
	if val != 2 {
		t.Errorf("After 1 end: ActiveSolves = %f, want 2", val)
	}

	m.SolveEnded()
	m.SolveEnded()

	val = testutil.ToFloat64(m.ActiveSolves)
	if val != 0 {
		t.Errorf("After all ends: ActiveSolves = %f, want 0", val)
	}
}

// ============================================================================
// Integration / Scenario Tests
// ============================================================================

func TestSolverMetrics_CompleteSolveScenario(t *testing.T) {
	m := newTestMetrics(t)

	// Simulate a complete successful solve
	m.SolveStarted()
	m.RecordStep("open-single-in-region")
	m.RecordStep("visual-elimination-in-row")
	m.RecordStep("naked-pair-in-column")
	m.RecordSolve(SolveStatusSolved, 0.015, 3)
	m.SolveEnded()

	activeVal := testutil.ToFloat64(m.ActiveSolves)
	if activeVal != 0 {
		t.Errorf("ActiveSolves should be 0 after solve ended, got %f", activeVal)
	}

	solvesVal := testutil.ToFloat64(m.SolvesTotal.WithLabelValues("solved"))
	if solvesVal != 1 {
		t.Errorf("SolvesTotal[solved] should be 1, got %f", solvesVal)
	}
}

func TestSolverMetrics_StuckSolveScenario(t *testing.T) {
	m := newTestMetrics(t)

	// Simulate a solve that stalls
	m.SolveStarted()
	m.RecordStep("open-single-in-region")
	m.RecordStuckCells(42)
	m.RecordSolve(SolveStatusStuck, 0.004, 2)
	m.SolveEnded()

	stuckVal := testutil.ToFloat64(m.SolvesTotal.WithLabelValues("stuck"))
	if stuckVal != 1 {
		t.Errorf("SolvesTotal[stuck] should be 1, got %f", stuckVal)
	}
}

// ============================================================================
// Concurrent Safety Tests
// ============================================================================

func TestSolverMetrics_ConcurrentSafety(t *testing.T) {
	m := newTestMetrics(t)

	done := make(chan bool, 60)

	for i := 0; i < 20; i++ {
		go func() {
			m.RecordSolve(SolveStatusSolved, 0.01, 5)
			done <- true
		}()
	}

	for i := 0; i < 20; i++ {
		go func() {
			m.RecordStep("visual-elimination-in-column")
			done <- true
		}()
	}

	for i := 0; i < 20; i++ {
		go func() {
			m.SolveStarted()
			m.SolveEnded()
			done <- true
		}()
	}

	for i := 0; i < 60; i++ {
		<-done
	}

	solvesVal := testutil.ToFloat64(m.SolvesTotal.WithLabelValues("solved"))
	if solvesVal != 20 {
		t.Errorf("SolvesTotal[solved] = %f, want 20", solvesVal)
	}

	stepsVal := testutil.ToFloat64(m.StepsTotal.WithLabelValues("visual-elimination-in-column"))
	if stepsVal != 20 {
		t.Errorf("StepsTotal[visual-elimination-in-column] = %f, want 20", stepsVal)
	}
}
