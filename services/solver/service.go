// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package solver exposes the deduction engine as an HTTP service:
// solve, hint, and validate operations over JSON, a BadgerDB-backed
// puzzle library, and websocket streaming of steps as they are found.
package solver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/AleutianSudoku/pkg/validation"
	"github.com/AleutianAI/AleutianSudoku/services/solver/engine"
	"github.com/AleutianAI/AleutianSudoku/services/solver/grid"
	"github.com/AleutianAI/AleutianSudoku/services/solver/observability"
	"github.com/AleutianAI/AleutianSudoku/services/solver/storage/badger"
	"github.com/AleutianAI/AleutianSudoku/services/solver/strategy"
	"github.com/AleutianAI/AleutianSudoku/services/solver/telemetry"
)

// tracerName is the OTel tracer shared by the solver service.
const tracerName = "solver"

// ServiceConfig holds the tunable limits of the solver service.
type ServiceConfig struct {
	// MaxSolveDuration bounds a single solve. Solves that exceed it
	// fail with ErrSolveTimeout.
	// Default: 10s
	MaxSolveDuration time.Duration

	// MaxParallelism caps per-request engine worker counts. Requests
	// that do not ask for workers run serially.
	// Default: 8
	MaxParallelism int

	// DataDir is the BadgerDB directory for the puzzle store. Empty
	// selects an in-memory store. Read by the server entrypoint when
	// opening the store.
	DataDir string

	// StorePuzzleTraces persists the solution grid and step trace back
	// to the store after a successful SolvePuzzle.
	// Default: true
	StorePuzzleTraces bool
}

// DefaultServiceConfig returns sensible defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxSolveDuration:  10 * time.Second,
		MaxParallelism:    8,
		StorePuzzleTraces: true,
	}
}

// Service runs deductive solves and manages the puzzle library.
//
// Thread Safety:
//
//	Service is safe for concurrent use. Solve state is per-call and the
//	puzzle store serializes writes through Badger transactions.
type Service struct {
	config  ServiceConfig
	engine  *engine.Engine
	store   *badger.PuzzleStore
	metrics *observability.SolverMetrics
}

// NewService creates a solver service. The puzzle store and metrics are
// optional and attached with WithStore / WithMetrics.
func NewService(config ServiceConfig) *Service {
	if config.MaxSolveDuration <= 0 {
		config.MaxSolveDuration = 10 * time.Second
	}
	if config.MaxParallelism < 1 {
		config.MaxParallelism = 1
	}
	return &Service{
		config: config,
		engine: engine.New(),
	}
}

// WithStore attaches the puzzle store. Puzzle operations fail with
// ErrStoreDisabled until a store is attached.
func (s *Service) WithStore(store *badger.PuzzleStore) *Service {
	s.store = store
	return s
}

// WithMetrics attaches solve metrics. Without metrics the service still
// works; it just records nothing.
func (s *Service) WithMetrics(m *observability.SolverMetrics) *Service {
	s.metrics = m
	return s
}

// Config returns the service configuration.
func (s *Service) Config() ServiceConfig {
	return s.config
}

// Solve runs the full deduction loop on a grid string.
//
// Description:
//
//	Parses the grid, runs catalog passes until solved or stuck, and
//	returns the final grid with the ordered step trace. The solve is
//	bounded by MaxSolveDuration.
//
// Inputs:
//
//	ctx - Request context; cancellation stops the solve between passes.
//	gridStr - 81-character row-major grid, '0' or '.' for empty cells.
//	parallelism - Worker count override; 0 selects the serial default.
//
// Outputs:
//
//	*SolveResponse - Final grid, status, trace, and timing.
//	error - grid.ErrMalformedGrid, ErrSolveTimeout, or a context error.
func (s *Service) Solve(ctx context.Context, gridStr string, parallelism int) (*SolveResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "Service.Solve")
	defer span.End()

	return s.runSolve(ctx, span, gridStr, s.engineFor(parallelism))
}

// StreamSolve is Solve with a per-step observer.
//
// Description:
//
//	Identical deduction to Solve, but onStep fires synchronously after
//	every applied step with the 1-based pass number. Used by the
//	websocket handler to stream steps as they are found.
//
// Inputs:
//
//	ctx - Request context.
//	gridStr - 81-character grid string.
//	parallelism - Worker count override; 0 selects serial.
//	onStep - Step observer; fires once per applied step.
//
// Outputs:
//
//	*SolveResponse - Same final result Solve would return.
//	error - Same failure modes as Solve.
func (s *Service) StreamSolve(ctx context.Context, gridStr string, parallelism int, onStep func(pass int, step strategy.Step)) (*SolveResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "Service.StreamSolve")
	defer span.End()

	eng := engine.New(
		engine.WithParallelism(s.clampParallelism(parallelism)),
		engine.WithStepHook(onStep),
	)
	return s.runSolve(ctx, span, gridStr, eng)
}

// Hint returns the first step the catalog finds, without applying it.
//
// Description:
//
//	Walks the strategy catalog once in priority order. The returned
//	step is exactly the first step a full Solve would take on this
//	grid. Invalid grids report Valid=false with no step; grids where
//	no technique fires report Found=false.
//
// Inputs:
//
//	ctx - Request context (reserved; the single pass is not cancellable).
//	gridStr - 81-character grid string.
//
// Outputs:
//
//	*HintResponse - Validity, whether a step was found, and the step.
//	error - grid.ErrMalformedGrid when the string does not parse.
func (s *Service) Hint(ctx context.Context, gridStr string) (*HintResponse, error) {
	_, span := telemetry.StartSpan(ctx, tracerName, "Service.Hint")
	defer span.End()

	g, err := grid.Parse(gridStr)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if !g.IsValid() {
		telemetry.SetSpanOK(span)
		return &HintResponse{Valid: false}, nil
	}

	view := strategy.NewGridView(g)
	for _, finder := range strategy.Catalog(view) {
		result, ok := finder.FindNextStepResult()
		if !ok {
			continue
		}
		step := newStepInfo(result.Step)
		telemetry.SetSpanAttributes(span, attribute.String("strategy", step.Strategy))
		telemetry.SetSpanOK(span)
		return &HintResponse{Valid: true, Found: true, Step: &step}, nil
	}

	telemetry.SetSpanOK(span)
	return &HintResponse{Valid: true, Found: false}, nil
}

// Validate reports validity and completeness of a grid string.
//
// Outputs:
//
//	*ValidateResponse - Valid, Complete, and the empty cell count.
//	error - grid.ErrMalformedGrid when the string does not parse.
func (s *Service) Validate(ctx context.Context, gridStr string) (*ValidateResponse, error) {
	_, span := telemetry.StartSpan(ctx, tracerName, "Service.Validate")
	defer span.End()

	g, err := grid.Parse(gridStr)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetSpanOK(span)
	return &ValidateResponse{
		Valid:      g.IsValid(),
		Complete:   g.IsComplete(),
		EmptyCells: len(g.EmptyPositions()),
	}, nil
}

// SavePuzzle stores a new puzzle and returns the stored record.
//
// Inputs:
//
//	ctx - Request context.
//	name - Display name; trimmed and validated.
//	gridStr - 81-character grid string; stored in compact form.
//
// Outputs:
//
//	*badger.StoredPuzzle - The record, with a generated UUID.
//	error - ErrStoreDisabled, grid.ErrMalformedGrid, or a store error.
func (s *Service) SavePuzzle(ctx context.Context, name, gridStr string) (*badger.StoredPuzzle, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "Service.SavePuzzle")
	defer span.End()

	if s.store == nil {
		return nil, ErrStoreDisabled
	}

	name, err := validation.SanitizePuzzleName(name)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	g, err := grid.Parse(gridStr)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	p := &badger.StoredPuzzle{
		ID:             uuid.NewString(),
		Name:           name,
		Grid:           g.Compact(),
		CreatedAtMilli: time.Now().UnixMilli(),
	}
	if err := s.store.Save(ctx, p); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetSpanOK(span)
	return p, nil
}

// GetPuzzle loads a stored puzzle by ID.
func (s *Service) GetPuzzle(ctx context.Context, id string) (*badger.StoredPuzzle, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "Service.GetPuzzle")
	defer span.End()

	if s.store == nil {
		return nil, ErrStoreDisabled
	}

	p, err := s.store.Get(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetSpanOK(span)
	return p, nil
}

// FindPuzzleByName loads a stored puzzle by display name.
func (s *Service) FindPuzzleByName(ctx context.Context, name string) (*badger.StoredPuzzle, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "Service.FindPuzzleByName")
	defer span.End()

	if s.store == nil {
		return nil, ErrStoreDisabled
	}

	p, err := s.store.FindByName(ctx, name)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetSpanOK(span)
	return p, nil
}

// ListPuzzles returns stored puzzle metadata, newest first.
func (s *Service) ListPuzzles(ctx context.Context) ([]badger.PuzzleMeta, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "Service.ListPuzzles")
	defer span.End()

	if s.store == nil {
		return nil, ErrStoreDisabled
	}

	metas, err := s.store.List(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetSpanOK(span)
	return metas, nil
}

// DeletePuzzle removes a stored puzzle by ID.
func (s *Service) DeletePuzzle(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "Service.DeletePuzzle")
	defer span.End()

	if s.store == nil {
		return ErrStoreDisabled
	}

	if err := s.store.Delete(ctx, id); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	telemetry.SetSpanOK(span)
	return nil
}

// SolvePuzzle loads a stored puzzle, solves it, and optionally persists
// the solution and trace.
//
// Description:
//
//	Runs the same deduction loop as Solve on the stored grid. When the
//	solve completes fully and StorePuzzleTraces is set, the solution
//	grid and step trace are written back to the record. A failed
//	write-back is logged but does not fail the solve.
//
// Inputs:
//
//	ctx - Request context.
//	id - Stored puzzle ID.
//	parallelism - Worker count override; 0 selects serial.
//
// Outputs:
//
//	*SolvePuzzleResponse - Puzzle ID plus the solve outcome.
//	error - ErrStoreDisabled, badger.ErrPuzzleNotFound, ErrSolveTimeout,
//	        or a store error.
func (s *Service) SolvePuzzle(ctx context.Context, id string, parallelism int) (*SolvePuzzleResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "Service.SolvePuzzle",
		trace.WithAttributes(attribute.String("puzzle_id", id)),
	)
	defer span.End()

	if s.store == nil {
		return nil, ErrStoreDisabled
	}

	p, err := s.store.Get(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	resp, err := s.runSolve(ctx, span, p.Grid, s.engineFor(parallelism))
	if err != nil {
		return nil, err
	}

	if resp.Status == engine.StatusSolved.String() && s.config.StorePuzzleTraces {
		solution := resp.Grid
		p.Solution = &solution
		p.Steps = storedSteps(resp.Steps)
		if err := s.store.Save(ctx, p); err != nil {
			telemetry.LoggerWithPuzzle(ctx, slog.Default(), id).Warn("failed to persist solve trace",
				slog.String("error", err.Error()))
		}
	}

	return &SolvePuzzleResponse{PuzzleID: id, SolveResponse: *resp}, nil
}

// runSolve is the shared solve path: parse, bounded engine run, metrics,
// and response assembly. Errors are recorded on the caller's span.
func (s *Service) runSolve(ctx context.Context, span trace.Span, gridStr string, eng *engine.Engine) (*SolveResponse, error) {
	g, err := grid.Parse(gridStr)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SolveStarted()
		defer s.metrics.SolveEnded()
	}

	solveCtx, cancel := context.WithTimeout(ctx, s.config.MaxSolveDuration)
	defer cancel()

	start := time.Now()
	result, err := eng.Solve(solveCtx, g)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s: %v", ErrSolveTimeout, s.config.MaxSolveDuration, err)
		}
		telemetry.RecordError(span, err)
		if s.metrics != nil {
			s.metrics.RecordSolve(observability.SolveStatusError, elapsed.Seconds(), result.Passes)
		}
		return nil, err
	}

	resp := &SolveResponse{
		Status:      result.Status.String(),
		Grid:        result.Grid.Compact(),
		Steps:       newStepInfos(result.Steps),
		Passes:      result.Passes,
		EmptyCells:  len(result.Grid.EmptyPositions()),
		SolveTimeMs: elapsed.Milliseconds(),
	}

	if s.metrics != nil {
		s.metrics.RecordSolve(solveStatusLabel(result.Status), elapsed.Seconds(), result.Passes)
		for _, step := range result.Steps {
			s.metrics.RecordStep(step.Strategy)
		}
		if result.Status == engine.StatusStuck {
			s.metrics.RecordStuckCells(resp.EmptyCells)
		}
	}

	telemetry.SetSpanAttributes(span,
		attribute.String("status", resp.Status),
		attribute.Int("steps", len(resp.Steps)),
		attribute.Int("passes", resp.Passes),
	)
	telemetry.SetSpanOK(span)
	return resp, nil
}

// engineFor returns the shared serial engine unless the request asked
// for workers, in which case a per-request engine is built with the
// clamped count.
func (s *Service) engineFor(parallelism int) *engine.Engine {
	p := s.clampParallelism(parallelism)
	if p <= 1 {
		return s.engine
	}
	return engine.New(engine.WithParallelism(p))
}

// clampParallelism bounds a requested worker count to [1, MaxParallelism].
func (s *Service) clampParallelism(n int) int {
	if n < 1 {
		return 1
	}
	if n > s.config.MaxParallelism {
		return s.config.MaxParallelism
	}
	return n
}

// solveStatusLabel maps an engine status to its metrics label.
func solveStatusLabel(st engine.Status) observability.SolveStatus {
	switch st {
	case engine.StatusSolved:
		return observability.SolveStatusSolved
	case engine.StatusStuck:
		return observability.SolveStatusStuck
	default:
		return observability.SolveStatusInvalid
	}
}

// storedSteps converts a response trace to store records.
func storedSteps(infos []StepInfo) []badger.StoredStep {
	steps := make([]badger.StoredStep, 0, len(infos))
	for _, in := range infos {
		steps = append(steps, badger.StoredStep{
			Row:       in.Row,
			Column:    in.Column,
			Digit:     in.Digit,
			Strategy:  in.Strategy,
			Rationale: in.Rationale,
		})
	}
	return steps
}
