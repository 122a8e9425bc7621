// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package engine drives the deduction strategies over a grid until the
// puzzle is solved or no technique finds a step. The engine is the only
// stateful loop in the solver: it holds the current view, asks the
// strategy catalog for the next step in priority order, applies the
// first hit, and restarts the pass, since any fill can unlock a simpler
// technique.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/AleutianSudoku/services/solver/grid"
	"github.com/AleutianAI/AleutianSudoku/services/solver/strategy"
)

// Status classifies the outcome of a solve.
type Status int

const (
	// StatusInvalid indicates the starting grid already violated house
	// constraints. No passes are run.
	StatusInvalid Status = iota

	// StatusStuck indicates a full pass over every strategy found no
	// step before the grid was complete. Stuck is a normal outcome,
	// not an error: the puzzle needs techniques the catalog does not
	// implement.
	StatusStuck

	// StatusSolved indicates every cell holds a digit.
	StatusSolved
)

// String returns the string representation of the Status.
func (s Status) String() string {
	switch s {
	case StatusInvalid:
		return "invalid"
	case StatusStuck:
		return "stuck"
	case StatusSolved:
		return "solved"
	default:
		return "unknown"
	}
}

// Result is the outcome of a solve: the final grid, the ordered trace
// of deduced steps, and the number of catalog passes executed.
type Result struct {
	Status Status          `json:"status"`
	Grid   grid.Grid       `json:"-"`
	Steps  []strategy.Step `json:"steps"`
	Passes int             `json:"passes"`
}

// Options configure an Engine.
type Options struct {
	// Parallelism is the number of workers evaluating finders within a
	// pass. Values below 2 select the serial path. Results are
	// identical either way; the parallel path only trades CPU for
	// latency on wide passes.
	Parallelism int

	// Logger receives per-step debug logging. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// StepHook, when set, is called synchronously after each applied
	// step with the 1-based pass number. Solve blocks on the hook, so
	// it must return quickly.
	StepHook func(pass int, step strategy.Step)
}

// DefaultOptions returns the serial configuration.
func DefaultOptions() Options {
	return Options{
		Parallelism: 1,
		Logger:      slog.Default(),
	}
}

// Option mutates Options.
type Option func(*Options)

// WithParallelism sets the number of finder-evaluation workers.
func WithParallelism(n int) Option {
	return func(o *Options) {
		o.Parallelism = n
	}
}

// WithLogger sets the step logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithStepHook sets an observer invoked after every applied step.
func WithStepHook(fn func(pass int, step strategy.Step)) Option {
	return func(o *Options) {
		o.StepHook = fn
	}
}

// Engine runs the strategy catalog to a fixed point.
type Engine struct {
	opts Options
}

// maxPasses bounds the solve loop. Every applied step fills exactly one
// cell, so a solve can never need more than NumCells passes; reaching
// the bound means the catalog stopped making progress.
const maxPasses = grid.NumCells

// New builds an Engine.
func New(opts ...Option) *Engine {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Parallelism < 1 {
		o.Parallelism = 1
	}
	return &Engine{opts: o}
}

// Solve runs deduction passes until the grid is complete or stuck.
//
// Description:
//
//	An invalid starting grid short-circuits to StatusInvalid. Each
//	pass walks the strategy catalog in priority order and applies the
//	first StepResult; the resulting view (including any candidate
//	refinements the winning strategy proved) becomes the input of the
//	next pass. A pass with no hit ends the solve as StatusStuck, as
//	does exceeding the maxPasses bound. Deduction is deterministic, so
//	two solves of the same grid produce identical traces.
//
// Inputs:
//   - ctx: cancellation is checked between passes.
//   - start: the starting grid.
//
// Outputs:
//   - Result: final grid, ordered step trace, pass count, and status.
//   - error: non-nil only when ctx is cancelled mid-solve.
//
// Thread Safety: safe for concurrent use; all solve state is local.
func (e *Engine) Solve(ctx context.Context, start grid.Grid) (Result, error) {
	ctx, span := otel.Tracer("solver").Start(ctx, "engine.Solve",
		trace.WithAttributes(
			attribute.Int("empty_cells", len(start.EmptyPositions())),
			attribute.Int("parallelism", e.opts.Parallelism),
		),
	)
	defer span.End()

	if !start.IsValid() {
		span.SetStatus(codes.Ok, "grid invalid at start")
		return Result{Status: StatusInvalid, Grid: start}, nil
	}

	view := strategy.NewGridView(start)
	var steps []strategy.Step
	passes := 0

	for !view.Grid().IsComplete() && passes < maxPasses {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "cancelled")
			return Result{}, fmt.Errorf("solve cancelled after %d passes: %w", passes, err)
		}

		passes++
		result, ok := e.findNextStep(ctx, view)
		if !ok {
			span.SetAttributes(
				attribute.Int("passes", passes),
				attribute.Int("steps", len(steps)),
				attribute.String("status", StatusStuck.String()),
			)
			span.SetStatus(codes.Ok, "stuck")
			return Result{Status: StatusStuck, Grid: view.Grid(), Steps: steps, Passes: passes}, nil
		}

		steps = append(steps, result.Step)
		view = result.Result
		e.opts.Logger.Debug("step applied",
			slog.Int("pass", passes),
			slog.String("strategy", result.Step.Strategy),
			slog.String("position", result.Step.Position.String()),
			slog.String("digit", result.Step.Digit.String()))
		if e.opts.StepHook != nil {
			e.opts.StepHook(passes, result.Step)
		}
	}

	status := StatusSolved
	if !view.Grid().IsComplete() {
		// Only the pass bound exits the loop with cells still empty.
		status = StatusStuck
	}
	span.SetAttributes(
		attribute.Int("passes", passes),
		attribute.Int("steps", len(steps)),
		attribute.String("status", status.String()),
	)
	span.SetStatus(codes.Ok, status.String())
	return Result{Status: status, Grid: view.Grid(), Steps: steps, Passes: passes}, nil
}

// findNextStep evaluates one catalog pass and returns the
// highest-priority hit.
func (e *Engine) findNextStep(ctx context.Context, view strategy.GridView) (strategy.StepResult, bool) {
	finders := strategy.Catalog(view)
	if e.opts.Parallelism > 1 {
		return findFirstParallel(ctx, finders, e.opts.Parallelism)
	}
	for _, f := range finders {
		if result, ok := f.FindNextStepResult(); ok {
			return result, true
		}
	}
	return strategy.StepResult{}, false
}
