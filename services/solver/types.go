// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package solver

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/AleutianSudoku/pkg/validation"
	"github.com/AleutianAI/AleutianSudoku/services/solver/storage/badger"
	"github.com/AleutianAI/AleutianSudoku/services/solver/strategy"
)

// Custom binding rules are registered against gin's binding engine so
// ShouldBindJSON rejects malformed grid and name fields before any
// handler logic runs.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("sudokugrid", validateSudokuGrid)
		_ = v.RegisterValidation("puzzlename", validatePuzzleName)
	}
}

// validateSudokuGrid accepts an 81-character row-major grid string.
func validateSudokuGrid(fl validator.FieldLevel) bool {
	return validation.ValidateGridString(fl.Field().String()) == nil
}

// validatePuzzleName accepts a display name safe for store keys and logs.
func validatePuzzleName(fl validator.FieldLevel) bool {
	return validation.ValidatePuzzleName(fl.Field().String()) == nil
}

// StepInfo is one deduced placement in a solve trace.
type StepInfo struct {
	// Row is the 0-based row of the filled cell.
	Row int `json:"row"`

	// Column is the 0-based column of the filled cell.
	Column int `json:"column"`

	// Digit is the placed digit, 1-9.
	Digit int `json:"digit"`

	// Strategy names the technique that found the placement.
	Strategy string `json:"strategy"`

	// Rationale is the human-readable explanation of the deduction.
	Rationale string `json:"rationale"`
}

// newStepInfo flattens a strategy step for JSON transport.
func newStepInfo(step strategy.Step) StepInfo {
	return StepInfo{
		Row:       step.Position.Row,
		Column:    step.Position.Col,
		Digit:     int(step.Digit),
		Strategy:  step.Strategy,
		Rationale: step.Rationale,
	}
}

// newStepInfos converts a trace. Always returns a non-nil slice so JSON
// responses carry [] rather than null.
func newStepInfos(steps []strategy.Step) []StepInfo {
	infos := make([]StepInfo, 0, len(steps))
	for _, step := range steps {
		infos = append(infos, newStepInfo(step))
	}
	return infos
}

// SolveRequest is the request body for POST /v1/solver/solve.
type SolveRequest struct {
	// Grid is the 81-character puzzle string, row-major, with '0' or
	// '.' for empty cells.
	Grid string `json:"grid" binding:"required,sudokugrid"`

	// Parallelism overrides the engine worker count for this request.
	// Zero selects the service default; values above the configured
	// maximum are clamped.
	Parallelism int `json:"parallelism,omitempty" binding:"omitempty,min=1"`
}

// HintRequest is the request body for POST /v1/solver/hint.
type HintRequest struct {
	// Grid is the 81-character puzzle string.
	Grid string `json:"grid" binding:"required,sudokugrid"`
}

// ValidateRequest is the request body for POST /v1/solver/validate.
type ValidateRequest struct {
	// Grid is the 81-character puzzle string.
	Grid string `json:"grid" binding:"required,sudokugrid"`
}

// SavePuzzleRequest is the request body for POST /v1/solver/puzzles.
type SavePuzzleRequest struct {
	// Name is the display name for the puzzle.
	Name string `json:"name" binding:"required,puzzlename"`

	// Grid is the 81-character puzzle string.
	Grid string `json:"grid" binding:"required,sudokugrid"`
}

// SolveStoredRequest is the optional request body for
// POST /v1/solver/puzzles/:id/solve.
type SolveStoredRequest struct {
	// Parallelism overrides the strategy fan-out for this solve.
	Parallelism int `json:"parallelism,omitempty" binding:"omitempty,min=1"`
}

// SolveResponse is the outcome of a solve.
type SolveResponse struct {
	// Status is "solved", "stuck", or "invalid".
	Status string `json:"status"`

	// Grid is the final 81-character grid string.
	Grid string `json:"grid"`

	// Steps is the ordered deduction trace.
	Steps []StepInfo `json:"steps"`

	// Passes counts catalog sweeps, including the final unproductive
	// one on stuck grids.
	Passes int `json:"passes"`

	// EmptyCells counts cells still empty in the final grid.
	EmptyCells int `json:"empty_cells"`

	// SolveTimeMs is the wall-clock solve duration in milliseconds.
	SolveTimeMs int64 `json:"solve_time_ms"`
}

// HintResponse is the outcome of a hint request.
type HintResponse struct {
	// Valid reports whether the starting grid was valid.
	Valid bool `json:"valid"`

	// Found reports whether any technique produced a step.
	Found bool `json:"found"`

	// Step is the first deduced placement, present when Found is true.
	Step *StepInfo `json:"step,omitempty"`
}

// ValidateResponse is the outcome of a validate request.
type ValidateResponse struct {
	// Valid reports whether the grid violates no row, column, or
	// region constraint.
	Valid bool `json:"valid"`

	// Complete reports whether all 81 cells are filled.
	Complete bool `json:"complete"`

	// EmptyCells counts unfilled cells.
	EmptyCells int `json:"empty_cells"`
}

// PuzzleResponse wraps a stored puzzle.
type PuzzleResponse struct {
	// Puzzle is the stored record, including any persisted solution.
	Puzzle badger.StoredPuzzle `json:"puzzle"`
}

// ListPuzzlesResponse is the response for GET /v1/solver/puzzles.
type ListPuzzlesResponse struct {
	// Puzzles are metadata entries, newest first.
	Puzzles []badger.PuzzleMeta `json:"puzzles"`

	// Count is the number of entries returned.
	Count int `json:"count"`
}

// SolvePuzzleResponse is the response for POST /v1/solver/puzzles/:id/solve.
type SolvePuzzleResponse struct {
	// PuzzleID identifies the solved puzzle.
	PuzzleID string `json:"puzzle_id"`

	SolveResponse
}

// HealthResponse is the response for GET /v1/solver/health.
type HealthResponse struct {
	// Status is "healthy" when the service is serving.
	Status string `json:"status"`

	// Version is the service version.
	Version string `json:"version"`
}

// ErrorResponse is the standard error envelope for all endpoints.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`

	// Code is a machine-readable error code.
	Code string `json:"code,omitempty"`

	// Details carries optional additional context.
	Details string `json:"details,omitempty"`
}
