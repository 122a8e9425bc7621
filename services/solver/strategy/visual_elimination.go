// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package strategy

import (
	"fmt"

	"github.com/AleutianAI/AleutianSudoku/services/solver/grid"
)

// VisualEliminationInRow places a digit that fits in exactly one cell
// of a row.
//
// For a digit not yet used in the row, a cell remains a candidate only
// if placing the digit there keeps the grid valid (the digit is not
// used in the cell's column or region). When the filter leaves exactly
// one cell, the digit must go there. The probe is the pure CanPlace
// predicate; no hypothetical grid is built and rolled back.
type VisualEliminationInRow struct {
	view  GridView
	row   int
	digit grid.Digit
}

// NewVisualEliminationInRow builds the finder for one row and digit.
func NewVisualEliminationInRow(view GridView, row int, digit grid.Digit) VisualEliminationInRow {
	return VisualEliminationInRow{view: view, row: row, digit: digit}
}

// Name returns the technique identifier.
func (f VisualEliminationInRow) Name() string {
	return "visual-elimination-in-row"
}

// FindNextStepResult places the digit when exactly one cell of the row
// can take it, and returns false otherwise.
func (f VisualEliminationInRow) FindNextStepResult() (StepResult, bool) {
	house := f.view.Grid().Row(f.row)
	return visualElimination(f.view, house, f.digit, f.Name(), fmt.Sprintf("row %d", f.row))
}

// VisualEliminationInColumn is the column counterpart of
// VisualEliminationInRow.
type VisualEliminationInColumn struct {
	view   GridView
	column int
	digit  grid.Digit
}

// NewVisualEliminationInColumn builds the finder for one column and
// digit.
func NewVisualEliminationInColumn(view GridView, column int, digit grid.Digit) VisualEliminationInColumn {
	return VisualEliminationInColumn{view: view, column: column, digit: digit}
}

// Name returns the technique identifier.
func (f VisualEliminationInColumn) Name() string {
	return "visual-elimination-in-column"
}

// FindNextStepResult places the digit when exactly one cell of the
// column can take it, and returns false otherwise.
func (f VisualEliminationInColumn) FindNextStepResult() (StepResult, bool) {
	house := f.view.Grid().Column(f.column)
	return visualElimination(f.view, house, f.digit, f.Name(), fmt.Sprintf("column %d", f.column))
}

// visualElimination is the shared core of both orientations. The house
// kind only affects the probe geometry, which CanPlace already covers.
func visualElimination(v GridView, house grid.House, digit grid.Digit, name, houseName string) (StepResult, bool) {
	if house.UsedDigits().Has(digit) {
		return StepResult{}, false
	}

	g := v.Grid()
	var candidates []grid.Position
	for _, p := range house.RemainingUnfilledCells() {
		if g.CanPlace(p, digit) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) != 1 {
		return StepResult{}, false
	}

	step := Step{
		Position: candidates[0],
		Digit:    digit,
		Strategy: name,
		Rationale: fmt.Sprintf("%s is the only cell in %s that can take %s",
			candidates[0], houseName, digit),
	}
	return StepResult{Step: step, Result: v.Apply(step)}, true
}
