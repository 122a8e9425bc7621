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

import "github.com/AleutianAI/AleutianSudoku/services/solver/grid"

// Finder is the common contract of all deduction techniques.
//
// A Finder is constructed with a starting view and house-selecting
// parameters and exposes exactly one operation. FindNextStepResult is a
// pure function of the construction inputs: it either returns one
// StepResult, or false when the technique is inapplicable or
// inconclusive for those inputs. Finders hold no mutable state and are
// safe for concurrent evaluation.
type Finder interface {
	// Name returns the technique's stable identifier, used in step
	// traces and metrics labels.
	Name() string

	// FindNextStepResult returns the technique's single deduced step
	// and the resulting view, or false when there is nothing to deduce.
	FindNextStepResult() (StepResult, bool)
}

// Catalog returns every finder for one solving pass in priority order:
// cheapest techniques first, so a pass always prefers the simplest
// available deduction.
//
// The order is: open singles per region (row-major), visual elimination
// per row then per column (house index ascending, digits 1..9 within a
// house), naked pairs per row then per column, and finally the two
// X-Wing orientations.
func Catalog(view GridView) []Finder {
	finders := make([]Finder, 0, 191)

	for _, rp := range grid.AllRegionPositions() {
		finders = append(finders, NewOpenSingleInRegion(view, rp))
	}
	for row := 0; row < grid.Size; row++ {
		for d := grid.Digit(1); d <= grid.Size; d++ {
			finders = append(finders, NewVisualEliminationInRow(view, row, d))
		}
	}
	for col := 0; col < grid.Size; col++ {
		for d := grid.Digit(1); d <= grid.Size; d++ {
			finders = append(finders, NewVisualEliminationInColumn(view, col, d))
		}
	}
	for row := 0; row < grid.Size; row++ {
		finders = append(finders, NewNakedPairInRow(view, row))
	}
	for col := 0; col < grid.Size; col++ {
		finders = append(finders, NewNakedPairInColumn(view, col))
	}
	finders = append(finders, NewXWingInRows(view), NewXWingInColumns(view))

	return finders
}
