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

// OpenSingleInRegion fills the last empty cell of a region.
//
// This is the base case of all deduction: when a region has exactly one
// unfilled cell and exactly one unused digit, the digit must go there.
// It never needs candidate computation.
type OpenSingleInRegion struct {
	view   GridView
	region grid.RegionPosition
}

// NewOpenSingleInRegion builds the finder for one region.
func NewOpenSingleInRegion(view GridView, region grid.RegionPosition) OpenSingleInRegion {
	return OpenSingleInRegion{view: view, region: region}
}

// Name returns the technique identifier.
func (f OpenSingleInRegion) Name() string {
	return "open-single-in-region"
}

// FindNextStepResult fills the region's sole remaining cell, or returns
// false when the region has zero or more than one empty cell.
func (f OpenSingleInRegion) FindNextStepResult() (StepResult, bool) {
	region := f.view.Grid().Region(f.region)
	cells := region.RemainingUnfilledCells()
	unused := region.RemainingUnusedDigits()
	if len(cells) != 1 {
		return StepResult{}, false
	}
	d, ok := unused.Single()
	if !ok {
		return StepResult{}, false
	}

	step := Step{
		Position: cells[0],
		Digit:    d,
		Strategy: f.Name(),
		Rationale: fmt.Sprintf("%s is the only empty cell in region %s and %s is its only missing digit",
			cells[0], f.region, d),
	}
	return StepResult{Step: step, Result: f.view.Apply(step)}, true
}
