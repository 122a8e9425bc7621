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
	"sort"

	"github.com/AleutianAI/AleutianSudoku/services/solver/grid"
)

// potentialLine records one line (a row, or a column in the transposed
// orientation) where a digit's candidates are confined to exactly two
// cross positions. crossA is always less than crossB.
type potentialLine struct {
	line   int
	crossA int
	crossB int
	digit  grid.Digit
}

// matches reports whether two potential lines form an X-Wing: same
// digit, same cross pair, different line.
func (l potentialLine) matches(o potentialLine) bool {
	return l.line != o.line && l.digit == o.digit &&
		l.crossA == o.crossA && l.crossB == o.crossB
}

// XWingInRows finds an X-Wing across two rows: a digit whose candidates
// in both rows sit in the same two columns. The pattern proves the
// digit occupies those columns in exactly those rows, so it is stripped
// from the rest of both columns.
type XWingInRows struct {
	view GridView
}

// NewXWingInRows builds the finder.
func NewXWingInRows(view GridView) XWingInRows {
	return XWingInRows{view: view}
}

// Name returns the technique identifier.
func (f XWingInRows) Name() string {
	return "x-wing-in-rows"
}

// FindNextStepResult runs the row-oriented X-Wing scan.
func (f XWingInRows) FindNextStepResult() (StepResult, bool) {
	return xwing(f.view, true, f.Name())
}

// XWingInColumns is the transposed orientation of XWingInRows: the
// digit is confined to the same two rows in exactly two columns, and is
// stripped from the rest of both rows.
type XWingInColumns struct {
	view GridView
}

// NewXWingInColumns builds the finder.
func NewXWingInColumns(view GridView) XWingInColumns {
	return XWingInColumns{view: view}
}

// Name returns the technique identifier.
func (f XWingInColumns) Name() string {
	return "x-wing-in-columns"
}

// FindNextStepResult runs the column-oriented X-Wing scan.
func (f XWingInColumns) FindNextStepResult() (StepResult, bool) {
	return xwing(f.view, false, f.Name())
}

// xwing is the shared core of both orientations.
//
// Description:
//
//	Candidates for the whole grid are computed (or reused from the
//	carried snapshot). Every line is scanned per unused digit; lines
//	where the digit's candidates sit in exactly two cross positions
//	become potential lines. Only the first potential line with at
//	least one match is examined: its digit is stripped from the two
//	implicated cross lines outside the matched pair, and the first
//	cell (in position order) whose candidates collapse to a single
//	digit yields the step. A match that produces no collapse ends the
//	scan without a step; later potential pairs are not considered,
//	which can miss eliminations a wider search would find.
//
// Outputs:
//   - the step and the result view carrying the refined full snapshot,
//     or false when no X-Wing yields a collapse.
func xwing(v GridView, byRows bool, name string) (StepResult, bool) {
	g := v.Grid()
	marks := v.FullMarks()

	var potentials []potentialLine
	for line := 0; line < grid.Size; line++ {
		house := lineHouse(g, line, byRows)
		positions := house.Positions()
		for _, d := range house.RemainingUnusedDigits().Digits() {
			var cross []int
			for _, p := range positions {
				if marks.Candidates(p).Has(d) {
					cross = append(cross, crossIndex(p, byRows))
				}
			}
			if len(cross) == 2 {
				potentials = append(potentials, potentialLine{
					line: line, crossA: cross[0], crossB: cross[1], digit: d,
				})
			}
		}
	}

	for i := range potentials {
		first := potentials[i]
		matched := -1
		for j := range potentials {
			if j != i && first.matches(potentials[j]) {
				matched = j
				break
			}
		}
		if matched == -1 {
			continue
		}
		other := potentials[matched]

		var strip []grid.Position
		for line := 0; line < grid.Size; line++ {
			if line == first.line || line == other.line {
				continue
			}
			strip = append(strip,
				cellAt(line, first.crossA, byRows),
				cellAt(line, first.crossB, byRows))
		}
		sort.Slice(strip, func(a, b int) bool { return strip[a].Less(strip[b]) })

		refined := marks.Strip(first.digit, strip)
		for _, p := range strip {
			if refined.Candidates(p) == marks.Candidates(p) {
				continue
			}
			if d, ok := refined.Candidates(p).Single(); ok {
				step := Step{
					Position:  p,
					Digit:     d,
					Strategy:  name,
					Rationale: xwingRationale(first, other, byRows, d, p),
				}
				return StepResult{Step: step, Result: v.withMarks(refined).Apply(step)}, true
			}
		}

		// First potential line with a match decides the outcome.
		return StepResult{}, false
	}
	return StepResult{}, false
}

func xwingRationale(first, other potentialLine, byRows bool, placed grid.Digit, at grid.Position) string {
	lineKind, crossKind := "rows", "columns"
	if !byRows {
		lineKind, crossKind = "columns", "rows"
	}
	return fmt.Sprintf("x-wing confines %s to %s %d and %d within %s %d and %d, leaving %s as the only candidate at %s",
		first.digit, lineKind, first.line, other.line, crossKind, first.crossA, first.crossB, placed, at)
}

func lineHouse(g grid.Grid, line int, byRows bool) grid.House {
	if byRows {
		return g.Row(line)
	}
	return g.Column(line)
}

func crossIndex(p grid.Position, byRows bool) int {
	if byRows {
		return p.Col
	}
	return p.Row
}

func cellAt(line, cross int, byRows bool) grid.Position {
	if byRows {
		return grid.Position{Row: line, Col: cross}
	}
	return grid.Position{Row: cross, Col: line}
}
