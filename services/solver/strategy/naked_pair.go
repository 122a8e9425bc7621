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

// nakedPair is a confirmed pair: two distinct cells of one house whose
// candidates are confined to the same two digits, proving those digits
// occupy exactly those cells.
type nakedPair struct {
	first  grid.Position
	second grid.Position
	digits grid.DigitSet
}

// newNakedPair validates the pair invariants: distinct positions and a
// digit set of exactly two members. Positions are normalized so first
// orders before second.
func newNakedPair(first, second grid.Position, digits grid.DigitSet) (nakedPair, error) {
	if first == second {
		return nakedPair{}, fmt.Errorf("positions coincide at %s: %w", first, ErrNotAPair)
	}
	if digits.Count() != 2 {
		return nakedPair{}, fmt.Errorf("digit set %s has %d members: %w", digits, digits.Count(), ErrNotAPair)
	}
	if second.Less(first) {
		first, second = second, first
	}
	return nakedPair{first: first, second: second, digits: digits}, nil
}

// NakedPairInRow finds a naked pair in a row and fills any cell whose
// candidates collapse once the pair's digits are stripped from the rest
// of the row.
type NakedPairInRow struct {
	view GridView
	row  int
}

// NewNakedPairInRow builds the finder for one row.
func NewNakedPairInRow(view GridView, row int) NakedPairInRow {
	return NakedPairInRow{view: view, row: row}
}

// Name returns the technique identifier.
func (f NakedPairInRow) Name() string {
	return "naked-pair-in-row"
}

// FindNextStepResult searches the row for the first naked pair in
// combination order and returns a step if stripping the pair's digits
// collapses another cell to a single candidate.
func (f NakedPairInRow) FindNextStepResult() (StepResult, bool) {
	house := f.view.Grid().Row(f.row)
	return nakedPairInHouse(f.view, house, f.Name(), fmt.Sprintf("row %d", f.row))
}

// NakedPairInColumn is the column counterpart of NakedPairInRow.
type NakedPairInColumn struct {
	view   GridView
	column int
}

// NewNakedPairInColumn builds the finder for one column.
func NewNakedPairInColumn(view GridView, column int) NakedPairInColumn {
	return NakedPairInColumn{view: view, column: column}
}

// Name returns the technique identifier.
func (f NakedPairInColumn) Name() string {
	return "naked-pair-in-column"
}

// FindNextStepResult searches the column for the first naked pair in
// combination order and returns a step if stripping the pair's digits
// collapses another cell to a single candidate.
func (f NakedPairInColumn) FindNextStepResult() (StepResult, bool) {
	house := f.view.Grid().Column(f.column)
	return nakedPairInHouse(f.view, house, f.Name(), fmt.Sprintf("column %d", f.column))
}

// nakedPairInHouse is the shared core of both orientations.
//
// Description:
//
//	Candidates are restricted to the house. The house's remaining
//	unused digits are enumerated as ordered 2-combinations; the first
//	combination confining exactly two cells decides the outcome, so
//	the tie-break is deterministic. A cell belongs to the pair when
//	its candidate set is a non-empty subset of the combination: a cell
//	already down to one of the two digits still locks the pair.
//
//	On confirmation the pair's digits are stripped from every other
//	unfilled cell of the house. The first cell (in position order)
//	whose candidates collapse to a single digit yields the step; the
//	result view carries the refined candidates merged over the
//	snapshot when one was present. No collapse means no step, and the
//	search does not continue to later combinations.
func nakedPairInHouse(v GridView, house grid.House, name, houseName string) (StepResult, bool) {
	housePositions := house.Positions()
	marks := v.MarksForPositions(housePositions[:])
	ordered := marks.Positions()

	for _, combo := range Combinations(house.RemainingUnusedDigits(), 2) {
		pairDigits := grid.NewDigitSet(combo...)

		var members []grid.Position
		for _, p := range ordered {
			s := marks.Candidates(p)
			if !s.IsEmpty() && s.SubsetOf(pairDigits) {
				members = append(members, p)
			}
		}
		if len(members) != 2 {
			continue
		}
		pair, err := newNakedPair(members[0], members[1], pairDigits)
		if err != nil {
			continue
		}

		others := make([]grid.Position, 0, len(ordered))
		for _, p := range ordered {
			if p != pair.first && p != pair.second {
				others = append(others, p)
			}
		}
		refined := marks
		for _, d := range combo {
			refined = refined.Strip(d, others)
		}

		for _, p := range others {
			if refined.Candidates(p) == marks.Candidates(p) {
				continue
			}
			if d, ok := refined.Candidates(p).Single(); ok {
				step := Step{
					Position: p,
					Digit:    d,
					Strategy: name,
					Rationale: fmt.Sprintf("naked pair %s locks %s and %s in %s, leaving %s as the only candidate at %s",
						pair.digits, pair.first, pair.second, houseName, d, p),
				}
				return StepResult{Step: step, Result: v.withRefinement(refined).Apply(step)}, true
			}
		}

		// First confirmed pair decides the outcome either way.
		return StepResult{}, false
	}
	return StepResult{}, false
}
