// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package strategy implements the deduction techniques of the solver:
// open singles, visual elimination, naked pairs, and X-Wings. Each
// technique is a stateless Finder constructed from a GridView and its
// house-selecting parameters; a finder either produces exactly one
// StepResult or reports that the technique is inconclusive for its
// inputs. Finders never mutate shared state, so any subset of them can
// be evaluated concurrently over the same view.
package strategy

import (
	"fmt"

	"github.com/AleutianAI/AleutianSudoku/services/solver/grid"
	"github.com/AleutianAI/AleutianSudoku/services/solver/pencil"
)

// Step is one deduced move: a digit placed at a position, along with
// the technique that found it and a human-readable rationale.
type Step struct {
	// Position is the cell being filled.
	Position grid.Position `json:"position"`

	// Digit is the value deduced for the cell.
	Digit grid.Digit `json:"digit"`

	// Strategy is the name of the finder that produced the step.
	Strategy string `json:"strategy"`

	// Rationale explains the deduction in prose.
	Rationale string `json:"rationale"`
}

// String returns the step in "r4c7=9 (x-wing-in-rows)" form.
func (s Step) String() string {
	return fmt.Sprintf("%s=%s (%s)", s.Position, s.Digit, s.Strategy)
}

// GridView is a grid optionally paired with a pencil-mark snapshot.
//
// A nil snapshot means "not computed"; finders that need marks compute
// them on demand. A non-nil snapshot is trusted to be consistent with
// the grid and may be stronger than a fresh computation because earlier
// deductions (naked pairs, X-Wings) have stripped candidates from it.
// Invariant: snapshot positions are disjoint from the grid's filled
// cells.
type GridView struct {
	grid  grid.Grid
	marks pencil.Marks
}

// NewGridView wraps a grid with no candidate snapshot.
func NewGridView(g grid.Grid) GridView {
	return GridView{grid: g}
}

// NewGridViewWithMarks wraps a grid together with a precomputed
// snapshot. Entries at filled cells are dropped so the disjointness
// invariant holds regardless of the input.
func NewGridViewWithMarks(g grid.Grid, m pencil.Marks) GridView {
	if m == nil {
		return GridView{grid: g}
	}
	clean := make(pencil.Marks, len(m))
	for p, s := range m {
		if !g.Filled(p) {
			clean[p] = s
		}
	}
	return GridView{grid: g, marks: clean}
}

// Grid returns the underlying board.
func (v GridView) Grid() grid.Grid {
	return v.grid
}

// Marks returns the carried snapshot, or nil when none was computed.
func (v GridView) Marks() pencil.Marks {
	return v.marks
}

// HasMarks reports whether a snapshot is carried.
func (v GridView) HasMarks() bool {
	return v.marks != nil
}

// MarksForPositions returns candidates for the given positions, reusing
// the carried snapshot when present and computing from scratch when
// not.
func (v GridView) MarksForPositions(positions []grid.Position) pencil.Marks {
	if v.marks != nil {
		return v.marks.Filter(positions)
	}
	return pencil.ForPositions(v.grid, positions)
}

// FullMarks returns candidates for every unfilled cell, reusing the
// carried snapshot when present.
func (v GridView) FullMarks() pencil.Marks {
	if v.marks != nil {
		return v.marks
	}
	return pencil.ForGrid(v.grid)
}

// withRefinement merges house-local candidate refinements over the
// carried snapshot. When no snapshot is carried there is nothing to
// refine and the view is returned unchanged; the partial map alone
// would cover only one house and must not masquerade as a full
// snapshot.
func (v GridView) withRefinement(partial pencil.Marks) GridView {
	if v.marks == nil {
		return v
	}
	return GridView{grid: v.grid, marks: v.marks.Merge(partial)}
}

// withMarks replaces the carried snapshot. The caller is responsible
// for consistency with the grid.
func (v GridView) withMarks(m pencil.Marks) GridView {
	return GridView{grid: v.grid, marks: m}
}

// Apply returns the view after performing the step: the grid gains the
// filled digit, and a carried snapshot is refined incrementally rather
// than recomputed. The filled position is dropped from the snapshot and
// the digit is stripped from every peer in the position's row, column,
// and region.
func (v GridView) Apply(s Step) GridView {
	g := v.grid.WithCellValue(s.Position, s.Digit)
	if v.marks == nil {
		return GridView{grid: g}
	}

	rowPs := g.Row(s.Position.Row).Positions()
	colPs := g.Column(s.Position.Col).Positions()
	regionPs := g.Region(s.Position.Region()).Positions()
	peers := make([]grid.Position, 0, 3*grid.Size)
	peers = append(peers, rowPs[:]...)
	peers = append(peers, colPs[:]...)
	peers = append(peers, regionPs[:]...)

	m := v.marks.WithoutPosition(s.Position).Strip(s.Digit, peers)
	return GridView{grid: g, marks: m}
}

// StepResult pairs a deduced step with the view that results from
// applying it. The result view carries forward any candidate
// refinements the finder proved along the way.
type StepResult struct {
	Step   Step
	Result GridView
}
