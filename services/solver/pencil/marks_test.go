// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package pencil

import (
	"testing"

	"github.com/AleutianAI/AleutianSudoku/services/solver/grid"
)

// puzzleFixture is a well-known solvable puzzle with a mix of tight and
// wide candidate sets.
const puzzleFixture = "530070000" +
	"600195000" +
	"098000060" +
	"800060003" +
	"400803001" +
	"700020006" +
	"060000280" +
	"000419005" +
	"000080079"

func TestCandidatesFor(t *testing.T) {
	g := grid.MustParse(puzzleFixture)

	tests := []struct {
		pos      grid.Position
		expected grid.DigitSet
	}{
		{grid.Position{Row: 0, Col: 2}, grid.NewDigitSet(1, 2, 4)},
		{grid.Position{Row: 4, Col: 4}, grid.NewDigitSet(5)},
		{grid.Position{Row: 0, Col: 0}, grid.NewDigitSet()}, // filled
	}

	for _, tc := range tests {
		if got := CandidatesFor(g, tc.pos); got != tc.expected {
			t.Errorf("CandidatesFor(%v) = %v, expected %v", tc.pos, got, tc.expected)
		}
	}
}

// Candidate sets never include a digit already used in the cell's row,
// column, or region.
func TestForGrid_ConsistentWithHouses(t *testing.T) {
	g := grid.MustParse(puzzleFixture)
	m := ForGrid(g)

	if len(m) != len(g.EmptyPositions()) {
		t.Fatalf("tracked %d positions, expected %d empty cells", len(m), len(g.EmptyPositions()))
	}

	for p, candidates := range m {
		if g.Filled(p) {
			t.Errorf("filled cell %v is tracked", p)
		}
		used := g.Row(p.Row).UsedDigits().
			Union(g.Column(p.Col).UsedDigits()).
			Union(g.Region(p.Region()).UsedDigits())
		if overlap := candidates.Intersect(used); !overlap.IsEmpty() {
			t.Errorf("candidates at %v include used digits %v", p, overlap)
		}
	}
}

func TestForHouse_TracksOnlyHouseCells(t *testing.T) {
	g := grid.MustParse(puzzleFixture)

	row := ForRow(g, 2)
	for p := range row {
		if p.Row != 2 {
			t.Errorf("ForRow(2) tracked %v", p)
		}
	}

	col := ForColumn(g, 5)
	for p := range col {
		if p.Col != 5 {
			t.Errorf("ForColumn(5) tracked %v", p)
		}
	}

	region := ForRegion(g, grid.RegionPosition{Row: 2, Col: 0})
	for p := range region {
		if p.Region() != (grid.RegionPosition{Row: 2, Col: 0}) {
			t.Errorf("ForRegion(2,0) tracked %v", p)
		}
	}

	// House-restricted marks agree with the full-grid computation.
	full := ForGrid(g)
	for p, s := range row {
		if full[p] != s {
			t.Errorf("ForRow candidates at %v = %v, ForGrid = %v", p, s, full[p])
		}
	}
}

func TestMarks_Filter(t *testing.T) {
	g := grid.MustParse(puzzleFixture)
	m := ForGrid(g)

	subset := []grid.Position{
		{Row: 0, Col: 2}, // empty, tracked
		{Row: 0, Col: 0}, // filled, never tracked
		{Row: 2, Col: 3}, // empty, tracked
	}
	filtered := m.Filter(subset)

	if len(filtered) != 2 {
		t.Fatalf("Filter() tracked %d positions, expected 2", len(filtered))
	}
	for p, s := range filtered {
		if m[p] != s {
			t.Errorf("Filter() changed candidates at %v", p)
		}
	}
}

func TestMarks_MergeOverlays(t *testing.T) {
	base := Marks{
		{Row: 1, Col: 1}: grid.NewDigitSet(1, 2, 3),
		{Row: 2, Col: 2}: grid.NewDigitSet(4, 5),
	}
	partial := Marks{
		{Row: 1, Col: 1}: grid.NewDigitSet(1, 2),
		{Row: 3, Col: 3}: grid.NewDigitSet(6),
	}

	merged := base.Merge(partial)
	if got := merged.Candidates(grid.Position{Row: 1, Col: 1}); got != grid.NewDigitSet(1, 2) {
		t.Errorf("merged candidates at r1c1 = %v, expected {1 2}", got)
	}
	if got := merged.Candidates(grid.Position{Row: 2, Col: 2}); got != grid.NewDigitSet(4, 5) {
		t.Errorf("merged candidates at r2c2 = %v, expected {4 5}", got)
	}
	if got := merged.Candidates(grid.Position{Row: 3, Col: 3}); got != grid.NewDigitSet(6) {
		t.Errorf("merged candidates at r3c3 = %v, expected {6}", got)
	}

	// The receiver is untouched.
	if got := base.Candidates(grid.Position{Row: 1, Col: 1}); got != grid.NewDigitSet(1, 2, 3) {
		t.Errorf("Merge mutated its receiver: r1c1 = %v", got)
	}
	if base.Contains(grid.Position{Row: 3, Col: 3}) {
		t.Errorf("Merge mutated its receiver: r3c3 tracked")
	}
}

func TestMarks_MergeIfPresent(t *testing.T) {
	base := Marks{
		{Row: 1, Col: 1}: grid.NewDigitSet(1, 2, 3),
	}

	if got := base.MergeIfPresent(nil); len(got) != 1 || got.Candidates(grid.Position{Row: 1, Col: 1}) != grid.NewDigitSet(1, 2, 3) {
		t.Errorf("MergeIfPresent(nil) should return the receiver unchanged")
	}

	partial := Marks{{Row: 1, Col: 1}: grid.NewDigitSet(2)}
	if got := base.MergeIfPresent(partial).Candidates(grid.Position{Row: 1, Col: 1}); got != grid.NewDigitSet(2) {
		t.Errorf("MergeIfPresent(partial) candidates = %v, expected {2}", got)
	}
}

func TestMarks_WithoutPosition(t *testing.T) {
	base := Marks{
		{Row: 1, Col: 1}: grid.NewDigitSet(1, 2),
		{Row: 2, Col: 2}: grid.NewDigitSet(3),
	}

	got := base.WithoutPosition(grid.Position{Row: 1, Col: 1})
	if got.Contains(grid.Position{Row: 1, Col: 1}) {
		t.Errorf("WithoutPosition left the position tracked")
	}
	if !got.Contains(grid.Position{Row: 2, Col: 2}) {
		t.Errorf("WithoutPosition dropped an unrelated position")
	}
	if !base.Contains(grid.Position{Row: 1, Col: 1}) {
		t.Errorf("WithoutPosition mutated its receiver")
	}
}

func TestMarks_Strip(t *testing.T) {
	base := Marks{
		{Row: 0, Col: 0}: grid.NewDigitSet(3, 7),
		{Row: 0, Col: 1}: grid.NewDigitSet(3, 5),
		{Row: 0, Col: 2}: grid.NewDigitSet(7),
	}

	stripped := base.Strip(7, []grid.Position{
		{Row: 0, Col: 0},
		{Row: 0, Col: 2},
		{Row: 5, Col: 5}, // untracked, ignored
	})

	if got := stripped.Candidates(grid.Position{Row: 0, Col: 0}); got != grid.NewDigitSet(3) {
		t.Errorf("candidates at r0c0 = %v, expected {3}", got)
	}
	if got := stripped.Candidates(grid.Position{Row: 0, Col: 1}); got != grid.NewDigitSet(3, 5) {
		t.Errorf("candidates at r0c1 = %v, expected {3 5} (not stripped)", got)
	}

	// Emptied entries stay tracked.
	if !stripped.Contains(grid.Position{Row: 0, Col: 2}) {
		t.Errorf("emptied entry should stay tracked")
	}
	if got := stripped.Candidates(grid.Position{Row: 0, Col: 2}); !got.IsEmpty() {
		t.Errorf("candidates at r0c2 = %v, expected empty", got)
	}

	// The receiver is untouched.
	if got := base.Candidates(grid.Position{Row: 0, Col: 0}); got != grid.NewDigitSet(3, 7) {
		t.Errorf("Strip mutated its receiver")
	}
}

func TestMarks_PositionsSorted(t *testing.T) {
	g := grid.MustParse(puzzleFixture)
	m := ForGrid(g)

	ps := m.Positions()
	if len(ps) != len(m) {
		t.Fatalf("Positions() returned %d entries, expected %d", len(ps), len(m))
	}
	for i := 1; i < len(ps); i++ {
		if !ps[i-1].Less(ps[i]) {
			t.Errorf("Positions() out of order: %v then %v", ps[i-1], ps[i])
		}
	}
}
