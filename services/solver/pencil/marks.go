// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pencil computes and refines candidate digits ("pencil marks")
// for unfilled cells. A Marks value maps each tracked unfilled position
// to the set of digits still possible there given the owning grid's
// house constraints at computation time. Marks are treated as immutable:
// every refinement returns a new map, so snapshots can be shared across
// strategy evaluations without synchronization.
package pencil

import (
	"sort"

	"github.com/AleutianAI/AleutianSudoku/services/solver/grid"
)

// Marks maps unfilled positions to their candidate digit sets.
//
// Invariants:
//   - no tracked position overlaps a filled cell of the grid the marks
//     were computed against
//   - a candidate set never contains a digit already used in the cell's
//     row, column, or region at computation time
type Marks map[grid.Position]grid.DigitSet

// CandidatesFor returns the candidate set for a single cell: {1..9}
// minus every digit used in the cell's row, column, and region. Returns
// the empty set for a filled cell.
func CandidatesFor(g grid.Grid, p grid.Position) grid.DigitSet {
	if g.Filled(p) {
		return 0
	}
	used := g.Row(p.Row).UsedDigits().
		Union(g.Column(p.Col).UsedDigits()).
		Union(g.Region(p.Region()).UsedDigits())
	return grid.FullDigitSet.Without(used)
}

// ForGrid computes marks for every unfilled cell of the grid.
func ForGrid(g grid.Grid) Marks {
	return ForPositions(g, grid.AllPositions())
}

// ForPositions computes marks from scratch for the given positions.
// Filled positions are skipped.
func ForPositions(g grid.Grid, positions []grid.Position) Marks {
	m := make(Marks)
	for _, p := range positions {
		if g.Filled(p) {
			continue
		}
		m[p] = CandidatesFor(g, p)
	}
	return m
}

// ForRow computes marks for the unfilled cells of one row.
func ForRow(g grid.Grid, index int) Marks {
	return ForHouse(g, g.Row(index))
}

// ForColumn computes marks for the unfilled cells of one column.
func ForColumn(g grid.Grid, index int) Marks {
	return ForHouse(g, g.Column(index))
}

// ForRegion computes marks for the unfilled cells of one region.
func ForRegion(g grid.Grid, rp grid.RegionPosition) Marks {
	return ForHouse(g, g.Region(rp))
}

// ForHouse computes marks for the unfilled cells of an arbitrary house.
func ForHouse(g grid.Grid, h grid.House) Marks {
	ps := h.Positions()
	return ForPositions(g, ps[:])
}

// Candidates returns the candidate set tracked for p, or the empty set
// when p is not tracked.
func (m Marks) Candidates(p grid.Position) grid.DigitSet {
	return m[p]
}

// Contains reports whether p is tracked.
func (m Marks) Contains(p grid.Position) bool {
	_, ok := m[p]
	return ok
}

// Positions returns the tracked positions in ascending order. Go map
// iteration is randomized, so every caller that needs deterministic
// "first cell" semantics goes through this.
func (m Marks) Positions() []grid.Position {
	out := make([]grid.Position, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Filter returns marks restricted to the given position subset.
// Positions not tracked in m are absent from the result.
func (m Marks) Filter(positions []grid.Position) Marks {
	out := make(Marks, len(positions))
	for _, p := range positions {
		if s, ok := m[p]; ok {
			out[p] = s
		}
	}
	return out
}

// Merge overlays the partial map's candidate sets onto m, returning a
// new map. It is the incremental-refinement primitive: a strategy that
// stripped candidates in one house merges the smaller sets back over
// the full map instead of recomputing every cell.
func (m Marks) Merge(partial Marks) Marks {
	out := m.Clone()
	for p, s := range partial {
		out[p] = s
	}
	return out
}

// MergeIfPresent overlays partial onto m when partial is non-nil, and
// returns m unchanged otherwise. Callers holding an optional refinement
// map use this to avoid branching.
func (m Marks) MergeIfPresent(partial Marks) Marks {
	if partial == nil {
		return m
	}
	return m.Merge(partial)
}

// WithoutPosition returns marks with p no longer tracked, typically
// after the cell has been filled.
func (m Marks) WithoutPosition(p grid.Position) Marks {
	if !m.Contains(p) {
		return m
	}
	out := m.Clone()
	delete(out, p)
	return out
}

// Strip removes digit d from the candidate sets at the given positions,
// returning a new map. Untracked positions are ignored. An entry whose
// set becomes empty stays tracked; an empty candidate set on an
// unfilled cell means the grid admits no solution, which callers detect
// rather than this package hiding it.
func (m Marks) Strip(d grid.Digit, positions []grid.Position) Marks {
	out := m.Clone()
	for _, p := range positions {
		if s, ok := out[p]; ok {
			out[p] = s.Remove(d)
		}
	}
	return out
}

// Clone returns a copy of the map. The digit sets are values, so the
// copy shares nothing with the original.
func (m Marks) Clone() Marks {
	out := make(Marks, len(m))
	for p, s := range m {
		out[p] = s
	}
	return out
}
