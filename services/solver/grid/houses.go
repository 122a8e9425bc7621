// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package grid

// House is the common contract of the three house views. A house covers
// 9 cells that must jointly contain each digit at most once. Positions
// are returned in a deterministic order (ascending column for rows,
// ascending row for columns, row-major within a region) so that callers
// iterating a house always see cells in the same sequence.
type House interface {
	// Positions returns the 9 cell positions covered by the house.
	Positions() [Size]Position

	// UsedDigits returns the set of digits already placed in the house.
	UsedDigits() DigitSet

	// RemainingUnusedDigits returns {1..9} minus the placed digits.
	RemainingUnusedDigits() DigitSet

	// RemainingUnfilledCells returns the positions of the house's empty
	// cells in position order.
	RemainingUnfilledCells() []Position
}

// Row is the house view over one grid row.
type Row struct {
	grid  Grid
	index int
}

// Index returns the row index in [0,8].
func (r Row) Index() int {
	return r.index
}

// Positions returns the row's cells in ascending column order.
func (r Row) Positions() [Size]Position {
	var out [Size]Position
	for c := 0; c < Size; c++ {
		out[c] = Position{Row: r.index, Col: c}
	}
	return out
}

// UsedDigits returns the digits already placed in the row.
func (r Row) UsedDigits() DigitSet {
	return usedDigits(r.grid, r.Positions())
}

// RemainingUnusedDigits returns the digits not yet placed in the row.
func (r Row) RemainingUnusedDigits() DigitSet {
	return FullDigitSet.Without(r.UsedDigits())
}

// RemainingUnfilledCells returns the row's empty cells in ascending
// column order.
func (r Row) RemainingUnfilledCells() []Position {
	return unfilledCells(r.grid, r.Positions())
}

// Column is the house view over one grid column.
type Column struct {
	grid  Grid
	index int
}

// Index returns the column index in [0,8].
func (c Column) Index() int {
	return c.index
}

// Positions returns the column's cells in ascending row order.
func (c Column) Positions() [Size]Position {
	var out [Size]Position
	for r := 0; r < Size; r++ {
		out[r] = Position{Row: r, Col: c.index}
	}
	return out
}

// UsedDigits returns the digits already placed in the column.
func (c Column) UsedDigits() DigitSet {
	return usedDigits(c.grid, c.Positions())
}

// RemainingUnusedDigits returns the digits not yet placed in the column.
func (c Column) RemainingUnusedDigits() DigitSet {
	return FullDigitSet.Without(c.UsedDigits())
}

// RemainingUnfilledCells returns the column's empty cells in ascending
// row order.
func (c Column) RemainingUnfilledCells() []Position {
	return unfilledCells(c.grid, c.Positions())
}

// Region is the house view over one 3x3 region.
type Region struct {
	grid Grid
	pos  RegionPosition
}

// RegionPos returns the region's position on the 3x3 region lattice.
func (r Region) RegionPos() RegionPosition {
	return r.pos
}

// Positions returns the region's cells in row-major order.
func (r Region) Positions() [Size]Position {
	var out [Size]Position
	topLeft := r.pos.TopLeft()
	i := 0
	for dr := 0; dr < RegionSize; dr++ {
		for dc := 0; dc < RegionSize; dc++ {
			out[i] = Position{Row: topLeft.Row + dr, Col: topLeft.Col + dc}
			i++
		}
	}
	return out
}

// UsedDigits returns the digits already placed in the region.
func (r Region) UsedDigits() DigitSet {
	return usedDigits(r.grid, r.Positions())
}

// RemainingUnusedDigits returns the digits not yet placed in the region.
func (r Region) RemainingUnusedDigits() DigitSet {
	return FullDigitSet.Without(r.UsedDigits())
}

// RemainingUnfilledCells returns the region's empty cells in row-major
// order.
func (r Region) RemainingUnfilledCells() []Position {
	return unfilledCells(r.grid, r.Positions())
}

func usedDigits(g Grid, ps [Size]Position) DigitSet {
	var s DigitSet
	for _, p := range ps {
		s = s.Add(g.CellValue(p))
	}
	return s
}

func unfilledCells(g Grid, ps [Size]Position) []Position {
	var out []Position
	for _, p := range ps {
		if !g.Filled(p) {
			out = append(out, p)
		}
	}
	return out
}
