// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package grid implements the immutable 9x9 board model for the
// deductive solver: digits, positions, the grid itself, and house views
// (rows, columns, regions) with their remaining-cell and remaining-digit
// queries. Grids are plain values; every transition returns a new value
// and prior versions are simply discarded.
package grid

import "fmt"

// Grid is an immutable 9x9 board of optional digits. The zero value is
// the empty grid. Grids are copied by value; WithCellValue returns a new
// Grid and never mutates the receiver.
type Grid struct {
	cells [NumCells]Digit
}

// New builds a Grid from a 9x9 array of cell values.
//
// Description:
//
//	Each row must contain exactly 9 entries. Cell values must be 0
//	(empty) or a digit in [1,9]. The returned grid is structurally
//	well formed but not necessarily valid; callers decide whether to
//	check IsValid.
//
// Inputs:
//   - rows: 9 rows of 9 cell values each.
//
// Outputs:
//   - Grid: the constructed board.
//   - error: wraps ErrMalformedGrid on wrong dimensions or an
//     out-of-range value.
func New(rows [][]int) (Grid, error) {
	var g Grid
	if len(rows) != Size {
		return Grid{}, fmt.Errorf("expected %d rows, got %d: %w", Size, len(rows), ErrMalformedGrid)
	}
	for r, row := range rows {
		if len(row) != Size {
			return Grid{}, fmt.Errorf("row %d: expected %d cells, got %d: %w", r, Size, len(row), ErrMalformedGrid)
		}
		for c, v := range row {
			if v < 0 || v > Size {
				return Grid{}, fmt.Errorf("cell r%dc%d: value %d out of range: %w", r, c, v, ErrMalformedGrid)
			}
			g.cells[r*Size+c] = Digit(v)
		}
	}
	return g, nil
}

// CellValue returns the digit at p, or NoDigit when the cell is empty.
// p must be a valid position.
func (g Grid) CellValue(p Position) Digit {
	return g.cells[p.Index()]
}

// Filled reports whether the cell at p holds a digit.
func (g Grid) Filled(p Position) bool {
	return g.cells[p.Index()] != NoDigit
}

// WithCellValue returns a new Grid with the cell at p set to d. Passing
// NoDigit clears the cell. The result may violate house constraints;
// callers that care must check IsValid on the result. p must be a valid
// position.
func (g Grid) WithCellValue(p Position, d Digit) Grid {
	g.cells[p.Index()] = d
	return g
}

// IsValid reports whether every house (each row, column, and region)
// contains no duplicate placed digits. Empty cells are ignored.
func (g Grid) IsValid() bool {
	var rowSeen, colSeen [Size]DigitSet
	var regionSeen [RegionSize][RegionSize]DigitSet
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			d := g.cells[r*Size+c]
			if d == NoDigit {
				continue
			}
			rr, rc := r/RegionSize, c/RegionSize
			if rowSeen[r].Has(d) || colSeen[c].Has(d) || regionSeen[rr][rc].Has(d) {
				return false
			}
			rowSeen[r] = rowSeen[r].Add(d)
			colSeen[c] = colSeen[c].Add(d)
			regionSeen[rr][rc] = regionSeen[rr][rc].Add(d)
		}
	}
	return true
}

// IsComplete reports whether all 81 cells hold a digit.
func (g Grid) IsComplete() bool {
	for _, d := range g.cells {
		if d == NoDigit {
			return false
		}
	}
	return true
}

// EmptyPositions returns the positions of all unfilled cells in
// row-major order.
func (g Grid) EmptyPositions() []Position {
	var out []Position
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if g.cells[r*Size+c] == NoDigit {
				out = append(out, Position{Row: r, Col: c})
			}
		}
	}
	return out
}

// CanPlace reports whether placing d at p keeps the grid valid: the cell
// is empty and d is not already used in p's row, column, or region. This
// is the pure probe predicate the elimination strategies use; no
// hypothetical grid is materialized.
func (g Grid) CanPlace(p Position, d Digit) bool {
	if !d.Valid() || g.Filled(p) {
		return false
	}
	used := g.Row(p.Row).UsedDigits().
		Union(g.Column(p.Col).UsedDigits()).
		Union(g.Region(p.Region()).UsedDigits())
	return !used.Has(d)
}

// Row returns the house view for row index i in [0,8].
func (g Grid) Row(i int) Row {
	return Row{grid: g, index: i}
}

// Column returns the house view for column index i in [0,8].
func (g Grid) Column(i int) Column {
	return Column{grid: g, index: i}
}

// Region returns the house view for the region at rp.
func (g Grid) Region(rp RegionPosition) Region {
	return Region{grid: g, pos: rp}
}
