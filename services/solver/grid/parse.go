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

import (
	"fmt"
	"strings"
	"unicode"
)

// Parse builds a Grid from a textual representation.
//
// Description:
//
//	Accepts the 81-character single-line form and the 9-line
//	space-separated form interchangeably: all whitespace is ignored
//	and the remaining runes are read in row-major order. '0' and '.'
//	both mark an empty cell; '1'..'9' are placed digits. The result is
//	structurally well formed; semantic validity (duplicate digits in a
//	house) is the caller's concern via IsValid.
//
// Inputs:
//   - s: the textual grid.
//
// Outputs:
//   - Grid: the parsed board.
//   - error: wraps ErrMalformedGrid on an unexpected rune or a cell
//     count other than 81.
func Parse(s string) (Grid, error) {
	var g Grid
	i := 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		if i >= NumCells {
			i++
			continue
		}
		switch {
		case r == '0' || r == '.':
			g.cells[i] = NoDigit
		case r >= '1' && r <= '9':
			g.cells[i] = Digit(r - '0')
		default:
			return Grid{}, fmt.Errorf("cell %d: unexpected rune %q: %w", i, r, ErrMalformedGrid)
		}
		i++
	}
	if i != NumCells {
		return Grid{}, fmt.Errorf("expected %d cells, got %d: %w", NumCells, i, ErrMalformedGrid)
	}
	return g, nil
}

// MustParse is Parse for known-good literals, typically in tests. It
// panics on error.
func MustParse(s string) Grid {
	g, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return g
}

// String renders the grid as 9 lines of 9 space-separated digits with 0
// for an empty cell.
func (g Grid) String() string {
	var b strings.Builder
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			b.WriteByte('0' + byte(g.cells[r*Size+c]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Compact renders the grid as a single 81-character line with 0 for an
// empty cell. Compact output round-trips through Parse.
func (g Grid) Compact() string {
	var b strings.Builder
	b.Grow(NumCells)
	for _, d := range g.cells {
		b.WriteByte('0' + byte(d))
	}
	return b.String()
}
