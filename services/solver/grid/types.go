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
	"math/bits"
)

// Board dimensions.
const (
	// Size is the number of rows, columns, and regions in a grid.
	Size = 9

	// RegionSize is the edge length of one region (3x3 block).
	RegionSize = 3

	// NumCells is the total number of cells in a grid.
	NumCells = Size * Size
)

// Digit is a cell value in the range [1,9]. The zero value NoDigit marks
// an unfilled cell.
type Digit uint8

// NoDigit is the absence of a placed value.
const NoDigit Digit = 0

// Valid reports whether d is a placeable value in [1,9].
func (d Digit) Valid() bool {
	return d >= 1 && d <= Size
}

// String returns the decimal representation of the digit, or "." for
// NoDigit.
func (d Digit) String() string {
	if d == NoDigit {
		return "."
	}
	return fmt.Sprintf("%d", uint8(d))
}

// DigitSet is a set of digits 1-9 packed into a bitmask (bit d-1 is set
// when digit d is a member). The zero value is the empty set.
type DigitSet uint16

// FullDigitSet contains every digit 1 through 9.
const FullDigitSet DigitSet = (1 << Size) - 1

// NewDigitSet builds a set from the given digits. Digits outside [1,9]
// are ignored.
func NewDigitSet(digits ...Digit) DigitSet {
	var s DigitSet
	for _, d := range digits {
		s = s.Add(d)
	}
	return s
}

// Add returns the set with d included.
func (s DigitSet) Add(d Digit) DigitSet {
	if !d.Valid() {
		return s
	}
	return s | 1<<(d-1)
}

// Remove returns the set with d excluded.
func (s DigitSet) Remove(d Digit) DigitSet {
	if !d.Valid() {
		return s
	}
	return s &^ (1 << (d - 1))
}

// Has reports whether d is a member of the set.
func (s DigitSet) Has(d Digit) bool {
	if !d.Valid() {
		return false
	}
	return s&(1<<(d-1)) != 0
}

// Count returns the number of digits in the set.
func (s DigitSet) Count() int {
	return bits.OnesCount16(uint16(s))
}

// IsEmpty reports whether the set has no members.
func (s DigitSet) IsEmpty() bool {
	return s == 0
}

// Union returns the set of digits in s or o.
func (s DigitSet) Union(o DigitSet) DigitSet {
	return s | o
}

// Intersect returns the set of digits in both s and o.
func (s DigitSet) Intersect(o DigitSet) DigitSet {
	return s & o
}

// Without returns the set of digits in s that are not in o.
func (s DigitSet) Without(o DigitSet) DigitSet {
	return s &^ o
}

// SubsetOf reports whether every digit in s is also in o.
func (s DigitSet) SubsetOf(o DigitSet) bool {
	return s&^o == 0
}

// Single returns the sole member of a one-element set. The second return
// is false when the set does not have exactly one member.
func (s DigitSet) Single() (Digit, bool) {
	if s.Count() != 1 {
		return NoDigit, false
	}
	return Digit(bits.TrailingZeros16(uint16(s)) + 1), true
}

// Digits returns the members of the set in ascending order.
func (s DigitSet) Digits() []Digit {
	out := make([]Digit, 0, s.Count())
	for d := Digit(1); d <= Size; d++ {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// String returns the set in "{3 7}" form.
func (s DigitSet) String() string {
	out := "{"
	for i, d := range s.Digits() {
		if i > 0 {
			out += " "
		}
		out += d.String()
	}
	return out + "}"
}

// Position is a cell coordinate. Row and Col are both in [0,8].
// Positions order lexicographically by (Row, Col).
type Position struct {
	Row int
	Col int
}

// Valid reports whether the position lies on the board.
func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// Index returns the row-major cell index in [0,80].
func (p Position) Index() int {
	return p.Row*Size + p.Col
}

// Less reports whether p orders before o.
func (p Position) Less(o Position) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Col < o.Col
}

// Region returns the position of the region containing p.
func (p Position) Region() RegionPosition {
	return RegionPosition{Row: p.Row / RegionSize, Col: p.Col / RegionSize}
}

// String returns the position in "r4c7" form.
func (p Position) String() string {
	return fmt.Sprintf("r%dc%d", p.Row, p.Col)
}

// RegionPosition identifies one of the nine non-overlapping 3x3 regions.
// Row and Col are both in [0,2].
type RegionPosition struct {
	Row int
	Col int
}

// Valid reports whether the region position lies on the board.
func (rp RegionPosition) Valid() bool {
	return rp.Row >= 0 && rp.Row < RegionSize && rp.Col >= 0 && rp.Col < RegionSize
}

// TopLeft returns the cell position of the region's top-left corner.
func (rp RegionPosition) TopLeft() Position {
	return Position{Row: rp.Row * RegionSize, Col: rp.Col * RegionSize}
}

// String returns the region position in "R1,2" form.
func (rp RegionPosition) String() string {
	return fmt.Sprintf("R%d,%d", rp.Row, rp.Col)
}

// AllRegionPositions returns the nine region positions in row-major
// order.
func AllRegionPositions() []RegionPosition {
	out := make([]RegionPosition, 0, Size)
	for r := 0; r < RegionSize; r++ {
		for c := 0; c < RegionSize; c++ {
			out = append(out, RegionPosition{Row: r, Col: c})
		}
	}
	return out
}

// AllPositions returns all 81 cell positions in row-major order.
func AllPositions() []Position {
	out := make([]Position, 0, NumCells)
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			out = append(out, Position{Row: r, Col: c})
		}
	}
	return out
}
