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
	"testing"
)

func TestDigit_Valid(t *testing.T) {
	tests := []struct {
		digit    Digit
		expected bool
	}{
		{NoDigit, false},
		{1, true},
		{5, true},
		{9, true},
		{10, false},
	}

	for _, tc := range tests {
		if got := tc.digit.Valid(); got != tc.expected {
			t.Errorf("Digit(%d).Valid() = %v, expected %v", tc.digit, got, tc.expected)
		}
	}
}

func TestDigitSet_AddRemoveHas(t *testing.T) {
	var s DigitSet
	if !s.IsEmpty() {
		t.Fatalf("zero DigitSet should be empty")
	}

	s = s.Add(3).Add(7).Add(3)
	if s.Count() != 2 {
		t.Errorf("Count() = %d, expected 2", s.Count())
	}
	if !s.Has(3) || !s.Has(7) {
		t.Errorf("set %v should contain 3 and 7", s)
	}
	if s.Has(5) {
		t.Errorf("set %v should not contain 5", s)
	}

	s = s.Remove(3)
	if s.Has(3) {
		t.Errorf("set %v should not contain 3 after Remove", s)
	}
	if !s.Has(7) {
		t.Errorf("set %v should still contain 7", s)
	}

	// Out-of-range digits are ignored.
	s = s.Add(0).Add(10)
	if s.Count() != 1 {
		t.Errorf("Count() = %d after adding invalid digits, expected 1", s.Count())
	}
}

func TestDigitSet_SetOperations(t *testing.T) {
	a := NewDigitSet(1, 2, 3)
	b := NewDigitSet(3, 4)

	if got := a.Union(b); got != NewDigitSet(1, 2, 3, 4) {
		t.Errorf("Union = %v, expected {1 2 3 4}", got)
	}
	if got := a.Intersect(b); got != NewDigitSet(3) {
		t.Errorf("Intersect = %v, expected {3}", got)
	}
	if got := a.Without(b); got != NewDigitSet(1, 2) {
		t.Errorf("Without = %v, expected {1 2}", got)
	}
	if !NewDigitSet(3).SubsetOf(a) {
		t.Errorf("{3} should be a subset of %v", a)
	}
	if b.SubsetOf(a) {
		t.Errorf("%v should not be a subset of %v", b, a)
	}
	if !NewDigitSet().SubsetOf(a) {
		t.Errorf("empty set should be a subset of anything")
	}
}

func TestDigitSet_Single(t *testing.T) {
	if _, ok := NewDigitSet().Single(); ok {
		t.Errorf("empty set should not report a single member")
	}
	if _, ok := NewDigitSet(2, 8).Single(); ok {
		t.Errorf("two-member set should not report a single member")
	}
	d, ok := NewDigitSet(6).Single()
	if !ok || d != 6 {
		t.Errorf("Single() = (%v, %v), expected (6, true)", d, ok)
	}
}

func TestDigitSet_Digits(t *testing.T) {
	got := NewDigitSet(9, 1, 4).Digits()
	expected := []Digit{1, 4, 9}
	if len(got) != len(expected) {
		t.Fatalf("Digits() = %v, expected %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Digits()[%d] = %v, expected %v (ascending order)", i, got[i], expected[i])
		}
	}
}

func TestFullDigitSet(t *testing.T) {
	if FullDigitSet.Count() != 9 {
		t.Fatalf("FullDigitSet.Count() = %d, expected 9", FullDigitSet.Count())
	}
	for d := Digit(1); d <= 9; d++ {
		if !FullDigitSet.Has(d) {
			t.Errorf("FullDigitSet should contain %d", d)
		}
	}
}

func TestPosition_Ordering(t *testing.T) {
	tests := []struct {
		a, b     Position
		expected bool
	}{
		{Position{0, 0}, Position{0, 1}, true},
		{Position{0, 8}, Position{1, 0}, true},
		{Position{4, 4}, Position{4, 4}, false},
		{Position{5, 2}, Position{4, 8}, false},
	}

	for _, tc := range tests {
		if got := tc.a.Less(tc.b); got != tc.expected {
			t.Errorf("%v.Less(%v) = %v, expected %v", tc.a, tc.b, got, tc.expected)
		}
	}
}

func TestPosition_Region(t *testing.T) {
	tests := []struct {
		pos      Position
		expected RegionPosition
	}{
		{Position{0, 0}, RegionPosition{0, 0}},
		{Position{2, 2}, RegionPosition{0, 0}},
		{Position{3, 0}, RegionPosition{1, 0}},
		{Position{4, 7}, RegionPosition{1, 2}},
		{Position{8, 8}, RegionPosition{2, 2}},
	}

	for _, tc := range tests {
		if got := tc.pos.Region(); got != tc.expected {
			t.Errorf("%v.Region() = %v, expected %v", tc.pos, got, tc.expected)
		}
	}
}

func TestRegionPosition_TopLeft(t *testing.T) {
	tests := []struct {
		region   RegionPosition
		expected Position
	}{
		{RegionPosition{0, 0}, Position{0, 0}},
		{RegionPosition{1, 2}, Position{3, 6}},
		{RegionPosition{2, 1}, Position{6, 3}},
	}

	for _, tc := range tests {
		if got := tc.region.TopLeft(); got != tc.expected {
			t.Errorf("%v.TopLeft() = %v, expected %v", tc.region, got, tc.expected)
		}
	}
}

func TestAllRegionPositions_RowMajor(t *testing.T) {
	got := AllRegionPositions()
	if len(got) != 9 {
		t.Fatalf("AllRegionPositions() returned %d regions, expected 9", len(got))
	}
	expected := []RegionPosition{
		{0, 0}, {0, 1}, {0, 2},
		{1, 0}, {1, 1}, {1, 2},
		{2, 0}, {2, 1}, {2, 2},
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("AllRegionPositions()[%d] = %v, expected %v", i, got[i], expected[i])
		}
	}
}

func TestAllPositions(t *testing.T) {
	got := AllPositions()
	if len(got) != NumCells {
		t.Fatalf("AllPositions() returned %d positions, expected %d", len(got), NumCells)
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].Less(got[i]) {
			t.Errorf("AllPositions() not in ascending order at %d: %v then %v", i, got[i-1], got[i])
		}
	}
}
