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

import "github.com/AleutianAI/AleutianSudoku/services/solver/grid"

// Combinations returns all k-element combinations of the set's digits.
//
// Description:
//
//	The digits of the set are taken in ascending order and the
//	combinations are emitted in lexicographic order, so callers that
//	take "the first qualifying combination" get a deterministic
//	tie-break. For {3,5,7} and k=2 the output is [3 5], [3 7], [5 7].
//
// Inputs:
//   - s: the source digit set.
//   - k: the combination size.
//
// Outputs:
//   - the combinations in lexicographic order; nil when k is negative
//     or larger than the set, and a single empty combination when k is
//     zero.
func Combinations(s grid.DigitSet, k int) [][]grid.Digit {
	digits := s.Digits()
	if k < 0 || k > len(digits) {
		return nil
	}
	if k == 0 {
		return [][]grid.Digit{{}}
	}

	var out [][]grid.Digit
	combo := make([]grid.Digit, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			out = append(out, append([]grid.Digit(nil), combo...))
			return
		}
		for i := start; i <= len(digits)-(k-depth); i++ {
			combo[depth] = digits[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return out
}
