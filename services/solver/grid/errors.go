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

import "errors"

// Sentinel errors for grid construction and parsing.
var (
	// ErrMalformedGrid indicates structurally invalid input: wrong
	// dimensions, an out-of-range digit, or an unparseable cell rune.
	// It is only ever produced at construction time; a well-formed grid
	// that violates house constraints is not an error and is reported
	// through IsValid instead.
	ErrMalformedGrid = errors.New("malformed grid")
)
