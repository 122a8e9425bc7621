// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for user-provided inputs.
//
// This package contains validators for puzzle grids and puzzle names that
// arrive through the HTTP API, the CLI, or watched puzzle files. Using these
// validators keeps malformed boards out of the solver core and hostile names
// out of store keys and log lines.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// GridStringLength is the length of a compact grid string: one character
// per cell, row-major.
const GridStringLength = 81

// gridPattern matches compact grid strings.
// Allows: digits 1-9 for filled cells, '0' or '.' for empty cells.
var gridPattern = regexp.MustCompile(`^[0-9.]{81}$`)

// namePattern matches valid puzzle names.
// Allows: letters, digits, then spaces, dots, hyphens, underscores.
// Max length: 64 characters.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ._\-]{0,63}$`)

// ValidateGridString validates a compact 81-character puzzle grid.
//
// Valid grids:
//   - Exactly 81 characters, one per cell in row-major order
//   - Digits 1-9 for filled cells
//   - '0' or '.' for empty cells
//
// Returns an error if the grid is invalid.
//
// Example:
//
//	if err := validation.ValidateGridString(raw); err != nil {
//	    return nil, fmt.Errorf("invalid grid: %w", err)
//	}
//	// Safe to hand to the parser
func ValidateGridString(s string) error {
	if s == "" {
		return fmt.Errorf("grid cannot be empty")
	}

	if len(s) != GridStringLength {
		return fmt.Errorf("grid must be %d characters, got %d", GridStringLength, len(s))
	}

	if !gridPattern.MatchString(s) {
		return fmt.Errorf("invalid grid format: cells must be digits 0-9 or '.'")
	}

	return nil
}

// ValidatePuzzleName validates a puzzle name for use in store keys and
// file names.
//
// Valid names:
//   - 1-64 characters
//   - Starts with a letter or digit
//   - Letters, digits, spaces, dots, hyphens, underscores
//
// Returns an error if the name is invalid.
func ValidatePuzzleName(name string) error {
	if name == "" {
		return fmt.Errorf("puzzle name cannot be empty")
	}

	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid puzzle name: %q (must be 1-64 alphanumeric chars, spaces, dots, hyphens, or underscores)", name)
	}

	return nil
}

// SanitizePuzzleName normalizes and validates a puzzle name.
// Returns the trimmed name if valid, or an error if invalid.
//
// Use this when accepting names from files or the CLI:
//
//	safeName, err := validation.SanitizePuzzleName(userInput)
//	if err != nil {
//	    return err
//	}
//	// safeName is trimmed and validated
func SanitizePuzzleName(name string) (string, error) {
	normalized := strings.TrimSpace(name)
	if err := ValidatePuzzleName(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}

// NormalizeGridString maps the two empty-cell notations onto one: every
// '.' becomes '0'. It does not validate; call ValidateGridString first.
func NormalizeGridString(s string) string {
	return strings.ReplaceAll(s, ".", "0")
}
