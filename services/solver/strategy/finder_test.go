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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianSudoku/services/solver/grid"
)

func TestCatalog_PriorityOrder(t *testing.T) {
	view := NewGridView(grid.Grid{})
	finders := Catalog(view)

	// 9 open singles + 81 row eliminations + 81 column eliminations +
	// 9 row pairs + 9 column pairs + 2 X-Wings.
	require.Len(t, finders, 191)

	assert.Equal(t, "open-single-in-region", finders[0].Name())
	assert.Equal(t, "open-single-in-region", finders[8].Name())
	assert.Equal(t, "visual-elimination-in-row", finders[9].Name())
	assert.Equal(t, "visual-elimination-in-row", finders[89].Name())
	assert.Equal(t, "visual-elimination-in-column", finders[90].Name())
	assert.Equal(t, "visual-elimination-in-column", finders[170].Name())
	assert.Equal(t, "naked-pair-in-row", finders[171].Name())
	assert.Equal(t, "naked-pair-in-column", finders[180].Name())
	assert.Equal(t, "x-wing-in-rows", finders[189].Name())
	assert.Equal(t, "x-wing-in-columns", finders[190].Name())
}

// The cheapest applicable technique wins: with an open single staged,
// the first firing finder in catalog order is the open single even
// though visual elimination would also find the cell.
func TestCatalog_SimplestFirst(t *testing.T) {
	hole := grid.Position{Row: 0, Col: 0}
	g := grid.MustParse(solvedFixture).WithCellValue(hole, grid.NoDigit)

	for _, f := range Catalog(NewGridView(g)) {
		result, ok := f.FindNextStepResult()
		if !ok {
			continue
		}
		assert.Equal(t, "open-single-in-region", f.Name())
		assert.Equal(t, hole, result.Step.Position)
		return
	}
	t.Fatal("no finder fired on a one-hole grid")
}
