// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianSudoku/pkg/ux"
	"github.com/AleutianAI/AleutianSudoku/services/solver"
	"github.com/AleutianAI/AleutianSudoku/services/solver/grid"
)

func runHint(cmd *cobra.Command, args []string) {
	os.Exit(executeHint(args[0]))
}

func executeHint(arg string) int {
	start := time.Now()
	cfg := outputConfig()
	ctx := context.Background()

	gridStr, err := resolveGridArg(arg)
	if err != nil {
		OutputError(cfg.JSON, "Invalid grid", err)
		return CLIExitError
	}

	resp, err := newSolverService().Hint(ctx, gridStr)
	if err != nil {
		OutputError(cfg.JSON, "Hint failed", err)
		return CLIExitError
	}

	if !cfg.JSON && !cfg.Quiet {
		printHintText(gridStr, resp)
	}

	return OutputResult(cfg, "hint", start, resp, !resp.Found, nil)
}

// printHintText shows the grid with the hinted cell placed and
// highlighted, plus the step's strategy and rationale.
func printHintText(startGrid string, resp *solver.HintResponse) {
	switch {
	case !resp.Valid:
		ux.Error("the grid repeats a digit in a row, column, or region")
	case !resp.Found:
		ux.Warning("no deducible placement found")
	default:
		step := *resp.Step
		g := grid.MustParse(startGrid)
		pos := grid.Position{Row: step.Row, Col: step.Column}
		renderer := GridRenderer{Start: g}
		fmt.Println(renderer.Render(g.WithCellValue(pos, grid.Digit(step.Digit)), &pos))
		fmt.Println()
		fmt.Println(FormatStep(1, step))
	}
}
