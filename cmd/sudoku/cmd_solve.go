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
	"github.com/AleutianAI/AleutianSudoku/services/solver/engine"
	"github.com/AleutianAI/AleutianSudoku/services/solver/grid"
)

func runSolve(cmd *cobra.Command, args []string) {
	os.Exit(executeSolve(args[0]))
}

// executeSolve does the work of runSolve and returns the exit code so
// tests can drive it without the process exiting.
func executeSolve(arg string) int {
	start := time.Now()
	cfg := outputConfig()
	ctx := context.Background()

	gridStr, err := resolveGridArg(arg)
	if err != nil {
		OutputError(cfg.JSON, "Invalid grid", err)
		return CLIExitError
	}

	resp, err := newSolverService().Solve(ctx, gridStr, resolveParallelism())
	if err != nil {
		OutputError(cfg.JSON, "Solve failed", err)
		return CLIExitError
	}

	if !cfg.JSON && !cfg.Quiet {
		printSolveReport(gridStr, resp, traceOutput)
	}

	solved := resp.Status == engine.StatusSolved.String()
	return OutputResult(cfg, "solve", start, resp, !solved, nil)
}

// printSolveReport renders the final grid, the optional step trace, and
// a one-line outcome.
func printSolveReport(startGrid string, resp *solver.SolveResponse, withTrace bool) {
	renderer := GridRenderer{Start: grid.MustParse(startGrid)}
	fmt.Println(renderer.Render(grid.MustParse(resp.Grid), nil))

	if withTrace && len(resp.Steps) > 0 {
		fmt.Println()
		for i, step := range resp.Steps {
			fmt.Println(FormatStep(i+1, step))
		}
	}

	fmt.Println()
	switch resp.Status {
	case engine.StatusSolved.String():
		ux.Success(fmt.Sprintf("solved in %d steps, %d passes (%d ms)",
			len(resp.Steps), resp.Passes, resp.SolveTimeMs))
	case engine.StatusStuck.String():
		ux.Warning(fmt.Sprintf("stuck after %d steps, %d cells still empty",
			len(resp.Steps), resp.EmptyCells))
	default:
		ux.Error("the starting grid repeats a digit in a row, column, or region")
	}
}
