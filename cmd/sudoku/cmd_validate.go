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
)

func runValidate(cmd *cobra.Command, args []string) {
	os.Exit(executeValidate(args[0]))
}

func executeValidate(arg string) int {
	start := time.Now()
	cfg := outputConfig()
	ctx := context.Background()

	gridStr, err := resolveGridArg(arg)
	if err != nil {
		OutputError(cfg.JSON, "Invalid grid", err)
		return CLIExitError
	}

	resp, err := newSolverService().Validate(ctx, gridStr)
	if err != nil {
		OutputError(cfg.JSON, "Validate failed", err)
		return CLIExitError
	}

	if !cfg.JSON && !cfg.Quiet {
		printValidateText(resp)
	}

	// A valid but incomplete grid is still a success; only a rule
	// violation maps to the findings exit code.
	return OutputResult(cfg, "validate", start, resp, !resp.Valid, nil)
}

func printValidateText(resp *solver.ValidateResponse) {
	switch {
	case !resp.Valid:
		ux.Error("invalid: a row, column, or region repeats a digit")
	case resp.Complete:
		ux.Success("valid and complete")
	default:
		ux.Info(fmt.Sprintf("valid, %d cells empty", resp.EmptyCells))
	}
}
