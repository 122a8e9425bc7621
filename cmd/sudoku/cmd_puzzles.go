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
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianSudoku/pkg/ux"
	"github.com/AleutianAI/AleutianSudoku/services/solver"
	"github.com/AleutianAI/AleutianSudoku/services/solver/engine"
	"github.com/AleutianAI/AleutianSudoku/services/solver/grid"
	"github.com/AleutianAI/AleutianSudoku/services/solver/storage/badger"
)

// PuzzleDeleteResult holds puzzles rm output.
type PuzzleDeleteResult struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func runPuzzlesList(cmd *cobra.Command, args []string) {
	os.Exit(executePuzzlesList())
}

func executePuzzlesList() int {
	start := time.Now()
	cfg := outputConfig()
	ctx := context.Background()

	svc, cleanup, err := openPuzzleStore()
	if err != nil {
		OutputError(cfg.JSON, "Cannot open puzzle library", err)
		return CLIExitError
	}
	defer cleanup()

	metas, err := svc.ListPuzzles(ctx)
	if err != nil {
		OutputError(cfg.JSON, "Cannot list puzzles", err)
		return CLIExitError
	}

	if !cfg.JSON && !cfg.Quiet {
		printPuzzleList(metas)
	}

	data := solver.ListPuzzlesResponse{Puzzles: metas, Count: len(metas)}
	return OutputResult(cfg, "puzzles list", start, data, false, nil)
}

func printPuzzleList(metas []badger.PuzzleMeta) {
	if len(metas) == 0 {
		ux.Muted("library is empty; add puzzles with 'sudoku puzzles add'")
		return
	}
	for _, m := range metas {
		icon := ux.IconPending
		status := "unsolved"
		if m.Solved {
			icon = ux.IconSuccess
			status = "solved"
		}
		added := time.UnixMilli(m.CreatedAtMilli).Format("2006-01-02")
		fmt.Printf("%s %-36s  %-24s  %-8s  %s\n", icon.Render(), m.ID, m.Name, status, added)
	}
	fmt.Println()
	ux.Muted(fmt.Sprintf("%d puzzles", len(metas)))
}

func runPuzzlesShow(cmd *cobra.Command, args []string) {
	os.Exit(executePuzzlesShow(args[0]))
}

func executePuzzlesShow(ref string) int {
	start := time.Now()
	cfg := outputConfig()
	ctx := context.Background()

	svc, cleanup, err := openPuzzleStore()
	if err != nil {
		OutputError(cfg.JSON, "Cannot open puzzle library", err)
		return CLIExitError
	}
	defer cleanup()

	p, err := findPuzzle(ctx, svc, ref)
	if err != nil {
		OutputError(cfg.JSON, "Puzzle not found", err)
		return CLIExitError
	}

	if !cfg.JSON && !cfg.Quiet {
		printStoredPuzzle(p)
	}

	return OutputResult(cfg, "puzzles show", start, solver.PuzzleResponse{Puzzle: *p}, false, nil)
}

func printStoredPuzzle(p *badger.StoredPuzzle) {
	ux.Title(p.Name)
	added := time.UnixMilli(p.CreatedAtMilli).Format("2006-01-02 15:04")
	ux.Muted(fmt.Sprintf("%s  added %s", p.ID, added))
	fmt.Println()

	g := grid.MustParse(p.Grid)
	renderer := GridRenderer{Start: g}
	fmt.Println(renderer.Render(g, nil))

	if p.Solution != nil {
		fmt.Println()
		ux.Info(fmt.Sprintf("solution (%d steps)", len(p.Steps)))
		fmt.Println(renderer.Render(grid.MustParse(*p.Solution), nil))
	}
}

func runPuzzlesAdd(cmd *cobra.Command, args []string) {
	os.Exit(executePuzzlesAdd(args[0]))
}

func executePuzzlesAdd(arg string) int {
	start := time.Now()
	cfg := outputConfig()
	ctx := context.Background()

	gridStr, err := resolveGridArg(arg)
	if err != nil {
		OutputError(cfg.JSON, "Invalid grid", err)
		return CLIExitError
	}

	name := puzzleName
	if name == "" {
		// A file argument names the puzzle after itself; a literal
		// grid has nothing to derive a name from.
		info, statErr := os.Stat(arg)
		if statErr != nil || info.IsDir() {
			OutputError(cfg.JSON, "Missing name",
				fmt.Errorf("--name is required when adding a grid literal"))
			return CLIExitError
		}
		base := filepath.Base(arg)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	svc, cleanup, err := openPuzzleStore()
	if err != nil {
		OutputError(cfg.JSON, "Cannot open puzzle library", err)
		return CLIExitError
	}
	defer cleanup()

	p, err := svc.SavePuzzle(ctx, name, gridStr)
	if err != nil {
		OutputError(cfg.JSON, "Cannot save puzzle", err)
		return CLIExitError
	}

	if !cfg.JSON && !cfg.Quiet {
		ux.Success(fmt.Sprintf("saved %q (%s)", p.Name, p.ID))
	}

	return OutputResult(cfg, "puzzles add", start, solver.PuzzleResponse{Puzzle: *p}, false, nil)
}

func runPuzzlesRm(cmd *cobra.Command, args []string) {
	os.Exit(executePuzzlesRm(args[0]))
}

func executePuzzlesRm(ref string) int {
	start := time.Now()
	cfg := outputConfig()
	ctx := context.Background()

	svc, cleanup, err := openPuzzleStore()
	if err != nil {
		OutputError(cfg.JSON, "Cannot open puzzle library", err)
		return CLIExitError
	}
	defer cleanup()

	p, err := findPuzzle(ctx, svc, ref)
	if err != nil {
		OutputError(cfg.JSON, "Puzzle not found", err)
		return CLIExitError
	}

	if err := svc.DeletePuzzle(ctx, p.ID); err != nil {
		OutputError(cfg.JSON, "Cannot delete puzzle", err)
		return CLIExitError
	}

	if !cfg.JSON && !cfg.Quiet {
		ux.Success(fmt.Sprintf("deleted %q (%s)", p.Name, p.ID))
	}

	data := PuzzleDeleteResult{ID: p.ID, Name: p.Name}
	return OutputResult(cfg, "puzzles rm", start, data, false, nil)
}

func runPuzzlesSolve(cmd *cobra.Command, args []string) {
	os.Exit(executePuzzlesSolve(args[0]))
}

func executePuzzlesSolve(ref string) int {
	start := time.Now()
	cfg := outputConfig()
	ctx := context.Background()

	svc, cleanup, err := openPuzzleStore()
	if err != nil {
		OutputError(cfg.JSON, "Cannot open puzzle library", err)
		return CLIExitError
	}
	defer cleanup()

	p, err := findPuzzle(ctx, svc, ref)
	if err != nil {
		OutputError(cfg.JSON, "Puzzle not found", err)
		return CLIExitError
	}

	resp, err := svc.SolvePuzzle(ctx, p.ID, resolveParallelism())
	if err != nil {
		OutputError(cfg.JSON, "Solve failed", err)
		return CLIExitError
	}

	if !cfg.JSON && !cfg.Quiet {
		ux.Title(p.Name)
		printSolveReport(p.Grid, &resp.SolveResponse, traceOutput)
	}

	solved := resp.Status == engine.StatusSolved.String()
	return OutputResult(cfg, "puzzles solve", start, resp, !solved, nil)
}
