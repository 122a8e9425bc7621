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

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianSudoku/pkg/ux"
	"github.com/AleutianAI/AleutianSudoku/services/solver"
	"github.com/AleutianAI/AleutianSudoku/services/solver/engine"
	"github.com/AleutianAI/AleutianSudoku/services/solver/grid"
	"github.com/AleutianAI/AleutianSudoku/services/solver/strategy"
)

func runWatch(cmd *cobra.Command, args []string) {
	os.Exit(executeWatch(args[0]))
}

// executeWatch solves the grid up front, then replays the recorded
// trace interactively. Non-terminal stdout falls back to a plain
// printed trace so watch still works in pipes.
func executeWatch(arg string) int {
	start := time.Now()
	cfg := outputConfig()
	ctx := context.Background()

	gridStr, err := resolveGridArg(arg)
	if err != nil {
		OutputError(cfg.JSON, "Invalid grid", err)
		return CLIExitError
	}

	// The hook records which pass found each step; the response carries
	// the steps themselves in the same order.
	passes := make([]int, 0, 64)
	resp, err := newSolverService().StreamSolve(ctx, gridStr, resolveParallelism(),
		func(pass int, step strategy.Step) {
			passes = append(passes, pass)
		})
	if err != nil {
		OutputError(cfg.JSON, "Solve failed", err)
		return CLIExitError
	}

	solved := resp.Status == engine.StatusSolved.String()

	if cfg.JSON || cfg.Quiet {
		return OutputResult(cfg, "watch", start, resp, !solved, nil)
	}

	if ux.GetMode() == ux.ModePlain || !ux.StdoutIsTerminal() {
		printSolveReport(gridStr, resp, true)
		if solved {
			return CLIExitSuccess
		}
		return CLIExitFindings
	}

	startGrid := grid.MustParse(gridStr)
	model := newWatchModel(startGrid, resp.Status, buildFrames(startGrid, resp.Steps, passes))
	if err := runWatchTUI(model); err != nil {
		OutputError(false, "Replay failed", err)
		return CLIExitError
	}

	if solved {
		return CLIExitSuccess
	}
	return CLIExitFindings
}

// buildFrames replays the trace against the starting grid so every
// replay position has its own immutable snapshot.
func buildFrames(start grid.Grid, steps []solver.StepInfo, passes []int) []stepFrame {
	frames := make([]stepFrame, 0, len(steps))
	g := start
	for i, step := range steps {
		pos := grid.Position{Row: step.Row, Col: step.Column}
		g = g.WithCellValue(pos, grid.Digit(step.Digit))
		pass := i + 1
		if i < len(passes) {
			pass = passes[i]
		}
		frames = append(frames, stepFrame{step: step, grid: g, pass: pass})
	}
	return frames
}

// runWatchTUI drives the replay program on stderr, keeping stdout free
// for shell redirection.
func runWatchTUI(m watchModel) error {
	p := tea.NewProgram(m, tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	// Defensive type assertion - finalModel should never be nil when
	// err is nil, but we check anyway to prevent potential panic
	result, ok := finalModel.(watchModel)
	if !ok {
		return fmt.Errorf("unexpected model type from bubbletea: %T", finalModel)
	}

	if result.idx >= 0 {
		fmt.Printf("replayed %d of %d steps\n", result.idx+1, len(result.frames))
	}
	return nil
}
