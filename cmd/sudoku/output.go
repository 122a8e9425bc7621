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
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AleutianAI/AleutianSudoku/pkg/ux"
	"github.com/AleutianAI/AleutianSudoku/services/solver"
	"github.com/AleutianAI/AleutianSudoku/services/solver/grid"
)

// Exit codes for CLI commands.
const (
	CLIExitSuccess  = 0 // Operation completed successfully
	CLIExitFindings = 1 // Operation completed but the puzzle is stuck or invalid
	CLIExitError    = 2 // Operation failed
)

// OutputConfig controls output behavior.
type OutputConfig struct {
	JSON    bool // Output as JSON
	Compact bool // No indentation
	Quiet   bool // No output, exit code only
}

// CommandResult wraps command output with metadata.
type CommandResult struct {
	APIVersion string      `json:"api_version"`
	Command    string      `json:"command"`
	Timestamp  time.Time   `json:"timestamp"`
	DurationMs int64       `json:"duration_ms"`
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// OutputJSON writes structured data as JSON to stdout.
func OutputJSON(data interface{}, compact bool) error {
	encoder := json.NewEncoder(os.Stdout)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// OutputError writes an error in the appropriate format. JSON mode
// emits a CommandResult envelope on stdout, text mode writes stderr.
func OutputError(jsonMode bool, msg string, err error) {
	if jsonMode {
		result := CommandResult{
			APIVersion: "1.0",
			Timestamp:  time.Now(),
			Success:    false,
			Error:      fmt.Sprintf("%s: %v", msg, err),
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		encoder.Encode(result)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	}
}

// OutputResult finishes a command: JSON envelope when requested, exit
// code always. hasFindings maps stuck or invalid puzzles to exit 1 so
// scripts can branch without parsing output.
func OutputResult(cfg OutputConfig, cmd string, start time.Time, data interface{}, hasFindings bool, err error) int {
	if cfg.Quiet {
		if err != nil {
			return CLIExitError
		}
		if hasFindings {
			return CLIExitFindings
		}
		return CLIExitSuccess
	}

	if err != nil {
		OutputError(cfg.JSON, "Command failed", err)
		return CLIExitError
	}

	if cfg.JSON {
		result := CommandResult{
			APIVersion: "1.0",
			Command:    cmd,
			Timestamp:  time.Now(),
			DurationMs: time.Since(start).Milliseconds(),
			Success:    true,
			Data:       data,
		}
		if encErr := OutputJSON(result, cfg.Compact); encErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", encErr)
			return CLIExitError
		}
	}

	if hasFindings {
		return CLIExitFindings
	}
	return CLIExitSuccess
}

// =============================================================================
// Grid Rendering
// =============================================================================

// GridRenderer draws grids with box borders. Cells filled in Start
// render as givens; cells filled later render in the accent color so a
// solve's progress is visible at a glance.
type GridRenderer struct {
	Start grid.Grid
}

// Render returns the grid as a multi-line string. A non-nil highlight
// marks one cell, normally the most recent placement.
func (r GridRenderer) Render(g grid.Grid, highlight *grid.Position) string {
	plain := ux.GetMode() == ux.ModePlain

	horizontal := "├───────┼───────┼───────┤"
	top := "┌───────┬───────┬───────┐"
	bottom := "└───────┴───────┴───────┘"
	vertical := "│"
	if plain {
		horizontal = "+-------+-------+-------+"
		top = horizontal
		bottom = horizontal
		vertical = "|"
	}

	var b strings.Builder
	b.WriteString(top)
	b.WriteString("\n")
	for row := 0; row < grid.Size; row++ {
		if row == 3 || row == 6 {
			b.WriteString(horizontal)
			b.WriteString("\n")
		}
		b.WriteString(vertical)
		for col := 0; col < grid.Size; col++ {
			if col == 3 || col == 6 {
				b.WriteString(" ")
				b.WriteString(vertical)
			}
			b.WriteString(" ")
			b.WriteString(r.cell(g, grid.Position{Row: row, Col: col}, highlight, plain))
		}
		b.WriteString(" ")
		b.WriteString(vertical)
		b.WriteString("\n")
	}
	b.WriteString(bottom)
	return b.String()
}

// cell renders one cell with its role-based styling.
func (r GridRenderer) cell(g grid.Grid, pos grid.Position, highlight *grid.Position, plain bool) string {
	if !g.Filled(pos) {
		if plain {
			return "."
		}
		return ux.Styles.Muted.Render("·")
	}

	digit := g.CellValue(pos).String()
	if plain {
		return digit
	}
	if highlight != nil && *highlight == pos {
		return ux.Styles.Highlight.Render(digit)
	}
	if !r.Start.Filled(pos) {
		return ux.Styles.Subtitle.Render(digit)
	}
	return digit
}

// FormatStep renders one deduction as a trace line.
func FormatStep(n int, step solver.StepInfo) string {
	pos := fmt.Sprintf("r%dc%d", step.Row, step.Column)
	if ux.GetMode() == ux.ModePlain {
		return fmt.Sprintf("%3d. %s=%d %s: %s", n, pos, step.Digit, step.Strategy, step.Rationale)
	}
	return fmt.Sprintf("%3d. %s=%s %s %s",
		n,
		ux.Styles.Bold.Render(pos),
		ux.Styles.Highlight.Render(fmt.Sprintf("%d", step.Digit)),
		ux.Styles.Subtitle.Render(step.Strategy),
		ux.Styles.Muted.Render(step.Rationale),
	)
}
