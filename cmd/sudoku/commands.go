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
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianSudoku/cmd/sudoku/config"
	"github.com/AleutianAI/AleutianSudoku/pkg/logging"
	"github.com/AleutianAI/AleutianSudoku/pkg/ux"
)

// --- Global Command Variables ---
var (
	jsonOutput    bool
	compactOutput bool
	quietOutput   bool
	verboseOutput bool
	plainOutput   bool
	traceOutput   bool   // print the full step trace after a solve
	parallelism   int    // worker count for candidate scans (0 = service default)
	dataDirFlag   string // puzzle library directory override
	puzzleName    string // display name for puzzles add
	servePort     int
	serveDataDir  string
	servePuzzles  string // watched puzzle directory for serve

	cliLogger *logging.Logger

	rootCmd = &cobra.Command{
		Use:   "sudoku",
		Short: "A cli for the AleutianSudoku deductive solving engine",
		Long: `Sudoku solves puzzles the way people do: open singles, visual
				elimination, naked pairs, and X-Wings, with a full trace of
				every deduction. It also manages a local puzzle library and
				can run the HTTP solver service.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Config is optional for the CLI; fall back to defaults so
			// solve/hint/validate work without a home directory.
			if err := config.Load(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not load config: %v\n", err)
				config.Global = config.DefaultConfig()
			}
			initOutputMode()
			initCLILogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cliLogger != nil {
				cliLogger.Close()
			}
		},
	}

	// --- Solving ---
	solveCmd = &cobra.Command{
		Use:   "solve [grid or file]",
		Short: "Solve a puzzle with human deduction techniques",
		Long: `Solve accepts an 81-character grid string ('0' or '.' for empty
				cells) or a path to a file containing one. The solve applies
				techniques cheapest-first and reports solved, stuck, or invalid.`,
		Args: cobra.ExactArgs(1),
		Run:  runSolve, // Defined in cmd_solve.go
	}
	hintCmd = &cobra.Command{
		Use:   "hint [grid or file]",
		Short: "Show the next deducible placement without solving",
		Args:  cobra.ExactArgs(1),
		Run:   runHint, // Defined in cmd_hint.go
	}
	validateCmd = &cobra.Command{
		Use:   "validate [grid or file]",
		Short: "Check a grid for rule violations and completeness",
		Args:  cobra.ExactArgs(1),
		Run:   runValidate, // Defined in cmd_validate.go
	}
	watchCmd = &cobra.Command{
		Use:   "watch [grid or file]",
		Short: "Replay a solve step by step in the terminal",
		Args:  cobra.ExactArgs(1),
		Run:   runWatch, // Defined in cmd_watch.go
	}

	// --- Puzzle Library ---
	puzzlesCmd = &cobra.Command{
		Use:   "puzzles",
		Short: "Manage the local puzzle library",
	}
	puzzlesListCmd = &cobra.Command{
		Use:   "list",
		Short: "List stored puzzles, newest first",
		Run:   runPuzzlesList, // Defined in cmd_puzzles.go
	}
	puzzlesShowCmd = &cobra.Command{
		Use:   "show [id or name]",
		Short: "Show a stored puzzle and its solution if solved",
		Args:  cobra.ExactArgs(1),
		Run:   runPuzzlesShow, // Defined in cmd_puzzles.go
	}
	puzzlesAddCmd = &cobra.Command{
		Use:   "add [grid or file]",
		Short: "Save a puzzle to the library",
		Args:  cobra.ExactArgs(1),
		Run:   runPuzzlesAdd, // Defined in cmd_puzzles.go
	}
	puzzlesRmCmd = &cobra.Command{
		Use:   "rm [id or name]",
		Short: "Delete a puzzle from the library",
		Args:  cobra.ExactArgs(1),
		Run:   runPuzzlesRm, // Defined in cmd_puzzles.go
	}
	puzzlesSolveCmd = &cobra.Command{
		Use:   "solve [id or name]",
		Short: "Solve a stored puzzle and persist its trace",
		Args:  cobra.ExactArgs(1),
		Run:   runPuzzlesSolve, // Defined in cmd_puzzles.go
	}

	// --- Service ---
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the solver HTTP service",
		Run:   runServe, // Defined in cmd_serve.go
	}
)

// init runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output results as JSON")
	rootCmd.PersistentFlags().BoolVar(&compactOutput, "compact", false,
		"Compact JSON output (no indentation)")
	rootCmd.PersistentFlags().BoolVarP(&quietOutput, "quiet", "q", false,
		"No output, exit code only")
	rootCmd.PersistentFlags().BoolVarP(&verboseOutput, "verbose", "v", false,
		"Log debug detail to stderr")
	rootCmd.PersistentFlags().BoolVar(&plainOutput, "plain", false,
		"Disable color and box drawing")

	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().IntVarP(&parallelism, "parallelism", "p", 0,
		"Worker count for candidate scans (0 = service default)")
	solveCmd.Flags().BoolVar(&traceOutput, "trace", false,
		"Print every deduction step")

	rootCmd.AddCommand(hintCmd)
	rootCmd.AddCommand(validateCmd)

	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().IntVarP(&parallelism, "parallelism", "p", 0,
		"Worker count for candidate scans (0 = service default)")

	rootCmd.AddCommand(puzzlesCmd)
	puzzlesCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "",
		"Puzzle library directory (default from config)")
	puzzlesCmd.AddCommand(puzzlesListCmd)
	puzzlesCmd.AddCommand(puzzlesShowCmd)
	puzzlesCmd.AddCommand(puzzlesAddCmd)
	puzzlesAddCmd.Flags().StringVarP(&puzzleName, "name", "n", "",
		"Display name for the puzzle (default: derived from the file name)")
	puzzlesCmd.AddCommand(puzzlesRmCmd)
	puzzlesCmd.AddCommand(puzzlesSolveCmd)
	puzzlesSolveCmd.Flags().IntVarP(&parallelism, "parallelism", "p", 0,
		"Worker count for candidate scans (0 = service default)")
	puzzlesSolveCmd.Flags().BoolVar(&traceOutput, "trace", false,
		"Print every deduction step")

	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVar(&servePort, "port", 7311, "HTTP listen port")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "",
		"Puzzle store directory (default from config, empty config = in-memory)")
	serveCmd.Flags().StringVar(&servePuzzles, "puzzle-dir", "",
		"Directory of .sdk files to sync into the store")
}

// outputConfig snapshots the output flags for OutputResult.
func outputConfig() OutputConfig {
	return OutputConfig{
		JSON:    jsonOutput,
		Compact: compactOutput,
		Quiet:   quietOutput,
	}
}

// initOutputMode applies --plain and the config before terminal detection.
func initOutputMode() {
	if plainOutput || config.Global.Plain {
		ux.SetMode(ux.ModePlain)
		return
	}
	ux.InitMode()
}

// initCLILogger routes logs to the configured log dir, keeping stdout
// clean for command output. --verbose adds debug logging on stderr.
func initCLILogger() {
	level := logging.LevelInfo
	if verboseOutput {
		level = logging.LevelDebug
	}
	cliLogger = logging.New(logging.Config{
		Level:   level,
		LogDir:  config.Global.LogDir,
		Service: "sudoku",
		Quiet:   !verboseOutput,
	})
	slog.SetDefault(cliLogger.Slog())
}
