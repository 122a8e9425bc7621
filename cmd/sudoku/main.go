// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command sudoku is the AleutianSudoku CLI: solve, hint, and validate
// puzzles from the terminal, replay solves step by step, manage the
// local puzzle library, and run the HTTP solver service.
//
// # Usage
//
//	sudoku solve 003020600900305001001806400008102900700000008006708200002609500800203009005010300
//	sudoku solve --trace puzzle.sdk
//	sudoku hint puzzle.sdk
//	sudoku watch puzzle.sdk
//	sudoku puzzles add puzzle.sdk --name "NYT hard 2025-06-01"
//	sudoku serve --port 7311 --data-dir ~/.aleutian/sudoku
//
// Configuration lives at ~/.aleutian/sudoku.yaml and is created on
// first run.
package main

import (
	"log"
)

func main() {
	// Execute the root command. Cobra handles parsing the arguments.
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
