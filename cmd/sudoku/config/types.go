// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

type SudokuConfig struct {
	// DataDir: where the puzzle library database lives
	DataDir string `yaml:"data_dir"`

	// Parallelism: worker count for candidate scans, 0 means automatic
	Parallelism int `yaml:"parallelism"`

	// LogDir: where CLI log files are written, empty disables file logs
	LogDir string `yaml:"log_dir"`

	// Plain: disable color and box-drawing output everywhere
	Plain bool `yaml:"plain"`
}

func DefaultConfig() SudokuConfig {
	return SudokuConfig{
		DataDir:     "~/.aleutian/sudoku",
		Parallelism: 0,
		LogDir:      "~/.aleutian/logs",
		Plain:       false,
	}
}
