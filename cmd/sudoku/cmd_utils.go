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
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/AleutianAI/AleutianSudoku/cmd/sudoku/config"
	"github.com/AleutianAI/AleutianSudoku/services/solver"
	"github.com/AleutianAI/AleutianSudoku/services/solver/grid"
	"github.com/AleutianAI/AleutianSudoku/services/solver/storage/badger"
)

// resolveGridArg accepts a grid literal (81 characters, or the 9-line
// form) or a path to a file containing one. Returns the compact
// 81-character form.
func resolveGridArg(arg string) (string, error) {
	if g, err := grid.Parse(arg); err == nil {
		return g.Compact(), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("argument is neither a grid nor a readable file: %w", err)
	}
	g, err := grid.Parse(string(data))
	if err != nil {
		return "", fmt.Errorf("%s: %w", arg, err)
	}
	return g.Compact(), nil
}

// newSolverService builds a store-less service for one-shot commands.
func newSolverService() *solver.Service {
	return solver.NewService(solver.DefaultServiceConfig())
}

// resolveParallelism prefers the flag, then the config file.
func resolveParallelism() int {
	if parallelism > 0 {
		return parallelism
	}
	return config.Global.Parallelism
}

// resolveDataDir prefers the flag, then the config file, then the
// stock library location.
func resolveDataDir() string {
	if dataDirFlag != "" {
		return dataDirFlag
	}
	if config.Global.DataDir != "" {
		return config.Global.DataDir
	}
	return "~/.aleutian/sudoku"
}

// openPuzzleStore opens the library database and wraps it in a
// service. Badger holds an exclusive directory lock, so a server
// running on the same data dir must be stopped first.
func openPuzzleStore() (*solver.Service, func(), error) {
	dir := config.ExpandPath(resolveDataDir())

	dbCfg := badger.DefaultConfig()
	dbCfg.Path = dir
	db, err := badger.OpenDB(dbCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open puzzle library at %s: %w", dir, err)
	}
	store, err := badger.NewPuzzleStore(db, slog.Default())
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("open puzzle store: %w", err)
	}

	svc := newSolverService().WithStore(store)
	cleanup := func() {
		if err := db.Close(); err != nil {
			slog.Warn("Failed to close puzzle library", "error", err)
		}
	}
	return svc, cleanup, nil
}

// findPuzzle resolves a CLI reference to a stored puzzle, trying the
// display name first and falling back to the UUID.
func findPuzzle(ctx context.Context, svc *solver.Service, ref string) (*badger.StoredPuzzle, error) {
	p, err := svc.FindPuzzleByName(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, badger.ErrPuzzleNotFound) {
		return nil, err
	}
	return svc.GetPuzzle(ctx, ref)
}
