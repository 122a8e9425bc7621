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
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/AleutianSudoku/cmd/sudoku/config"
	"github.com/AleutianAI/AleutianSudoku/services/solver"
)

func runServe(cmd *cobra.Command, args []string) {
	os.Exit(executeServe())
}

// executeServe runs the HTTP solver service until interrupted. The
// data dir comes from the flag, then the config; an empty result
// selects the in-memory store.
func executeServe() int {
	dataDir := serveDataDir
	if dataDir == "" {
		dataDir = config.Global.DataDir
	}

	srv, err := solver.NewServer(solver.ServerConfig{
		Port:      servePort,
		DataDir:   config.ExpandPath(dataDir),
		PuzzleDir: config.ExpandPath(servePuzzles),
	})
	if err != nil {
		OutputError(jsonOutput, "Cannot start solver server", err)
		return CLIExitError
	}

	// Badger needs a clean close on SIGINT/SIGTERM; os.Exit skips
	// deferred calls, so Shutdown runs in the handler itself.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		slog.Info("Shutting down solver server", "signal", sig.String())
		srv.Shutdown()
		os.Exit(0)
	}()

	if err := srv.Run(); err != nil {
		OutputError(jsonOutput, "Solver server stopped", err)
		return CLIExitError
	}
	return CLIExitSuccess
}
