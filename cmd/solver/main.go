// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command solver starts the AleutianSudoku solver HTTP server.
//
// This is the main entry point for the containerized solver service.
// It reads configuration from environment variables and starts the server.
//
// # Environment Variables
//
//   - SOLVER_PORT: HTTP server port (default: 7311)
//   - SOLVER_DATA_DIR: puzzle store directory; in-memory when unset (optional)
//   - SOLVER_PUZZLE_DIR: directory of *.sdk files to ingest and watch (optional)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector (default: localhost:4317)
//   - GIN_MODE: Gin framework mode - debug, release, test (default: release)
//
// # Usage
//
//	# Build
//	go build -o solver ./cmd/solver
//
//	# Run
//	./solver
//
//	# Or via container
//	podman-compose up solver
package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/AleutianAI/AleutianSudoku/services/solver"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Build configuration from environment variables
	cfg := solver.ServerConfig{
		Port:         getEnvInt("SOLVER_PORT", 7311),
		DataDir:      os.Getenv("SOLVER_DATA_DIR"),
		PuzzleDir:    os.Getenv("SOLVER_PUZZLE_DIR"),
		OTelEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		GinMode:      getEnvString("GIN_MODE", "release"),
	}

	slog.Info("Starting solver",
		"port", cfg.Port,
		"data_dir", cfg.DataDir,
		"puzzle_dir", cfg.PuzzleDir,
	)

	srv, err := solver.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create solver server: %v", err)
	}

	// Graceful shutdown on SIGINT/SIGTERM. The puzzle store needs a
	// clean close, so shut down explicitly before exiting.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-quit
		slog.Info("Shutting down solver server", "signal", sig.String())
		srv.Shutdown()
		os.Exit(0)
	}()

	// Run the server (blocks until shutdown)
	if err := srv.Run(); err != nil {
		log.Fatalf("Solver server error: %v", err)
	}
}

// getEnvString returns the environment variable value or a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
