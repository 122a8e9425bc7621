// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package solver

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/AleutianSudoku/services/solver/library"
	"github.com/AleutianAI/AleutianSudoku/services/solver/observability"
	"github.com/AleutianAI/AleutianSudoku/services/solver/storage/badger"
	"github.com/AleutianAI/AleutianSudoku/services/solver/telemetry"
)

// ServerConfig holds API server configuration.
//
// Description:
//
//	Centralizes everything the server entrypoint reads from the
//	environment. Zero values use defaults applied by NewServer.
type ServerConfig struct {
	// Port is the HTTP server port. Default: 7311
	Port int

	// DataDir is the directory for the persistent puzzle store.
	// If empty, the store runs in memory.
	DataDir string

	// PuzzleDir is a directory of *.sdk puzzle files to ingest and
	// watch. If empty, the library watcher is disabled.
	PuzzleDir string

	// OTelEndpoint overrides the OpenTelemetry collector endpoint.
	// If empty, the telemetry defaults apply.
	OTelEndpoint string

	// GinMode sets the Gin framework mode.
	// Valid values: "debug", "release", "test"
	// Default: "release"
	GinMode string
}

// Server wires the solver service, puzzle store, library watcher, and
// telemetry into a runnable HTTP server.
//
// Thread Safety: safe after construction; Run is called at most once.
type Server struct {
	config            ServerConfig
	router            *gin.Engine
	service           *Service
	db                *badger.DB
	watcher           *library.Watcher
	telemetryShutdown func(context.Context) error
	shutdownOnce      sync.Once
}

// NewServer creates a ready-to-run server.
//
// Description:
//
//	Initializes telemetry and metrics, opens the puzzle store
//	(in-memory when no data dir is configured), starts the library
//	watcher when a puzzle dir is configured, and registers all routes.
//	The watcher is optional; a failure there is logged, not fatal.
//
// Inputs:
//
//	cfg - Server configuration. Zero values use defaults.
//
// Outputs:
//
//	*Server - The initialized server.
//	error - Non-nil if telemetry or the puzzle store fail to initialize.
func NewServer(cfg ServerConfig) (*Server, error) {
	cfg = applyServerDefaults(cfg)
	gin.SetMode(cfg.GinMode)

	s := &Server{config: cfg}

	tcfg := telemetry.DefaultConfig()
	tcfg.ServiceName = "aleutian-sudoku"
	tcfg.ServiceVersion = ServiceVersion
	if cfg.OTelEndpoint != "" {
		tcfg.OTLPEndpoint = cfg.OTelEndpoint
	}
	shutdown, err := telemetry.Init(context.Background(), tcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	s.telemetryShutdown = shutdown

	metrics := observability.DefaultMetrics
	if metrics == nil {
		metrics = observability.InitMetrics()
	}

	svcCfg := DefaultServiceConfig()
	svcCfg.DataDir = cfg.DataDir
	s.service = NewService(svcCfg).WithMetrics(metrics)

	dbCfg := badger.DefaultConfig()
	if svcCfg.DataDir == "" {
		slog.Info("No data dir configured, using in-memory puzzle store")
		dbCfg = badger.InMemoryConfig()
	} else {
		dbCfg.Path = svcCfg.DataDir
	}
	s.db, err = badger.OpenDB(dbCfg)
	if err != nil {
		s.Shutdown()
		return nil, fmt.Errorf("failed to open puzzle store: %w", err)
	}

	store, err := badger.NewPuzzleStore(s.db, slog.Default())
	if err != nil {
		s.Shutdown()
		return nil, fmt.Errorf("failed to create puzzle store: %w", err)
	}
	s.service.WithStore(store)

	if cfg.PuzzleDir != "" {
		s.initWatcher(store)
	}

	s.initRouter()

	return s, nil
}

// Run starts the HTTP server and blocks until it stops.
//
// Description:
//
//	Serves on the configured port. Shutdown runs when the server
//	stops, releasing the store and telemetry.
func (s *Server) Run() error {
	defer s.Shutdown()

	addr := fmt.Sprintf(":%d", s.config.Port)
	slog.Info("Starting solver server",
		"port", s.config.Port,
		"data_dir", s.config.DataDir,
		"puzzle_dir", s.config.PuzzleDir)

	return s.router.Run(addr)
}

// Router returns the underlying Gin engine for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Service returns the solver service behind the server.
func (s *Server) Service() *Service {
	return s.service
}

// Shutdown releases all resources held by the server. Safe to call
// more than once.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		if s.watcher != nil {
			s.watcher.Stop()
		}

		if s.db != nil {
			if err := s.db.Close(); err != nil {
				slog.Warn("Puzzle store close error", "error", err)
			}
		}

		if s.telemetryShutdown != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.telemetryShutdown(ctx); err != nil {
				slog.Warn("Telemetry shutdown error", "error", err)
			}
		}
	})
}

// applyServerDefaults fills in missing configuration values.
func applyServerDefaults(cfg ServerConfig) ServerConfig {
	if cfg.Port == 0 {
		cfg.Port = 7311
	}
	if cfg.GinMode == "" {
		cfg.GinMode = gin.ReleaseMode
	}
	return cfg
}

// initWatcher starts the library watcher over the puzzle directory.
// Watcher failures are logged, not fatal; the API works without it.
func (s *Server) initWatcher(store *badger.PuzzleStore) {
	w, err := library.NewWatcher(s.config.PuzzleDir, store, slog.Default(), nil)
	if err != nil {
		slog.Warn("Puzzle watcher initialization failed",
			"dir", s.config.PuzzleDir, "error", err)
		return
	}

	if err := w.Start(context.Background()); err != nil {
		slog.Warn("Puzzle watcher failed to start",
			"dir", s.config.PuzzleDir, "error", err)
		w.Stop()
		return
	}

	s.watcher = w
	slog.Info("Puzzle watcher started", "dir", s.config.PuzzleDir)
}

// initRouter sets up the Gin router with middleware and all routes.
func (s *Server) initRouter() {
	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(otelgin.Middleware("aleutian-sudoku"))

	if h := telemetry.MetricsHandler(); h != nil {
		s.router.GET("/metrics", gin.WrapH(h))
	}

	handlers := NewHandlers(s.service)
	v1 := s.router.Group("/v1")
	RegisterRoutes(v1, handlers)
}
