// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// LoggerWithTrace returns a logger with trace context injected.
//
// Description:
//
//	Extracts trace_id and span_id from the context and adds them as
//	structured log fields. This enables log correlation in Grafana/Loki
//	with traces in Jaeger.
//
// Inputs:
//
//	ctx - Context containing span context. May be nil or have no active span.
//	logger - Base logger to enhance. Must not be nil.
//
// Outputs:
//
//	*slog.Logger - Logger with trace_id and span_id fields added if available.
//	              Returns the original logger if no valid span context.
//
// Example:
//
//	func (s *Service) Solve(ctx context.Context, gridStr string) (*SolveResponse, error) {
//	    logger := telemetry.LoggerWithTrace(ctx, s.logger)
//	    logger.Info("solve started")
//	    // Log output: {"level":"INFO","msg":"solve started","trace_id":"abc123","span_id":"def456"}
//	}
//
// Thread Safety: Safe for concurrent use.
func LoggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if ctx == nil {
		return logger
	}

	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return logger
	}

	return logger.With(
		slog.String("trace_id", spanCtx.TraceID().String()),
		slog.String("span_id", spanCtx.SpanID().String()),
	)
}

// LoggerWithPuzzle returns a logger with trace context and puzzle ID.
//
// Description:
//
//	Combines LoggerWithTrace with a puzzle identifier so log entries from
//	store, solve, and watcher paths can be grouped per puzzle.
//
// Inputs:
//
//	ctx - Context containing span context.
//	logger - Base logger to enhance.
//	puzzleID - Identifier of the puzzle being operated on.
//
// Outputs:
//
//	*slog.Logger - Logger with trace_id, span_id, and puzzle_id fields.
//
// Thread Safety: Safe for concurrent use.
func LoggerWithPuzzle(ctx context.Context, logger *slog.Logger, puzzleID string) *slog.Logger {
	return LoggerWithTrace(ctx, logger).With(
		slog.String("puzzle_id", puzzleID),
	)
}
