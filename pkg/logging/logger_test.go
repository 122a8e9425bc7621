// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// =============================================================================
// Level Tests
// =============================================================================

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(42), "UNKNOWN"},
		{Level(-3), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
			}
		})
	}
}

func TestLevel_Ordering(t *testing.T) {
	if !(LevelDebug < LevelInfo && LevelInfo < LevelWarn && LevelWarn < LevelError) {
		t.Errorf("levels not strictly ordered: %d %d %d %d",
			LevelDebug, LevelInfo, LevelWarn, LevelError)
	}
}

func TestLevel_toSlogLevel(t *testing.T) {
	tests := []struct {
		level Level
		want  slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{Level(42), slog.LevelInfo}, // Unknown defaults to Info
	}

	for _, tt := range tests {
		if got := tt.level.toSlogLevel(); got != tt.want {
			t.Errorf("Level(%d).toSlogLevel() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

// =============================================================================
// Constructor Tests
// =============================================================================

func TestNew_ZeroConfig(t *testing.T) {
	logger := New(Config{})
	defer logger.Close()

	if logger.slog == nil {
		t.Fatal("New(Config{}) produced a logger with no slog backend")
	}
}

func TestNew_QuietWithoutDestinations(t *testing.T) {
	logger := New(Config{Quiet: true})
	defer logger.Close()

	// Quiet with no file and no exporter must still be callable.
	logger.Info("solve started", "grid", "empty")
	logger.Error("solve failed")
}

func TestDefault(t *testing.T) {
	logger := Default()
	defer logger.Close()

	if logger.config.Service != "sudoku" {
		t.Errorf("Default() Service = %q, want %q", logger.config.Service, "sudoku")
	}
	if logger.config.Level != LevelInfo {
		t.Errorf("Default() Level = %v, want %v", logger.config.Level, LevelInfo)
	}
}

// =============================================================================
// Level Filtering Tests
// =============================================================================

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		min       Level
		wantCount int
	}{
		{"debug passes everything", LevelDebug, 4},
		{"info drops debug", LevelInfo, 3},
		{"warn drops debug and info", LevelWarn, 2},
		{"error drops all but error", LevelError, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := NewBufferedExporter()
			logger := New(Config{
				Level:    tt.min,
				Quiet:    true,
				Exporter: exporter,
			})
			defer logger.Close()

			logger.Debug("checking candidates")
			logger.Info("placed digit")
			logger.Warn("pass made no progress")
			logger.Error("contradiction found")

			waitForEntries(t, exporter, tt.wantCount)
		})
	}
}

// =============================================================================
// File Logging Tests
// =============================================================================

func TestLogger_FileCreation(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		LogDir:  dir,
		Service: "solver",
		Quiet:   true,
	})

	logger.Info("puzzle loaded", "empty_cells", 9)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	want := "solver_" + time.Now().Format("2006-01-02") + ".log"
	data, err := os.ReadFile(filepath.Join(dir, want))
	if err != nil {
		t.Fatalf("reading %s: %v", want, err)
	}
	if !strings.Contains(string(data), "puzzle loaded") {
		t.Errorf("log file missing message, got: %s", data)
	}
}

func TestLogger_FileIsJSON(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{
		LogDir:  dir,
		Service: "solver",
		Quiet:   true,
	})

	logger.Info("solve complete", "status", "solved", "steps", 9)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one log file, got %d (err %v)", len(entries), err)
	}

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	var record map[string]any
	line := strings.TrimSpace(string(data))
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		t.Fatalf("log line is not JSON: %v\nline: %s", err, line)
	}
	if record["msg"] != "solve complete" {
		t.Errorf("msg = %v, want %q", record["msg"], "solve complete")
	}
	if record["service"] != "solver" {
		t.Errorf("service = %v, want %q", record["service"], "solver")
	}
	if record["status"] != "solved" {
		t.Errorf("status = %v, want %q", record["status"], "solved")
	}
}

func TestLogger_FileAppendsAcrossLoggers(t *testing.T) {
	dir := t.TempDir()

	first := New(Config{LogDir: dir, Service: "solver", Quiet: true})
	first.Info("first run")
	first.Close()

	second := New(Config{LogDir: dir, Service: "solver", Quiet: true})
	second.Info("second run")
	second.Close()

	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one shared log file, got %d (err %v)", len(entries), err)
	}

	data, _ := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	content := string(data)
	if !strings.Contains(content, "first run") || !strings.Contains(content, "second run") {
		t.Errorf("log file should hold both runs, got: %s", content)
	}
}

func TestLogger_UnwritableLogDirFallsBack(t *testing.T) {
	// A file where the directory should be forces MkdirAll to fail.
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocked")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	logger := New(Config{
		LogDir: filepath.Join(blocker, "logs"),
		Quiet:  true,
	})
	defer logger.Close()

	if logger.file != nil {
		t.Error("expected no file handle when the log dir cannot be created")
	}
	logger.Info("still logs without a file")
}

// =============================================================================
// With Tests
// =============================================================================

func TestLogger_With(t *testing.T) {
	dir := t.TempDir()
	logger := New(Config{LogDir: dir, Service: "solver", Quiet: true})
	defer logger.Close()

	child := logger.With("puzzle_id", "p-123")
	child.Info("hint requested")

	if child.file != logger.file {
		t.Error("With() should share the parent's file handle")
	}

	if err := logger.file.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	data, _ := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if !strings.Contains(string(data), "p-123") {
		t.Errorf("child attrs missing from output: %s", data)
	}
}

func TestLogger_WithDoesNotMutateParent(t *testing.T) {
	exporter := NewBufferedExporter()
	logger := New(Config{Quiet: true, Exporter: exporter})
	defer logger.Close()

	_ = logger.With("component", "engine")
	logger.Info("parent message")

	waitForEntries(t, exporter, 1)
	got := exporter.Entries()[0]
	if _, ok := got.Attrs["component"]; ok {
		t.Error("parent entry should not carry the child's attrs")
	}
}

// =============================================================================
// Exporter Tests
// =============================================================================

func TestLogger_ExporterReceivesEntries(t *testing.T) {
	exporter := NewBufferedExporter()
	logger := New(Config{
		Service:  "solver",
		Quiet:    true,
		Exporter: exporter,
	})
	defer logger.Close()

	logger.Info("step applied", "strategy", "open-single-in-region", "digit", 4)

	waitForEntries(t, exporter, 1)
	entry := exporter.Entries()[0]

	if entry.Level != LevelInfo {
		t.Errorf("Level = %v, want %v", entry.Level, LevelInfo)
	}
	if entry.Message != "step applied" {
		t.Errorf("Message = %q, want %q", entry.Message, "step applied")
	}
	if entry.Service != "solver" {
		t.Errorf("Service = %q, want %q", entry.Service, "solver")
	}
	if entry.Attrs["strategy"] != "open-single-in-region" {
		t.Errorf("Attrs[strategy] = %v", entry.Attrs["strategy"])
	}
	if entry.Attrs["digit"] != 4 {
		t.Errorf("Attrs[digit] = %v", entry.Attrs["digit"])
	}
	if entry.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
}

func TestLogger_ExporterConcurrentUse(t *testing.T) {
	exporter := NewBufferedExporter()
	logger := New(Config{Quiet: true, Exporter: exporter})
	defer logger.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.Info("concurrent solve", "worker", n)
		}(i)
	}
	wg.Wait()

	waitForEntries(t, exporter, 10)
}

func TestNopExporter(t *testing.T) {
	var e NopExporter
	ctx := context.Background()

	if err := e.Export(ctx, LogEntry{Message: "dropped"}); err != nil {
		t.Errorf("Export() error: %v", err)
	}
	if err := e.Flush(ctx); err != nil {
		t.Errorf("Flush() error: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestBufferedExporter_EntriesReturnsCopy(t *testing.T) {
	exporter := NewBufferedExporter()
	exporter.Export(context.Background(), LogEntry{Message: "original"})

	got := exporter.Entries()
	got[0].Message = "mutated"

	if exporter.Entries()[0].Message != "original" {
		t.Error("Entries() must return a copy, not the backing slice")
	}
}

func TestWriterExporter(t *testing.T) {
	var buf bytes.Buffer
	exporter := NewWriterExporter(&buf)

	entry := LogEntry{
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Level:     LevelWarn,
		Message:   "no progress",
		Attrs:     map[string]any{"pass": 3},
	}
	if err := exporter.Export(context.Background(), entry); err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	line := buf.String()
	for _, want := range []string{"2025-06-01T12:00:00Z", "WARN", "no progress", "pass:3"} {
		if !strings.Contains(line, want) {
			t.Errorf("output missing %q: %s", want, line)
		}
	}
}

// =============================================================================
// Close Tests
// =============================================================================

func TestLogger_CloseWithoutDestinations(t *testing.T) {
	logger := New(Config{Quiet: true})
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestLogger_CloseFlushesExporter(t *testing.T) {
	exporter := &flushTrackingExporter{}
	logger := New(Config{Quiet: true, Exporter: exporter})

	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if !exporter.flushed {
		t.Error("Close() should call Flush on the exporter")
	}
	if !exporter.closed {
		t.Error("Close() should call Close on the exporter")
	}
}

// flushTrackingExporter records lifecycle calls.
type flushTrackingExporter struct {
	flushed bool
	closed  bool
}

func (e *flushTrackingExporter) Export(ctx context.Context, entry LogEntry) error { return nil }
func (e *flushTrackingExporter) Flush(ctx context.Context) error {
	e.flushed = true
	return nil
}
func (e *flushTrackingExporter) Close() error {
	e.closed = true
	return nil
}

// =============================================================================
// Multi-Handler Tests
// =============================================================================

func TestMultiHandler_FanOut(t *testing.T) {
	var text, jsonBuf bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&text, nil),
		slog.NewJSONHandler(&jsonBuf, nil),
	}}

	logger := slog.New(h)
	logger.Info("grid validated", "complete", false)

	if !strings.Contains(text.String(), "grid validated") {
		t.Errorf("text handler missed the record: %s", text.String())
	}
	if !strings.Contains(jsonBuf.String(), "grid validated") {
		t.Errorf("json handler missed the record: %s", jsonBuf.String())
	}
}

func TestMultiHandler_RespectsPerHandlerLevels(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}}

	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Enabled should be true when any handler accepts the level")
	}

	logger := slog.New(h)
	logger.Debug("candidate eliminated")

	if !strings.Contains(debugBuf.String(), "candidate eliminated") {
		t.Error("debug handler should receive debug records")
	}
	if warnBuf.Len() != 0 {
		t.Errorf("warn handler should skip debug records, got: %s", warnBuf.String())
	}
}

func TestMultiHandler_WithAttrs(t *testing.T) {
	var a, b bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewJSONHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	}}

	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String("service", "solver")}))
	logger.Info("ready")

	for name, buf := range map[string]*bytes.Buffer{"first": &a, "second": &b} {
		if !strings.Contains(buf.String(), `"service":"solver"`) {
			t.Errorf("%s handler missing shared attr: %s", name, buf.String())
		}
	}
}

// =============================================================================
// Helper Tests
// =============================================================================

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tilde with path", "~/.aleutian/logs", filepath.Join(home, ".aleutian/logs")},
		{"bare tilde", "~", home},
		{"absolute unchanged", "/var/log/sudoku", "/var/log/sudoku"},
		{"relative unchanged", "logs", "logs"},
		{"empty unchanged", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandPath(tt.in); got != tt.want {
				t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestArgsToMap(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want map[string]any
	}{
		{
			"pairs",
			[]any{"strategy", "x-wing", "digit", 7},
			map[string]any{"strategy": "x-wing", "digit": 7},
		},
		{
			"dangling key dropped",
			[]any{"row", 0, "orphan"},
			map[string]any{"row": 0},
		},
		{
			"non-string key dropped",
			[]any{42, "value", "col", 8},
			map[string]any{"col": 8},
		},
		{
			"empty",
			nil,
			map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argsToMap(tt.args)
			if len(got) != len(tt.want) {
				t.Fatalf("argsToMap(%v) = %v, want %v", tt.args, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("argsToMap(%v)[%q] = %v, want %v", tt.args, k, got[k], v)
				}
			}
		})
	}
}

// =============================================================================
// Test Helpers
// =============================================================================

// waitForEntries polls the exporter until count entries arrive, then
// settles briefly and asserts no extras. Export runs on a goroutine,
// so a direct check races.
func waitForEntries(t *testing.T, exporter *BufferedExporter, count int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && len(exporter.Entries()) < count {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	if got := len(exporter.Entries()); got != count {
		t.Fatalf("exporter received %d entries, want %d", got, count)
	}
}
