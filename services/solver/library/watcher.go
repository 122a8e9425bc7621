// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package library keeps the puzzle store in sync with a directory of
// puzzle files.
//
// # Description
//
// A puzzle file is a *.sdk file whose content is a grid in either the
// 81-character single-line form or the 9-line form. The file stem
// becomes the puzzle name. The watcher ingests every puzzle file
// present when it starts, then follows create and write events with a
// debounce window so a file being written incrementally is ingested
// once.
//
// Deleting a puzzle file does not delete the stored puzzle; removal is
// an API operation.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/AleutianAI/AleutianSudoku/pkg/validation"
	"github.com/AleutianAI/AleutianSudoku/services/solver/grid"
	"github.com/AleutianAI/AleutianSudoku/services/solver/storage/badger"
)

// PuzzleFileExt is the extension watched for puzzle files.
const PuzzleFileExt = ".sdk"

// Options configures the Watcher.
type Options struct {
	// DebounceWindow is how long to wait for more changes before
	// ingesting. Default: 200ms
	DebounceWindow time.Duration

	// BufferSize is the size of the change buffer channel.
	// Default: 64
	BufferSize int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		DebounceWindow: 200 * time.Millisecond,
		BufferSize:     64,
	}
}

// Watcher ingests puzzle files from a directory into the puzzle store.
//
// # Debouncing
//
// Changed paths are collected into a buffer. When the debounce period
// expires without new changes, each collected path is ingested once.
//
// # Thread Safety
//
// Safe for concurrent use. Ingestion runs on a single goroutine.
type Watcher struct {
	dir      string
	store    *badger.PuzzleStore
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration

	changes  chan string
	done     chan struct{}
	stopOnce sync.Once

	mu       sync.RWMutex
	watching bool
}

// NewWatcher creates a watcher over the given puzzle directory.
//
// # Inputs
//
//   - dir: Directory holding *.sdk puzzle files. Not walked
//     recursively.
//   - store: Destination puzzle store.
//   - logger: Structured logger; nil uses slog.Default().
//   - opts: Optional configuration (nil uses defaults).
//
// # Outputs
//
//   - *Watcher: Ready-to-use watcher (call Start to begin watching).
//   - error: Non-nil if the store is nil or the notifier could not be
//     created.
func NewWatcher(dir string, store *badger.PuzzleStore, logger *slog.Logger, opts *Options) (*Watcher, error) {
	if store == nil {
		return nil, errors.New("store must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		dir:      dir,
		store:    store,
		logger:   logger,
		watcher:  notifier,
		debounce: opts.DebounceWindow,
		changes:  make(chan string, opts.BufferSize),
		done:     make(chan struct{}),
	}, nil
}

// Start ingests the puzzle files already in the directory, then begins
// watching for changes.
//
// # Inputs
//
//   - ctx: Context for cancellation. When canceled, watching stops.
//
// # Outputs
//
//   - error: Non-nil if the directory cannot be read or watched.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil // Already watching
	}
	w.watching = true
	w.mu.Unlock()

	count, err := w.Sync(ctx)
	if err != nil {
		return err
	}
	w.logger.Info("Puzzle library synced", "dir", w.dir, "ingested", count)

	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}

	go w.processEvents(ctx)
	go w.debounceLoop(ctx)

	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()

		w.mu.Lock()
		w.watching = false
		w.mu.Unlock()
	})
}

// IsWatching returns true if the watcher is currently active.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.watching
}

// Sync ingests every puzzle file currently in the directory and
// returns the number ingested. A file that fails to ingest is logged
// and skipped.
func (w *Watcher) Sync(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read puzzle dir %s: %w", w.dir, err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !isPuzzleFile(entry.Name()) {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if err := w.ingestFile(ctx, path); err != nil {
			w.logger.Warn("Skipping puzzle file", "path", path, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

// isPuzzleFile reports whether the file name has the puzzle extension.
func isPuzzleFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), PuzzleFileExt)
}

// puzzleName derives the store name from a puzzle file path.
func puzzleName(path string) (string, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return validation.SanitizePuzzleName(stem)
}

// ingestFile parses one puzzle file and upserts it into the store.
//
// An existing puzzle with the same name keeps its ID. When the grid
// changed, any stored solution and trace are cleared; when it did not,
// the record is left untouched.
func (w *Watcher) ingestFile(ctx context.Context, path string) error {
	name, err := puzzleName(path)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	g, err := grid.Parse(string(raw))
	if err != nil {
		return err
	}
	compact := g.Compact()

	existing, err := w.store.FindByName(ctx, name)
	switch {
	case err == nil:
		if existing.Grid == compact {
			return nil
		}
		existing.Grid = compact
		existing.Solution = nil
		existing.Steps = nil
		if err := w.store.Save(ctx, existing); err != nil {
			return err
		}
		w.logger.Info("Updated puzzle from file", "name", name, "puzzle_id", existing.ID)
		return nil

	case errors.Is(err, badger.ErrPuzzleNotFound):
		p := &badger.StoredPuzzle{
			ID:             uuid.NewString(),
			Name:           name,
			Grid:           compact,
			CreatedAtMilli: time.Now().UnixMilli(),
		}
		if err := w.store.Save(ctx, p); err != nil {
			return err
		}
		w.logger.Info("Ingested puzzle from file", "name", name, "puzzle_id", p.ID)
		return nil

	default:
		return err
	}
}

// processEvents filters fsnotify events down to puzzle file changes
// and sends their paths to the debounce channel.
func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !isPuzzleFile(event.Name) {
				continue
			}

			// Send to debounce channel (non-blocking)
			select {
			case w.changes <- event.Name:
			default:
				// Buffer full; the debouncer will pick the path up
				// on its next write event
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Puzzle watcher error", "error", err)
		}
	}
}

// debounceLoop batches changed paths and ingests them after the
// debounce window.
func (w *Watcher) debounceLoop(ctx context.Context) {
	var batch []string
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		for _, path := range dedupePaths(batch) {
			if err := w.ingestFile(ctx, path); err != nil {
				w.logger.Warn("Failed to ingest puzzle file", "path", path, "error", err)
			}
		}
		batch = batch[:0]
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case path := <-w.changes:
			batch = append(batch, path)

			// Reset or start debounce timer
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			flush()
		}
	}
}

// dedupePaths removes duplicate paths, keeping first-seen order.
func dedupePaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	result := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		result = append(result, p)
	}
	return result
}
