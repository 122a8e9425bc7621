// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/AleutianAI/AleutianSudoku/pkg/validation"
	"github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// -----------------------------------------------------------------------------
// Store Errors
// -----------------------------------------------------------------------------

var (
	// ErrPuzzleNotFound is returned when no puzzle exists for the given ID or name.
	ErrPuzzleNotFound = errors.New("puzzle not found")

	// ErrNilPuzzle is returned when attempting to save a nil puzzle.
	ErrNilPuzzle = errors.New("puzzle must not be nil")
)

// -----------------------------------------------------------------------------
// Record Types
// -----------------------------------------------------------------------------

// StoredStep is one deduced move in a persisted solve trace.
type StoredStep struct {
	// Row is the 0-indexed row of the filled cell.
	Row int `json:"row"`

	// Column is the 0-indexed column of the filled cell.
	Column int `json:"column"`

	// Digit is the value placed in the cell.
	Digit int `json:"digit"`

	// Strategy is the name of the technique that found the step.
	Strategy string `json:"strategy"`

	// Rationale explains the deduction in prose.
	Rationale string `json:"rationale,omitempty"`
}

// StoredPuzzle is the persisted puzzle record.
//
// Values are stored as JSON under keys with the "puzzle:" prefix, so
// records stay readable with generic BadgerDB tooling and survive field
// additions without migration.
type StoredPuzzle struct {
	// ID is the unique puzzle identifier (UUID).
	ID string `json:"id"`

	// Name is the human-readable puzzle name. Unique per store by
	// convention, not enforced.
	Name string `json:"name"`

	// Grid is the starting board as a compact 81-character string.
	Grid string `json:"grid"`

	// CreatedAtMilli is the Unix timestamp in milliseconds when the
	// puzzle was stored.
	CreatedAtMilli int64 `json:"created_at_milli"`

	// Solution is the solved board as a compact string, nil while the
	// puzzle has not been solved (or could not be).
	Solution *string `json:"solution,omitempty"`

	// Steps is the persisted solve trace, populated only when trace
	// storage is enabled.
	Steps []StoredStep `json:"steps,omitempty"`
}

// PuzzleMeta is the listing view of a stored puzzle.
type PuzzleMeta struct {
	// ID is the unique puzzle identifier.
	ID string `json:"id"`

	// Name is the human-readable puzzle name.
	Name string `json:"name"`

	// Grid is the starting board as a compact string.
	Grid string `json:"grid"`

	// CreatedAtMilli is the Unix timestamp in milliseconds.
	CreatedAtMilli int64 `json:"created_at_milli"`

	// Solved reports whether a solution has been persisted.
	Solved bool `json:"solved"`
}

// -----------------------------------------------------------------------------
// Keys
// -----------------------------------------------------------------------------

// puzzleKeyPrefix namespaces puzzle records in the shared database.
const puzzleKeyPrefix = "puzzle:"

func puzzleKey(id string) []byte {
	return []byte(puzzleKeyPrefix + id)
}

// -----------------------------------------------------------------------------
// PuzzleStore
// -----------------------------------------------------------------------------

// PuzzleStore persists puzzles in BadgerDB.
//
// Thread Safety:
//
//	PuzzleStore is safe for concurrent use. All state lives in the
//	underlying database; transactions provide isolation.
type PuzzleStore struct {
	db     *DB
	logger *slog.Logger
}

// NewPuzzleStore creates a puzzle store over an open database.
//
// Inputs:
//
//	db - The open database. Must not be nil. The caller retains
//	     ownership and closes it.
//	logger - Optional logger for store operations. Defaults to slog.Default().
//
// Outputs:
//
//	*PuzzleStore - The store.
//	error - Non-nil if db is nil.
func NewPuzzleStore(db *DB, logger *slog.Logger) (*PuzzleStore, error) {
	if db == nil {
		return nil, errors.New("db must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PuzzleStore{db: db, logger: logger}, nil
}

// Save writes a puzzle record, overwriting any record with the same ID.
//
// Description:
//
//	Validates the record, marshals it to JSON, and writes it in a
//	single transaction. Saving an existing ID is the update path;
//	there is no separate update operation.
//
// Inputs:
//
//	ctx - Context for cancellation.
//	p - The puzzle to persist. ID, Name, and Grid are required.
//
// Outputs:
//
//	error - Non-nil if validation or the write fails.
func (s *PuzzleStore) Save(ctx context.Context, p *StoredPuzzle) error {
	if p == nil {
		return ErrNilPuzzle
	}

	ctx, span := otel.Tracer("puzzles").Start(ctx, "puzzles.Save",
		trace.WithAttributes(
			attribute.String("puzzle_id", p.ID),
			attribute.String("puzzle_name", p.Name),
		),
	)
	defer span.End()

	if p.ID == "" {
		span.SetStatus(codes.Error, "missing id")
		return errors.New("puzzle id is required")
	}
	if err := validation.ValidatePuzzleName(p.Name); err != nil {
		span.SetStatus(codes.Error, "invalid name")
		return err
	}
	if err := validation.ValidateGridString(p.Grid); err != nil {
		span.SetStatus(codes.Error, "invalid grid")
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "encode failed")
		return fmt.Errorf("encode puzzle: %w", err)
	}

	err = s.db.WithTxn(ctx, func(txn *badger.Txn) error {
		return txn.Set(puzzleKey(p.ID), data)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		return fmt.Errorf("write puzzle: %w", err)
	}

	s.logger.Debug("puzzle saved",
		slog.String("puzzle_id", p.ID),
		slog.String("name", p.Name),
		slog.Int("bytes", len(data)))

	return nil
}

// Get retrieves a puzzle by ID.
//
// Outputs:
//
//	*StoredPuzzle - The record.
//	error - ErrPuzzleNotFound if no record exists, otherwise a read error.
func (s *PuzzleStore) Get(ctx context.Context, id string) (*StoredPuzzle, error) {
	ctx, span := otel.Tracer("puzzles").Start(ctx, "puzzles.Get",
		trace.WithAttributes(attribute.String("puzzle_id", id)),
	)
	defer span.End()

	var p StoredPuzzle
	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(puzzleKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ErrPuzzleNotFound, id)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &p)
		})
	})
	if err != nil {
		if !errors.Is(err, ErrPuzzleNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "read failed")
		}
		return nil, err
	}

	return &p, nil
}

// FindByName retrieves the puzzle with the given name.
//
// Description:
//
//	Scans the puzzle prefix for a record whose Name matches exactly.
//	Names are unique by convention; if duplicates exist, the first
//	match in key order wins. Used by the library watcher to upsert
//	puzzles keyed by file stem.
//
// Outputs:
//
//	*StoredPuzzle - The record.
//	error - ErrPuzzleNotFound if no record matches, otherwise a read error.
func (s *PuzzleStore) FindByName(ctx context.Context, name string) (*StoredPuzzle, error) {
	ctx, span := otel.Tracer("puzzles").Start(ctx, "puzzles.FindByName",
		trace.WithAttributes(attribute.String("puzzle_name", name)),
	)
	defer span.End()

	var found *StoredPuzzle
	prefix := []byte(puzzleKeyPrefix)
	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var p StoredPuzzle
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			})
			if err != nil {
				return fmt.Errorf("decode puzzle %s: %w", it.Item().Key(), err)
			}
			if p.Name == name {
				found = &p
				return nil
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scan failed")
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("%w: name %q", ErrPuzzleNotFound, name)
	}

	return found, nil
}

// List returns metadata for every stored puzzle, newest first.
//
// Description:
//
//	Scans the puzzle prefix and returns one PuzzleMeta per record,
//	sorted by CreatedAtMilli descending with ties broken by name.
//	An empty store yields an empty slice, not nil.
func (s *PuzzleStore) List(ctx context.Context) ([]PuzzleMeta, error) {
	ctx, span := otel.Tracer("puzzles").Start(ctx, "puzzles.List")
	defer span.End()

	metas := make([]PuzzleMeta, 0)
	prefix := []byte(puzzleKeyPrefix)
	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var p StoredPuzzle
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			})
			if err != nil {
				return fmt.Errorf("decode puzzle %s: %w", it.Item().Key(), err)
			}
			metas = append(metas, PuzzleMeta{
				ID:             p.ID,
				Name:           p.Name,
				Grid:           p.Grid,
				CreatedAtMilli: p.CreatedAtMilli,
				Solved:         p.Solution != nil,
			})
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "scan failed")
		return nil, err
	}

	sort.Slice(metas, func(i, j int) bool {
		if metas[i].CreatedAtMilli != metas[j].CreatedAtMilli {
			return metas[i].CreatedAtMilli > metas[j].CreatedAtMilli
		}
		return metas[i].Name < metas[j].Name
	})

	span.SetAttributes(attribute.Int("count", len(metas)))
	return metas, nil
}

// Delete removes a puzzle by ID.
//
// Outputs:
//
//	error - ErrPuzzleNotFound if no record exists, otherwise a write error.
func (s *PuzzleStore) Delete(ctx context.Context, id string) error {
	ctx, span := otel.Tracer("puzzles").Start(ctx, "puzzles.Delete",
		trace.WithAttributes(attribute.String("puzzle_id", id)),
	)
	defer span.End()

	err := s.db.WithTxn(ctx, func(txn *badger.Txn) error {
		if _, err := txn.Get(puzzleKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ErrPuzzleNotFound, id)
			}
			return err
		}
		return txn.Delete(puzzleKey(id))
	})
	if err != nil {
		if !errors.Is(err, ErrPuzzleNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "delete failed")
		}
		return err
	}

	s.logger.Debug("puzzle deleted", slog.String("puzzle_id", id))
	return nil
}
