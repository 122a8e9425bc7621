//go:build ignore

// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// make_puzzles generates .sdk puzzle fixtures for the library watcher
// and the puzzles commands. Every emitted puzzle is checked against the
// deduction engine, so each one is guaranteed solvable by the catalog.
//
// Run with: go run scripts/make_puzzles.go -out testdata/puzzles -count 5 -holes 30
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/AleutianAI/AleutianSudoku/services/solver/engine"
	"github.com/AleutianAI/AleutianSudoku/services/solver/grid"
)

func main() {
	out := flag.String("out", "testdata/puzzles", "Output directory for .sdk files")
	count := flag.Int("count", 5, "Number of puzzles to generate")
	holes := flag.Int("holes", 30, "Target empty cells per puzzle")
	seed := flag.Int64("seed", 1, "RNG seed; same seed, same fixtures")
	flag.Parse()

	if *holes < 1 || *holes > 64 {
		fmt.Fprintln(os.Stderr, "holes must be between 1 and 64")
		os.Exit(1)
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot create %s: %v\n", *out, err)
		os.Exit(1)
	}

	// The engine logs each applied step at debug level; that is pure
	// noise across thousands of trial solves.
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.New(engine.WithLogger(quiet))
	rng := rand.New(rand.NewSource(*seed))
	ctx := context.Background()

	for i := 1; i <= *count; i++ {
		full := shuffledSolvedGrid(rng)
		puzzle, removed := punchHoles(ctx, eng, rng, full, *holes)

		name := fmt.Sprintf("generated_%02d.sdk", i)
		path := filepath.Join(*out, name)
		if err := os.WriteFile(path, []byte(puzzle.String()), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Cannot write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("%s  %d empty cells\n", path, removed)
	}
}

// shuffledSolvedGrid builds a random complete valid board. It starts
// from the cyclic base solution, relabels the digits with a random
// permutation, and shuffles rows within bands, columns within stacks,
// and the bands and stacks themselves. Each transform preserves the
// one-digit-per-house property, so the result needs no re-check.
func shuffledSolvedGrid(rng *rand.Rand) grid.Grid {
	perm := rng.Perm(grid.Size)

	var rows [9][9]int
	for r := 0; r < grid.Size; r++ {
		for c := 0; c < grid.Size; c++ {
			base := (c + 3*r + r/3) % grid.Size
			rows[r][c] = perm[base] + 1
		}
	}

	// Rows within each band, then whole bands.
	for band := 0; band < 3; band++ {
		shuffleTriple(rng, func(a, b int) {
			rows[band*3+a], rows[band*3+b] = rows[band*3+b], rows[band*3+a]
		})
	}
	shuffleTriple(rng, func(a, b int) {
		for i := 0; i < 3; i++ {
			rows[a*3+i], rows[b*3+i] = rows[b*3+i], rows[a*3+i]
		}
	})

	// Columns within each stack, then whole stacks.
	for stack := 0; stack < 3; stack++ {
		shuffleTriple(rng, func(a, b int) {
			for r := 0; r < grid.Size; r++ {
				rows[r][stack*3+a], rows[r][stack*3+b] = rows[r][stack*3+b], rows[r][stack*3+a]
			}
		})
	}
	shuffleTriple(rng, func(a, b int) {
		for r := 0; r < grid.Size; r++ {
			for i := 0; i < 3; i++ {
				rows[r][a*3+i], rows[r][b*3+i] = rows[r][b*3+i], rows[r][a*3+i]
			}
		}
	})

	asSlices := make([][]int, grid.Size)
	for r := range rows {
		asSlices[r] = rows[r][:]
	}
	g, err := grid.New(asSlices)
	if err != nil {
		panic(err)
	}
	return g
}

// shuffleTriple applies a random permutation of {0,1,2} through a swap
// callback.
func shuffleTriple(rng *rand.Rand, swap func(a, b int)) {
	for i := 2; i > 0; i-- {
		j := rng.Intn(i + 1)
		if i != j {
			swap(i, j)
		}
	}
}

// punchHoles clears cells of a complete board in random order, keeping
// a clearing only if the engine can still finish the puzzle. It returns
// the punched grid and the number of cells actually cleared, which may
// fall short of target when the catalog runs out of deductions.
func punchHoles(ctx context.Context, eng *engine.Engine, rng *rand.Rand, full grid.Grid, target int) (grid.Grid, int) {
	g := full
	removed := 0
	for _, idx := range rng.Perm(grid.NumCells) {
		if removed == target {
			break
		}
		pos := grid.Position{Row: idx / grid.Size, Col: idx % grid.Size}
		candidate := g.WithCellValue(pos, grid.NoDigit)

		result, err := eng.Solve(ctx, candidate)
		if err != nil {
			panic(err)
		}
		if result.Status == engine.StatusSolved {
			g = candidate
			removed++
		}
	}
	return g, removed
}
