// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/AleutianSudoku/services/solver/strategy"
)

// findFirstParallel evaluates every finder of a pass concurrently and
// returns the hit with the lowest catalog index.
//
// Finders are pure functions of their construction inputs, so
// evaluating them concurrently and then picking the lowest index gives
// exactly the serial result. The whole pass is evaluated even when an
// early finder hits; for a 191-finder pass over a 9x9 board the wasted
// work is small, and keeping the selection a pure post-pass reduction
// avoids any ordering coordination between workers.
func findFirstParallel(ctx context.Context, finders []strategy.Finder, workers int) (strategy.StepResult, bool) {
	hits := make([]*strategy.StepResult, len(finders))

	var eg errgroup.Group
	eg.SetLimit(workers)
	for i, f := range finders {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if result, ok := f.FindNextStepResult(); ok {
				hits[i] = &result
			}
			return nil
		})
	}
	// Finders do not return errors; Wait only synchronizes.
	_ = eg.Wait()

	for _, hit := range hits {
		if hit != nil {
			return *hit, true
		}
	}
	return strategy.StepResult{}, false
}
