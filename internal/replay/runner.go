// Package replay executes scripted index scenarios against a fresh cell grid
// and axis index, checking inline expectations and reducing the final grid
// state to a digest two peers can compare.
package replay

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/zeusync/broadphase/internal/config"
	"github.com/zeusync/broadphase/internal/core/observability/log"
	"github.com/zeusync/broadphase/internal/core/spatial/axis"
	"github.com/zeusync/broadphase/internal/core/spatial/grid"
	"github.com/zeusync/broadphase/pkg/generic"
)

// Runner replays scenarios. Every run builds its own indices, so runs may
// execute concurrently.
type Runner struct {
	cfg    config.Config
	logger log.Log
}

func NewRunner(cfg config.Config, logger log.Log) *Runner {
	if logger == nil {
		logger = log.Nop()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Result summarizes one scenario run.
type Result struct {
	RunID    string
	Scenario string
	Steps    int
	Failures []error
	Digest   uint64
	Elapsed  time.Duration
}

// OK reports whether every expectation held.
func (r Result) OK() bool {
	return len(r.Failures) == 0
}

// DigestHex formats the digest the way scenarios spell expect_digest.
func (r Result) DigestHex() string {
	return FormatDigest(r.Digest)
}

// Err joins the failures, or returns nil.
func (r Result) Err() error {
	return errors.Join(r.Failures...)
}

// Run executes the scenario. Expectation mismatches are collected in the
// result; the returned error covers setup problems and cancellation.
func (r *Runner) Run(ctx context.Context, sc *Scenario) (Result, error) {
	res := Result{RunID: uuid.NewString(), Scenario: sc.Name}
	logger := r.logger.With(log.String("run_id", res.RunID), log.String("scenario", sc.Name))

	if err := sc.Validate(); err != nil {
		return res, err
	}

	cellSize := r.cfg.CellSize
	if sc.CellSize > 0 {
		cellSize = sc.CellSize
	}
	g, err := grid.New[string](cellSize, grid.WithLogger(logger))
	if err != nil {
		return res, err
	}
	idx := axis.New[string](axis.WithLogger(logger))

	start := time.Now()
	logger.Debug("scenario started", log.Int("cell_size", cellSize), log.Int("steps", len(sc.Steps)))
	for i, step := range sc.Steps {
		if err = ctx.Err(); err != nil {
			return res, err
		}
		if failure := r.apply(g, idx, step); failure != nil {
			failure = fmt.Errorf("step %d (%s): %w", i, step.Op, failure)
			logger.Warn("scenario expectation failed", log.Int("step", i), log.Error(failure))
			res.Failures = append(res.Failures, failure)
		}
		res.Steps++
	}

	res.Digest = Digest(g)
	res.Elapsed = time.Since(start)
	if sc.ExpectDigest != "" && sc.ExpectDigest != res.DigestHex() {
		res.Failures = append(res.Failures, fmt.Errorf("digest: %w: got %s, want %s",
			ErrExpectationFailed, res.DigestHex(), sc.ExpectDigest))
	}

	logger.Info("scenario finished",
		log.Int("steps", res.Steps),
		log.Int("failures", len(res.Failures)),
		log.String("digest", res.DigestHex()),
		log.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// RunFiles loads and replays every file, at most cfg.Workers at a time.
// Results keep the order of paths. The first load or setup error cancels the
// remaining runs.
func (r *Runner) RunFiles(ctx context.Context, paths ...string) ([]Result, error) {
	results := make([]Result, len(paths))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(max(r.cfg.Workers, 1))

	for i, path := range paths {
		group.Go(func() error {
			sc, err := LoadFile(path)
			if err != nil {
				r.logger.Error("scenario rejected", log.String("path", path), log.Error(err))
				return err
			}
			res, err := r.Run(ctx, sc)
			if err != nil {
				return fmt.Errorf("run %s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) apply(g *grid.Grid[string], idx *axis.Index[string], step Step) error {
	x, y, z, err := step.Point()
	if err != nil {
		return err
	}

	switch step.Op {
	case OpInsert:
		g.Insert(step.Elem, x, y, z)
		idx.Insert(step.Elem, x, y, z)
	case OpErase:
		g.Erase(step.Elem, x, y, z)
		idx.Erase(step.Elem, x, y, z)
	case OpRemove:
		idx.Remove(step.Elem)
	case OpClear:
		g.Clear(x, y, z)
	case OpSize:
		return expectInt(step, g.Size(x, y, z))
	case OpCount:
		return expectInt(step, g.Count(step.Elem, x, y, z))
	case OpFind:
		lookup := g.Find(x, y, z)
		found := 0
		if lookup.OK() {
			found = 1
		}
		if err = expectInt(step, found); err != nil {
			return err
		}
		if step.ExpectSet == nil {
			return nil
		}
		bucket, err := lookup.Found()
		if err != nil {
			return err
		}
		return matchSet(step.ExpectSet, bucket)
	case OpNearby:
		return expectSet(step, idx.Nearby(x, y, z, r.radius(step)))
	case OpAround:
		return expectSet(step, g.Around(x, y, z, r.radius(step)))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, step.Op)
	}
	return nil
}

func (r *Runner) radius(step Step) int {
	if step.Radius != nil {
		return *step.Radius
	}
	return r.cfg.Radius
}

func expectInt(step Step, got int) error {
	if step.Expect == nil || *step.Expect == got {
		return nil
	}
	return fmt.Errorf("%w: got %d, want %d", ErrExpectationFailed, got, *step.Expect)
}

func expectSet(step Step, got generic.Set[string]) error {
	if step.Expect != nil && *step.Expect != got.Len() {
		return fmt.Errorf("%w: got %d elements, want %d", ErrExpectationFailed, got.Len(), *step.Expect)
	}
	return matchSet(step.ExpectSet, got)
}

// matchSet compares got with want regardless of order. A nil want matches anything.
func matchSet(want []string, got generic.Set[string]) error {
	if want == nil {
		return nil
	}
	want = slices.Sorted(slices.Values(want))
	have := generic.Sorted(got)
	if !slices.Equal(want, have) {
		return fmt.Errorf("%w: got %v, want %v", ErrExpectationFailed, have, want)
	}
	return nil
}
