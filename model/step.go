package model

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/bounded-gol/rules"
)

// Observer is called after each completed generation with its 0-based index.
// The grid is only valid until the observer returns; Clone it to keep it.
type Observer func(generation int, g *Grid)

// Engine advances grids one generation at a time. It holds no simulation
// state between calls.
type Engine struct {
	// Workers is the number of row bands swept concurrently.
	// 0 uses runtime.NumCPU(), 1 sweeps on the calling goroutine.
	Workers int
	// Pool, when set, supplies write buffers for Next and Run
	Pool *GridPool
}

// NewEngine returns an engine with the given worker count and an optional pool
func NewEngine(workers int, pool *GridPool) *Engine {
	return &Engine{Workers: workers, Pool: pool}
}

func (e *Engine) workers() int {
	if e == nil || e.Workers <= 0 {
		return runtime.NumCPU()
	}
	return e.Workers
}

func (e *Engine) buffer(rows, cols int) *Grid {
	if e != nil && e.Pool != nil {
		return e.Pool.Get(rows, cols)
	}
	return MustNewGrid(rows, cols)
}

func (e *Engine) release(g *Grid) {
	if e != nil {
		GridToPool(g, e.Pool)
	}
}

// Step writes the generation after current into next and returns next.
// current is only read; next must be a distinct grid of the same shape.
func (e *Engine) Step(current, next *Grid) (*Grid, error) {
	if current == next {
		return nil, errors.Wrap(ErrAliasedBuffer, "[Step]")
	}
	if !current.SameShape(next) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "[Step] read %dx%d, write %dx%d",
			current.rows, current.cols, next.rows, next.cols)
	}

	var (
		eg            errgroup.Group
		numWorkers    = min(e.workers(), current.rows)
		rowsPerWorker = (current.rows + numWorkers - 1) / numWorkers // Ceiling division
	)

	if numWorkers == 1 {
		sweep(current, next, 0, current.rows)
		return next, nil
	}

	for i := range numWorkers {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, current.rows)
		)
		if startRow >= current.rows {
			break
		}

		eg.Go(func() error {
			sweep(current, next, startRow, endRow)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, errors.Wrap(err, "[Step] sweep failed")
	}
	return next, nil
}

// sweep fills rows [startRow, endRow) of next. Every cell is written so next
// may hold stale data from a previous generation.
func sweep(current, next *Grid, startRow, endRow int) {
	for r := startRow; r < endRow; r++ {
		base := r * current.cols
		for c := range current.cols {
			next.cells[base+c] = rules.Evaluate(current.window(r, c))
		}
	}
}

// Next returns a freshly owned grid holding the generation after current
func (e *Engine) Next(current *Grid) (*Grid, error) {
	next := e.buffer(current.rows, current.cols)
	if _, err := e.Step(current, next); err != nil {
		e.release(next)
		return nil, err
	}
	return next, nil
}

// Run advances initial by the given number of generations, calling observer
// (if not nil) after each one. initial is never modified; with zero
// generations it is returned as is. Cancellation is checked between
// generations, in which case the last complete generation is returned along
// with the context error.
func (e *Engine) Run(ctx context.Context, initial *Grid, generations int, observer Observer) (*Grid, error) {
	if generations < 0 {
		return nil, errors.Wrapf(ErrInvalidGenerations, "[Run] generations=%d", generations)
	}

	var (
		current = initial
		spare   *Grid
	)
	defer func() {
		if spare != nil {
			e.release(spare)
		}
	}()

	for gen := range generations {
		if err := ctx.Err(); err != nil {
			return current, errors.Wrapf(err, "[Run] stopped before generation %d", gen)
		}

		next := spare
		spare = nil
		if next == nil {
			next = e.buffer(initial.rows, initial.cols)
		}
		if _, err := e.Step(current, next); err != nil {
			e.release(next)
			return current, err
		}

		// The previous generation becomes the next write buffer, unless it
		// belongs to the caller.
		if current != initial {
			spare = current
		}
		current = next

		if observer != nil {
			observer(gen, current)
		}
	}

	return current, nil
}
