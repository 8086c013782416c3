package model

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// engines covers the sequential path, an uneven band split and pooled buffers
func engines() map[string]*Engine {
	return map[string]*Engine{
		"sequential":  NewEngine(1, nil),
		"three bands": NewEngine(3, nil),
		"pooled":      NewEngine(0, NewGridPool()),
	}
}

func requireSameGrid(t *testing.T, want, got *Grid) {
	t.Helper()
	if diff := cmp.Diff(gridString(want), gridString(got)); diff != "" {
		t.Fatalf("grid mismatch (-want +got):\n%s", diff)
	}
}

func TestStillLife(t *testing.T) {
	t.Parallel()

	block := gridFromRows(t,
		"....",
		".##.",
		".##.",
		"....",
	)
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			next, err := e.Next(block)
			require.NoError(t, err)
			requireSameGrid(t, block, next)
		})
	}
}

func TestBlinker(t *testing.T) {
	t.Parallel()

	horizontal := gridFromRows(t,
		".....",
		".....",
		".###.",
		".....",
		".....",
	)
	vertical := gridFromRows(t,
		".....",
		"..#..",
		"..#..",
		"..#..",
		".....",
	)
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			once, err := e.Next(horizontal)
			require.NoError(t, err)
			requireSameGrid(t, vertical, once)

			twice, err := e.Next(once)
			require.NoError(t, err)
			requireSameGrid(t, horizontal, twice)
		})
	}
}

func TestGliderTranslation(t *testing.T) {
	t.Parallel()

	glider := gridFromRows(t,
		"..........",
		"..#.......",
		"...#......",
		".###......",
		"..........",
		"..........",
		"..........",
		"..........",
	)
	shifted := gridFromRows(t,
		"..........",
		"..........",
		"...#......",
		"....#.....",
		"..###.....",
		"..........",
		"..........",
		"..........",
	)
	for name, e := range engines() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := e.Run(context.Background(), glider, 4, nil)
			require.NoError(t, err)
			requireSameGrid(t, shifted, got)
		})
	}
}

func TestBoundaryCellsDie(t *testing.T) {
	t.Parallel()

	// A blinker lying on the top edge cannot rotate through the border: the
	// out-of-grid row counts as dead, so only the in-grid half survives.
	edge := gridFromRows(t,
		".###.",
		".....",
		".....",
	)
	want := gridFromRows(t,
		"..#..",
		"..#..",
		".....",
	)
	next, err := NewEngine(1, nil).Next(edge)
	require.NoError(t, err)
	requireSameGrid(t, want, next)

	// A full 2x2 grid is a block touching every edge and stays put.
	full := gridFromRows(t, "##", "##")
	next, err = NewEngine(2, nil).Next(full)
	require.NoError(t, err)
	requireSameGrid(t, full, next)
}

func TestEmptyGridStaysEmpty(t *testing.T) {
	t.Parallel()

	for _, dims := range [][2]int{{1, 1}, {1, 9}, {7, 1}, {13, 17}} {
		g := MustNewGrid(dims[0], dims[1])
		for name, e := range engines() {
			next, err := e.Next(g)
			require.NoError(t, err, name)
			assert.Zero(t, next.CountLivingCells(), "%s %v", name, dims)
			assert.True(t, g.SameShape(next), "%s %v", name, dims)
		}
	}
}

func TestStepOverwritesStaleBuffer(t *testing.T) {
	t.Parallel()

	current := MustNewGrid(4, 4)
	stale := gridFromRows(t,
		"####",
		"####",
		"####",
		"####",
	)
	next, err := NewEngine(2, nil).Step(current, stale)
	require.NoError(t, err)
	assert.Same(t, stale, next)
	assert.Zero(t, next.CountLivingCells())
}

func TestStepErrors(t *testing.T) {
	t.Parallel()

	e := NewEngine(1, nil)
	g := MustNewGrid(3, 3)

	_, err := e.Step(g, MustNewGrid(3, 4))
	assert.True(t, errors.Is(err, ErrDimensionMismatch), "%v", err)

	_, err = e.Step(g, g)
	assert.True(t, errors.Is(err, ErrAliasedBuffer), "%v", err)
}

func TestStepDoesNotMutateSource(t *testing.T) {
	t.Parallel()

	g := gridFromRows(t,
		".#.",
		".#.",
		".#.",
	)
	before := g.Clone()
	_, err := NewEngine(3, nil).Next(g)
	require.NoError(t, err)
	requireSameGrid(t, before, g)
}

func TestRun(t *testing.T) {
	t.Parallel()

	blinker := gridFromRows(t,
		".....",
		".....",
		".###.",
		".....",
		".....",
	)

	t.Run("zero generations returns initial without observing", func(t *testing.T) {
		t.Parallel()
		called := false
		got, err := NewEngine(1, nil).Run(context.Background(), blinker, 0, func(int, *Grid) { called = true })
		require.NoError(t, err)
		assert.Same(t, blinker, got)
		assert.False(t, called)
	})

	t.Run("observer sees every generation in order", func(t *testing.T) {
		t.Parallel()
		var (
			indexes  []int
			snapshot []*Grid
		)
		initial := blinker.Clone()
		got, err := NewEngine(2, NewGridPool()).Run(context.Background(), initial, 5, func(gen int, g *Grid) {
			indexes = append(indexes, gen)
			snapshot = append(snapshot, g.Clone())
		})
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, indexes)
		requireSameGrid(t, blinker, initial)
		for i, g := range snapshot {
			if i%2 == 1 {
				requireSameGrid(t, blinker, g)
			} else {
				assert.False(t, blinker.Equal(g), "generation %d", i)
			}
		}
		requireSameGrid(t, snapshot[4], got)
		assert.NotSame(t, initial, got)
	})

	t.Run("negative generations", func(t *testing.T) {
		t.Parallel()
		_, err := NewEngine(1, nil).Run(context.Background(), blinker, -1, nil)
		assert.True(t, errors.Is(err, ErrInvalidGenerations), "%v", err)
	})

	t.Run("cancellation stops at a generation boundary", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		seen := 0
		got, err := NewEngine(1, nil).Run(ctx, blinker, 10, func(gen int, g *Grid) {
			seen++
			if gen == 2 {
				cancel()
			}
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled), "%v", err)
		assert.Equal(t, 3, seen)
		// Three steps of a blinker leave it vertical.
		assert.False(t, blinker.Equal(got))
		requireSameGrid(t, blinker, mustNext(t, got))
	})
}

func mustNext(t *testing.T, g *Grid) *Grid {
	t.Helper()
	next, err := NewEngine(1, nil).Next(g)
	require.NoError(t, err)
	return next
}

func BenchmarkStep(b *testing.B) {
	current := MustNewGrid(512, 512)
	for i := range 512 * 512 / 3 {
		current.cells[(i*7919)%len(current.cells)] = true
	}
	next := MustNewGrid(512, 512)

	for name, e := range engines() {
		b.Run(name, func(b *testing.B) {
			for range b.N {
				if _, err := e.Step(current, next); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
