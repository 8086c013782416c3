// Package seeds places named starting patterns on a grid.
package seeds

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/bounded-gol/model"
)

// Pattern identifies an entry in the pattern table
type Pattern int

const (
	RPentomino Pattern = iota
	BHeptomino
	PiHeptomino
	Acorn
	Glider
	BlockGlider
	Block
	Blinker
)

// ErrUnknownPattern is returned for names and tags missing from the pattern table
var ErrUnknownPattern = errors.New("unknown seed pattern")

// Offset is a (row, col) displacement from a pattern's origin
type Offset struct {
	Row, Col int
}

// Layout is the grid size and origin a pattern is shown on by default
type Layout struct {
	Rows, Cols int
	Origin     Offset
}

type entry struct {
	name   string
	cells  []Offset
	layout Layout
}

var table = map[Pattern]entry{
	RPentomino: {
		name:   "r-pentomino",
		cells:  []Offset{{-1, 0}, {-1, 1}, {0, -1}, {0, 0}, {1, 0}},
		layout: Layout{Rows: 20, Cols: 20, Origin: Offset{10, 10}},
	},
	BHeptomino: {
		name:   "b-heptomino",
		cells:  []Offset{{-1, -1}, {-1, 1}, {-1, 2}, {0, -1}, {0, 0}, {0, 1}, {1, 0}},
		layout: Layout{Rows: 20, Cols: 20, Origin: Offset{10, 10}},
	},
	PiHeptomino: {
		name:   "pi-heptomino",
		cells:  []Offset{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 1}},
		layout: Layout{Rows: 20, Cols: 20, Origin: Offset{10, 10}},
	},
	Acorn: {
		name:   "acorn",
		cells:  []Offset{{-1, -2}, {0, 0}, {1, -3}, {1, -2}, {1, 1}, {1, 2}, {1, 3}},
		layout: Layout{Rows: 50, Cols: 70, Origin: Offset{25, 56}},
	},
	Glider: {
		name:   "glider",
		cells:  []Offset{{-1, 0}, {0, 1}, {1, -1}, {1, 0}, {1, 1}},
		layout: Layout{Rows: 20, Cols: 20, Origin: Offset{4, 4}},
	},
	BlockGlider: {
		name:   "block-glider",
		cells:  []Offset{{-1, -1}, {-1, 0}, {0, -1}, {0, 1}, {1, 1}, {1, 2}},
		layout: Layout{Rows: 50, Cols: 50, Origin: Offset{16, 25}},
	},
	Block: {
		name:   "block",
		cells:  []Offset{{0, 0}, {0, 1}, {1, 0}, {1, 1}},
		layout: Layout{Rows: 4, Cols: 4, Origin: Offset{1, 1}},
	},
	Blinker: {
		name:   "blinker",
		cells:  []Offset{{0, -1}, {0, 0}, {0, 1}},
		layout: Layout{Rows: 5, Cols: 5, Origin: Offset{2, 2}},
	},
}

func (p Pattern) String() string {
	if e, ok := table[p]; ok {
		return e.name
	}
	return "unknown"
}

// Cells returns a copy of the pattern's alive offsets
func (p Pattern) Cells() []Offset {
	e, ok := table[p]
	if !ok {
		return nil
	}
	return append([]Offset(nil), e.cells...)
}

// DefaultLayout returns the grid size and origin the pattern is usually run on
func (p Pattern) DefaultLayout() (Layout, error) {
	e, ok := table[p]
	if !ok {
		return Layout{}, errors.Wrapf(ErrUnknownPattern, "[DefaultLayout] tag %d", int(p))
	}
	return e.layout, nil
}

// ParsePattern looks a pattern up by name, ignoring case and surrounding space
func ParsePattern(name string) (Pattern, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, e := range table {
		if e.name == name {
			return p, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownPattern, "[ParsePattern] %q", name)
}

// Patterns lists every pattern in tag order
func Patterns() []Pattern {
	out := make([]Pattern, 0, len(table))
	for p := range table {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Seed marks the pattern alive around origin. Nothing is written unless every
// cell of the pattern lands inside the grid.
func Seed(g *model.Grid, p Pattern, origin Offset) error {
	e, ok := table[p]
	if !ok {
		return errors.Wrapf(ErrUnknownPattern, "[Seed] tag %d", int(p))
	}
	for _, off := range e.cells {
		if row, col := origin.Row+off.Row, origin.Col+off.Col; !g.InBounds(row, col) {
			return errors.Wrapf(model.ErrOutOfRange, "[Seed] %s at (%d,%d) reaches (%d,%d) outside %dx%d grid",
				e.name, origin.Row, origin.Col, row, col, g.Rows(), g.Cols())
		}
	}
	for _, off := range e.cells {
		if err := g.Set(origin.Row+off.Row, origin.Col+off.Col, true); err != nil {
			return errors.Wrap(err, "[Seed]")
		}
	}
	return nil
}

// NewSeeded creates a grid with the pattern's default layout and seeds it
func NewSeeded(p Pattern) (*model.Grid, error) {
	layout, err := p.DefaultLayout()
	if err != nil {
		return nil, err
	}
	g, err := model.NewGrid(layout.Rows, layout.Cols)
	if err != nil {
		return nil, errors.Wrap(err, "[NewSeeded]")
	}
	if err = Seed(g, p, layout.Origin); err != nil {
		return nil, err
	}
	return g, nil
}

// Randomize sets every cell alive with probability density
func Randomize(g *model.Grid, density float64, rng *rand.Rand) {
	for row := range g.Rows() {
		for col := range g.Cols() {
			// Coordinates come from the grid's own bounds.
			_ = g.Set(row, col, rng.Float64() < density)
		}
	}
}
