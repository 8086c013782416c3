package model

import (
	"crypto/md5"
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Grid is a bounded population of cells stored row-major. Dimensions are
// fixed at creation.
type Grid struct {
	rows  int
	cols  int
	cells []bool
}

// NewGrid creates a grid with the specified dimensions and every cell dead
func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimension, "[NewGrid] rows=%d cols=%d", rows, cols)
	}
	if rows > math.MaxInt/cols {
		return nil, errors.Wrapf(ErrInvalidDimension, "[NewGrid] %dx%d cells overflow", rows, cols)
	}
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]bool, rows*cols),
	}, nil
}

// MustNewGrid is NewGrid for dimensions known to be valid; it panics otherwise
func MustNewGrid(rows, cols int) *Grid {
	g, err := NewGrid(rows, cols)
	if err != nil {
		panic(err)
	}
	return g
}

// Rows returns the number of rows in the grid
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns in the grid
func (g *Grid) Cols() int {
	return g.cols
}

// InBounds reports whether (row, col) addresses a cell of the grid
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// Get returns the state of a cell
func (g *Grid) Get(row, col int) (bool, error) {
	if !g.InBounds(row, col) {
		return false, g.outOfRange("Get", row, col)
	}
	return g.cells[row*g.cols+col], nil
}

// Set sets a cell to alive (true) or dead (false)
func (g *Grid) Set(row, col int, alive bool) error {
	if !g.InBounds(row, col) {
		return g.outOfRange("Set", row, col)
	}
	g.cells[row*g.cols+col] = alive
	return nil
}

// Alive is Get for renderers: coordinates outside the grid read as dead
func (g *Grid) Alive(row, col int) bool {
	if !g.InBounds(row, col) {
		return false
	}
	return g.cells[row*g.cols+col]
}

func (g *Grid) outOfRange(op string, row, col int) error {
	return errors.Wrapf(ErrOutOfRange, "[%s] (%d,%d) outside %dx%d grid", op, row, col, g.rows, g.cols)
}

// SameShape reports whether both grids have identical dimensions
func (g *Grid) SameShape(other *Grid) bool {
	return g.rows == other.rows && g.cols == other.cols
}

// Clear kills every cell
func (g *Grid) Clear() {
	clear(g.cells)
}

// reset resizes the grid in place, reusing the backing array when it is large enough
func (g *Grid) reset(rows, cols int) {
	g.rows = rows
	g.cols = cols
	if cap(g.cells) < rows*cols {
		g.cells = make([]bool, rows*cols)
		return
	}
	g.cells = g.cells[:rows*cols]
	clear(g.cells)
}

// Clone returns an independent copy of the grid
func (g *Grid) Clone() *Grid {
	cells := make([]bool, len(g.cells))
	copy(cells, g.cells)
	return &Grid{rows: g.rows, cols: g.cols, cells: cells}
}

// Equal reports whether both grids have the same shape and cell states
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || !g.SameShape(other) {
		return false
	}
	for i, alive := range g.cells {
		if other.cells[i] != alive {
			return false
		}
	}
	return true
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for _, alive := range g.cells {
		if alive {
			count++
		}
	}
	return
}

// LiveCells returns the coordinates of every living cell in row-major order
func (g *Grid) LiveCells() [][2]int {
	var out [][2]int
	for i, alive := range g.cells {
		if alive {
			out = append(out, [2]int{i / g.cols, i % g.cols})
		}
	}
	return out
}

// Hash returns an MD5 fingerprint of the grid's shape and cell states
func (g *Grid) Hash() string {
	h := md5.New()
	fmt.Fprintf(h, "%dx%d:", g.rows, g.cols)
	buf := make([]byte, len(g.cells))
	for i, alive := range g.cells {
		if alive {
			buf[i] = 1
		}
	}
	h.Write(buf)
	return fmt.Sprintf("%x", h.Sum(nil))
}
