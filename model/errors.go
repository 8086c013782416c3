package model

import "github.com/pkg/errors"

var (
	// ErrInvalidDimension is returned when a grid is created with non-positive rows or columns
	ErrInvalidDimension = errors.New("invalid grid dimension")
	// ErrOutOfRange is returned on direct cell access outside [0,rows) x [0,cols)
	ErrOutOfRange = errors.New("cell coordinate out of range")
	// ErrDimensionMismatch is returned when a step reads and writes grids of different shapes
	ErrDimensionMismatch = errors.New("grid dimension mismatch")
	// ErrAliasedBuffer is returned when a step is asked to write into the grid it reads
	ErrAliasedBuffer = errors.New("read and write buffers are the same grid")
	// ErrInvalidGenerations is returned when a run is asked for a negative number of generations
	ErrInvalidGenerations = errors.New("generations must be non-negative")
)
