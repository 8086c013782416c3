package model

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

const headerSize = 8

// ErrMalformedEncoding is returned when decoding bytes that are not a grid encoding
var ErrMalformedEncoding = errors.New("malformed grid encoding")

// MarshalBinary encodes the grid as big-endian uint32 rows and cols followed
// by the cells in row-major order, eight per byte, most significant bit first.
func (g *Grid) MarshalBinary() ([]byte, error) {
	out := make([]byte, headerSize+(len(g.cells)+7)/8)
	binary.BigEndian.PutUint32(out[0:4], uint32(g.rows))
	binary.BigEndian.PutUint32(out[4:8], uint32(g.cols))
	for i, alive := range g.cells {
		if alive {
			out[headerSize+i/8] |= 0x80 >> (i % 8)
		}
	}
	return out, nil
}

// UnmarshalBinary replaces the grid with the one encoded in data
func (g *Grid) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize {
		return errors.Wrapf(ErrMalformedEncoding, "[UnmarshalBinary] %d bytes is shorter than the header", len(data))
	}
	rows := int(binary.BigEndian.Uint32(data[0:4]))
	cols := int(binary.BigEndian.Uint32(data[4:8]))
	if rows <= 0 || cols <= 0 {
		return errors.Wrapf(ErrInvalidDimension, "[UnmarshalBinary] rows=%d cols=%d", rows, cols)
	}
	if cols > (math.MaxInt-7)/rows {
		return errors.Wrapf(ErrMalformedEncoding, "[UnmarshalBinary] %dx%d grid is too large", rows, cols)
	}
	// Length is checked before anything is allocated.
	if want := headerSize + (rows*cols+7)/8; len(data) != want {
		return errors.Wrapf(ErrMalformedEncoding, "[UnmarshalBinary] %dx%d grid needs %d bytes, got %d",
			rows, cols, want, len(data))
	}
	decoded, err := NewGrid(rows, cols)
	if err != nil {
		return errors.Wrap(err, "[UnmarshalBinary]")
	}
	for i := range decoded.cells {
		decoded.cells[i] = data[headerSize+i/8]&(0x80>>(i%8)) != 0
	}
	*g = *decoded
	return nil
}
