package model

import "github.com/sheikhrachel/bounded-gol/rules"

// Resolve returns the 3x3 window centered on (row, col). Neighbors that fall
// outside the grid are reported dead; there is no wrap-around.
func Resolve(g *Grid, row, col int) (rules.Window, error) {
	if !g.InBounds(row, col) {
		return rules.Window{}, g.outOfRange("Resolve", row, col)
	}
	return g.window(row, col), nil
}

// window assumes (row, col) is in bounds
func (g *Grid) window(row, col int) (w rules.Window) {
	for dr := -1; dr <= 1; dr++ {
		r := row + dr
		if r < 0 || r >= g.rows {
			continue
		}
		base := r * g.cols
		for dc := -1; dc <= 1; dc++ {
			c := col + dc
			if c < 0 || c >= g.cols {
				continue
			}
			w[dr+1][dc+1] = g.cells[base+c]
		}
	}
	return
}
