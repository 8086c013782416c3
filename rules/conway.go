package rules

// Window is the 3x3 neighborhood of a single cell. The cell under evaluation
// sits at [1][1]; positions outside the grid hold false.
type Window [3][3]bool

// Center returns the state of the cell under evaluation
func (w Window) Center() bool {
	return w[1][1]
}

// LivingNeighbors counts the alive cells among the eight non-center positions
func (w Window) LivingNeighbors() (count int) {
	for r := range 3 {
		for c := range 3 {
			if r == 1 && c == 1 {
				continue
			}
			if w[r][c] {
				count++
			}
		}
	}
	return
}

/*
ApplyConwayRules applies Conway's Game of Life rules to determine the next state of a cell.

  - alive with fewer than 2 neighbors dies (underpopulation)
  - alive with 2 or 3 neighbors survives
  - alive with more than 3 neighbors dies (overpopulation)
  - dead with exactly 3 neighbors is born

Which folds to: (alive && neighbors == 2) || neighbors == 3
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	return (alive && neighbors == 2) || neighbors == 3
}

// Evaluate returns the next-generation state of the window's center cell
func Evaluate(w Window) bool {
	return ApplyConwayRules(w.LivingNeighbors(), w.Center())
}
