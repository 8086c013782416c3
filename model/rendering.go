package model

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	borderAlive  = "* "
	borderDead   = "  "
	borderRule   = "--"
	borderSide   = "|"
	clearCommand = "clear"
)

// Renderer draws a grid. Renderers only read the grid.
type Renderer interface {
	Display(g *Grid) error
	Clear() error
}

// TerminalRenderer draws living cells as solid blocks
type TerminalRenderer struct {
	Out io.Writer
}

// Display renders the grid to the terminal
func (r *TerminalRenderer) Display(g *Grid) error {
	w := bufio.NewWriter(writerOrStdout(r.Out))
	for row := range g.Rows() {
		for col := range g.Cols() {
			if g.Alive(row, col) {
				w.WriteString(gridPosBlock)
			} else {
				w.WriteString(gridPosEmpty)
			}
		}
		w.WriteByte('\n')
	}
	return errors.Wrap(w.Flush(), "[TerminalRenderer.Display] flush")
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() error {
	cmd := exec.Command(clearCommand)
	cmd.Stdout = writerOrStdout(r.Out)
	return errors.Wrap(cmd.Run(), "[TerminalRenderer.Clear] clearing terminal")
}

// BorderRenderer prints the grid inside a box, one "* " per living cell
type BorderRenderer struct {
	Out io.Writer
}

// Display renders the grid with a border
func (r *BorderRenderer) Display(g *Grid) error {
	w := bufio.NewWriter(writerOrStdout(r.Out))
	rule := strings.Repeat(borderRule, g.Cols()+1) + "\n"

	w.WriteString(rule)
	for row := range g.Rows() {
		w.WriteString(borderSide)
		for col := range g.Cols() {
			if g.Alive(row, col) {
				w.WriteString(borderAlive)
			} else {
				w.WriteString(borderDead)
			}
		}
		w.WriteString(borderSide + "\n")
	}
	w.WriteString(rule)
	return errors.Wrap(w.Flush(), "[BorderRenderer.Display] flush")
}

// Clear is a no-op; bordered output is meant to scroll
func (r *BorderRenderer) Clear() error {
	return nil
}

func writerOrStdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
