package render

import (
	"github.com/lixenwraith/vi-rain/terminal"
)

// Buffer is a Surface backed by a row-major terminal.Cell array
// Uses []terminal.Cell directly to allow zero-copy export to the terminal
type Buffer struct {
	cells  []terminal.Cell
	width  int
	height int
	bg     terminal.RGB
}

var _ Surface = (*Buffer)(nil)

// NewBuffer creates a buffer with the specified dimensions and background
func NewBuffer(width, height int, bg terminal.RGB) *Buffer {
	b := &Buffer{bg: bg}
	b.Resize(width, height)
	return b
}

// Resize adjusts buffer dimensions, reallocates only if capacity insufficient
func (b *Buffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]terminal.Cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Clear resets all cells to blank using exponential copy
func (b *Buffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = terminal.Cell{Rune: ' ', Fg: terminal.RGBBlack, Bg: b.bg}
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// Size returns buffer dimensions
func (b *Buffer) Size() (int, int) {
	return b.width, b.height
}

// Cell returns a copy of the cell at (x, y), zero Cell when out of bounds
func (b *Buffer) Cell(x, y int) terminal.Cell {
	if !b.inBounds(x, y) {
		return terminal.Cell{}
	}
	return b.cells[y*b.width+x]
}

// Cells exposes the backing array, row-major
func (b *Buffer) Cells() []terminal.Cell {
	return b.cells
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// ===== SURFACE API =====

// Index returns the linear index of (x, y), -1 when out of bounds
func (b *Buffer) Index(x, y int) int {
	if !b.inBounds(x, y) {
		return -1
	}
	return y*b.width + x
}

// Glyph returns the rune at (x, y)
func (b *Buffer) Glyph(x, y int) rune {
	if !b.inBounds(x, y) {
		return 0
	}
	return b.cells[y*b.width+x].Rune
}

// SetGlyph writes the rune at (x, y), preserving colors
func (b *Buffer) SetGlyph(x, y int, r rune) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x].Rune = r
}

// SetFg writes the foreground at (x, y), preserving rune and background
func (b *Buffer) SetFg(x, y int, c terminal.RGB) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x].Fg = c
}

// Swap exchanges the runes of two cells, colors stay in place
func (b *Buffer) Swap(i, j int) {
	if i == j || i < 0 || j < 0 || i >= len(b.cells) || j >= len(b.cells) {
		return
	}
	b.cells[i].Rune, b.cells[j].Rune = b.cells[j].Rune, b.cells[i].Rune
}

// ===== OUTPUT =====

// FlushToTerminal writes render buffer to terminal
func (b *Buffer) FlushToTerminal(term terminal.Terminal) {
	term.Flush(b.cells, b.width, b.height)
}
