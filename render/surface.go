package render

import (
	"github.com/lixenwraith/vi-rain/terminal"
)

// Area represents a rectangular target region
type Area struct {
	X, Y          int // Top-left corner
	Width, Height int
}

// Empty returns true if the area covers no cells
func (a Area) Empty() bool {
	return a.Width <= 0 || a.Height <= 0
}

// Surface is a mutable grid of cells addressed by absolute (x, y)
// Index yields a stable linear index so two cells can be swapped without aliasing
type Surface interface {
	Index(x, y int) int
	Glyph(x, y int) rune
	SetGlyph(x, y int, r rune)
	SetFg(x, y int, c terminal.RGB)
	// Swap exchanges the glyphs of two cells by linear index, i == j is a no-op
	Swap(i, j int)
}
