package rain

import (
	"github.com/lixenwraith/vi-rain/render"
	"github.com/lixenwraith/vi-rain/terminal"
)

// MutateChance is the per-cell, per-frame probability of a glyph swap away from the head
const MutateChance = 0.05

// Matrix is the digital rain widget
// Owns its drops, gradient, alphabet and random source; the surface is borrowed per Render
type Matrix struct {
	frame    int
	drops    []Drop
	area     render.Area
	ready    bool
	tail     uint16
	gradient render.Gradient
	alphabet []rune
	rng      FastRand

	lastWraps int
}

// NewMatrix creates a widget; tail must be > 0 and alphabet non-empty
// Drops and the initial glyph fill materialize on the first Render
func NewMatrix(tail uint16, alphabet string, gradient render.Gradient, rng FastRand) *Matrix {
	return &Matrix{
		tail:     tail,
		gradient: gradient,
		alphabet: []rune(alphabet),
		rng:      rng,
	}
}

// init rebuilds drops for area and seeds every cell with a random glyph
func (m *Matrix) init(area render.Area, surf render.Surface) {
	tail := int(m.tail)
	m.drops = spawnDrops(m.drops, area.Width, area.Height, tail, &m.rng)

	fg := m.gradient.First().Terminal()
	for y := 0; y < area.Height; y++ {
		for x := 0; x < area.Width; x++ {
			sx, sy := area.X+x, area.Y+y
			surf.SetGlyph(sx, sy, Choose(&m.rng, m.alphabet))
			surf.SetFg(sx, sy, fg)
		}
	}

	m.area = area
	m.ready = true
}

// Render advances one tick and paints every cell of area
func (m *Matrix) Render(area render.Area, surf render.Surface) {
	if !m.ready || m.area != area {
		m.init(area, surf)
	}

	m.frame = (m.frame + 1) % FramePeriod

	tail := int(m.tail)
	m.lastWraps = 0
	for i := range m.drops {
		if m.drops[i].advance(m.frame, area.Height, tail) {
			m.lastWraps++
		}
	}

	for y := 0; y < area.Height; y++ {
		for x := 0; x < area.Width; x++ {
			d := m.drops[x]
			sx, sy := area.X+x, area.Y+y

			isHead := y == d.Pos
			isRand := m.rng.Bernoulli(MutateChance)
			if isHead || isRand {
				// Trade glyphs with a random cell of the area
				rx := m.rng.IntN(area.Width)
				ry := m.rng.IntN(area.Height)
				surf.Swap(surf.Index(sx, sy), surf.Index(area.X+rx, area.Y+ry))
			}

			span := render.Span{Start: float32(d.Pos - tail), End: float32(d.Pos)}
			if band := span.Sample(float32(y)); band.In {
				surf.SetFg(sx, sy, m.gradient.Sample(band.Pos).Terminal())
			} else {
				surf.SetFg(sx, sy, terminal.RGBBlack)
			}
		}
	}
}

// Drops returns a copy of the current drop state
func (m *Matrix) Drops() []Drop {
	out := make([]Drop, len(m.drops))
	copy(out, m.drops)
	return out
}

// Frame returns the frame counter, always in [0, FramePeriod)
func (m *Matrix) Frame() int {
	return m.frame
}

// Area returns the area the drops were last initialized for
func (m *Matrix) Area() render.Area {
	return m.area
}

// Tail returns the tail length in rows
func (m *Matrix) Tail() uint16 {
	return m.tail
}

// LastWraps returns how many drops wrapped back above the top in the last tick
func (m *Matrix) LastWraps() int {
	return m.lastWraps
}
