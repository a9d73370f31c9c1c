package rain

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-rain/render"
	"github.com/lixenwraith/vi-rain/terminal"
)

const testAlphabet = "8=ｱｲｳｷｸｵﾔﾃﾂﾕ"

func testGradient() render.Gradient {
	return render.Gradient{
		{Pos: 0, Color: render.Black},
		{Pos: 0.8, Color: render.Green},
		{Pos: 1, Color: render.White},
	}
}

func newTestMatrix(tail uint16, seed uint64) *Matrix {
	return NewMatrix(tail, testAlphabet, testGradient(), NewFastRand(seed))
}

// glyphs returns the sorted runes of area, the multiset seen by swaps
func glyphs(b *render.Buffer, area render.Area) []rune {
	out := make([]rune, 0, area.Width*area.Height)
	for y := area.Y; y < area.Y+area.Height; y++ {
		for x := area.X; x < area.X+area.Width; x++ {
			out = append(out, b.Glyph(x, y))
		}
	}
	slices.Sort(out)
	return out
}

// advanced replays the advance rule n ticks starting after frame
func advanced(d Drop, frame, n, height, tail int) Drop {
	for range n {
		frame = (frame + 1) % FramePeriod
		d.advance(frame, height, tail)
	}
	return d
}

func TestMatrixFirstRenderScenario(t *testing.T) {
	const width, height, tail = 3, 4, 2
	area := render.Area{Width: width, Height: height}
	buf := render.NewBuffer(width, height, terminal.RGBBlack)
	m := newTestMatrix(tail, 2024)

	m.Render(area, buf)

	drops := m.Drops()
	require.Len(t, drops, width)
	assert.Equal(t, 1, m.Frame())
	for i, d := range drops {
		assert.True(t, d.Speed >= 1 && d.Speed <= MaxSpeed, "drop %d speed %d", i, d.Speed)
		// Frame 1 only moves speed-1 drops
		spawned := d.Pos
		if d.Speed == 1 {
			spawned--
		}
		assert.True(t, spawned <= 0 && spawned >= -(height+tail), "drop %d spawned at %d", i, spawned)
	}

	before := m.Drops()
	for range 6 {
		m.Render(area, buf)
	}
	after := m.Drops()

	steps := map[int]int{1: 6, 2: 3, 3: 2}
	for i := range after {
		want := advanced(before[i], 1, 6, height, tail)
		assert.Equal(t, want, after[i], "drop %d", i)

		// Without a wrap the displacement is exactly the per-speed step count
		if before[i].Pos+steps[before[i].Speed] <= height+tail {
			assert.Equal(t, before[i].Pos+steps[before[i].Speed], after[i].Pos, "drop %d", i)
		}
	}
}

func TestMatrixFrameCounterWraps(t *testing.T) {
	area := render.Area{Width: 5, Height: 5}
	buf := render.NewBuffer(5, 5, terminal.RGBBlack)
	m := newTestMatrix(3, 1)

	for i := 1; i <= 20; i++ {
		m.Render(area, buf)
		assert.Equal(t, i%FramePeriod, m.Frame())
	}
}

func TestMatrixTailColor(t *testing.T) {
	const width, height, tail = 2, 10, 2
	area := render.Area{Width: width, Height: height}
	buf := render.NewBuffer(width, height, terminal.RGBBlack)
	m := newTestMatrix(tail, 77)
	g := testGradient()

	m.Render(area, buf)

	// Next tick is frame 2, so speed 1 lands the head on row 5
	m.drops[0] = Drop{Pos: 4, Speed: 1}
	m.Render(area, buf)
	require.Equal(t, 5, m.drops[0].Pos)

	// Row 4 sits at (4-3)/(5-3) = 0.5 inside the tail
	assert.Equal(t, g.Sample(0.5).Terminal(), buf.Cell(0, 4).Fg)
	// Head gets the last stop color
	assert.Equal(t, render.White.Terminal(), buf.Cell(0, 5).Fg)
	// Tail start gets the first stop color
	assert.Equal(t, render.Black.Terminal(), buf.Cell(0, 3).Fg)
	// Outside the tail paints black
	for _, y := range []int{0, 1, 2, 6, 9} {
		assert.Equal(t, terminal.RGBBlack, buf.Cell(0, y).Fg, "row %d", y)
	}
}

func TestMatrixBelowViewportPaintsBlack(t *testing.T) {
	const width, height, tail = 1, 6, 3
	area := render.Area{Width: width, Height: height}
	buf := render.NewBuffer(width, height, terminal.RGBBlack)
	m := NewMatrix(tail, testAlphabet, render.Gradient{{Pos: 0, Color: render.White}, {Pos: 1, Color: render.White}}, NewFastRand(5))

	m.Render(area, buf)
	// Speed 3 does not move on frame 2, tail starts at row 12-3 = 9 > bottom
	m.drops[0] = Drop{Pos: 12, Speed: 3}
	m.Render(area, buf)

	for y := 0; y < height; y++ {
		assert.Equal(t, terminal.RGBBlack, buf.Cell(0, y).Fg, "row %d", y)
	}
}

func TestMatrixSameAreaDoesNotReinit(t *testing.T) {
	const height, tail = 8, 4
	area := render.Area{Width: 16, Height: height}
	buf := render.NewBuffer(16, height, terminal.RGBBlack)
	m := newTestMatrix(tail, 31337)

	m.Render(area, buf)
	for tick := 0; tick < 50; tick++ {
		before := m.Drops()
		frame := m.Frame()
		m.Render(area, buf)
		after := m.Drops()

		for i := range after {
			require.Equal(t, advanced(before[i], frame, 1, height, tail), after[i], "tick %d drop %d", tick, i)
		}
	}
}

func TestMatrixResizeReinitializes(t *testing.T) {
	buf := render.NewBuffer(12, 5, terminal.RGBBlack)
	m := newTestMatrix(4, 8)

	a := render.Area{Width: 10, Height: 5}
	m.Render(a, buf)
	assert.Len(t, m.Drops(), 10)
	assert.Equal(t, a, m.Area())

	b := render.Area{Width: 12, Height: 5}
	m.Render(b, buf)
	assert.Len(t, m.Drops(), 12)
	assert.Equal(t, b, m.Area())

	for i, d := range m.Drops() {
		assert.True(t, d.Speed >= 1 && d.Speed <= MaxSpeed, "drop %d", i)
		assert.LessOrEqual(t, d.Pos, 1, "drop %d", i)
	}
}

func TestMatrixSwapPreservesMultiset(t *testing.T) {
	area := render.Area{Width: 20, Height: 10}
	buf := render.NewBuffer(20, 10, terminal.RGBBlack)
	m := newTestMatrix(6, 4242)

	m.Render(area, buf)
	want := glyphs(buf, area)
	first := make([]rune, len(buf.Cells()))
	for i, c := range buf.Cells() {
		first[i] = c.Rune
	}

	moved := false
	for tick := 0; tick < 40; tick++ {
		m.Render(area, buf)
		require.Equal(t, want, glyphs(buf, area), "tick %d", tick)
	}
	for i, c := range buf.Cells() {
		if c.Rune != first[i] {
			moved = true
			break
		}
	}
	assert.True(t, moved, "expected at least one glyph to change position")
}

func TestMatrixGlyphsFromAlphabet(t *testing.T) {
	area := render.Area{Width: 8, Height: 8}
	buf := render.NewBuffer(8, 8, terminal.RGBBlack)
	m := newTestMatrix(5, 10)
	m.Render(area, buf)

	allowed := []rune(testAlphabet)
	for _, c := range buf.Cells() {
		assert.Contains(t, allowed, c.Rune)
	}
}

func TestMatrixOffsetArea(t *testing.T) {
	buf := render.NewBuffer(10, 6, terminal.RGBBlack)
	area := render.Area{X: 3, Y: 2, Width: 4, Height: 3}
	m := newTestMatrix(2, 17)

	for range 10 {
		m.Render(area, buf)
	}

	for y := 0; y < 6; y++ {
		for x := 0; x < 10; x++ {
			inside := x >= 3 && x < 7 && y >= 2 && y < 5
			if !inside {
				assert.Equal(t, ' ', buf.Glyph(x, y), "(%d,%d) touched outside area", x, y)
			} else {
				assert.NotEqual(t, ' ', buf.Glyph(x, y), "(%d,%d) not filled", x, y)
			}
		}
	}
}

// recordingSurface counts writes to observe the init pass
type recordingSurface struct {
	*render.Buffer
	fgWrites    int
	glyphWrites int
	fgFirst     []terminal.RGB
}

func (r *recordingSurface) SetGlyph(x, y int, c rune) {
	r.glyphWrites++
	r.Buffer.SetGlyph(x, y, c)
}

func (r *recordingSurface) SetFg(x, y int, c terminal.RGB) {
	if r.fgWrites < len(r.fgFirst) {
		r.fgFirst[r.fgWrites] = c
	}
	r.fgWrites++
	r.Buffer.SetFg(x, y, c)
}

func TestMatrixInitFillsFirstStop(t *testing.T) {
	const w, h = 4, 3
	g := render.Gradient{{Pos: 0, Color: render.Red}, {Pos: 1, Color: render.Blue}}
	surf := &recordingSurface{Buffer: render.NewBuffer(w, h, terminal.RGBBlack), fgFirst: make([]terminal.RGB, w*h)}
	m := NewMatrix(2, "xyz", g, NewFastRand(3))

	m.Render(render.Area{Width: w, Height: h}, surf)

	assert.Equal(t, w*h, surf.glyphWrites)
	// Init pass plus paint pass
	assert.Equal(t, 2*w*h, surf.fgWrites)
	for i, c := range surf.fgFirst {
		assert.Equal(t, render.Red.Terminal(), c, "init write %d", i)
	}

	surf.glyphWrites, surf.fgWrites = 0, 0
	m.Render(render.Area{Width: w, Height: h}, surf)
	assert.Zero(t, surf.glyphWrites)
	assert.Equal(t, w*h, surf.fgWrites)
}

func TestMatrixLastWraps(t *testing.T) {
	const height, tail = 4, 1
	area := render.Area{Width: 1, Height: height}
	buf := render.NewBuffer(1, height, terminal.RGBBlack)
	m := newTestMatrix(tail, 6)

	m.Render(area, buf)
	m.drops[0] = Drop{Pos: height + tail, Speed: 1}
	m.Render(area, buf)

	assert.Equal(t, 1, m.LastWraps())
	assert.Equal(t, height+tail+1-2*height, m.drops[0].Pos)

	m.Render(area, buf)
	assert.Zero(t, m.LastWraps())
}

func TestMatrixEmptyArea(t *testing.T) {
	buf := render.NewBuffer(0, 0, terminal.RGBBlack)
	m := newTestMatrix(3, 1)

	assert.NotPanics(t, func() {
		m.Render(render.Area{}, buf)
		m.Render(render.Area{}, buf)
	})
	assert.Empty(t, m.Drops())
	assert.Equal(t, uint16(3), m.Tail())
}
