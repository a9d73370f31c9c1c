package render

// Stop is a gradient keyframe
type Stop struct {
	Pos   float32
	Color RGB
}

// Gradient is a piecewise-linear color map defined by stops in non-decreasing Pos order
type Gradient []Stop

// Sample returns the color at s
// Before the first stop the first color is returned, past the last stop the last color
func (g Gradient) Sample(s float32) RGB {
	n := len(g)
	if n == 0 {
		return Black
	}
	if n == 1 {
		return g[0].Color
	}

	for i, stop := range g {
		if stop.Pos < s {
			continue
		}

		i0 := max(i-1, 0)
		if i0 == i {
			return stop.Color
		}

		prev := g[i0]
		w := (s - prev.Pos) / (stop.Pos - prev.Pos)
		// Upper stop is the receiver so the result approaches it as s rises
		return stop.Color.Lerp(prev.Color, w)
	}

	return g[n-1].Color
}

// First returns the color of the first stop, Black when empty
func (g Gradient) First() RGB {
	if len(g) == 0 {
		return Black
	}
	return g[0].Color
}

// Monotonic reports whether stop positions are non-decreasing
// Sample does not rely on it; config validation does
func (g Gradient) Monotonic() bool {
	for i := 1; i < len(g); i++ {
		if g[i].Pos < g[i-1].Pos {
			return false
		}
	}
	return true
}
