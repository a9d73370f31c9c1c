package render

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/vi-rain/terminal"
)

// RGB is a linear float color, channels nominally in [0,1]
// Kept separate from terminal.RGB so gradient math stays unquantized until the last step
type RGB struct {
	R, G, B float32
}

// Well-known colors
var (
	Black = RGB{0, 0, 0}
	White = RGB{1, 1, 1}
	Red   = RGB{1, 0, 0}
	Green = RGB{0, 1, 0}
	Blue  = RGB{0, 0, 1}
)

// NewRGB creates a color from channel values
func NewRGB(r, g, b float32) RGB {
	return RGB{R: r, G: g, B: b}
}

// Lerp blends c with o: c gets weight w, o gets 1-w
// w=1 returns c, w=0 returns o
func (c RGB) Lerp(o RGB, w float32) RGB {
	x := 1 - w
	return RGB{
		R: c.R*w + o.R*x,
		G: c.G*w + o.G*x,
		B: c.B*w + o.B*x,
	}
}

// Terminal quantizes to 24-bit by truncating channel*255
// No rounding and no clamping; callers keep channels in [0,1]
func (c RGB) Terminal() terminal.RGB {
	return terminal.RGB{
		R: uint8(c.R * 255.0),
		G: uint8(c.G * 255.0),
		B: uint8(c.B * 255.0),
	}
}

// FromColorful converts a go-colorful color (float64 channels in [0,1])
func FromColorful(c colorful.Color) RGB {
	return RGB{R: float32(c.R), G: float32(c.G), B: float32(c.B)}
}
