// Package config loads and validates rain settings from TOML.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/vi-rain/render"
)

// ErrInvalidConfig wraps every validation and decode failure
var ErrInvalidConfig = errors.New("invalid config")

// Limits
const (
	MaxTail    = 1024
	MinFrameMs = 10
	MaxFrameMs = 1000
)

// Backend names
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// Stop is one gradient stop as written in the file
type Stop struct {
	Pos   float32 `toml:"pos"`
	Color string  `toml:"color"` // #rrggbb
}

// Audio holds ambient sound settings
type Audio struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

// Config is the complete program configuration
type Config struct {
	Tail     int    `toml:"tail"`
	Alphabet string `toml:"alphabet"`
	FrameMs  int    `toml:"frame_ms"`
	Seed     uint64 `toml:"seed"` // 0 seeds from the clock
	Backend  string `toml:"backend"`
	Gradient []Stop `toml:"gradient"`
	Audio    Audio  `toml:"audio"`
}

// Default returns the stock green rain
func Default() Config {
	return Config{
		Tail:     15,
		Alphabet: "8=ｱｲｳｷｸｵﾔﾃﾂﾕ",
		FrameMs:  60,
		Backend:  BackendANSI,
		Gradient: DefaultGradient(),
		Audio: Audio{
			Enabled: false,
			Volume:  0.4,
		},
	}
}

// DefaultGradient is black to green to white
func DefaultGradient() []Stop {
	return []Stop{
		{Pos: 0.0, Color: "#000000"},
		{Pos: 0.8, Color: "#00ff00"},
		{Pos: 1.0, Color: "#ffffff"},
	}
}

// Glyph widths are judged outside East Asian ambiguous mode so the locale cannot widen them
var widthCond = &runewidth.Condition{EastAsianWidth: false}

// Validate checks every field, errors wrap ErrInvalidConfig
func (c Config) Validate() error {
	if c.Tail < 1 || c.Tail > MaxTail {
		return fmt.Errorf("%w: tail %d outside 1..%d", ErrInvalidConfig, c.Tail, MaxTail)
	}

	if c.Alphabet == "" {
		return fmt.Errorf("%w: empty alphabet", ErrInvalidConfig)
	}
	for _, r := range c.Alphabet {
		if w := widthCond.RuneWidth(r); w != 1 {
			return fmt.Errorf("%w: glyph %q has display width %d", ErrInvalidConfig, r, w)
		}
	}

	if c.FrameMs < MinFrameMs || c.FrameMs > MaxFrameMs {
		return fmt.Errorf("%w: frame_ms %d outside %d..%d", ErrInvalidConfig, c.FrameMs, MinFrameMs, MaxFrameMs)
	}

	switch c.Backend {
	case BackendANSI, BackendTcell:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return fmt.Errorf("%w: audio volume %g outside [0,1]", ErrInvalidConfig, c.Audio.Volume)
	}

	_, err := c.RenderGradient()
	return err
}

// RenderGradient converts the file stops into an engine gradient
// Positions must be finite and non-decreasing
func (c Config) RenderGradient() (render.Gradient, error) {
	g := make(render.Gradient, 0, len(c.Gradient))
	for i, s := range c.Gradient {
		if math32.IsNaN(s.Pos) || math32.IsInf(s.Pos, 0) {
			return nil, fmt.Errorf("%w: gradient[%d] position not finite", ErrInvalidConfig, i)
		}
		col, err := colorful.Hex(s.Color)
		if err != nil {
			return nil, fmt.Errorf("%w: gradient[%d] color %q: %v", ErrInvalidConfig, i, s.Color, err)
		}
		g = append(g, render.Stop{Pos: s.Pos, Color: render.FromColorful(col)})
	}

	if !g.Monotonic() {
		return nil, fmt.Errorf("%w: gradient positions decrease", ErrInvalidConfig)
	}
	return g, nil
}

// FramePeriod returns the tick interval
func (c Config) FramePeriod() time.Duration {
	return time.Duration(c.FrameMs) * time.Millisecond
}
