package render

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-rain/terminal"
)

func TestLerpLaw(t *testing.T) {
	pairs := [][2]RGB{
		{Red, Blue},
		{White, Black},
		{RGB{0.25, 0.5, 0.75}, RGB{0.9, 0.1, 0.4}},
	}

	for _, p := range pairs {
		x, y := p[0], p[1]
		assert.Equal(t, y, x.Lerp(y, 0))
		assert.Equal(t, x, x.Lerp(y, 1))
	}
}

func TestLerpWeightOrder(t *testing.T) {
	// Receiver gets w, argument gets 1-w
	got := White.Lerp(Black, 0.25)
	assert.Equal(t, RGB{0.25, 0.25, 0.25}, got)

	got = Green.Lerp(Black, 0.5)
	assert.Equal(t, RGB{0, 0.5, 0}, got)
}

func TestTerminalQuantizeTruncates(t *testing.T) {
	tests := []struct {
		name string
		in   RGB
		want terminal.RGB
	}{
		{"black", Black, terminal.RGB{R: 0, G: 0, B: 0}},
		{"white", White, terminal.RGB{R: 255, G: 255, B: 255}},
		{"half truncates", RGB{0.5, 0.5, 0.5}, terminal.RGB{R: 127, G: 127, B: 127}},
		{"just under one step", RGB{0.0039, 0, 0.999}, terminal.RGB{R: 0, G: 0, B: 254}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Terminal())
		})
	}
}

func TestFromColorful(t *testing.T) {
	c, err := colorful.Hex("#00ff00")
	require.NoError(t, err)
	assert.Equal(t, Green, FromColorful(c))

	c, err = colorful.Hex("#ffffff")
	require.NoError(t, err)
	assert.Equal(t, White, FromColorful(c))
}
