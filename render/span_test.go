package render

import (
	"math/rand/v2"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanScenario(t *testing.T) {
	s := Span{Start: 2, End: 12}

	tests := []struct {
		v    float32
		want Band
	}{
		{2, Band{Pos: 0, In: true}},
		{7, Band{Pos: 0.5, In: true}},
		{12, Band{Pos: 1, In: true}},
		{1, Band{}},
		{13, Band{}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Sample(tt.v), "v=%v", tt.v)
	}
}

func TestSpanZeroIsInBand(t *testing.T) {
	b := Span{Start: -4, End: 0}.Sample(-4)
	assert.True(t, b.In)
	assert.Zero(t, b.Pos)
}

// ulp returns the spacing of float32 values at |x|
func ulp(x float32) float32 {
	x = math32.Abs(x)
	return math32.Nextafter(x, math32.Inf(1)) - x
}

func TestSpanRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 5000; i++ {
		start := float32(rng.IntN(2000) - 1000)
		end := start + float32(1+rng.IntN(500))
		v := start + rng.Float32()*(end-start)

		b := Span{Start: start, End: end}.Sample(v)
		require.True(t, b.In, "v=%v in [%v,%v]", v, start, end)

		back := start + b.Pos*(end-start)
		// Each of the four float ops rounds once at the range magnitude
		tol := 4 * ulp(max(math32.Abs(start), math32.Abs(end)))
		assert.InDelta(t, v, back, float64(tol), "[%v,%v] v=%v", start, end, v)
	}
}

func TestSpanOutOfBand(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))

	for i := 0; i < 2000; i++ {
		start := rng.Float32()*200 - 100
		end := start + 0.5 + rng.Float32()*50
		s := Span{Start: start, End: end}

		below := start - 0.01 - rng.Float32()*10
		above := end + 0.01 + rng.Float32()*10
		assert.False(t, s.Sample(below).In)
		assert.False(t, s.Sample(above).In)
	}
}
