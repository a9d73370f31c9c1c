package audio

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// floatBuffer is mono float64 samples at unity gain
type floatBuffer []float64

var beepRate = beep.SampleRate(SampleRate)

// Sound shapes
const (
	dripDuration = 90 * time.Millisecond
	dripAttack   = 2 * time.Millisecond
	dripRelease  = 80 * time.Millisecond

	hissDuration = 300 * time.Millisecond
	hissAttack   = 40 * time.Millisecond
	hissRelease  = 200 * time.Millisecond

	// Rendering stops here even if a streamer never drains
	maxSoundDuration = 2 * time.Second
)

// dripPitches is a pentatonic spread so overlapping drips stay consonant
var dripPitches = [...]float64{523.25, 587.33, 659.25, 783.99, 880.00}

// variants returns how many cached renditions a sound has
func variants(st SoundType) int {
	if st == SoundDrip {
		return len(dripPitches)
	}
	return 1
}

// envelope applies a linear attack/release to a stream
type envelope struct {
	streamer     beep.Streamer
	position     int
	attack       int
	releaseStart int
	release      int
	total        int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration) beep.Streamer {
	total := beepRate.N(duration)
	att := beepRate.N(attack)
	rel := beepRate.N(release)
	return &envelope{
		streamer:     s,
		attack:       att,
		release:      rel,
		releaseStart: max(total-rel, att),
		total:        total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, false
		}

		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		} else if e.position >= e.releaseStart && e.release > 0 {
			vol = float64(e.total-e.position) / float64(e.release)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// noise is white noise from a fixed seed so renders are reproducible
type noise struct {
	rng *rand.Rand
}

func newNoise(seed uint64) beep.Streamer {
	return &noise{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (n *noise) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		v := n.rng.Float64()*2 - 1
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (n *noise) Err() error { return nil }

// newVolume wraps s in a linear gain
// math.Log2(0) is -Inf, so zero volume becomes silence
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// newDripSound is a short sine blip with a soft overtone
func newDripSound(freq float64) (beep.Streamer, error) {
	fund, err := generators.SineTone(beepRate, freq)
	if err != nil {
		return nil, fmt.Errorf("drip tone: %w", err)
	}
	over, err := generators.SineTone(beepRate, freq*2.5)
	if err != nil {
		return nil, fmt.Errorf("drip overtone: %w", err)
	}

	mixed := beep.Mix(newVolume(fund, 0.75), newVolume(over, 0.25))
	return newEnvelope(beep.Take(beepRate.N(dripDuration), mixed), dripDuration, dripAttack, dripRelease), nil
}

// newHissSound is a burst of enveloped noise
func newHissSound() beep.Streamer {
	return newEnvelope(beep.Take(beepRate.N(hissDuration), newNoise(0x5eed)), hissDuration, hissAttack, hissRelease)
}

// synthesize renders variant v of st into a unity gain mono buffer
func synthesize(st SoundType, v int) (floatBuffer, error) {
	var s beep.Streamer
	switch st {
	case SoundDrip:
		d, err := newDripSound(dripPitches[v%len(dripPitches)])
		if err != nil {
			return nil, err
		}
		s = d
	case SoundHiss:
		s = newHissSound()
	default:
		return nil, fmt.Errorf("unknown sound %d", st)
	}
	return renderStreamer(s), nil
}

// renderStreamer drains s into a mono buffer
func renderStreamer(s beep.Streamer) floatBuffer {
	limit := beepRate.N(maxSoundDuration)
	buf := make(floatBuffer, 0, beepRate.N(hissDuration))
	var tmp [512][2]float64

	for len(buf) < limit {
		n, ok := s.Stream(tmp[:])
		for i := 0; i < n; i++ {
			buf = append(buf, (tmp[i][0]+tmp[i][1])/2)
		}
		if !ok || n == 0 {
			break
		}
	}
	return buf
}
