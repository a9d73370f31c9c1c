package audio

import (
	"errors"
	"time"
)

// SoundType represents the ambient sound effects
type SoundType int

const (
	SoundDrip SoundType = iota // A stream leaving the bottom of the screen
	SoundHiss                  // Rain washing over a resized screen
	soundTypeCount
)

func (s SoundType) String() string {
	switch s {
	case SoundDrip:
		return "drip"
	case SoundHiss:
		return "hiss"
	}
	return "unknown"
}

// BackendType identifies the audio backend
type BackendType int

const (
	BackendPulse BackendType = iota
	BackendPipeWire
	BackendALSA
	BackendSoX
	BackendFFplay
	BackendOSS
	BackendSpeaker // In-process output through beep/speaker
)

// BackendConfig describes an audio output
type BackendConfig struct {
	Type BackendType
	Name string
	Path string
	Args []string
}

// PCM format shared by every backend: s16le stereo
const (
	SampleRate    = 44100
	Channels      = 2
	BytesPerFrame = Channels * 2

	// BufferDuration is the mixer tick, also the drip coalescing window
	BufferDuration = 50 * time.Millisecond
	BufferSamples  = SampleRate * 50 / 1000
)

// Sentinel errors
var (
	ErrNoAudioBackend = errors.New("no compatible audio backend found")
	ErrPipeClosed     = errors.New("audio pipe closed")
)

// Config holds engine settings
type Config struct {
	Enabled bool
	Volume  float64 // Master volume, 0.0-1.0
	Effects [soundTypeCount]float64
}

// DefaultConfig returns a disabled engine at moderate volume
func DefaultConfig() Config {
	return Config{
		Enabled: false,
		Volume:  0.4,
		Effects: [soundTypeCount]float64{
			SoundDrip: 0.6,
			SoundHiss: 0.3,
		},
	}
}
