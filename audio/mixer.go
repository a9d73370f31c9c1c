package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// activeSound tracks a playing sound instance
type activeSound struct {
	buffer floatBuffer
	pos    int
	volume float64
}

type playRequest struct {
	sound   SoundType
	variant int
	volume  float64
}

// Mixer sums active sounds and writes s16le stereo PCM once per BufferDuration
// Each sound type starts at most once per buffer, further requests in the same buffer merge
type Mixer struct {
	output io.Writer
	cache  *soundCache

	playQueue chan playRequest
	stopChan  chan struct{}
	doneChan  chan struct{}
	stopped   atomic.Bool

	// Accessed only by mix goroutine
	active  []activeSound
	started [soundTypeCount]bool

	statsMu sync.Mutex
	played  uint64
	dropped uint64
	merged  uint64

	errChan chan error
}

// NewMixer creates a mixer writing to out
func NewMixer(out io.Writer, cache *soundCache) *Mixer {
	return &Mixer{
		output:    out,
		cache:     cache,
		playQueue: make(chan playRequest, 32),
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
		active:    make([]activeSound, 0, 8),
		errChan:   make(chan error, 1),
	}
}

// Start begins the mixing loop
func (m *Mixer) Start() {
	go m.loop(BufferDuration)
}

// Stop signals the mixer to halt, Done reports when the loop has exited
func (m *Mixer) Stop() {
	if m.stopped.CompareAndSwap(false, true) {
		close(m.stopChan)
	}
}

// Done is closed once the loop has exited
func (m *Mixer) Done() <-chan struct{} {
	return m.doneChan
}

// Play queues a sound, dropping it when the queue is full
func (m *Mixer) Play(st SoundType, variant int, volume float64) {
	if m.stopped.Load() {
		return
	}

	select {
	case m.playQueue <- playRequest{sound: st, variant: variant, volume: volume}:
	default:
		m.statsMu.Lock()
		m.dropped++
		m.statsMu.Unlock()
	}
}

// Errors returns channel for pipe errors
func (m *Mixer) Errors() <-chan error {
	return m.errChan
}

func (m *Mixer) loop(period time.Duration) {
	defer close(m.doneChan)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	mixBuf := make([]float64, BufferSamples)
	outBytes := make([]byte, BufferSamples*BytesPerFrame)

	for {
		select {
		case <-m.stopChan:
			return

		case req := <-m.playQueue:
			m.accept(req)

		case <-ticker.C:
			clear(mixBuf)
			if len(m.active) > 0 {
				m.active = m.mixActive(mixBuf)
			}
			// Silence still goes out to keep the pipe alive
			floatToBytes(mixBuf, outBytes)
			m.started = [soundTypeCount]bool{}

			if _, err := m.output.Write(outBytes); err != nil {
				select {
				case m.errChan <- fmt.Errorf("%w: %v", ErrPipeClosed, err):
				default:
				}
				return
			}
		}
	}
}

// accept starts a requested sound unless one of its type already started this buffer
func (m *Mixer) accept(req playRequest) {
	if req.sound < 0 || req.sound >= soundTypeCount {
		return
	}
	if m.started[req.sound] {
		m.statsMu.Lock()
		m.merged++
		m.statsMu.Unlock()
		return
	}

	buf := m.cache.get(req.sound, req.variant)
	if len(buf) == 0 {
		return
	}
	m.started[req.sound] = true
	m.active = append(m.active, activeSound{buffer: buf, volume: req.volume})

	m.statsMu.Lock()
	m.played++
	m.statsMu.Unlock()
}

// mixActive mixes all active sounds into buf, returns remaining sounds
func (m *Mixer) mixActive(buf []float64) []activeSound {
	remaining := m.active[:0]

	for i := range m.active {
		s := &m.active[i]
		for j := 0; j < len(buf) && s.pos < len(s.buffer); j++ {
			buf[j] += s.buffer[s.pos] * s.volume
			s.pos++
		}
		if s.pos < len(s.buffer) {
			remaining = append(remaining, *s)
		}
	}
	return remaining
}

// floatToBytes converts float64 mono to interleaved stereo int16 LE bytes
// Applies soft limiting before hard clip
func floatToBytes(in []float64, out []byte) {
	for i, v := range in {
		if v > 0.8 {
			v = 0.8 + 0.2*(1.0-1.0/(1.0+(v-0.8)*5.0))
		} else if v < -0.8 {
			v = -0.8 - 0.2*(1.0-1.0/(1.0+(-v-0.8)*5.0))
		}

		v = min(max(v, -1.0), 1.0)

		s := uint16(int16(v * 32767))
		idx := i * BytesPerFrame
		binary.LittleEndian.PutUint16(out[idx:], s)   // L
		binary.LittleEndian.PutUint16(out[idx+2:], s) // R
	}
}

// Stats returns played, dropped and merged counts
func (m *Mixer) Stats() (played, dropped, merged uint64) {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()
	return m.played, m.dropped, m.merged
}
