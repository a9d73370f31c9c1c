package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/vi-rain/core"
)

// Engine plays ambient rain sounds through a piped system player or the in-process speaker
// Missing backends put the engine in silent mode, which is not an error
type Engine struct {
	config Config
	mu     sync.RWMutex // Protects config

	cache *soundCache
	mixer *Mixer

	backend *BackendConfig
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	ossFile *os.File
	pipe    *io.PipeWriter // Speaker feed

	running    atomic.Bool
	silentMode atomic.Bool
	drips      atomic.Uint64

	wg sync.WaitGroup
}

// Replaced in tests
var detectBackend = DetectBackend

// NewEngine creates an engine, sounds are rendered up front
func NewEngine(cfg Config) *Engine {
	e := &Engine{
		config: cfg,
		cache:  newSoundCache(),
	}
	e.cache.preload()
	return e
}

// Start opens the first available output and launches the mixer
func (e *Engine) Start() error {
	if e.running.Load() {
		return fmt.Errorf("audio engine already running")
	}

	w, err := e.openOutput()
	if err != nil {
		core.Logger().Warn("audio unavailable, running silent", "err", err)
		e.silentMode.Store(true)
		e.running.Store(true)
		return nil
	}

	core.Logger().Info("audio started", "backend", e.backend.Name)
	e.startMixer(w)
	return nil
}

// openOutput tries pipe backends, then the speaker
func (e *Engine) openOutput() (io.Writer, error) {
	backend, err := detectBackend()
	if errors.Is(err, ErrNoAudioBackend) {
		pr, pw := io.Pipe()
		if err := openSpeaker(pr); err != nil {
			pw.Close()
			return nil, fmt.Errorf("%w: speaker: %v", ErrNoAudioBackend, err)
		}
		e.backend = &BackendConfig{Type: BackendSpeaker, Name: "speaker"}
		e.pipe = pw
		return pw, nil
	}
	if err != nil {
		return nil, err
	}
	e.backend = backend

	if backend.Type == BackendOSS {
		f, err := os.OpenFile(backend.Path, os.O_WRONLY, 0)
		if err != nil {
			return nil, fmt.Errorf("oss open: %w", err)
		}
		e.ossFile = f
		return f, nil
	}

	cmd := exec.Command(backend.Path, backend.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%s stdin: %w", backend.Name, err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		return nil, fmt.Errorf("%s start: %w", backend.Name, err)
	}
	e.cmd = cmd
	e.stdin = stdin

	e.wg.Add(1)
	core.Go(e.monitorProcess)
	return stdin, nil
}

// startMixer wires a mixer onto w and marks the engine running
func (e *Engine) startMixer(w io.Writer) {
	e.mixer = NewMixer(w, e.cache)
	e.mixer.Start()

	e.wg.Add(1)
	core.Go(e.monitorMixer)

	e.running.Store(true)
}

// monitorProcess falls back to silence when the player exits
func (e *Engine) monitorProcess() {
	defer e.wg.Done()

	err := e.cmd.Wait()
	if e.running.Load() && !e.silentMode.Load() {
		core.Logger().Warn("audio player exited", "backend", e.backend.Name, "err", err)
		e.silentMode.Store(true)
	}
}

// monitorMixer falls back to silence on pipe errors
func (e *Engine) monitorMixer() {
	defer e.wg.Done()

	select {
	case err := <-e.mixer.Errors():
		if e.running.Load() {
			core.Logger().Warn("audio pipe failed", "err", err)
		}
		e.silentMode.Store(true)
	case <-e.mixer.Done():
	}
}

// Stop terminates the engine
func (e *Engine) Stop() {
	if !e.running.CompareAndSwap(true, false) {
		return
	}

	if e.mixer != nil {
		e.mixer.Stop()
	}
	// Closing outputs unblocks a mixer write stuck on a stalled player
	if e.stdin != nil {
		e.stdin.Close()
	}
	if e.ossFile != nil {
		e.ossFile.Close()
	}
	if e.pipe != nil {
		e.pipe.Close()
		closeSpeaker()
	}
	if e.cmd != nil && e.cmd.Process != nil {
		e.cmd.Process.Kill()
	}
	if e.mixer != nil {
		<-e.mixer.Done()
	}

	e.wg.Wait()
}

// Play queues variant v of a sound at the configured volume
func (e *Engine) Play(st SoundType, v int) bool {
	if !e.IsEnabled() || e.mixer == nil {
		return false
	}
	if st < 0 || st >= soundTypeCount {
		return false
	}

	e.mu.RLock()
	vol := e.config.Volume * e.config.Effects[st]
	e.mu.RUnlock()

	e.mixer.Play(st, v, vol)
	return true
}

// Drips reports n streams that wrapped this tick
// One drip plays per call, pitch rotating through the variants
func (e *Engine) Drips(n int) bool {
	if n <= 0 {
		return false
	}
	// Stride 2 over five pitches walks the scale in thirds
	v := int(e.drips.Add(1)*2) % len(dripPitches)
	return e.Play(SoundDrip, v)
}

// Hiss plays the wash sound
func (e *Engine) Hiss() bool {
	return e.Play(SoundHiss, 0)
}

// SetConfig replaces config, applied to the next Play
func (e *Engine) SetConfig(cfg Config) {
	e.mu.Lock()
	e.config = cfg
	e.mu.Unlock()
}

// IsEnabled returns true if running with a live output and sound enabled
func (e *Engine) IsEnabled() bool {
	e.mu.RLock()
	enabled := e.config.Enabled
	e.mu.RUnlock()
	return enabled && e.running.Load() && !e.silentMode.Load()
}

// IsRunning returns true if engine is running (even in silent mode)
func (e *Engine) IsRunning() bool {
	return e.running.Load()
}

// Backend names the active output, empty in silent mode
func (e *Engine) Backend() string {
	if e.backend == nil || e.silentMode.Load() {
		return ""
	}
	return e.backend.Name
}

// Stats returns played, dropped and merged counts
func (e *Engine) Stats() (played, dropped, merged uint64) {
	if e.mixer == nil {
		return 0, 0, 0
	}
	return e.mixer.Stats()
}
