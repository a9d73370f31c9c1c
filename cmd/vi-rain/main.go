// Command vi-rain fills the terminal with falling glyph streams until a key is pressed.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/lixenwraith/vi-rain/audio"
	"github.com/lixenwraith/vi-rain/config"
	"github.com/lixenwraith/vi-rain/core"
	"github.com/lixenwraith/vi-rain/display"
	"github.com/lixenwraith/vi-rain/rain"
	"github.com/lixenwraith/vi-rain/render"
	"github.com/lixenwraith/vi-rain/terminal"
)

// options carries command line values, set records which ones were given
type options struct {
	configPath string
	logPath    string
	watch      bool

	backend string
	tail    int
	seed    uint64
	audio   bool

	set map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("vi-rain", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.configPath, "config", "", "TOML config file")
	fs.StringVar(&o.logPath, "log", "", "Write a debug log to this file")
	fs.BoolVar(&o.watch, "watch", false, "Reload the config file when it changes")
	fs.StringVar(&o.backend, "backend", config.BackendANSI, "Display backend: ansi, tcell")
	fs.IntVar(&o.tail, "tail", 15, "Stream tail length in rows")
	fs.Uint64Var(&o.seed, "seed", 0, "Random seed, 0 seeds from the clock")
	fs.BoolVar(&o.audio, "audio", false, "Play ambient drip sounds")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// apply overrides cfg with the flags given explicitly
func (o options) apply(cfg *config.Config) {
	if o.set["backend"] {
		cfg.Backend = o.backend
	}
	if o.set["tail"] {
		cfg.Tail = o.tail
	}
	if o.set["seed"] {
		cfg.Seed = o.seed
	}
	if o.set["audio"] {
		cfg.Audio.Enabled = o.audio
	}
}

// loadConfig reads the file, applies flags, and validates the merged result
func (o options) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, err
	}
	o.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newWidget builds a matrix from cfg, seed 0 draws one from the clock
func newWidget(cfg config.Config) (*rain.Matrix, error) {
	g, err := cfg.RenderGradient()
	if err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rain.NewMatrix(uint16(cfg.Tail), cfg.Alphabet, g, rain.NewFastRand(seed)), nil
}

func audioConfig(cfg config.Config) audio.Config {
	ac := audio.DefaultConfig()
	ac.Enabled = cfg.Audio.Enabled
	ac.Volume = cfg.Audio.Volume
	return ac
}

// sounds is the slice of the audio engine the loop drives
type sounds interface {
	Drips(n int) bool
	Hiss() bool
	SetConfig(audio.Config)
}

// app owns the widget and is touched only by the loop goroutine
type app struct {
	disp    display.Display
	widget  *rain.Matrix
	frame   time.Duration
	audio   sounds
	reloads chan config.Config
}

func newApp(disp display.Display, cfg config.Config) (*app, error) {
	w, err := newWidget(cfg)
	if err != nil {
		return nil, err
	}
	return &app{
		disp:    disp,
		widget:  w,
		frame:   cfg.FramePeriod(),
		reloads: make(chan config.Config, 1),
	}, nil
}

// offerReload hands a config to the loop, replacing any still pending
func (a *app) offerReload(cfg config.Config) {
	for {
		select {
		case a.reloads <- cfg:
			return
		default:
		}
		select {
		case <-a.reloads:
		default:
		}
	}
}

// run ticks until a key press (nil) or a display error
func (a *app) run() error {
	timer := time.NewTimer(a.frame)
	defer timer.Stop()

	for {
		select {
		case ev := <-a.disp.Events():
			switch ev.Kind {
			case display.EventKey:
				return nil
			case display.EventError:
				return ev.Err
			case display.EventResize:
				// The widget reinitializes when it sees the new area
				core.Logger().Debug("resize")
				if a.audio != nil {
					a.audio.Hiss()
				}
				continue
			}

		case cfg := <-a.reloads:
			if err := a.reload(cfg); err != nil {
				core.Logger().Warn("reload rejected", "err", err)
			}
			continue

		case <-timer.C:
		}

		if err := a.tick(); err != nil {
			return err
		}
		timer.Reset(a.frame)
	}
}

func (a *app) tick() error {
	w, h := a.disp.Size()
	a.widget.Render(render.Area{Width: w, Height: h}, a.disp.Surface())
	if err := a.disp.Show(); err != nil {
		return err
	}
	if a.audio != nil {
		a.audio.Drips(a.widget.LastWraps())
	}
	return nil
}

// reload swaps in a widget built from cfg, the next tick paints it from scratch
func (a *app) reload(cfg config.Config) error {
	w, err := newWidget(cfg)
	if err != nil {
		return err
	}
	a.widget = w
	a.frame = cfg.FramePeriod()
	if a.audio != nil {
		a.audio.SetConfig(audioConfig(cfg))
	}
	core.Logger().Debug("config reloaded", "tail", cfg.Tail, "frame_ms", cfg.FrameMs)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "vi-rain: %v\n", err)
		return 1
	}

	logFile, err := setupLogging(opts.logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vi-rain: %v\n", err)
		return 1
	}
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "vi-rain: %v\n", err)
		return 1
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		fmt.Fprintf(os.Stderr, "vi-rain: stdout: %v\n", terminal.ErrNotTerminal)
		return 1
	}
	if mode := terminal.DetectColorMode(); mode != terminal.ColorModeTrueColor {
		core.Logger().Warn("terminal may not support 24-bit color", "mode", mode.String())
	}

	disp, err := display.Open(cfg.Backend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vi-rain: %v\n", err)
		return 1
	}
	defer disp.Close()

	// Panic Recovery: restore the display before the trace is printed
	core.SetCrashCleanup(disp.Close)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	core.Logger().Info("start", "backend", cfg.Backend, "tail", cfg.Tail, "frame_ms", cfg.FrameMs)

	a, err := newApp(disp, cfg)
	if err != nil {
		disp.Close()
		fmt.Fprintf(os.Stderr, "vi-rain: %v\n", err)
		return 1
	}

	if cfg.Audio.Enabled {
		eng := audio.NewEngine(audioConfig(cfg))
		if err := eng.Start(); err != nil {
			core.Logger().Warn("audio start failed", "err", err)
		} else {
			defer eng.Stop()
			a.audio = eng
		}
	}

	if opts.watch && opts.configPath != "" {
		w, err := config.NewWatcher(opts.configPath, 0,
			func(c config.Config) {
				opts.apply(&c)
				if err := c.Validate(); err != nil {
					core.Logger().Warn("reload rejected", "err", err)
					return
				}
				a.offerReload(c)
			},
			func(err error) { core.Logger().Warn("config watch", "err", err) },
		)
		if err != nil {
			core.Logger().Warn("config watch unavailable", "err", err)
		} else {
			w.Start()
			defer w.Stop()
		}
	}

	if err := a.run(); err != nil {
		// Close first so the message lands on the normal screen
		disp.Close()
		fmt.Fprintf(os.Stderr, "vi-rain: %v\n", err)
		return 1
	}

	core.Logger().Info("stop")
	return 0
}
