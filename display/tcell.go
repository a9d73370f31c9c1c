package display

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-rain/render"
	"github.com/lixenwraith/vi-rain/terminal"
)

// Tcell renders through a tcell screen
type Tcell struct {
	screen  tcell.Screen
	surface tcellSurface
	events  chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}

	mu     sync.Mutex
	closed bool
}

var _ Display = (*Tcell)(nil)

// NewTcell initializes screen and starts polling it
func NewTcell(screen tcell.Screen) (*Tcell, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("tcell init: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))
	screen.HideCursor()
	screen.Clear()

	d := &Tcell{
		screen:  screen,
		surface: tcellSurface{screen: screen},
		events:  make(chan Event, 16),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	d.surface.width, d.surface.height = screen.Size()
	go d.pollLoop()
	return d, nil
}

func (d *Tcell) pollLoop() {
	defer close(d.doneCh)

	for {
		ev := d.screen.PollEvent()
		if ev == nil {
			return // Screen finalized
		}

		var out Event
		switch ev := ev.(type) {
		case *tcell.EventKey:
			out = Event{Kind: EventKey}
		case *tcell.EventResize:
			out = Event{Kind: EventResize}
		case *tcell.EventError:
			out = Event{Kind: EventError, Err: fmt.Errorf("tcell: %w", ev)}
		default:
			continue
		}

		if !sendEvent(d.events, d.stopCh, out) {
			return
		}
	}
}

// Size returns the screen size and updates the surface geometry
func (d *Tcell) Size() (int, int) {
	w, h := d.screen.Size()
	if w != d.surface.width || h != d.surface.height {
		d.surface.width, d.surface.height = w, h
		d.screen.Clear()
	}
	return w, h
}

// Surface returns a view writing straight into the screen's cell buffer
func (d *Tcell) Surface() render.Surface {
	return &d.surface
}

// Show presents pending cell changes
func (d *Tcell) Show() error {
	d.screen.Show()
	return nil
}

// Events returns the input notification channel
func (d *Tcell) Events() <-chan Event {
	return d.events
}

// Close finalizes the screen, which also ends polling
func (d *Tcell) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	close(d.stopCh)
	d.screen.Fini()
	<-d.doneCh
}

// tcellSurface adapts tcell cells to render.Surface
// Foreground is 24-bit RGB over a black background
type tcellSurface struct {
	screen        tcell.Screen
	width, height int
}

func (s *tcellSurface) Index(x, y int) int {
	if x < 0 || x >= s.width || y < 0 || y >= s.height {
		return -1
	}
	return y*s.width + x
}

func (s *tcellSurface) Glyph(x, y int) rune {
	r, _, _, _ := s.screen.GetContent(x, y)
	return r
}

func (s *tcellSurface) SetGlyph(x, y int, r rune) {
	_, _, style, _ := s.screen.GetContent(x, y)
	s.screen.SetContent(x, y, r, nil, style)
}

func (s *tcellSurface) SetFg(x, y int, c terminal.RGB) {
	r, _, _, _ := s.screen.GetContent(x, y)
	s.screen.SetContent(x, y, r, nil, fgStyle(c))
}

func (s *tcellSurface) Swap(i, j int) {
	n := s.width * s.height
	if i == j || i < 0 || j < 0 || i >= n || j >= n {
		return
	}
	xi, yi := i%s.width, i/s.width
	xj, yj := j%s.width, j/s.width

	ri, _, si, _ := s.screen.GetContent(xi, yi)
	rj, _, sj, _ := s.screen.GetContent(xj, yj)
	s.screen.SetContent(xi, yi, rj, nil, si)
	s.screen.SetContent(xj, yj, ri, nil, sj)
}

func fgStyle(c terminal.RGB) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))).
		Background(tcell.ColorBlack)
}
