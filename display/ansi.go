package display

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"

	"github.com/lixenwraith/vi-rain/render"
	"github.com/lixenwraith/vi-rain/terminal"
)

// ANSI renders through the direct terminal package into a cell buffer
type ANSI struct {
	term   terminal.Terminal
	buf    *render.Buffer
	events chan Event
	stopCh chan struct{}
	doneCh chan struct{}

	mu     sync.Mutex
	closed bool
}

var _ Display = (*ANSI)(nil)

// NewANSI initializes the controlling terminal
func NewANSI() (*ANSI, error) {
	return newANSI(terminal.New())
}

func newANSI(term terminal.Terminal) (*ANSI, error) {
	if err := term.Init(); err != nil {
		return nil, fmt.Errorf("terminal init: %w", err)
	}

	w, h := term.Size()
	d := &ANSI{
		term:   term,
		buf:    render.NewBuffer(w, h, terminal.RGBBlack),
		events: make(chan Event, 16),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
	go d.pollLoop()
	return d, nil
}

// pollLoop translates terminal events until stopped or input ends
func (d *ANSI) pollLoop() {
	defer close(d.doneCh)

	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mDISPLAY POLL CRASHED: %v\x1b[0m\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	for {
		ev := d.term.PollEvent()

		var out Event
		switch ev.Type {
		case terminal.EventKey:
			out = Event{Kind: EventKey}
		case terminal.EventResize:
			out = Event{Kind: EventResize}
		case terminal.EventError:
			out = Event{Kind: EventError, Err: fmt.Errorf("terminal input: %w", ev.Err)}
		case terminal.EventClosed:
			select {
			case <-d.stopCh:
			default:
				sendEvent(d.events, d.stopCh, Event{Kind: EventError, Err: terminal.ErrInputClosed})
			}
			return
		default:
			continue
		}

		if !sendEvent(d.events, d.stopCh, out) {
			return
		}
		if out.Kind == EventError {
			return
		}
	}
}

// Size returns the terminal size, resizing the buffer when it changed
func (d *ANSI) Size() (int, int) {
	w, h := d.term.Size()
	bw, bh := d.buf.Size()
	if w != bw || h != bh {
		d.buf.Resize(w, h)
		d.term.Sync()
	}
	return w, h
}

// Surface returns the cell buffer
func (d *ANSI) Surface() render.Surface {
	return d.buf
}

// Show flushes the buffer with diffing
func (d *ANSI) Show() error {
	d.buf.FlushToTerminal(d.term)
	return nil
}

// Events returns the input notification channel
func (d *ANSI) Events() <-chan Event {
	return d.events
}

// Close stops polling and restores the terminal
func (d *ANSI) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	close(d.stopCh)
	// Synthetic close unblocks PollEvent
	d.term.PostEvent(terminal.Event{Type: terminal.EventClosed})
	<-d.doneCh
	d.term.Fini()
}
