// Package display binds the rain surface to an output device.
// Two back ends exist: direct ANSI through the terminal package, and tcell.
package display

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-rain/render"
)

// Backend names accepted by Open
const (
	BackendANSI  = "ansi"
	BackendTcell = "tcell"
)

// ErrUnknownBackend is returned by Open for an unrecognized backend name
var ErrUnknownBackend = errors.New("unknown display backend")

// EventKind classifies display events
type EventKind uint8

const (
	EventKey EventKind = iota
	EventResize
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventKey:
		return "key"
	case EventResize:
		return "resize"
	case EventError:
		return "error"
	}
	return "unknown"
}

// Event is a backend-neutral input notification
type Event struct {
	Kind EventKind
	Err  error // Set for EventError
}

// Display is an output device the driver renders onto
type Display interface {
	// Size returns the current dimensions and brings the surface in line with them
	Size() (width, height int)

	// Surface returns the drawable cell grid, valid until the next Size call
	Surface() render.Surface

	// Show presents the surface
	Show() error

	// Events delivers input notifications
	Events() <-chan Event

	// Close restores the device. Safe to call multiple times
	Close()
}

// Open creates and initializes the named backend
func Open(backend string) (Display, error) {
	switch backend {
	case "", BackendANSI:
		return NewANSI()
	case BackendTcell:
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("tcell screen: %w", err)
		}
		return NewTcell(screen)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

// sendEvent delivers without blocking past stop
func sendEvent(ch chan<- Event, stop <-chan struct{}, ev Event) bool {
	select {
	case ch <- ev:
		return true
	case <-stop:
		return false
	}
}
