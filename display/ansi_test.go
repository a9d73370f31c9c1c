package display

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/vi-rain/terminal"
)

// fakeTerminal scripts events and records flushes
type fakeTerminal struct {
	mu      sync.Mutex
	width   int
	height  int
	events  chan terminal.Event
	flushes int
	last    []terminal.Cell
	syncs   int
	fini    bool
	initErr error
}

func newFakeTerminal(w, h int) *fakeTerminal {
	return &fakeTerminal{width: w, height: h, events: make(chan terminal.Event, 16)}
}

func (f *fakeTerminal) Init() error { return f.initErr }

func (f *fakeTerminal) Fini() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fini = true
}

func (f *fakeTerminal) Size() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width, f.height
}

func (f *fakeTerminal) ColorMode() terminal.ColorMode { return terminal.ColorModeTrueColor }

func (f *fakeTerminal) Flush(cells []terminal.Cell, width, height int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	f.last = append(f.last[:0], cells[:width*height]...)
}

func (f *fakeTerminal) Sync() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.syncs++
}

func (f *fakeTerminal) PollEvent() terminal.Event { return <-f.events }

func (f *fakeTerminal) PostEvent(ev terminal.Event) {
	select {
	case f.events <- ev:
	default:
	}
}

func (f *fakeTerminal) setSize(w, h int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.width, f.height = w, h
}

func TestANSIShowFlushesBuffer(t *testing.T) {
	ft := newFakeTerminal(3, 2)
	d, err := newANSI(ft)
	require.NoError(t, err)
	defer d.Close()

	w, h := d.Size()
	require.Equal(t, 3, w)
	require.Equal(t, 2, h)

	d.Surface().SetGlyph(1, 1, 'z')
	d.Surface().SetFg(1, 1, terminal.RGB{G: 200})
	require.NoError(t, d.Show())

	ft.mu.Lock()
	defer ft.mu.Unlock()
	assert.Equal(t, 1, ft.flushes)
	require.Len(t, ft.last, 6)
	assert.Equal(t, terminal.Cell{Rune: 'z', Fg: terminal.RGB{G: 200}}, ft.last[4])
}

func TestANSIResizeFollowsTerminal(t *testing.T) {
	ft := newFakeTerminal(3, 2)
	d, err := newANSI(ft)
	require.NoError(t, err)
	defer d.Close()

	ft.setSize(5, 4)
	ft.PostEvent(terminal.Event{Type: terminal.EventResize, Width: 5, Height: 4})
	assert.Equal(t, EventResize, waitEvent(t, d.Events()).Kind)

	w, h := d.Size()
	assert.Equal(t, 5, w)
	assert.Equal(t, 4, h)
	assert.Equal(t, 19, d.Surface().Index(4, 3))

	ft.mu.Lock()
	assert.Equal(t, 1, ft.syncs)
	ft.mu.Unlock()
}

func TestANSIKeyAndError(t *testing.T) {
	ft := newFakeTerminal(2, 2)
	d, err := newANSI(ft)
	require.NoError(t, err)
	defer d.Close()

	ft.PostEvent(terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'q'})
	assert.Equal(t, EventKey, waitEvent(t, d.Events()).Kind)

	boom := errors.New("boom")
	ft.PostEvent(terminal.Event{Type: terminal.EventError, Err: boom})
	ev := waitEvent(t, d.Events())
	assert.Equal(t, EventError, ev.Kind)
	assert.ErrorIs(t, ev.Err, boom)
}

func TestANSIClosedInputIsError(t *testing.T) {
	ft := newFakeTerminal(2, 2)
	d, err := newANSI(ft)
	require.NoError(t, err)
	defer d.Close()

	ft.PostEvent(terminal.Event{Type: terminal.EventClosed})
	ev := waitEvent(t, d.Events())
	assert.ErrorIs(t, ev.Err, terminal.ErrInputClosed)
}

func TestANSICloseRestores(t *testing.T) {
	ft := newFakeTerminal(2, 2)
	d, err := newANSI(ft)
	require.NoError(t, err)

	d.Close()
	d.Close()
	ft.mu.Lock()
	defer ft.mu.Unlock()
	assert.True(t, ft.fini)
}

func TestANSIInitError(t *testing.T) {
	ft := newFakeTerminal(2, 2)
	ft.initErr = terminal.ErrNotTerminal
	_, err := newANSI(ft)
	assert.ErrorIs(t, err, terminal.ErrNotTerminal)
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("braille")
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
