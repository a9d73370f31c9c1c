package terminal

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend feeds scripted input and records output
type fakeBackend struct {
	mu     sync.Mutex
	out    bytes.Buffer
	width  int
	height int
	input  chan []byte
	resize func(w, h int)
}

func newFakeBackend(w, h int) *fakeBackend {
	return &fakeBackend{width: w, height: h, input: make(chan []byte, 8)}
}

func (f *fakeBackend) Init() error { return nil }
func (f *fakeBackend) Fini()       {}

func (f *fakeBackend) Size() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width, f.height
}

func (f *fakeBackend) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out.Write(p)
}

func (f *fakeBackend) Read(stopCh <-chan struct{}) ([]byte, error) {
	select {
	case <-stopCh:
		return nil, nil
	case data, ok := <-f.input:
		if !ok {
			return nil, ErrInputClosed
		}
		return data, nil
	case <-time.After(10 * time.Millisecond):
		return nil, nil
	}
}

func (f *fakeBackend) SetResizeHandler(h func(w, h int)) { f.resize = h }

func (f *fakeBackend) output() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out.String()
}

func parseAll(t *testing.T, data []byte) ([]Event, int) {
	t.Helper()
	r := newInputReader(nil)
	n := r.parseInput(data)
	var evs []Event
	for {
		select {
		case ev := <-r.eventCh:
			evs = append(evs, ev)
		default:
			return evs, n
		}
	}
}

func TestParseInputKeys(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Event
	}{
		{"printable", "q", []Event{{Type: EventKey, Key: KeyRune, Rune: 'q'}}},
		{"utf8", "ｱ", []Event{{Type: EventKey, Key: KeyRune, Rune: 'ｱ'}}},
		{"enter", "\r", []Event{{Type: EventKey, Key: KeyEnter}}},
		{"ctrl-c", "\x03", []Event{{Type: EventKey, Key: KeyCtrlC}}},
		{"ctrl-d", "\x04", []Event{{Type: EventKey, Key: KeyCtrl, Rune: 'D'}}},
		{"backspace", "\x7f", []Event{{Type: EventKey, Key: KeyBackspace}}},
		{"arrow", "\x1b[A", []Event{{Type: EventKey, Key: KeySequence}}},
		{"ss3", "\x1bOP", []Event{{Type: EventKey, Key: KeySequence}}},
		{"alt", "\x1bx", []Event{{Type: EventKey, Key: KeySequence}}},
		{"double esc", "\x1b\x1b[B", []Event{
			{Type: EventKey, Key: KeyEscape},
			{Type: EventKey, Key: KeySequence},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evs, n := parseAll(t, []byte(tt.in))
			assert.Equal(t, len(tt.in), n)
			assert.Equal(t, tt.want, evs)
		})
	}
}

func TestParseInputIncomplete(t *testing.T) {
	for _, in := range []string{"\x1b", "\x1b[1;", "\x1bO", "\xef\xbd"} {
		evs, n := parseAll(t, []byte(in))
		assert.Zero(t, n, "%q", in)
		assert.Empty(t, evs, "%q", in)
	}

	evs, n := parseAll(t, []byte("a\x1b["))
	assert.Equal(t, 1, n)
	require.Len(t, evs, 1)
	assert.Equal(t, 'a', evs[0].Rune)
}

func TestTerminalLifecycle(t *testing.T) {
	fb := newFakeBackend(4, 2)
	term := newTerminal(fb, ColorModeTrueColor)
	require.NoError(t, term.Init())

	s := fb.output()
	assert.Contains(t, s, "\x1b[?1049h")
	assert.Contains(t, s, "\x1b[?25l")

	fb.input <- []byte("k")
	ev := term.PollEvent()
	assert.Equal(t, EventKey, ev.Type)
	assert.Equal(t, 'k', ev.Rune)

	fb.resize(6, 3)
	ev = term.PollEvent()
	assert.Equal(t, EventResize, ev.Type)
	assert.Equal(t, 6, ev.Width)
	assert.Equal(t, 3, ev.Height)

	term.PostEvent(Event{Type: EventKey, Key: KeyEscape})
	assert.Equal(t, KeyEscape, term.PollEvent().Key)

	term.Fini()
	term.Fini()
	assert.Contains(t, fb.output(), "\x1b[?1049l")
}

func TestTerminalFlushDropsMismatchedFrame(t *testing.T) {
	fb := newFakeBackend(2, 1)
	term := newTerminal(fb, ColorModeTrueColor)
	require.NoError(t, term.Init())
	defer term.Fini()

	before := len(fb.output())
	term.Flush([]Cell{{Rune: 'a'}, {Rune: 'b'}, {Rune: 'c'}}, 3, 1)
	assert.Equal(t, before, len(fb.output()))

	term.Flush([]Cell{{Rune: 'a'}, {Rune: 'b'}}, 2, 1)
	assert.Contains(t, fb.output()[before:], "ab")
}

func TestInputClosed(t *testing.T) {
	fb := newFakeBackend(1, 1)
	term := newTerminal(fb, ColorModeTrueColor)
	require.NoError(t, term.Init())
	defer term.Fini()

	close(fb.input)
	assert.Equal(t, EventClosed, term.PollEvent().Type)
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "esc", KeyEscape.String())
	assert.Equal(t, "unknown", Key(200).String())
}
