// Package terminal drives an xterm-compatible terminal directly with ANSI sequences.
//
// Output is 24-bit color only. Flush diffs each frame against the previous one and
// writes only changed cells, coalescing foreground SGR runs. Input is read raw from
// stdin and reduced to coarse key events, enough to tell that a key was pressed.
// SIGWINCH produces resize events.
//
// Fini restores the saved termios state; EmergencyReset does the same from a panic
// handler without touching the Terminal instance.
package terminal
