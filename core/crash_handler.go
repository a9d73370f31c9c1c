package core

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync/atomic"

	"github.com/lixenwraith/vi-rain/terminal"
)

// crashCleanup restores the output device, set once the display is open
var crashCleanup atomic.Pointer[func()]

// exit is replaced in tests
var exit = os.Exit

// SetCrashCleanup registers the function HandleCrash runs before reporting
// Pass nil to fall back to a raw terminal reset
func SetCrashCleanup(fn func()) {
	if fn == nil {
		crashCleanup.Store(nil)
		return
	}
	crashCleanup.Store(&fn)
}

// HandleCrash is the unified panic handler that restores the terminal and prints the stack trace
func HandleCrash(r any) {
	if r == nil {
		return
	}

	restoreTerminal()

	Logger().Error("crash", "panic", r)

	// Raw mode may linger if restore failed, hence \r\n
	fmt.Fprintf(os.Stderr, "\r\n\x1b[31mCRASH DETECTED: %v\x1b[0m\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Stderr.Sync()

	exit(1)
}

func restoreTerminal() {
	fn := crashCleanup.Load()
	if fn == nil {
		terminal.EmergencyReset(os.Stdout)
		return
	}

	// A cleanup that panics itself still leaves the tty usable
	defer func() {
		if recover() != nil {
			terminal.EmergencyReset(os.Stdout)
		}
	}()
	(*fn)()
}

// Go runs a function in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword to ensure terminal cleanup on crash.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
