package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lixenwraith/vi-rain/core"
)

// setupLogging points the process logger at path, an empty path keeps it silent
// Stdout carries the animation, so there is no console handler
func setupLogging(path string) (*os.File, error) {
	if path == "" {
		core.SetLogger(nil)
		return nil, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("log file: %w", err)
	}

	core.SetLogger(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return f, nil
}
