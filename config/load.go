package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Load reads path over the defaults and validates the result
// An empty path yields the defaults
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config read: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over the defaults and validates the result
// Keys absent from data keep their default values, unknown keys are rejected
func Parse(data []byte) (Config, error) {
	cfg := Default()
	// Decoding into a populated slice would mix file stops with default stops
	cfg.Gradient = nil

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return Config{}, fmt.Errorf("%w: line %d column %d: %v", ErrInvalidConfig, row, col, derr)
		}
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if cfg.Gradient == nil {
		cfg.Gradient = DefaultGradient()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
