// Package hostconfig loads the small declarative configuration a process
// embedding the vm engine reads at startup: a dispatch-loop step budget and
// logging/cache preferences. None of it is read by package vm itself — the
// engine stays free of any notion of "configuration" — this is strictly a
// host-side concern, wired in by cmd/probevm.
package hostconfig

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/naoina/toml"
)

// tomlSettings mirrors this codebase's lineage convention of using TOML
// struct field names verbatim as config keys, rather than the library's
// default snake_case folding.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string { return key },
	FieldToKey:    func(rt reflect.Type, field string) string { return field },
}

// ExecutionConfig bounds how long a single Invoke is allowed to run.
type ExecutionConfig struct {
	// StepBudget caps the number of dispatch-loop iterations a bounded
	// engine will execute before aborting. Zero disables the budget.
	StepBudget uint64
}

// LoggingConfig selects the verbosity and colour behaviour of internal/xlog.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string
	// Color is one of "auto", "always", "never".
	Color string
}

// CacheConfig sizes the loader's decoded-program cache.
type CacheConfig struct {
	Capacity int
}

// Config is the root of the host configuration file.
type Config struct {
	Execution ExecutionConfig
	Logging   LoggingConfig
	Cache     CacheConfig
}

// Default returns the configuration a host gets when no file is supplied.
func Default() *Config {
	return &Config{
		Execution: ExecutionConfig{StepBudget: 2_000_000},
		Logging:   LoggingConfig{Level: "info", Color: "auto"},
		Cache:     CacheConfig{Capacity: 128},
	}
}

// ErrInvalidLevel is returned when a config's Logging.Level names a level
// internal/xlog does not define.
var ErrInvalidLevel = errors.New("hostconfig: invalid log level")

// Load reads and parses the TOML file at path, starting from Default and
// overwriting whatever fields the file sets.
func Load(path string) (*Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg); err != nil {
		if _, ok := err.(*toml.LineError); ok {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLevel, c.Logging.Level)
	}
	switch c.Logging.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("hostconfig: invalid color mode %q", c.Logging.Color)
	}
	return nil
}
