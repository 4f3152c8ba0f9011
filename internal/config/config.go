// Package config loads the optional flow.toml settings file.
//
// The file is discovered by walking up from the working directory. Every
// section is optional; missing keys keep their defaults and command-line
// flags override whatever the file sets.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the settings file looked up by Discover.
const FileName = "flow.toml"

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid flow.toml")

type Diagnostics struct {
	Max   int    `toml:"max"`
	Color string `toml:"color"` // auto|on|off
}

type REPL struct {
	Prompt  string `toml:"prompt"`
	History int    `toml:"history"`
}

type Run struct {
	Jobs     int    `toml:"jobs"` // 0 - по числу CPU
	Cache    bool   `toml:"cache"`
	CacheDir string `toml:"cache_dir"`
}

type Log struct {
	Level string `toml:"level"`
}

// Config is the decoded flow.toml. Path is empty when defaults are used.
type Config struct {
	Diagnostics Diagnostics `toml:"diagnostics"`
	REPL        REPL        `toml:"repl"`
	Run         Run         `toml:"run"`
	Log         Log         `toml:"log"`

	Path string `toml:"-"`
}

// Default returns the settings used when no flow.toml is found.
func Default() Config {
	return Config{
		Diagnostics: Diagnostics{Max: 100, Color: "auto"},
		REPL:        REPL{Prompt: ">>> ", History: 100},
		Run:         Run{Jobs: 0, Cache: false},
		Log:         Log{Level: "warn"},
	}
}

// Find walks up from startDir to locate flow.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes path on top of the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: %s: unknown keys %s", ErrInvalidConfig, path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover finds flow.toml above startDir and loads it; without a file it returns Default().
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Diagnostics.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("%w: diagnostics.color must be auto, on or off, got %q", ErrInvalidConfig, c.Diagnostics.Color)
	}
	if c.Diagnostics.Max < 0 {
		return fmt.Errorf("%w: diagnostics.max must not be negative", ErrInvalidConfig)
	}
	if c.Run.Jobs < 0 {
		return fmt.Errorf("%w: run.jobs must not be negative", ErrInvalidConfig)
	}
	if c.REPL.History < 0 {
		return fmt.Errorf("%w: repl.history must not be negative", ErrInvalidConfig)
	}
	return nil
}
