// Package config handles avmcore.toml runtime configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file FindAndLoad looks for.
const FileName = "avmcore.toml"

// Config tunes one VM instance.
type Config struct {
	// SWFVersion selects the version-dependent coercion and name-lookup rules.
	SWFVersion uint8 `toml:"swf_version"`
	// MaxPrototypeDepth bounds every prototype chain walk.
	MaxPrototypeDepth int `toml:"max_prototype_depth"`
	// MaxCallDepth bounds nested native, accessor and hook calls.
	MaxCallDepth int `toml:"max_call_depth"`
	// GCThreshold is the allocation count between automatic collections;
	// zero disables them.
	GCThreshold int `toml:"gc_threshold"`
	// LogVerbosity is only consulted by the CLI.
	LogVerbosity int `toml:"log_verbosity"`

	// Path is the file the configuration was read from (set at load time).
	Path string `toml:"-"`
}

// Default returns the configuration of a current-version player.
func Default() Config {
	return Config{
		SWFVersion:        10,
		MaxPrototypeDepth: 255,
		MaxCallDepth:      256,
		GCThreshold:       4096,
	}
}

// Load parses a configuration file. Keys missing from the file keep their
// defaults; unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read %s: %w", path, err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}

	cfg.Path, err = filepath.Abs(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// FindAndLoad walks up from startDir to find an avmcore.toml file and loads
// it. Without one, the defaults are returned.
func FindAndLoad(startDir string) (Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return Default(), err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Validate rejects settings no player could run with.
func (c Config) Validate() error {
	switch {
	case c.SWFVersion < 1:
		return fmt.Errorf("swf_version must be at least 1, got %d", c.SWFVersion)
	case c.MaxPrototypeDepth < 1:
		return fmt.Errorf("max_prototype_depth must be positive, got %d", c.MaxPrototypeDepth)
	case c.MaxCallDepth < 1:
		return fmt.Errorf("max_call_depth must be positive, got %d", c.MaxCallDepth)
	case c.GCThreshold < 0:
		return fmt.Errorf("gc_threshold must not be negative, got %d", c.GCThreshold)
	}
	return nil
}

// CaseSensitive reports whether property names are compared exactly.
func (c Config) CaseSensitive() bool { return c.SWFVersion >= 7 }
