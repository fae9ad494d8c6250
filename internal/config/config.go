// Package config loads engine tuning knobs from three layered sources
// (spec §2.3): compiled-in defaults, an optional YAML file, and a
// local .env overlay. Grounded on the `morfx` example repo's
// `internal/config` (a plain struct built by a `LoadConfig` function
// reading `os.Getenv` with per-field defaults) for the struct-plus-
// loader shape, and on its `godotenv.Load()`-then-`os.Getenv` pattern
// for the .env layer — promoted here from test-only use to the
// engine's actual startup path.
package config

import (
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"

	"github.com/cwbudde/esrt/internal/iarray"
	"github.com/cwbudde/esrt/internal/propmap"
)

// Config holds every tunable named in spec §2.3 and §3/§4.F.
type Config struct {
	// MaxCallStackDepth bounds internal/frame.Stack; a function call
	// past this depth throws RangeError per ES5 §15.11.6.2.
	MaxCallStackDepth int `yaml:"maxCallStackDepth"`
	// HashPromoteThreshold is the property count above which
	// internal/propmap materializes its hash-table side index.
	HashPromoteThreshold int `yaml:"hashPromoteThreshold"`
	// ArrayHolePromoteCount/ArrayHolePromoteRatio are
	// internal/iarray's compact-to-sparse promotion policy.
	ArrayHolePromoteCount int     `yaml:"arrayHolePromoteCount"`
	ArrayHolePromoteRatio float64 `yaml:"arrayHolePromoteRatio"`
	// StrictByDefault makes the global context start in strict mode
	// without needing a "use strict" directive; indirect eval code does
	// not pick it up and starts non-strict.
	StrictByDefault bool `yaml:"strictByDefault"`
	// LogFormat selects internal/enginelog's slog handler: "text" or
	// "json".
	LogFormat string `yaml:"logFormat"`
}

// Default returns the compiled-in baseline, matching the values each
// tuned component already carries as its own constant/var default.
func Default() *Config {
	return &Config{
		MaxCallStackDepth:     1024,
		HashPromoteThreshold:  10,
		ArrayHolePromoteCount: 16,
		ArrayHolePromoteRatio: 0.1,
		StrictByDefault:       false,
		LogFormat:             "text",
	}
}

// Load builds a Config by layering, in increasing precedence:
// Default(), the YAML file at yamlPath (skipped if absent), and a
// .env file in the current directory (skipped if absent) read into
// the ESRT_* environment variables below. yamlPath == "" skips the
// YAML layer entirely.
func Load(yamlPath string) (*Config, error) {
	cfg := Default()

	if yamlPath != "" {
		data, err := os.ReadFile(yamlPath)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	// Errors are ignored, same as the morfx example's cmd/morfx main:
	// a missing .env is the common case, not a failure.
	_ = godotenv.Load()

	applyEnvOverrides(cfg)
	return cfg, nil
}

// Apply pushes the tunable thresholds into the package-level vars each
// owning component exposes for exactly this purpose. internal/engine
// calls this once, before bootstrap constructs any object, so every
// Map/Array created afterward observes the configured policy.
func (cfg *Config) Apply() {
	propmap.HashPromoteThreshold = cfg.HashPromoteThreshold
	iarray.HolePromoteCount = cfg.ArrayHolePromoteCount
	iarray.HolePromoteRatio = cfg.ArrayHolePromoteRatio
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ESRT_MAX_STACK_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxCallStackDepth = n
		}
	}
	if v := os.Getenv("ESRT_HASH_PROMOTE_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HashPromoteThreshold = n
		}
	}
	if v := os.Getenv("ESRT_ARRAY_HOLE_PROMOTE_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ArrayHolePromoteCount = n
		}
	}
	if v := os.Getenv("ESRT_ARRAY_HOLE_PROMOTE_RATIO"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			cfg.ArrayHolePromoteRatio = f
		}
	}
	if v := os.Getenv("ESRT_STRICT_BY_DEFAULT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.StrictByDefault = b
		}
	}
	if v := os.Getenv("ESRT_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}
