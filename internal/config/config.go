// Package config loads tester configuration from an optional YAML file and
// UIREPLAY_-prefixed environment variables, with file values overriding
// defaults and environment overriding both.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the full tester configuration.
type Config struct {
	Record    RecordConfig    `koanf:"record"`
	Replay    ReplayConfig    `koanf:"replay"`
	Headless  HeadlessConfig  `koanf:"headless"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// RecordConfig configures capture.
type RecordConfig struct {
	// Include and Exclude filter event class names; comma-separated
	// substrings or regular expressions.
	Include string `koanf:"include"`
	Exclude string `koanf:"exclude"`
	// Gate is the start-up gate policy: "activation" or "none".
	Gate string `koanf:"gate"`
	// Raise activates an event's target window before recording, for
	// window-manager-less replay environments.
	Raise bool `koanf:"raise"`
}

// ReplayConfig configures playback.
type ReplayConfig struct {
	// IdleMs is the quiescence interval in milliseconds.
	IdleMs int `koanf:"idle_ms"`
	// Fuzzy enables type-based subtree matching during path resolution.
	Fuzzy bool   `koanf:"fuzzy"`
	Gate  string `koanf:"gate"`
}

// HeadlessConfig configures the virtual display wrapper.
type HeadlessConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Resolution string `koanf:"resolution"`
	Video      string `koanf:"video"`
}

// TelemetryConfig configures tracing.
type TelemetryConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Load reads configuration. path may be empty to use defaults and
// environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"record.include":      "MouseEvent,KeyEvent,CloseEvent",
		"record.gate":         "activation",
		"record.raise":        true,
		"replay.idle_ms":      50,
		"replay.gate":         "activation",
		"headless.resolution": "1280x1024",
	}
	for key, val := range defaults {
		if err := k.Set(key, val); err != nil {
			return nil, err
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("UIREPLAY_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "UIREPLAY_")), "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
