// Package config loads runtime configuration from YAML. Unknown keys are
// rejected so typos surface at startup instead of silently falling back to
// defaults.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// State tunes the widget state store.
type State struct {
	// EvictAfterRuns is the number of consecutive runs a widget may be
	// absent from before its state is evicted.
	EvictAfterRuns int `yaml:"evict_after_runs"`
}

// Theme names the go-theme selection used by renderers.
type Theme struct {
	Name    string `yaml:"name"`
	Variant string `yaml:"variant"`
}

// Config is the full runtime configuration.
type Config struct {
	Title string `yaml:"title"`
	State State  `yaml:"state"`
	Theme Theme  `yaml:"theme"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		State: State{EvictAfterRuns: 2},
	}
}

// Parse decodes YAML into a Config layered over the defaults.
func Parse(raw []byte) (Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(raw)) == 0 {
		return cfg, nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if cfg.State.EvictAfterRuns < 1 {
		return Config{}, fmt.Errorf("config: state.evict_after_runs must be at least 1, got %d", cfg.State.EvictAfterRuns)
	}
	return cfg, nil
}

// Load reads and parses a configuration file.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(raw)
}
