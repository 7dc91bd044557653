// Package config loads the client configuration from a single YAML
// file, selected by the --config flag or the ORGANIZER_CONFIG
// environment variable. Missing file and missing flag both fall back to
// defaults so the binary runs against a local server out of the box.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full client configuration.
type Config struct {
	// API configures the REST gateway.
	API APIConfig `yaml:"api"`
	// Chat configures the realtime channel.
	Chat ChatConfig `yaml:"chat"`
	// LogLevel is one of debug, info, warn, error. Default info.
	LogLevel string `yaml:"log_level"`
}

// APIConfig configures the REST gateway.
type APIConfig struct {
	// BaseURL is the externally supplied gateway root.
	BaseURL string `yaml:"base_url"`
}

// ChatConfig configures the realtime channel.
type ChatConfig struct {
	// URL is the websocket endpoint. When empty it is derived from the
	// API base URL by swapping the scheme and appending /ws.
	URL string `yaml:"url"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		API:      APIConfig{BaseURL: "http://localhost:8080"},
		LogLevel: "info",
	}
}

// Load reads the configuration file at path. When path is empty the
// ORGANIZER_CONFIG environment variable is consulted; when that is also
// empty, defaults are returned.
func Load(path string) (Config, error) {
	if path == "" {
		path = os.Getenv("ORGANIZER_CONFIG")
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.API.BaseURL == "" {
		return Config{}, fmt.Errorf("config: %s: api.base_url is required", path)
	}
	return cfg, nil
}
