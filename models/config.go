// Package models defines data structures for dashboard configuration.
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the optional config file looked up in the working directory.
const DefaultConfigFile = "dashboard.yaml"

// DashboardConfig holds runtime configuration for the dashboard tooling.
// Values come from dashboard.yaml when present; CLI flags override them.
type DashboardConfig struct {
	Port        int    `yaml:"port"`
	DataDir     string `yaml:"data_dir"`
	EntryFile   string `yaml:"entry_file"`
	OpenBrowser bool   `yaml:"open_browser"`
}

// DefaultConfig returns the built-in defaults matching the zero-argument behavior.
func DefaultConfig() *DashboardConfig {
	return &DashboardConfig{
		Port:        8000,
		DataDir:     "data",
		EntryFile:   "index.html",
		OpenBrowser: true,
	}
}

// LoadConfig reads the config file at path, overlaying its values on the defaults.
// A missing file is not an error and yields the defaults unchanged.
func LoadConfig(path string) (*DashboardConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.Port <= 0 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d in %s", config.Port, path)
	}
	if config.DataDir == "" {
		config.DataDir = "data"
	}
	if config.EntryFile == "" {
		config.EntryFile = "index.html"
	}

	return config, nil
}
