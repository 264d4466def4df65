// Package config loads and represents the mdserve configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the mdserve configuration.
type Config struct {
	Root      string          `yaml:"root"`
	Server    ServerConfig    `yaml:"server"`
	Fragments FragmentsConfig `yaml:"fragments"`
	Styling   StylingConfig   `yaml:"styling"`
	Watch     WatchConfig     `yaml:"watch"`
}

// ServerConfig holds listener-related configuration.
type ServerConfig struct {
	Host string `yaml:"host"`
	// Port pins the HTTP listener. 0 means discover a free port in the
	// range below. A pinned port is used as-is, without a freeness check.
	Port     int `yaml:"port"`
	PortLow  int `yaml:"port_low"`
	PortHigh int `yaml:"port_high"`
	// Reload channel port discovery range.
	ReloadPortLow  int  `yaml:"reload_port_low"`
	ReloadPortHigh int  `yaml:"reload_port_high"`
	NoOpen         bool `yaml:"no_open"`
	Verbose        bool `yaml:"verbose"`
}

// FragmentsConfig holds the optional auxiliary fragment sources, resolved
// relative to the serve root.
type FragmentsConfig struct {
	Header     string `yaml:"header,omitempty"`
	Footer     string `yaml:"footer,omitempty"`
	Navigation string `yaml:"navigation,omitempty"`
}

// StylingConfig holds the theme selection.
type StylingConfig struct {
	// Stylesheet is a path to a custom theme. Empty selects the bundled
	// default theme, which uses the compact single-article template.
	Stylesheet string `yaml:"stylesheet,omitempty"`
}

// WatchConfig holds live-reload watcher configuration.
type WatchConfig struct {
	// Extensions lists the file extensions whose changes trigger a
	// browser reload.
	Extensions []string `yaml:"extensions"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Root: ".",
		Server: ServerConfig{
			Host:           "localhost",
			Port:           0,
			PortLow:        8000,
			PortHigh:       8099,
			ReloadPortLow:  35729,
			ReloadPortHigh: 35829,
		},
		Watch: WatchConfig{
			Extensions: []string{".md", ".css"},
		},
	}
}

// IsPortPinned reports whether the operator pinned the HTTP port.
func (c *Config) IsPortPinned() bool {
	return c.Server.Port != 0
}

// UsesDefaultTheme reports whether the bundled default theme is selected.
func (c *Config) UsesDefaultTheme() bool {
	return c.Styling.Stylesheet == ""
}

// Load loads configuration from a YAML file. If the file doesn't exist,
// returns the default configuration.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// LoadFromDir looks for mdserve.yaml in the given directory. If it is not
// found, returns the default configuration.
func LoadFromDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, "mdserve.yaml"))
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
