// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"relocation-cost/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Estimate contains estimation defaults
	Estimate EstimateConfig `json:"estimate"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Tables contains jurisdiction table configuration
	Tables TablesConfig `json:"tables"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// EstimateConfig contains estimation defaults
type EstimateConfig struct {
	// DefaultMode is the analysis mode when none is given (post_tax, disposable)
	DefaultMode string `json:"default_mode"`

	// DefaultStatus is the filing status when none is given
	DefaultStatus string `json:"default_status"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format (cli, json)
	DefaultFormat string `json:"default_format"`

	// ShowTaxes includes per-jurisdiction tax amounts in the output
	ShowTaxes bool `json:"show_taxes"`
}

// TablesConfig contains jurisdiction table settings
type TablesConfig struct {
	// Directory holds custom jurisdiction table files (*.hcl) loaded
	// on top of the built-in tables
	Directory string `json:"directory,omitempty"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	tablesDir := filepath.Join(homeDir, ".relocation-cost", "tables")

	return &Config{
		Version: "1.0",
		Estimate: EstimateConfig{
			DefaultMode:   "post_tax",
			DefaultStatus: "single",
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			ShowTaxes:     true,
		},
		Tables: TablesConfig{
			Directory: tablesDir,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
