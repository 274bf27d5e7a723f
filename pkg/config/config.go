// Package config provides configuration loading and management for multiview3d.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Input parameters
	Input struct {
		// BaseDir is the directory containing the per-frame view images
		BaseDir string `yaml:"baseDir"`

		// StartFrame is the first frame index to fuse (inclusive)
		StartFrame int `yaml:"startFrame"`

		// EndFrame is the last frame index to fuse (inclusive)
		EndFrame int `yaml:"endFrame"`

		// TextureSize is the edge length of the view images and of the
		// cubic output grid
		TextureSize int `yaml:"textureSize"`
	} `yaml:"input"`

	// Processing parameters
	Processing struct {
		// NumCores specifies how many CPU cores to use for parallel
		// view mapping
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// Dir is the directory fused volume files are written into
		Dir string `yaml:"dir"`

		// Prefix is the filename prefix for fused volume files
		Prefix string `yaml:"prefix"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`

		// ExtractSlices enables saving 2D slice sequences of each
		// fused volume for inspection
		ExtractSlices bool `yaml:"extractSlices"`

		// SlicesDir is the directory slice sequences are saved into
		SlicesDir string `yaml:"slicesDir"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Set default input parameters
	cfg.Input.BaseDir = "textures/viewdepthmaps"
	cfg.Input.StartFrame = 1
	cfg.Input.EndFrame = 1
	cfg.Input.TextureSize = 128

	// Set default processing parameters
	cfg.Processing.NumCores = runtime.NumCPU()

	// Set default output parameters
	cfg.Output.Dir = "output"
	cfg.Output.Prefix = "volume"
	cfg.Output.Verbose = true
	cfg.Output.ExtractSlices = false
	cfg.Output.SlicesDir = "volume_slices"

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
