package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the config file
const ConfigFileName = "config.yaml"

// FileConfig represents the configuration file structure
type FileConfig struct {
	// Default model token (name, alias, or index)
	Model string `yaml:"model,omitempty"`

	// Default system context sent with every conversation
	Context string `yaml:"context,omitempty"`

	// API base URL override
	BaseURL string `yaml:"base_url,omitempty"`

	// Request timeout in seconds
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`

	// Default flags
	Defaults *DefaultsConfig `yaml:"defaults,omitempty"`
}

// DefaultsConfig holds default flag values
type DefaultsConfig struct {
	Render  bool `yaml:"render,omitempty"`
	Related bool `yaml:"related,omitempty"`
}

// GetConfigPaths returns the paths to check for config files (in order of priority)
func GetConfigPaths() []string {
	var paths []string

	// 1. Current directory
	paths = append(paths, filepath.Join(".", ".px", ConfigFileName))

	// 2. User config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "px", ConfigFileName))
	}

	// 3. Home directory
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", "px", ConfigFileName))
	}

	return paths
}

// LoadConfigFile attempts to load configuration from a file
func LoadConfigFile() (*FileConfig, error) {
	for _, path := range GetConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return loadConfigFromPath(path)
		}
	}

	// No config file found, return empty config
	return &FileConfig{}, nil
}

func loadConfigFromPath(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// ApplyFileConfig applies file configuration to the main Config.
// File config has lower priority than environment variables and CLI flags.
func (c *Config) ApplyFileConfig(fc *FileConfig) {
	if fc == nil {
		return
	}

	if c.Model == "" && fc.Model != "" {
		c.Model = fc.Model
	}
	if fc.Context != "" && c.SystemContext == NewConfig().SystemContext {
		c.SystemContext = fc.Context
	}
	if c.BaseURL == "" && fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if fc.TimeoutSeconds > 0 && c.Timeout == NewConfig().Timeout {
		c.Timeout = time.Duration(fc.TimeoutSeconds) * time.Second
	}

	if fc.Defaults != nil {
		// A flag set to false is indistinguishable from an unset flag, so
		// file defaults only ever turn features on.
		if fc.Defaults.Render && !c.Render {
			c.Render = true
		}
		if fc.Defaults.Related && !c.Related {
			c.Related = true
		}
	}
}
