// Package config holds the application configuration, assembled once at
// startup from CLI flags, environment variables, and an optional YAML
// config file, then passed by reference to each component.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/quocvuong92/px-cli/internal/auth"
	"github.com/quocvuong92/px-cli/internal/constants"
)

// Environment variable names
const (
	EnvBaseURL  = "PX_BASE_URL"
	EnvModel    = "PX_MODEL"
	EnvTimeout  = "PX_TIMEOUT"
	EnvLogLevel = "PX_LOG_LEVEL"
)

// Errors
var (
	ErrInvalidTimeout = errors.New("invalid timeout. Use a Go duration such as 90s or 2h")
)

// Config holds the application configuration
type Config struct {
	// Credential, resolved through the auth provider chain
	APIKey    string
	KeySource string

	// Request settings
	BaseURL       string
	Model         string // raw token; resolved through the catalog by the caller
	SystemContext string
	Timeout       time.Duration

	// Search filter options
	IncludeDomains []string
	ExcludeDomains []string
	Recency        string
	Related        bool

	// Flags
	Render  bool
	Verbose bool
}

// NewConfig creates a new Config with defaults
func NewConfig() *Config {
	return &Config{
		SystemContext: constants.DefaultSystemContext,
		Timeout:       constants.DefaultAPITimeout,
	}
}

// Validate fills the configuration from the config file and environment
// (flags already set take precedence) and resolves the API key.
func (c *Config) Validate() error {
	// Config file first (lowest priority)
	if fileConfig, err := LoadConfigFile(); err == nil {
		c.ApplyFileConfig(fileConfig)
	}
	// Errors loading the config file are ignored - env vars and flags win

	if c.BaseURL == "" {
		c.BaseURL = os.Getenv(EnvBaseURL)
	}
	if c.BaseURL == "" {
		c.BaseURL = constants.DefaultBaseURL
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")

	if c.Model == "" {
		c.Model = os.Getenv(EnvModel)
	}

	if timeoutEnv := os.Getenv(EnvTimeout); timeoutEnv != "" && c.Timeout == constants.DefaultAPITimeout {
		d, err := time.ParseDuration(timeoutEnv)
		if err != nil || d <= 0 {
			return ErrInvalidTimeout
		}
		c.Timeout = d
	}

	key, source, err := auth.ResolveKey()
	if err != nil {
		return err
	}
	c.APIKey = key
	c.KeySource = source

	return nil
}

// ChatCompletionsURL builds the full API URL for chat completions
func (c *Config) ChatCompletionsURL() string {
	return c.BaseURL + "/chat/completions"
}
