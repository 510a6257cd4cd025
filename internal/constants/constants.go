// Package constants provides shared constants used across the application
// to avoid circular dependencies between packages.
package constants

import "time"

// Timeout constants used across the application
const (
	// DefaultAPITimeout is the timeout for chat completion requests.
	// Reasoning and deep-research models can run for a long time, so the
	// bound is generous but finite.
	DefaultAPITimeout = 2 * time.Hour
	// DefaultProbeTimeout is the timeout for API key validation requests
	DefaultProbeTimeout = 30 * time.Second
	// DefaultUpdateTimeout is the timeout for the self-update git command
	DefaultUpdateTimeout = 15 * time.Second
)

// Application defaults
const (
	DefaultBaseURL       = "https://api.perplexity.ai"
	DefaultSystemContext = "Be precise and concise"
	APIKeyEnvVar         = "PERPLEXITY_API_KEY"
)

// AvailableModels are the Perplexity models selectable by name, alias, or
// index. Index 0 is the default model.
var AvailableModels = []string{
	"sonar",
	"sonar-pro",
	"sonar-reasoning",
	"sonar-reasoning-pro",
	"sonar-deep-research",
}
