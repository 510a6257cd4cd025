package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/px-cli/internal/auth"
	"github.com/quocvuong92/px-cli/internal/config"
	"github.com/quocvuong92/px-cli/internal/constants"
	"github.com/quocvuong92/px-cli/internal/display"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store a Perplexity API key",
		Long: `Store a Perplexity API key for future use.

The key is validated against the API with a minimal probe request before
it is saved. Keys set through the ` + constants.APIKeyEnvVar + ` environment
variable take precedence over the stored key.

Examples:
  px login`,
		RunE: runLogin,
	}
}

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API key",
		Long: `Remove the stored API key.

You will need to run 'px login' again or set ` + constants.APIKeyEnvVar + `
to keep using px.

Examples:
  px logout`,
		RunE: runLogout,
	}
}

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the configured API key",
		Long: `Check that an API key is configured and still accepted by the API.

Examples:
  px status`,
		RunE: runStatus,
	}
}

// baseURL returns the API endpoint for auth probes, honoring the
// environment override used by the main configuration.
func baseURL() string {
	if url := os.Getenv(config.EnvBaseURL); url != "" {
		return strings.TrimSuffix(url, "/")
	}
	return constants.DefaultBaseURL
}

func runLogin(cmd *cobra.Command, args []string) error {
	if auth.HasStoredKey() {
		fmt.Println("An API key is already stored.")
		fmt.Println("Run 'px logout' first if you want to replace it.")
		return nil
	}

	fmt.Print("Enter your Perplexity API key: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	key := strings.TrimSpace(line)
	if key == "" {
		return fmt.Errorf("no API key entered")
	}

	sp := display.NewSpinner("Validating key...")
	sp.Start()
	err = auth.Probe(context.Background(), baseURL(), key)
	sp.Stop()

	if err != nil {
		return fmt.Errorf("key validation failed: %w", err)
	}

	if err := auth.SaveKey(key); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}

	path, _ := auth.KeyPath()
	fmt.Println("API key is valid and has been saved.")
	fmt.Printf("Stored at: %s\n", path)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if !auth.HasStoredKey() {
		fmt.Println("No API key stored.")
		return nil
	}

	if err := auth.DeleteKey(); err != nil {
		return fmt.Errorf("failed to remove API key: %w", err)
	}

	fmt.Println("Stored API key removed.")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	key, source, err := auth.ResolveKey()
	if err != nil {
		return fmt.Errorf("no API key configured: set %s or run 'px login'", constants.APIKeyEnvVar)
	}

	sp := display.NewSpinner("Checking key...")
	sp.Start()
	err = auth.Probe(context.Background(), baseURL(), key)
	sp.Stop()

	if err != nil {
		return fmt.Errorf("API key (from %s) was rejected: %w", source, err)
	}

	fmt.Printf("API key is valid (from %s).\n", source)
	return nil
}
