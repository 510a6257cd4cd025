package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/px-cli/internal/catalog"
)

// NewModelsCmd creates the models command
func NewModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List available models",
		Long: `List the available models with their indices.

A model can be selected with -m by full name, by index, or by alias
(for example 'pro' for sonar-pro or 'r' for sonar-reasoning).

Examples:
  px models
  px -m 1 "question"
  px -m reasoning "question"`,
		Run: func(cmd *cobra.Command, args []string) {
			catalog.WriteModels(os.Stdout)
		},
	}
}
