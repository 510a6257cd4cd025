package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/px-cli/internal/constants"
)

// NewUpdateCmd creates the update command
func NewUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Update px from its source checkout",
		Long: `Update px by pulling the latest changes in the directory the binary
runs from. This only works for installs that live inside a git checkout.

Examples:
  px update`,
		RunE: runUpdate,
	}
}

func runUpdate(cmd *cobra.Command, args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	dir := filepath.Dir(exe)

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultUpdateTimeout)
	defer cancel()

	pull := exec.CommandContext(ctx, "git", "pull", "-q")
	pull.Dir = dir

	output, err := pull.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(output))
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("update failed: %s", msg)
	}

	fmt.Println("px is up to date.")
	return nil
}
