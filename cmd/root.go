// Package cmd implements the CLI commands for px.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quocvuong92/px-cli/internal/api"
	"github.com/quocvuong92/px-cli/internal/catalog"
	"github.com/quocvuong92/px-cli/internal/config"
	"github.com/quocvuong92/px-cli/internal/constants"
	"github.com/quocvuong92/px-cli/internal/display"
	"github.com/quocvuong92/px-cli/internal/input"
	"github.com/quocvuong92/px-cli/internal/logging"
)

// App holds the application state
type App struct {
	cfg *config.Config
}

// NewApp creates a new App instance with default configuration
func NewApp() *App {
	return &App{
		cfg: config.NewConfig(),
	}
}

// Execute runs the root command
func Execute() {
	app := NewApp()

	rootCmd := &cobra.Command{
		Use:   "px [question]",
		Short: "A command line client for the Perplexity AI API",
		Long: `px sends a question to the Perplexity chat completions API and prints
the answer, optionally with source citations.

The question can come from the argument, from piped standard input, or
both (argument first).

Examples:
  px "What is the capital of Nigeria?"
  px -m pro "Explain quicksort"
  cat notes.txt | px "Summarize this:"
  px -i arxiv.org -T month -R "Recent transformer papers"
  px chat                              # Multi-turn chat mode
  px models                            # List available models`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			app.run(cmd, args)
		},
	}

	rootCmd.Flags().StringVarP(&app.cfg.Model, "model", "m", "", "Model name, alias, or index (see 'px models')")
	rootCmd.Flags().StringVarP(&app.cfg.SystemContext, "context", "c", constants.DefaultSystemContext, "System context sent with the conversation")
	rootCmd.Flags().StringArrayVarP(&app.cfg.IncludeDomains, "include", "i", nil, "Restrict search to these domains (repeatable)")
	rootCmd.Flags().StringArrayVarP(&app.cfg.ExcludeDomains, "exclude", "e", nil, "Exclude these domains from search (repeatable)")
	rootCmd.Flags().StringVarP(&app.cfg.Recency, "recency", "T", "", "Only use sources from this window (day, week, month, year)")
	rootCmd.Flags().BoolVarP(&app.cfg.Related, "related", "R", false, "Ask the API for related follow-up questions")
	rootCmd.Flags().BoolVarP(&app.cfg.Render, "render", "r", false, "Render the reply as markdown")
	rootCmd.Flags().BoolVarP(&app.cfg.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().DurationVar(&app.cfg.Timeout, "timeout", constants.DefaultAPITimeout, "Request timeout")

	rootCmd.AddCommand(NewChatCmd(app))
	rootCmd.AddCommand(NewModelsCmd())
	rootCmd.AddCommand(NewLoginCmd())
	rootCmd.AddCommand(NewLogoutCmd())
	rootCmd.AddCommand(NewStatusCmd())
	rootCmd.AddCommand(NewUpdateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup finalizes the configuration and resolves the model token. Called
// after flag parsing by both single-shot and chat mode.
func (app *App) setup() error {
	if lvl := os.Getenv(config.EnvLogLevel); lvl != "" {
		logging.SetLevel(logging.ParseLevel(lvl))
	}
	if app.cfg.Verbose {
		logging.SetLevel(logging.LevelDebug)
	}

	if err := app.cfg.Validate(); err != nil {
		return err
	}

	res := catalog.ResolveInteractive(app.cfg.Model, os.Stdin, os.Stdout)
	if res.Fallback {
		display.ShowWarning(fmt.Sprintf("%s, using %s", res.Reason, res.Model))
	}
	app.cfg.Model = res.Model

	if app.cfg.Render {
		if err := display.InitRenderer(); err != nil {
			display.ShowWarning(err.Error())
			app.cfg.Render = false
		}
	}

	logging.Debug("configuration ready", logging.Fields{
		"model":      app.cfg.Model,
		"base_url":   app.cfg.BaseURL,
		"timeout":    app.cfg.Timeout,
		"key_source": app.cfg.KeySource,
	})

	return nil
}

// run handles single-use mode: one question, one reply, then exit.
func (app *App) run(cmd *cobra.Command, args []string) {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}

	question := input.Read(prefix)
	if question == "" {
		_ = cmd.Help()
		os.Exit(1)
	}

	if err := app.setup(); err != nil {
		display.ShowError(err.Error())
		os.Exit(1)
	}

	session := newChatSession(app.cfg, api.NewClient(app.cfg))
	if err := session.Ask(question); err != nil {
		display.ShowError(err.Error())
		os.Exit(1)
	}
}
