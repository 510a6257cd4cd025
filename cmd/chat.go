package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/elk-language/go-prompt"
	istrings "github.com/elk-language/go-prompt/strings"
	"github.com/spf13/cobra"

	"github.com/quocvuong92/px-cli/internal/api"
	"github.com/quocvuong92/px-cli/internal/catalog"
	"github.com/quocvuong92/px-cli/internal/config"
	"github.com/quocvuong92/px-cli/internal/display"
	"github.com/quocvuong92/px-cli/internal/logging"
)

// ChatSession holds the state for a multi-turn conversation. The message
// history grows with each exchange and is only reset by "new chat".
type ChatSession struct {
	cfg      *config.Config
	client   api.Sender
	messages []api.Message
	in       *bufio.Reader
	out      io.Writer
	exitFlag bool
	err      error
}

// newChatSession creates a session seeded with the system context, if any.
func newChatSession(cfg *config.Config, client api.Sender) *ChatSession {
	seed := api.BuildRequest(cfg.Model, cfg.SystemContext, api.SearchOptions{})
	return &ChatSession{
		cfg:      cfg,
		client:   client,
		messages: seed.Messages,
		in:       bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}
}

// buildRequest assembles the payload for the next exchange from the
// current configuration and the full message history.
func (s *ChatSession) buildRequest() api.ChatRequest {
	req := api.BuildRequest(s.cfg.Model, "", api.SearchOptions{
		IncludeDomains: s.cfg.IncludeDomains,
		ExcludeDomains: s.cfg.ExcludeDomains,
		Recency:        s.cfg.Recency,
		Related:        s.cfg.Related,
	})
	req.Messages = append([]api.Message(nil), s.messages...)
	return req
}

// Ask sends one question through the conversation and prints the reply
// with its sources. The user message stays in the history even when the
// request fails, so a retry resends the same conversation.
func (s *ChatSession) Ask(question string) error {
	s.messages = append(s.messages, api.Message{Role: "user", Content: question})
	req := s.buildRequest()

	sp := display.NewSpinner("Thinking...")
	sp.Start()
	resp, err := s.client.Send(context.Background(), &req)
	sp.Stop()

	if err != nil {
		return err
	}

	reply, err := resp.Content()
	if err != nil {
		return err
	}
	s.messages = append(s.messages, api.Message{Role: "assistant", Content: reply})

	logging.Debug("exchange complete", logging.Fields{
		"messages":     len(s.messages),
		"total_tokens": resp.Usage.TotalTokens,
	})

	if s.cfg.Render {
		display.ShowContentRendered(reply)
	} else {
		display.ShowContent(reply)
	}

	sources := resp.Sources()
	citations := make([]display.Citation, 0, len(sources))
	for _, src := range sources {
		citations = append(citations, display.Citation{
			Title: src.Title,
			URL:   src.URL,
			Date:  src.Date,
		})
	}
	display.ShowCitations(citations)
	display.ShowRelatedQuestions(resp.RelatedQuestions)

	return nil
}

// reset clears the conversation back to just the system context.
func (s *ChatSession) reset() {
	seed := api.BuildRequest(s.cfg.Model, s.cfg.SystemContext, api.SearchOptions{})
	s.messages = seed.Messages
}

// executor handles one input line in the REPL: session commands first,
// anything else goes to the API as the next question.
func (s *ChatSession) executor(input string) {
	if s.exitFlag {
		return
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return
	}

	switch strings.ToLower(input) {
	case "exit":
		fmt.Fprintln(s.out, "Goodbye!")
		s.exitFlag = true
		return

	case "new chat":
		fmt.Fprint(s.out, "Start a new chat and clear the conversation? [y/N]: ")
		answer, _ := s.in.ReadString('\n')
		if strings.EqualFold(strings.TrimSpace(answer), "y") {
			s.reset()
			fmt.Fprintln(s.out, "Conversation cleared.")
		}
		return

	case "change model":
		fmt.Fprint(s.out, "New model (name, alias, or index): ")
		line, _ := s.in.ReadString('\n')
		res := catalog.ResolveInteractive(strings.TrimSpace(line), s.in, s.out)
		if res.Fallback {
			display.ShowWarning(fmt.Sprintf("%s, using %s", res.Reason, res.Model))
		}
		s.cfg.Model = res.Model
		fmt.Fprintf(s.out, "Model set to %s. Conversation history kept.\n", s.cfg.Model)
		return

	case "models":
		catalog.WriteModels(s.out)
		return
	}

	fmt.Fprintln(s.out)
	if err := s.Ask(input); err != nil {
		s.err = err
		s.exitFlag = true
		return
	}
	fmt.Fprintln(s.out)
}

// completer suggests the in-chat commands.
func (s *ChatSession) completer(d prompt.Document) ([]prompt.Suggest, istrings.RuneNumber, istrings.RuneNumber) {
	endIndex := d.CurrentRuneIndex()
	w := d.GetWordBeforeCursor()
	startIndex := endIndex - istrings.RuneCountInString(w)

	if d.TextBeforeCursor() == "" {
		return []prompt.Suggest{}, startIndex, endIndex
	}

	suggestions := []prompt.Suggest{
		{Text: "exit", Description: "End the chat"},
		{Text: "new chat", Description: "Clear the conversation history"},
		{Text: "change model", Description: "Switch model (current: " + s.cfg.Model + ")"},
		{Text: "models", Description: "List available models"},
	}

	return prompt.FilterHasPrefix(suggestions, w, true), startIndex, endIndex
}

// NewChatCmd returns the multi-turn chat command.
func NewChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [question]",
		Short: "Start a multi-turn chat session",
		Long: `Start an interactive chat session that keeps the conversation history
across questions. An optional first question can be given as an argument.

In-chat commands:
  exit            End the chat
  new chat        Clear the conversation (asks for confirmation)
  change model    Switch model, keeping the conversation
  models          List available models`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			app.runChat(args)
		},
	}
}

// runChat starts the REPL for multi-turn mode.
func (app *App) runChat(args []string) {
	if err := app.setup(); err != nil {
		display.ShowError(err.Error())
		os.Exit(1)
	}

	session := newChatSession(app.cfg, api.NewClient(app.cfg))

	fmt.Println("px - Chat Mode")
	fmt.Printf("Model: %s\n", app.cfg.Model)
	fmt.Println("Type 'exit' to quit, 'new chat' to start over, 'change model' to switch models")
	fmt.Println()

	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		session.executor(args[0])
		if session.exitFlag {
			if session.err != nil {
				display.ShowError(session.err.Error())
				os.Exit(1)
			}
			return
		}
	}

	p := prompt.New(
		session.executor,
		prompt.WithCompleter(session.completer),
		prompt.WithPrefix("> "),
		prompt.WithTitle("px"),
		prompt.WithPrefixTextColor(prompt.Green),
		prompt.WithExitChecker(func(in string, breakline bool) bool {
			return session.exitFlag
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlC,
			Fn: func(p *prompt.Prompt) bool {
				fmt.Println("\nGoodbye!")
				session.exitFlag = true
				return false
			},
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlD,
			Fn: func(p *prompt.Prompt) bool {
				if p.Buffer().Text() == "" {
					fmt.Println("Goodbye!")
					session.exitFlag = true
				}
				return false
			},
		}),
	)

	p.Run()

	if session.err != nil {
		display.ShowError(session.err.Error())
		os.Exit(1)
	}
}
