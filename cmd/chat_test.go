package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/quocvuong92/px-cli/internal/api"
	"github.com/quocvuong92/px-cli/internal/config"
	"github.com/quocvuong92/px-cli/internal/constants"
)

// fakeSender records every request and returns a canned reply or error.
type fakeSender struct {
	requests []api.ChatRequest
	reply    string
	err      error
}

func (f *fakeSender) Send(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error) {
	f.requests = append(f.requests, *req)
	if f.err != nil {
		return nil, f.err
	}
	return &api.ChatResponse{
		Model: req.Model,
		Choices: []api.Choice{
			{Message: api.Message{Role: "assistant", Content: f.reply}},
		},
	}, nil
}

func newTestConfig() *config.Config {
	return &config.Config{
		Model:         "sonar",
		SystemContext: constants.DefaultSystemContext,
	}
}

// newTestSession builds a session with scripted stdin and captured output.
func newTestSession(cfg *config.Config, sender api.Sender, stdin string, out *bytes.Buffer) *ChatSession {
	s := newChatSession(cfg, sender)
	s.in = bufio.NewReader(strings.NewReader(stdin))
	s.out = out
	return s
}

func TestChatSession_SeededWithSystemContext(t *testing.T) {
	sender := &fakeSender{reply: "ok"}
	session := newTestSession(newTestConfig(), sender, "", &bytes.Buffer{})

	if len(session.messages) != 1 {
		t.Fatalf("seed messages = %d, want 1", len(session.messages))
	}
	if session.messages[0].Role != "system" || session.messages[0].Content != constants.DefaultSystemContext {
		t.Errorf("seed message = %+v, want system context", session.messages[0])
	}
}

func TestChatSession_NoSystemMessageWhenContextEmpty(t *testing.T) {
	cfg := newTestConfig()
	cfg.SystemContext = ""
	session := newTestSession(cfg, &fakeSender{reply: "ok"}, "", &bytes.Buffer{})

	if len(session.messages) != 0 {
		t.Errorf("seed messages = %d, want 0 with empty context", len(session.messages))
	}
}

func TestChatSession_ExitTerminatesWithoutSending(t *testing.T) {
	sender := &fakeSender{reply: "ok"}
	session := newTestSession(newTestConfig(), sender, "", &bytes.Buffer{})

	session.executor("exit")

	if !session.exitFlag {
		t.Error("exit should set the exit flag")
	}
	if len(sender.requests) != 0 {
		t.Errorf("exit sent %d requests, want 0", len(sender.requests))
	}
}

func TestChatSession_ExitIsCaseInsensitive(t *testing.T) {
	for _, input := range []string{"EXIT", "Exit", "  exit  "} {
		session := newTestSession(newTestConfig(), &fakeSender{}, "", &bytes.Buffer{})
		session.executor(input)
		if !session.exitFlag {
			t.Errorf("%q should terminate the session", input)
		}
	}
}

func TestChatSession_QuestionAppendsBothMessages(t *testing.T) {
	sender := &fakeSender{reply: "4"}
	session := newTestSession(newTestConfig(), sender, "", &bytes.Buffer{})

	session.executor("What is 2+2?")

	if session.exitFlag {
		t.Fatal("a normal question should not end the session")
	}
	// system + user + assistant
	if len(session.messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(session.messages))
	}
	if session.messages[1].Role != "user" || session.messages[1].Content != "What is 2+2?" {
		t.Errorf("user message = %+v", session.messages[1])
	}
	if session.messages[2].Role != "assistant" || session.messages[2].Content != "4" {
		t.Errorf("assistant message = %+v", session.messages[2])
	}
}

func TestChatSession_HistoryGrowsAcrossTurns(t *testing.T) {
	sender := &fakeSender{reply: "answer"}
	session := newTestSession(newTestConfig(), sender, "", &bytes.Buffer{})

	session.executor("first question")
	session.executor("second question")

	if len(sender.requests) != 2 {
		t.Fatalf("requests = %d, want 2", len(sender.requests))
	}
	// Second request carries the whole conversation so far.
	if got := len(sender.requests[1].Messages); got != 4 {
		t.Errorf("second request messages = %d, want 4 (system, u, a, u)", got)
	}
	if len(session.messages) != 5 {
		t.Errorf("history = %d messages, want 5", len(session.messages))
	}
}

func TestChatSession_NewChatConfirmedClearsHistory(t *testing.T) {
	sender := &fakeSender{reply: "a"}
	var out bytes.Buffer
	session := newTestSession(newTestConfig(), sender, "y\n", &out)

	session.executor("a question")
	session.executor("new chat")

	if len(session.messages) != 1 {
		t.Errorf("messages after clear = %d, want just the system context", len(session.messages))
	}
	if session.exitFlag {
		t.Error("new chat should not end the session")
	}
	if !strings.Contains(out.String(), "cleared") {
		t.Errorf("no confirmation printed:\n%s", out.String())
	}
}

func TestChatSession_NewChatDeclinedKeepsHistory(t *testing.T) {
	sender := &fakeSender{reply: "a"}
	session := newTestSession(newTestConfig(), sender, "n\n", &bytes.Buffer{})

	session.executor("a question")
	session.executor("new chat")

	if len(session.messages) != 3 {
		t.Errorf("messages = %d, want 3 (history kept)", len(session.messages))
	}
}

func TestChatSession_ChangeModelKeepsHistory(t *testing.T) {
	sender := &fakeSender{reply: "a"}
	cfg := newTestConfig()
	session := newTestSession(cfg, sender, "pro\n", &bytes.Buffer{})

	session.executor("a question")
	session.executor("change model")

	if cfg.Model != "sonar-pro" {
		t.Errorf("model = %q, want sonar-pro", cfg.Model)
	}
	if len(session.messages) != 3 {
		t.Errorf("messages = %d, want 3 (history untouched by model change)", len(session.messages))
	}

	session.executor("follow-up")
	if got := sender.requests[1].Model; got != "sonar-pro" {
		t.Errorf("next request model = %q, want sonar-pro", got)
	}
}

func TestChatSession_ChangeModelHelpThenChoice(t *testing.T) {
	cfg := newTestConfig()
	var out bytes.Buffer
	session := newTestSession(cfg, &fakeSender{}, "?\nr\n", &out)

	session.executor("change model")

	if cfg.Model != "sonar-reasoning" {
		t.Errorf("model = %q, want sonar-reasoning after help then alias", cfg.Model)
	}
	if !strings.Contains(out.String(), "sonar-deep-research") {
		t.Errorf("help listing missing from output:\n%s", out.String())
	}
}

func TestChatSession_SendFailureEndsSessionKeepsUserMessage(t *testing.T) {
	sender := &fakeSender{err: errors.New("boom")}
	session := newTestSession(newTestConfig(), sender, "", &bytes.Buffer{})

	session.executor("a question")

	if !session.exitFlag {
		t.Error("a failed exchange should end the session")
	}
	if session.err == nil {
		t.Error("session error not recorded")
	}
	// The user message stays so the failure context is visible.
	if len(session.messages) != 2 {
		t.Errorf("messages = %d, want 2 (system + user)", len(session.messages))
	}
}

func TestChatSession_EmptyInputIsIgnored(t *testing.T) {
	sender := &fakeSender{}
	session := newTestSession(newTestConfig(), sender, "", &bytes.Buffer{})

	session.executor("")
	session.executor("   ")

	if len(sender.requests) != 0 {
		t.Errorf("empty input sent %d requests, want 0", len(sender.requests))
	}
	if session.exitFlag {
		t.Error("empty input should not end the session")
	}
}

func TestChatSession_ModelsCommandListsCatalog(t *testing.T) {
	var out bytes.Buffer
	session := newTestSession(newTestConfig(), &fakeSender{}, "", &out)

	session.executor("models")

	for _, model := range constants.AvailableModels {
		if !strings.Contains(out.String(), model) {
			t.Errorf("listing missing %q:\n%s", model, out.String())
		}
	}
}

func TestChatSession_BuildRequestCarriesSearchOptions(t *testing.T) {
	cfg := newTestConfig()
	cfg.IncludeDomains = []string{"arxiv.org"}
	cfg.ExcludeDomains = []string{"example.com"}
	cfg.Recency = "month"
	cfg.Related = true
	sender := &fakeSender{reply: "a"}
	session := newTestSession(cfg, sender, "", &bytes.Buffer{})

	session.executor("a question")

	req := sender.requests[0]
	if len(req.SearchDomainFilter) != 2 || req.SearchDomainFilter[0] != "arxiv.org" || req.SearchDomainFilter[1] != "-example.com" {
		t.Errorf("SearchDomainFilter = %v", req.SearchDomainFilter)
	}
	if req.SearchRecencyFilter != "month" {
		t.Errorf("SearchRecencyFilter = %q, want month", req.SearchRecencyFilter)
	}
	if !req.ReturnRelatedQuestions {
		t.Error("ReturnRelatedQuestions not set")
	}
}
