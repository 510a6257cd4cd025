package api

import "fmt"

// Message represents a chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SearchOptions are the optional web-search filters attached to a request.
// The zero value means no filters.
type SearchOptions struct {
	IncludeDomains []string
	ExcludeDomains []string
	Recency        string
	Related        bool
}

// ChatRequest represents the Chat Completions API request
type ChatRequest struct {
	Model                  string    `json:"model"`
	Messages               []Message `json:"messages"`
	MaxTokens              int       `json:"max_tokens,omitempty"`
	SearchDomainFilter     []string  `json:"search_domain_filter,omitempty"`
	SearchRecencyFilter    string    `json:"search_recency_filter,omitempty"`
	ReturnRelatedQuestions bool      `json:"return_related_questions,omitempty"`
}

// BuildRequest assembles a request payload. The messages list starts with a
// system entry only when systemContext is non-empty; the caller appends the
// user turn. Option slices are copied, never aliased, and absent options
// are omitted from the serialized payload entirely.
func BuildRequest(model, systemContext string, opts SearchOptions) ChatRequest {
	req := ChatRequest{
		Model:    model,
		Messages: []Message{},
	}

	if systemContext != "" {
		req.Messages = append(req.Messages, Message{Role: "system", Content: systemContext})
	}

	if len(opts.IncludeDomains) > 0 {
		req.SearchDomainFilter = append(req.SearchDomainFilter, opts.IncludeDomains...)
	}
	for _, domain := range opts.ExcludeDomains {
		req.SearchDomainFilter = append(req.SearchDomainFilter, "-"+domain)
	}

	if opts.Recency != "" {
		req.SearchRecencyFilter = opts.Recency
	}
	if opts.Related {
		req.ReturnRelatedQuestions = true
	}

	return req
}

// Usage represents token usage statistics
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Choice represents a response choice
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason,omitempty"`
}

// SearchResult is one source citation. Any field may be absent.
type SearchResult struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
	Date  string `json:"date,omitempty"`
}

// ChatResponse represents the API response
type ChatResponse struct {
	ID               string         `json:"id"`
	Model            string         `json:"model"`
	Choices          []Choice       `json:"choices"`
	Citations        []string       `json:"citations,omitempty"`
	SearchResults    []SearchResult `json:"search_results,omitempty"`
	RelatedQuestions []string       `json:"related_questions,omitempty"`
	Usage            Usage          `json:"usage"`
}

// Content extracts the assistant reply from the first choice. A response
// without choices breaks the wire contract and surfaces as
// ErrMalformedResponse.
func (r *ChatResponse) Content() (string, error) {
	if len(r.Choices) == 0 {
		return "", fmt.Errorf("%w: response has no choices", ErrMalformedResponse)
	}
	return r.Choices[0].Message.Content, nil
}

// Sources returns the citation list in response order. Structured
// search_results are preferred; a legacy citations array of bare URL
// strings is promoted to records with only the URL field set.
func (r *ChatResponse) Sources() []SearchResult {
	if len(r.SearchResults) > 0 {
		return r.SearchResults
	}
	if len(r.Citations) == 0 {
		return nil
	}
	sources := make([]SearchResult, len(r.Citations))
	for i, url := range r.Citations {
		sources[i] = SearchResult{URL: url}
	}
	return sources
}

// ErrorResponse represents an API error body
type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}
