// Package api implements the Perplexity chat completions client: request
// payload construction, the HTTP transport with a bounded timeout, and the
// error taxonomy for failed calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/quocvuong92/px-cli/internal/config"
	"github.com/quocvuong92/px-cli/internal/logging"
)

// Sender sends one chat completion request. Client implements it; tests
// substitute fakes.
type Sender interface {
	Send(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

var _ Sender = (*Client)(nil)

// Client is the Perplexity API client
type Client struct {
	httpClient *http.Client
	config     *config.Config
}

// NewClient creates a new Perplexity client. With Verbose set, requests and
// responses are logged at debug level through a logging round tripper.
func NewClient(cfg *config.Config) *Client {
	transport := http.DefaultTransport
	if cfg.Verbose {
		logger := logging.New(logging.LevelDebug, nil)
		transport = logging.NewLoggingRoundTripper(http.DefaultTransport, logger)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		config: cfg,
	}
}

// Send performs a single chat completion call. There is no retry: a failed
// attempt is reported through the error taxonomy (TimeoutError,
// TransportError, APIError, ErrMalformedResponse) and the caller decides
// how to terminate.
func (c *Client) Send(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.ChatCompletionsURL(), bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("X-Request-Id", uuid.New().String())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyRequestError(err, c.config.Timeout)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.handleError(resp.StatusCode, body)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &chatResp, nil
}

// handleError creates an APIError from a non-2xx response, preferring the
// server's own error message over the raw status line.
func (c *Client) handleError(statusCode int, body []byte) error {
	errMsg := fmt.Sprintf("status code %d", statusCode)

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		errMsg = errResp.Error.Message
	} else if len(body) > 0 {
		errMsg = string(body)
	}

	switch statusCode {
	case http.StatusUnauthorized:
		return &APIError{
			StatusCode: statusCode,
			Message:    fmt.Sprintf("invalid API key (%s). Run 'px login' to update it", errMsg),
		}
	case http.StatusTooManyRequests:
		return &APIError{
			StatusCode: statusCode,
			Message:    fmt.Sprintf("rate limited: %s", errMsg),
		}
	default:
		return &APIError{
			StatusCode: statusCode,
			Message:    errMsg,
		}
	}
}
