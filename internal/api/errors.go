package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// ErrMalformedResponse indicates the server returned 2xx but the body does
// not match the wire contract. It is surfaced, never defaulted.
var ErrMalformedResponse = errors.New("malformed response")

// APIError carries a non-2xx HTTP status and the server's error message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: status %d: %s", e.StatusCode, e.Message)
}

// TimeoutError indicates the request exceeded the configured bound.
type TimeoutError struct {
	Limit time.Duration
	Err   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s: %v", e.Limit, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// TransportError indicates a network-level failure before any HTTP status
// was received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// classifyRequestError maps an http.Client.Do failure to the error
// taxonomy: deadline/timeout failures become TimeoutError, everything else
// TransportError.
func classifyRequestError(err error, limit time.Duration) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Limit: limit, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Limit: limit, Err: err}
	}
	return &TransportError{Err: err}
}
