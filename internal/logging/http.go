package logging

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxLoggedBody caps how much of a request or response body is logged.
const maxLoggedBody = 10000

// LoggingRoundTripper wraps an http.RoundTripper and logs requests and
// responses at debug level. Authorization headers are redacted.
type LoggingRoundTripper struct {
	next   http.RoundTripper
	logger *Logger
}

// NewLoggingRoundTripper creates a round tripper that logs through logger
func NewLoggingRoundTripper(next http.RoundTripper, logger *Logger) *LoggingRoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &LoggingRoundTripper{next: next, logger: logger}
}

// RoundTrip implements http.RoundTripper
func (rt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var reqBody []byte
	if req.Body != nil {
		reqBody, _ = io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(reqBody))
	}

	rt.logger.Debug("HTTP request", Fields{
		"method":  req.Method,
		"url":     req.URL.String(),
		"headers": redactHeaders(req.Header),
		"body":    truncateBody(reqBody),
	})

	start := time.Now()
	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		rt.logger.Error("HTTP request failed", err, Fields{
			"method": req.Method,
			"url":    req.URL.String(),
		})
		return nil, err
	}

	var respBody []byte
	if resp.Body != nil {
		respBody, _ = io.ReadAll(resp.Body)
		resp.Body = io.NopCloser(bytes.NewReader(respBody))
	}

	rt.logger.Debug("HTTP response", Fields{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
		"body":        truncateBody(respBody),
	})

	return resp, nil
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if isSensitiveHeader(k) {
			out[k] = "[REDACTED]"
		} else if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

func isSensitiveHeader(name string) bool {
	switch strings.ToLower(name) {
	case "authorization", "x-api-key", "cookie", "set-cookie":
		return true
	}
	return false
}

func truncateBody(body []byte) string {
	if len(body) > maxLoggedBody {
		return string(body[:maxLoggedBody]) + "...[truncated]"
	}
	return string(body)
}
