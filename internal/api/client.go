// Package api is the typed client for the forum backend's REST surface.
// The backend wraps most payloads in a {code,message,data} envelope but has
// drifted over time; each endpoint gets exactly one decoder that tolerates
// the observed alternates, so call sites only ever see canonical types.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aibbs/aibbs-web/internal/domain"
)

const maxResponseBytes = 8 << 20 // 8MB

// Client talks to the backend API. Safe for concurrent use.
type Client struct {
	baseURL string
	hc      *http.Client
}

// New creates a client for the given base URL (including the /api/v1 prefix).
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
}

// Error is a failed backend call: a transport-level non-2xx status, or an
// application error code inside a 2xx body. It unwraps to the matching
// domain sentinel so callers can use errors.Is.
type Error struct {
	Status  int
	Code    int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s (status %d, code %d)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("backend: HTTP %d (code %d)", e.Status, e.Code)
}

func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	}
	return nil
}

// envelope is the canonical response wrapper from the backend. All fields
// are optional because bare payloads are also in the wild.
type envelope struct {
	Code    *int            `json:"code"`
	Message string          `json:"message"`
	ErrMsg  string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// do issues one request and returns the unwrapped payload. A non-empty token
// is sent as a bearer header. The returned payload is envelope.Data when the
// body carried the wrapper, otherwise the body itself.
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body any) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return unwrap(resp.StatusCode, raw)
}

// unwrap applies the envelope rules: non-2xx statuses and non-zero
// application codes become *Error with the best message available; the
// payload is data when wrapped, the whole body when bare.
func unwrap(status int, raw []byte) (json.RawMessage, error) {
	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if status < 200 || status > 299 {
		apiErr := &Error{Status: status}
		if decodeErr == nil {
			if env.Code != nil {
				apiErr.Code = *env.Code
			}
			apiErr.Message = firstNonEmpty(env.Message, env.ErrMsg)
		}
		return nil, apiErr
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}

	if env.Code != nil && *env.Code != 0 {
		return nil, &Error{Status: status, Code: *env.Code, Message: firstNonEmpty(env.Message, env.ErrMsg)}
	}

	if len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		return env.Data, nil
	}
	return raw, nil
}

// unmarshalKeyed decodes raw into dst, first trying the payload nested under
// key (the "{data:{post:{...}}}" shape), then the bare payload.
func unmarshalKeyed(raw json.RawMessage, key string, dst any) error {
	var wrap map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrap); err == nil {
		if inner, ok := wrap[key]; ok && len(inner) > 0 && !bytes.Equal(inner, []byte("null")) {
			return json.Unmarshal(inner, dst)
		}
	}
	return json.Unmarshal(raw, dst)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}
