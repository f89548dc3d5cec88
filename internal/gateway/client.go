// Package gateway speaks the remote action-dispatcher protocol: every data
// operation is a POST of {action, payload} to one endpoint, answered with
// an {ok, data|error} envelope.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUnavailable wraps transport-level failures (connection refused, DNS,
// non-2xx, undecodable body). Application errors from the envelope come
// back as *APIError instead.
var ErrUnavailable = errors.New("gateway unavailable")

// APIError is an application-level error returned inside the envelope.
// Teachers see the message verbatim; student-facing surfaces translate it.
type APIError struct {
	Action  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Action, e.Message)
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

type request struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// Client posts actions to a single gateway URL.
type Client struct {
	url  string
	http *http.Client
	// token, when set, is sent as a bearer header. The spreadsheet
	// gateway ignores it; the dev gateway requires it past login.
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each call. Zero (the default) means no timeout;
// the spreadsheet gateway can be slow on cold starts.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func NewClient(url string, opts ...Option) *Client {
	c := &Client{url: url, http: &http.Client{}}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetToken attaches a bearer token to subsequent calls. An empty token
// clears it.
func (c *Client) SetToken(tok string) { c.token = tok }

// Call posts one action. A nil payload sends an empty object, which is
// what the spreadsheet dispatcher expects for read actions.
func (c *Client) Call(ctx context.Context, action string, payload interface{}) (json.RawMessage, error) {
	if payload == nil {
		payload = struct{}{}
	}
	body, err := json.Marshal(request{Action: action, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("%s: encode payload: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	// text/plain keeps the request a "simple" CORS request so the
	// spreadsheet endpoint never sees a preflight.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", action, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%s: %w: bad envelope: %w", action, ErrUnavailable, err)
	}
	if !env.OK {
		msg := env.Error
		if msg == "" {
			msg = "API Error"
		}
		return nil, &APIError{Action: action, Message: msg}
	}
	return env.Data, nil
}

// CallInto decodes the envelope data into out. A null or absent data field
// leaves out untouched, so callers pre-set their defaults.
func (c *Client) CallInto(ctx context.Context, action string, payload, out interface{}) error {
	data, err := c.Call(ctx, action, payload)
	if err != nil {
		return err
	}
	if len(data) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", action, err)
	}
	return nil
}
