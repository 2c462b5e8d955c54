// Package client is the gateway to the TagMyIdea REST API. Every exported
// operation issues exactly one request, attaches the stored bearer token and
// returns a validated, typed value or one of the errors in errors.go.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sony/gobreaker"
	"github.com/tagmyidea/tagmyidea-web/pkg/db"
)

const defaultJobInterval = 3 * time.Hour

type Client struct {
	baseUrl     string
	http        *http.Client
	storage     db.Storage
	jobInterval time.Duration
	now         func() time.Time
	breaker     *gobreaker.CircuitBreaker
	jobMu       sync.Mutex
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithJobInterval(d time.Duration) Option {
	return func(c *Client) { c.jobInterval = d }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func New(baseUrl string, storage db.Storage, opts ...Option) *Client {
	c := &Client{
		baseUrl:     strings.TrimRight(baseUrl, "/"),
		http:        &http.Client{Timeout: 15 * time.Second},
		storage:     storage,
		jobInterval: defaultJobInterval,
		now:         time.Now,
		breaker:     newBreaker(DefaultBreakerConfig()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SignInURL is where the browser is sent to start Google sign-in.
func (c *Client) SignInURL() string {
	return c.baseUrl + "/auth/google"
}

type call struct {
	method   string
	path     string
	query    url.Values
	body     any
	resource string // used in not-found messages
}

// send performs c and returns the body of a 2xx response.
func (c *Client) send(ctx context.Context, cl call) ([]byte, error) {
	token, ok, err := c.storage.Get(db.TokenKey)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	if !ok || token == "" {
		return nil, ErrMissingToken
	}

	var body io.Reader
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	u := c.baseUrl + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, data, err := c.do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, ErrNetwork) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		if err := c.storage.Remove(db.TokenKey); err != nil {
			slog.Warn("Failed to clear token", "err", err)
		}
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		resource := cl.resource
		if resource == "" {
			resource = "resource"
		}
		return nil, fmt.Errorf("%s %w", resource, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &ServerError{Status: resp.StatusCode, Message: serverMessage(resp.StatusCode, data)}
	}

	return data, nil
}

// report logs and captures failures that are not part of the normal auth/not-found flow.
func report(op string, err error) error {
	if err == nil || Expected(err) || errors.Is(err, context.Canceled) {
		return err
	}
	slog.Warn("API request failed", "op", op, "err", err)
	sentry.CaptureException(fmt.Errorf("%s: %w", op, err))
	return err
}

// envelope finds key under "data" or at the top level of a response body.
func envelope(body []byte, key string) (json.RawMessage, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(body, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	if raw, ok := root["data"]; ok {
		var data map[string]json.RawMessage
		if err := json.Unmarshal(raw, &data); err == nil {
			if v, ok := data[key]; ok && !isNull(v) {
				return v, nil
			}
		}
	}

	if v, ok := root[key]; ok && !isNull(v) {
		return v, nil
	}

	return nil, fmt.Errorf("%w: missing %q", ErrBadResponse, key)
}

func decode(raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// ack checks the success flag mutation endpoints answer with. When strict,
// a missing flag counts as a rejection.
func ack(body []byte, strict bool) error {
	var resp struct {
		Success *bool  `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil && strict {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if (resp.Success == nil && strict) || (resp.Success != nil && !*resp.Success) {
		msg := resp.Message
		if msg == "" {
			msg = "request was not accepted"
		}
		return &ServerError{Status: http.StatusOK, Message: msg}
	}
	return nil
}
