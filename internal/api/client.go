// Package api is the only way the client talks to the book service backend.
//
// All requests share one http.Client. The bearer token is attached by the
// transport from the session bound to the Client; every failure (transport
// error or non-2xx status) passes through handleAPIError exactly once before
// it is returned.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/mrlokans/mylib/internal/backendconfig"
	"github.com/mrlokans/mylib/internal/entities"
	"github.com/mrlokans/mylib/internal/session"
)

const (
	defaultTimeout = 15 * time.Second

	// error bodies larger than this are not worth decoding
	maxErrorBodySize = 64 << 10
)

// Session is the part of session.Store the client needs.
type Session interface {
	Persisted() session.State
	Login(username, token string) session.State
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    Session
}

type Option func(*clientOptions)

type clientOptions struct {
	timeout   time.Duration
	transport http.RoundTripper
}

func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithTransport replaces the underlying transport. The bearer-token hook
// still wraps it.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.transport = rt
	}
}

func NewClient(backend backendconfig.Backend, sess Session, opts ...Option) *Client {
	o := clientOptions{
		timeout:   defaultTimeout,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Client{
		baseURL: backend.BaseURL(),
		httpClient: &http.Client{
			Timeout:   o.timeout,
			Transport: &authTransport{base: o.transport},
		},
		session: sess,
	}
}

// WithSession returns a copy of c bound to another session. The copy shares
// the connection pool.
func (c *Client) WithSession(s Session) *Client {
	clone := *c
	clone.session = s
	return &clone
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// handleAPIError is the response-stage hook: it logs and passes err through.
func (c *Client) handleAPIError(err error) error {
	log.Printf("API Error: %v", err)
	return err
}

// send performs one request. A nil error means a 2xx response whose body the
// caller must close.
func (c *Client) send(ctx context.Context, method, path, rawQuery string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, c.handleAPIError(fmt.Errorf("failed to encode request: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	if c.session != nil {
		ctx = withSession(ctx, c.session)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, c.handleAPIError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleAPIError(fmt.Errorf("request failed: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, c.handleAPIError(newStatusError(resp))
	}

	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path, rawQuery string, out any) error {
	resp, err := c.send(ctx, http.MethodGet, path, rawQuery, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.handleAPIError(fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// exec performs a request whose response body is irrelevant.
func (c *Client) exec(ctx context.Context, method, path string, body any) error {
	resp, err := c.send(ctx, method, path, "", body)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

func newStatusError(resp *http.Response) *StatusError {
	se := &StatusError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil || len(data) == 0 {
		return se
	}

	var apiErr entities.APIError
	if err := json.Unmarshal(data, &apiErr); err == nil {
		se.Message = apiErr.Message
		se.Errors = apiErr.Errors
	}
	return se
}
