// Package client is a typed HTTP client for the Sonic Paths API. It shares
// the schema and request definitions with the server so both sides speak the
// same contract, keeps a short-lived read cache, and drops the affected cache
// entries after every write before reporting the write as done.
package client

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

	"golang.org/x/sync/singleflight"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// APIError is a failure reported by the server. Transport failures are
// returned as wrapped errors, not APIErrors.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

func statusIs(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

func IsValidation(err error) bool   { return statusIs(err, http.StatusBadRequest) }
func IsUnauthorized(err error) bool { return statusIs(err, http.StatusUnauthorized) }
func IsNotFound(err error) bool     { return statusIs(err, http.StatusNotFound) }
func IsConflict(err error) bool     { return statusIs(err, http.StatusConflict) }

// Notifier receives user-facing messages for mutation outcomes.
type Notifier func(success bool, message string)

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cache = newQueryCache(ttl) }
}

func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

type Client struct {
	baseURL  string
	http     *http.Client
	token    string
	notifier Notifier
	cache    *queryCache
	group    singleflight.Group
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		cache:   newQueryCache(defaultStaleTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) notify(success bool, message string) {
	if c.notifier != nil {
		c.notifier(success, message)
	}
}

// do issues a request and unwraps the response envelope into dest.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, dest interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if !env.Success {
		message := env.Error
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: message}
	}
	if dest != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, dest); err != nil {
			return fmt.Errorf("decoding payload: %w", err)
		}
	}
	return nil
}

// getCached serves reads through the query cache. Concurrent identical reads
// share one request; a caller whose context is cancelled gets the
// cancellation back and never populates the cache, while the shared fetch
// keeps running for the callers that are still waiting. A fetch that
// completes after an invalidation discards its payload instead of re-caching
// pre-mutation data.
func (c *Client) getCached(ctx context.Context, key, path string, query url.Values, dest interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if raw, ok := c.cache.get(key); ok {
		return json.Unmarshal(raw, dest)
	}

	gen := c.cache.generation()
	ch := c.group.DoChan(key, func() (interface{}, error) {
		var payload json.RawMessage
		if err := c.do(context.WithoutCancel(ctx), http.MethodGet, path, query, nil, &payload); err != nil {
			return nil, err
		}
		return []byte(payload), nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		raw := res.Val.([]byte)
		c.cache.set(key, raw, gen)
		return json.Unmarshal(raw, dest)
	}
}

// mutate issues a write, then invalidates the collection's list entries plus
// the given item entries before returning, so a read that follows a
// successful mutation cannot be served pre-mutation data.
func (c *Client) mutate(ctx context.Context, method, path string, body interface{}, dest interface{}, collection, successMessage string, ids ...string) error {
	if err := c.do(ctx, method, path, nil, body, dest); err != nil {
		c.notify(false, err.Error())
		return err
	}
	c.cache.invalidate(collection, ids...)
	c.notify(true, successMessage)
	return nil
}
