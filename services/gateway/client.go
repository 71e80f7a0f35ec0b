// Package gateway is the single HTTP entry point to the LMS REST API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo/portal/core"
)

const HeaderRequestID = "X-Request-ID"

// TokenSource is the session the gateway reads credentials from and clears on 401.
type TokenSource interface {
	Token() string
	Logout(ctx context.Context) error
}

type (
	Option func(*Client)

	// Client attaches the session token to every request, normalizes responses
	// and forces a logout whenever the API answers 401. It never retries.
	Client struct {
		baseURL string
		http    *http.Client
		tokens  TokenSource
		logger  core.Logger

		mu             sync.RWMutex
		onUnauthorized []func()
	}
)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets a client-wide timeout; 0 keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

func WithLogger(logger core.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		tokens:  tokens,
		logger:  core.NopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnUnauthorized subscribes fn to the unauthorized event, emitted after the
// session has been cleared because the API answered 401.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = append(c.onUnauthorized, fn)
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Envelope, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Envelope, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Envelope, error) {
	return c.Do(ctx, http.MethodPut, path, nil, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*Envelope, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do performs one request. Every failure is returned as a *Error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body interface{}) (*Envelope, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, newTransportError(err)
	}

	c.logger.Debug("api request", map[string]interface{}{
		"method": method, "path": path, "request_id": req.Header.Get(HeaderRequestID),
	})
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(errors.Wrap(err, "reading response"))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.forceLogout(ctx)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		gErr := newResponseError(resp.StatusCode, data)
		c.logger.Debug("api error", map[string]interface{}{
			"method": method, "path": path, "status": resp.StatusCode, "message": ErrorMessage(gErr),
		})
		return nil, gErr
	}

	env := Normalize(data)
	return &env, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		rdr = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(HeaderRequestID, uuid.NewString())
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// forceLogout clears the session then notifies subscribers, before the caller sees the error.
func (c *Client) forceLogout(ctx context.Context) {
	if err := c.tokens.Logout(ctx); err != nil {
		c.logger.Error("clearing session after 401", err)
	}

	c.mu.RLock()
	subscribers := make([]func(), len(c.onUnauthorized))
	copy(subscribers, c.onUnauthorized)
	c.mu.RUnlock()

	for _, fn := range subscribers {
		fn()
	}
}
