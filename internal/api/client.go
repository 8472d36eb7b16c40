// Package api implements the HTTP request pipeline shared by every service
// wrapper: it attaches the current bearer token, normalizes success and
// failure responses, and centralizes the 401-triggers-logout policy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// TokenSource supplies the bearer token attached to outgoing requests.
// An empty token means "unauthenticated" and no header is sent.
type TokenSource interface {
	Token() string
}

// Client is the storefront API client. All requests go through do(), which
// applies auth, decodes the response and maps failures to *Error.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func()
	timeout        time.Duration
	log            *logrus.Logger
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 15 * time.Second,
		log:     logrus.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c
}

func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPatch, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// do performs a JSON request against the API and decodes the response into
// out (when non-nil). Any failure resolves to *Error.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return &Error{Status: 500, Message: "failed to encode request body", Cause: err}
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return &Error{Status: 500, Message: "failed to create request", Cause: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, path, out)
}

// send attaches auth, executes the request and normalizes the outcome.
// Used by do() and by the multipart helpers.
func (c *Client) send(req *http.Request, path string, out interface{}) error {
	authEndpoint := isAuthPath(path)
	if !authEndpoint && c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	c.log.Debugf("API: %s %s", req.Method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Errorf("API: %s %s failed: %v", req.Method, path, err)
		return networkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Errorf("API: %s %s failed reading response: %v", req.Method, path, err)
		return networkError(err)
	}

	if resp.StatusCode == http.StatusUnauthorized && !authEndpoint {
		// Global policy: a rejected token on any non-auth endpoint tears
		// down the session. The caller still gets the failure back.
		c.log.Warnf("API: %s %s returned 401, clearing session", req.Method, path)
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &Error{
			Status:  resp.StatusCode,
			Message: extractErrorMessage(respBody, resp.StatusCode),
		}
		c.log.Warnf("API: %s %s -> %d: %s", req.Method, path, resp.StatusCode, apiErr.Message)
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			c.log.Errorf("API: %s %s returned undecodable body: %v", req.Method, path, err)
			return &Error{Status: 500, Message: "failed to decode response", Cause: err}
		}
	}
	return nil
}

// isAuthPath reports whether path is a login/registration endpoint, which
// must not carry a bearer token and must not tear the session down on 401.
func isAuthPath(path string) bool {
	trimmed := path
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[:i]
	}
	return trimmed == "/login" || trimmed == "/signup"
}

// extractErrorMessage pulls a human-readable message out of a server error
// body, checking the fields the API is known to use.
func extractErrorMessage(body []byte, status int) string {
	var shape struct {
		Error   string   `json:"error"`
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}
	if err := json.Unmarshal(body, &shape); err == nil {
		switch {
		case shape.Error != "":
			return shape.Error
		case shape.Message != "":
			return shape.Message
		case len(shape.Errors) > 0:
			return strings.Join(shape.Errors, "; ")
		}
	}
	return fmt.Sprintf("request failed with status %d (%s)", status, http.StatusText(status))
}
