package api

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithTimeout sets the HTTP request timeout. Defaults to 15 seconds.
// Ignored when a custom http.Client is supplied.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom http.Client, useful for testing and custom
// transport configurations.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenSource sets the source of the bearer token attached to every
// non-auth request.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithUnauthorizedHandler sets the hook fired when a non-auth endpoint
// returns 401. The session manager registers its teardown here.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// WithLogger sets the logger used by the pipeline.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) {
		c.log = logger
	}
}
