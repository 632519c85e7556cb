package singlekey

import (
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single request
const DefaultTimeout = 30 * time.Second

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	transport  Transport
	metrics    *Metrics
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL: string(Production),
		timeout: DefaultTimeout,
	}
}

// WithEnvironment selects a named SingleKey deployment.
func WithEnvironment(env Environment) Option {
	return func(o *clientOptions) {
		o.baseURL = string(env)
	}
}

// WithBaseURL points the client at a custom deployment.
// Empty values are ignored.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithHTTPClient sets the HTTP client used by the default transport.
// Its Timeout is left untouched when non-zero.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithTransport replaces the HTTP transport entirely.
func WithTransport(t Transport) Option {
	return func(o *clientOptions) {
		o.transport = t
	}
}

// WithMetrics records request metrics.
func WithMetrics(m *Metrics) Option {
	return func(o *clientOptions) {
		o.metrics = m
	}
}
