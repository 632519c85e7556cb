package singlekey

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Client represents a SingleKey API client.
// It is immutable after construction and safe for concurrent use.
type Client struct {
	baseURL   string
	apiToken  string
	timeout   time.Duration
	transport Transport
	metrics   *Metrics
	logger    zerolog.Logger
}

var _ API = (*Client)(nil)

// NewClient creates a new SingleKey client
func NewClient(apiToken string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiToken) == "" {
		return nil, fmt.Errorf("%w: API token is required", ErrInvalidConfig)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	baseURL := strings.TrimRight(o.baseURL, "/")
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: invalid base URL %q", ErrInvalidConfig, o.baseURL)
	}

	timeout := o.timeout
	transport := o.transport
	if transport == nil {
		httpClient := o.httpClient
		switch {
		case httpClient == nil:
			httpClient = &http.Client{Timeout: timeout}
		case httpClient.Timeout == 0:
			withTimeout := *httpClient
			withTimeout.Timeout = timeout
			httpClient = &withTimeout
		default:
			// A custom client keeps its own timeout
			timeout = httpClient.Timeout
		}
		transport = newHTTPTransport(baseURL, httpClient)
	}

	return &Client{
		baseURL:   baseURL,
		apiToken:  apiToken,
		timeout:   timeout,
		transport: transport,
		metrics:   o.metrics,
		logger:    logger,
	}, nil
}

// BaseURL returns the deployment the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout the transport enforces
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// RequestIDHeader carries the id of each request so it can be matched with
// the service's logs
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// WithRequestID makes the next request dispatched with ctx use id instead of
// a generated one
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// dispatch is the single path every API call takes: it authenticates the
// request, sends it and classifies the outcome. raw disables the JSON
// body check for binary endpoints.
func (c *Client) dispatch(ctx context.Context, operation string, req *Request, raw bool) (*Response, error) {
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	requestID := requestIDFrom(ctx)
	req.Header.Set("Authorization", "Token "+c.apiToken)
	req.Header.Set(RequestIDHeader, requestID)
	if raw {
		req.Header.Set("Accept", "application/pdf")
	} else {
		req.Header.Set("Accept", "application/json")
	}

	start := time.Now()
	resp, err := c.transport.Do(ctx, req)
	elapsed := time.Since(start)

	apiErr := classify(resp, err, raw)
	c.metrics.observe(operation, elapsed, apiErr)

	event := c.logger.Debug().
		Str("request_id", requestID).
		Str("operation", operation).
		Str("method", req.Method).
		Str("path", req.Path).
		Dur("duration", elapsed)
	if resp != nil {
		event = event.Int("status", resp.StatusCode)
	}
	if apiErr != nil {
		event.Str("kind", apiErr.Kind.String()).Err(apiErr).Msg("SingleKey API request failed")
		return nil, apiErr
	}
	event.Msg("SingleKey API request completed")

	return resp, nil
}

// doJSON dispatches a request and decodes the JSON body into a Result
func (c *Client) doJSON(ctx context.Context, operation, method, path string, body any, query url.Values) (Result, error) {
	req := &Request{
		Method: method,
		Path:   path,
		Query:  query,
		Body:   body,
	}

	resp, err := c.dispatch(ctx, operation, req, false)
	if err != nil {
		return nil, err
	}

	result := Result{}
	if len(strings.TrimSpace(string(resp.Body))) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, newServiceError("invalid response body: "+err.Error(), err)
	}
	return result, nil
}

// doRaw dispatches a request and returns the body bytes untouched
func (c *Client) doRaw(ctx context.Context, operation, method, path string) ([]byte, error) {
	resp, err := c.dispatch(ctx, operation, &Request{Method: method, Path: path}, true)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
