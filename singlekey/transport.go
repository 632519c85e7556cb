package singlekey

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Transport sends a single request to the service.
//
// Implementations return a non-nil Response for every HTTP exchange regardless
// of status code, and an error only when no response was received.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Request describes one API call.
//
// When Stream is set, a transport may copy a 2xx body straight into it
// instead of buffering; it then reports Streamed and the bytes Written.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Header http.Header
	Stream io.Writer
}

// Response is the raw outcome of an HTTP exchange
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Streamed   bool
	Written    int64
}

// httpTransport is the default Transport backed by net/http
type httpTransport struct {
	baseURL    string
	httpClient *http.Client
}

func newHTTPTransport(baseURL string, httpClient *http.Client) *httpTransport {
	return &httpTransport{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Do performs the request and reads the whole body
func (t *httpTransport) Do(ctx context.Context, r *Request) (*Response, error) {
	requestURL := t.baseURL + r.Path
	if len(r.Query) > 0 {
		requestURL += "?" + r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		encoded, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, values := range r.Header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// Error bodies are always buffered for classification
	if r.Stream != nil && isSuccess(resp.StatusCode) {
		n, err := io.Copy(r.Stream, resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to stream response body after %d bytes: %w", n, err)
		}
		return &Response{
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Streamed:   true,
			Written:    n,
		}, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}
