// Package api provides the HTTP client for the resume-screening service.
// Every call is authenticated by an injected Authorizer; the client never
// reads or stores the credential itself.
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

	"github.com/jonathan/talent-console/internal/schemas"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 60 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "TalentConsole/1.0"

// Authorizer attaches credentials to an outgoing request.
type Authorizer interface {
	Authorize(req *http.Request) error
}

// AuthorizerFunc adapts a function to Authorizer.
type AuthorizerFunc func(req *http.Request) error

// Authorize calls f(req).
func (f AuthorizerFunc) Authorize(req *http.Request) error { return f(req) }

// Options configures the client behavior.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
	// SkipSchemaValidation disables JSON Schema checks of evaluation and
	// roster responses.
	SkipSchemaValidation bool
}

// DefaultOptions returns sensible defaults for the client.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client talks to the screening API.
type Client struct {
	baseURL    string
	auth       Authorizer
	httpClient *http.Client
	options    *Options
}

// NewClient creates a client for baseURL (for example
// "https://talent-match-ai.onrender.com/api"). auth may be nil for
// unauthenticated use in tests.
func NewClient(baseURL string, auth Authorizer, opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		auth:       auth,
		httpClient: httpClient,
		options:    opts,
	}
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends a request and returns the body of a 2xx response. Any other
// outcome, including transport failures and timeouts, is an *Error.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &Error{Method: method, Path: path, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("User-Agent", c.options.UserAgent)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.auth != nil {
		if err := c.auth.Authorize(req); err != nil {
			return nil, &Error{Method: method, Path: path, Message: "failed to authorize request", Cause: err}
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Method: method, Path: path, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Method: method, Path: path, StatusCode: resp.StatusCode, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(method, path, resp.StatusCode, resp.Header.Get("Content-Type"), payload)
	}

	return payload, nil
}

func (c *Client) getJSON(ctx context.Context, path, schema string, out any) error {
	payload, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return err
	}
	return c.decode(http.MethodGet, path, schema, payload, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in any) ([]byte, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, &Error{Method: http.MethodPost, Path: path, Message: "failed to encode request", Cause: err}
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(body))
}

// decode validates payload against schema (when set) and unmarshals it.
func (c *Client) decode(method, path, schema string, payload []byte, out any) error {
	if !json.Valid(payload) {
		return &Error{Method: method, Path: path, Message: "response is not valid JSON"}
	}
	if schema != "" && !c.options.SkipSchemaValidation {
		if err := schemas.Validate(schema, payload); err != nil {
			return &Error{Method: method, Path: path, Message: "unexpected response shape", Cause: err}
		}
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &Error{Method: method, Path: path, Message: "failed to decode response", Cause: err}
	}
	return nil
}

func jobPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
