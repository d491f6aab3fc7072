// Package client implements the shared HTTP wrapper both storefront and
// admin-console clients are built on. It attaches the bearer token read
// fresh from durable storage on every request, recovers from 401 responses
// at most once per request, and converts error responses into messages a
// user can act on.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andeanfly/flightdesk/log"
)

// DefaultTimeout bounds every request issued through the wrapper.
const DefaultTimeout = 30 * time.Second

// TokenSource yields the current bearer credential. Implementations must
// read from durable storage rather than a cached copy, so a logout
// performed by one in-flight operation is visible to the next request.
type TokenSource interface {
	AccessToken() (string, error)
}

// Client is the HTTP wrapper. One instance per app.
type Client struct {
	baseURL        *url.URL
	httpc          *http.Client
	tokens         TokenSource
	onUnauthorized func()
	logger         log.Logger
}

// New creates a wrapper for the given API base URL. tokens may be nil for
// clients that only call unauthenticated endpoints.
func New(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	c := &Client{
		baseURL: parsed,
		httpc:   &http.Client{Timeout: DefaultTimeout},
		tokens:  tokens,
		logger:  log.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodGet, path, nil, out, opts...)
}

// Post issues a POST request with a JSON body. body may be nil.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPost, path, body, out, opts...)
}

// Put issues a PUT request with a JSON body. body may be nil.
func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPut, path, body, out, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodDelete, path, nil, out, opts...)
}

// FilePart is one file in a multipart submission.
type FilePart struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     io.Reader
}

// PostMultipart submits a multipart form. Registration and product-creation
// flows that carry file uploads use this instead of JSON bodies.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, files []FilePart, out any, opts ...RequestOption) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.FieldName, f.FileName)
		if err != nil {
			return fmt.Errorf("failed to create form file %s: %w", f.FieldName, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return fmt.Errorf("failed to copy form file %s: %w", f.FieldName, err)
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}
	opts = append(opts, withContentType(mw.FormDataContentType()))
	return c.do(ctx, http.MethodPost, path, buf.Bytes(), out, opts...)
}

// shouldRecover is the 401 recovery policy: a pure function of the response
// status and how many recovery attempts this request has already made.
// At most one recovery per request, so a cleared token can never loop.
func shouldRecover(status, attempt int) bool {
	return status == http.StatusUnauthorized && attempt == 0
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	ro := requestOptions{header: make(http.Header)}
	for _, opt := range opts {
		opt(&ro)
	}

	u := c.baseURL.JoinPath(path)
	if len(ro.query) > 0 {
		u.RawQuery = ro.query.Encode()
	}

	payload, contentType, err := encodeBody(body, ro.contentType)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, values := range ro.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if err := c.authorize(req); err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Error(ctx, "request failed", err, map[string]interface{}{"method": method, "path": path})
		return &TransportError{Err: err}
	}

	// The wrapper never retries a request, so every response is its first
	// attempt. Recovery clears the session instead of re-sending: with
	// fragment-delivered tokens there is nothing to refresh a retry with.
	if shouldRecover(resp.StatusCode, 0) {
		resp.Body.Close()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return ErrSessionExpired
	}

	return c.decode(resp, out)
}

// authorize attaches the bearer token when one is present in durable
// storage. A missing token is not an error: unauthenticated endpoints must
// still succeed.
func (c *Client) authorize(req *http.Request) error {
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.AccessToken()
	if err != nil {
		return fmt.Errorf("failed to read access token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func (c *Client) decode(resp *http.Response, out any) error {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if len(data) > 0 && strings.Contains(resp.Header.Get("Content-Type"), "json") {
			// Best effort: an unparseable error body falls back to the
			// generic message.
			_ = json.Unmarshal(data, apiErr)
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

func encodeBody(body any, contentType string) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, contentType, nil
	case []byte:
		return b, contentType, nil
	default:
		data, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode request body: %w", err)
		}
		if contentType == "" {
			contentType = "application/json"
		}
		return data, contentType, nil
	}
}
