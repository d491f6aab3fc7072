package client

import (
	"net/http"
	"net/url"

	"github.com/andeanfly/flightdesk/log"
)

// Option configures a Client at construction time.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Tests use this to
// point the wrapper at httptest servers with custom transports.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithLogger attaches a logger to the wrapper.
func WithLogger(logger log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithUnauthorizedHandler registers the hook invoked when a 401 response
// triggers session recovery. The hook itself must be idempotent across
// concurrent requests; the session store guarantees that.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

type requestOptions struct {
	header      http.Header
	query       url.Values
	contentType string
}

// RequestOption configures a single request.
type RequestOption func(*requestOptions)

// WithQuery sets the query parameters of the request.
func WithQuery(values url.Values) RequestOption {
	return func(ro *requestOptions) { ro.query = values }
}

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(ro *requestOptions) { ro.header.Add(key, value) }
}

// WithUserID forwards the caller's user ID on the X-User-Id server-trust
// header. Mutating inventory and payment calls require it.
func WithUserID(userID string) RequestOption {
	return WithHeader("X-User-Id", userID)
}

// WithIdempotencyKey attaches the client-generated deduplication key.
// Payment initiation is the one call that must carry it.
func WithIdempotencyKey(key string) RequestOption {
	return WithHeader("Idempotency-Key", key)
}

func withContentType(contentType string) RequestOption {
	return func(ro *requestOptions) { ro.contentType = contentType }
}
