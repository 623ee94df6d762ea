package kurir

import (
	"context"
	"net/http"
	"time"
)

// RequestConfig describes one request. Zero-valued fields are "unset" and fall back
// to the client defaults when the request is dispatched.
type RequestConfig struct {
	URL     string
	Method  string
	Headers *Header
	Data    interface{}

	// Params are appended to URL as a query string by the client's URLBuilder.
	// url.Values, string-keyed maps and structs are accepted.
	Params interface{}

	// Timeout is enforced by the transport adapter.
	Timeout time.Duration

	// TransformRequest and TransformResponse replace the defaults when non-nil.
	// A non-nil empty slice disables transforms.
	TransformRequest  []Transformer
	TransformResponse []Transformer

	// ValidateStatus decides which status codes the adapter treats as success.
	// Defaults to 2xx.
	ValidateStatus func(status int) bool

	CancelToken *CancelToken
}

// Response is the normalized result of a dispatch.
type Response struct {
	Data       interface{}
	Status     int
	StatusText string

	// Headers are flat with lower-cased names.
	Headers *Header

	// Config is the finalized config the request was sent with.
	Config *RequestConfig

	// Request is the underlying request when the HTTP adapter sent it.
	Request *http.Request
}

// Adapter is the transport collaborator: it sends a finalized config and returns
// the raw response. Adapters must honour ctx cancellation.
type Adapter interface {
	Send(ctx context.Context, config *RequestConfig) (*Response, error)
}

// Aborter is implemented by adapters that need an explicit signal, beyond context
// cancellation, when an in-flight request is cancelled.
type Aborter interface {
	Abort(config *RequestConfig, reason error)
}

// AdapterFunc adapts a function to the Adapter interface.
type AdapterFunc func(ctx context.Context, config *RequestConfig) (*Response, error)

// Send implements Adapter.
func (f AdapterFunc) Send(ctx context.Context, config *RequestConfig) (*Response, error) {
	return f(ctx, config)
}

// Middleware wraps the HTTP adapter's round trip
type Middleware func(req *http.Request, next RoundTripper) (*http.Response, error)

// RoundTripper represents the HTTP transport interface
type RoundTripper interface {
	RoundTrip(*http.Request) (*http.Response, error)
}

// RoundTripperFunc is a helper type for middleware
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Option represents a configuration option
type Option func(*Client)
