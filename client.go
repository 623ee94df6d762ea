package kurir

import (
	"context"
	"net/http"
)

// Client dispatches requests: it owns the base configuration, the request and
// response interceptors, the URL builder and the transport adapter. It is safe for
// concurrent use.
type Client struct {
	defaults     *RequestConfig
	interceptors *Interceptors
	adapter      Adapter
	urlBuilder   URLBuilder

	// consumed by the built-in HTTP adapter when no adapter is supplied
	httpClient *http.Client
	middleware []Middleware

	metrics *MetricsCollector
	debug   *DebugConfig
	logger  Logger

	optionErrors    error
	validationError error
}

// New constructs a Client using the provided functional options. A best effort
// validation is performed; call IsValid / ValidationError for errors.
func New(options ...Option) *Client {
	client := &Client{
		defaults:     DefaultConfig(),
		interceptors: newInterceptors(),
		urlBuilder:   QueryURLBuilder{},
		middleware:   []Middleware{},
		debug:        DefaultDebugConfig(),
	}

	for _, option := range options {
		option(client)
	}

	if client.adapter == nil {
		client.adapter = NewHTTPAdapter(client.httpClient, client.middleware...)
	}

	client.interceptors.Request.onChange = func(live int) {
		client.metrics.RecordInterceptors("request", live)
	}
	client.interceptors.Response.onChange = func(live int) {
		client.metrics.RecordInterceptors("response", live)
	}
	client.metrics.RecordInterceptors("request", client.interceptors.Request.Len())
	client.metrics.RecordInterceptors("response", client.interceptors.Response.Len())

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

// Interceptors returns the client's interceptor managers. Registrations apply to
// every later dispatch.
func (c *Client) Interceptors() *Interceptors {
	return c.interceptors
}

// Defaults returns a copy of the client's base configuration.
func (c *Client) Defaults() *RequestConfig {
	return MergeConfig(c.defaults, nil)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string, config *RequestConfig) (*Response, error) {
	return c.requestWithMethod(ctx, "get", url, nil, config)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, url string, config *RequestConfig) (*Response, error) {
	return c.requestWithMethod(ctx, "delete", url, nil, config)
}

// Head performs a HEAD request.
func (c *Client) Head(ctx context.Context, url string, config *RequestConfig) (*Response, error) {
	return c.requestWithMethod(ctx, "head", url, nil, config)
}

// Options performs an OPTIONS request.
func (c *Client) Options(ctx context.Context, url string, config *RequestConfig) (*Response, error) {
	return c.requestWithMethod(ctx, "options", url, nil, config)
}

// Post performs a POST request carrying data.
func (c *Client) Post(ctx context.Context, url string, data interface{}, config *RequestConfig) (*Response, error) {
	return c.requestWithMethod(ctx, "post", url, data, config)
}

// Put performs a PUT request carrying data.
func (c *Client) Put(ctx context.Context, url string, data interface{}, config *RequestConfig) (*Response, error) {
	return c.requestWithMethod(ctx, "put", url, data, config)
}

// Patch performs a PATCH request carrying data.
func (c *Client) Patch(ctx context.Context, url string, data interface{}, config *RequestConfig) (*Response, error) {
	return c.requestWithMethod(ctx, "patch", url, data, config)
}

func (c *Client) requestWithMethod(ctx context.Context, method, url string, data interface{}, config *RequestConfig) (*Response, error) {
	return c.Request(ctx, MergeConfig(config, &RequestConfig{
		URL:    url,
		Method: method,
		Data:   data,
	}))
}
