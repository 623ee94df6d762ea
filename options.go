package kurir

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/multierr"
	"golang.org/x/time/rate"
)

// WithTimeout sets the default transport timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.defaults.Timeout = d
	}
}

// WithHeader sets a header sent on every request
func WithHeader(name, value string) Option {
	return func(c *Client) {
		c.defaults.Headers.EnsureGroup(HeaderGroupCommon).Set(name, value)
	}
}

// WithMethodHeader sets a header sent on every request using method
func WithMethodHeader(method, name, value string) Option {
	return func(c *Client) {
		c.defaults.Headers.EnsureGroup(method).Set(name, value)
	}
}

// WithDefaults merges config over the built-in defaults
func WithDefaults(config *RequestConfig) Option {
	return func(c *Client) {
		c.defaults = MergeConfig(c.defaults, config)
	}
}

// WithDefaultsFile loads YAML defaults (see LoadDefaults) and merges them over the
// built-in defaults. Load failures surface through ValidationError.
func WithDefaultsFile(path string) Option {
	return func(c *Client) {
		config, err := LoadDefaultsFile(path)
		if err != nil {
			c.optionErrors = multierr.Append(c.optionErrors, err)
			return
		}
		c.defaults = MergeConfig(c.defaults, config)
	}
}

// WithTransformRequest replaces the default request transforms
func WithTransformRequest(fns ...Transformer) Option {
	return func(c *Client) {
		c.defaults.TransformRequest = append([]Transformer{}, fns...)
	}
}

// WithTransformResponse replaces the default response transforms
func WithTransformResponse(fns ...Transformer) Option {
	return func(c *Client) {
		c.defaults.TransformResponse = append([]Transformer{}, fns...)
	}
}

// WithAdapter sets the transport adapter
func WithAdapter(adapter Adapter) Option {
	return func(c *Client) {
		c.adapter = adapter
	}
}

// WithHTTPClient sets the net/http client used by the built-in adapter
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithMiddleware adds middleware to the built-in adapter
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, middleware...)
	}
}

// WithURLBuilder sets the URL builder
func WithURLBuilder(builder URLBuilder) Option {
	return func(c *Client) {
		c.urlBuilder = builder
	}
}

// WithRateLimit registers a request interceptor that waits for a token from a
// limiter allowing r events per second with the given burst
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *Client) {
		c.interceptors.Request.Use(RateLimitInterceptor(rate.NewLimiter(r, burst)), nil)
	}
}

// WithMetrics enables Prometheus metrics collection
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithDebug enables debug logging with default configuration
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets custom debug configuration
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithLogger sets a custom logger for debug output
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a simple console logger
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

// ValidateConfiguration validates the client configuration and returns an error if invalid
func (c *Client) ValidateConfiguration() error {
	err := c.optionErrors
	err = multierr.Append(err, c.validateDefaults())
	err = multierr.Append(err, c.validateCollaborators())
	err = multierr.Append(err, c.validateDebugConfig())
	err = multierr.Append(err, c.validateMiddlewareConfig())

	if err != nil {
		return &ClientError{
			Type:    ErrorTypeValidation,
			Message: "configuration validation failed",
			Cause:   err,
		}
	}
	return nil
}

func (c *Client) validateDefaults() error {
	if c.defaults == nil {
		return fmt.Errorf("defaults cannot be nil")
	}

	var err error
	if c.defaults.Timeout < 0 {
		err = multierr.Append(err, fmt.Errorf("timeout must not be negative"))
	}
	for i, fn := range c.defaults.TransformRequest {
		if fn == nil {
			err = multierr.Append(err, fmt.Errorf("transformRequest[%d] cannot be nil", i))
		}
	}
	for i, fn := range c.defaults.TransformResponse {
		if fn == nil {
			err = multierr.Append(err, fmt.Errorf("transformResponse[%d] cannot be nil", i))
		}
	}
	return err
}

func (c *Client) validateCollaborators() error {
	var err error
	if c.adapter == nil {
		err = multierr.Append(err, ErrNoAdapter)
	}
	if c.urlBuilder == nil {
		err = multierr.Append(err, fmt.Errorf("URL builder cannot be nil"))
	}
	return err
}

func (c *Client) validateDebugConfig() error {
	if c.debug == nil || !c.debug.Enabled {
		return nil
	}

	var err error
	if c.debug.RequestIDGen == nil {
		err = multierr.Append(err, fmt.Errorf("debug RequestIDGen must be set when debug is enabled"))
	}
	if c.logger == nil {
		err = multierr.Append(err, fmt.Errorf("logger must be set when debug is enabled"))
	}
	return err
}

func (c *Client) validateMiddlewareConfig() error {
	var err error
	for i, middleware := range c.middleware {
		if middleware == nil {
			err = multierr.Append(err, fmt.Errorf("middleware[%d] cannot be nil", i))
		}
	}

	if len(c.middleware) > 0 || c.httpClient != nil {
		if _, ok := c.adapter.(*HTTPAdapter); !ok {
			err = multierr.Append(err, fmt.Errorf("middleware and HTTP client options require the built-in HTTP adapter"))
		}
	}
	return err
}
