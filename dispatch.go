package kurir

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ambiyansyah-risyal/kurir/internal/pipeline"
)

// Request dispatches config through the client's interceptors and transport.
//
// The run is one linear chain: request interceptors in reverse registration order
// (the last registered runs first), then the core dispatch step, then response
// interceptors in registration order. An error skips resolved handlers until a
// rejected handler recovers it.
//
// Failures are *Cancel for cancellations (see IsCancel) and *ClientError for
// transform, transport and configuration failures. Errors produced by interceptors
// are returned as they were produced.
func (c *Client) Request(ctx context.Context, config *RequestConfig) (*Response, error) {
	if config == nil {
		return nil, newConfigError("request config is required", ErrNilConfig)
	}

	requestID := c.newRequestID()
	stages := c.buildChain(requestID)

	out, err := pipeline.Run(ctx, stages, config)
	if err != nil {
		c.metrics.RecordError(errorKind(err), methodLabel(config.Method))
		if logger := c.debugLogger(logRequests); logger != nil {
			logger.Warn("Request failed", "requestID", requestID, "kind", errorKind(err), "error", err.Error())
		}
		return nil, err
	}

	resp, _ := out.(*Response)
	if resp == nil {
		clientErr := newConfigError("response interceptor returned no response", ErrNoResponse)
		clientErr.RequestID = requestID
		clientErr.Method = methodLabel(config.Method)
		clientErr.URL = config.URL
		c.metrics.RecordError(errorKind(clientErr), clientErr.Method)
		return nil, clientErr
	}
	return resp, nil
}

func (c *Client) buildChain(requestID string) []pipeline.Stage {
	var requestStages []pipeline.Stage
	c.interceptors.Request.ForEach(func(id int, interceptor *Interceptor[*RequestConfig]) {
		stage := typedStage(c, fmt.Sprintf("request interceptor %d", id), requestID, interceptor)
		requestStages = append([]pipeline.Stage{stage}, requestStages...)
	})

	stages := make([]pipeline.Stage, 0, len(requestStages)+1+c.interceptors.Response.Len())
	stages = append(stages, requestStages...)
	stages = append(stages, pipeline.Stage{
		Name: "dispatch",
		Resolved: func(ctx context.Context, value interface{}) (interface{}, error) {
			config, _ := value.(*RequestConfig)
			resp, err := c.dispatchRequest(ctx, config, requestID)
			if err != nil {
				return nil, err
			}
			return resp, nil
		},
	})

	c.interceptors.Response.ForEach(func(id int, interceptor *Interceptor[*Response]) {
		stages = append(stages, typedStage(c, fmt.Sprintf("response interceptor %d", id), requestID, interceptor))
	})
	return stages
}

// typedStage lifts a typed interceptor into a pipeline stage.
func typedStage[T any](c *Client, name, requestID string, interceptor *Interceptor[T]) pipeline.Stage {
	stage := pipeline.Stage{Name: name}
	if interceptor.Resolved != nil {
		stage.Resolved = func(ctx context.Context, value interface{}) (interface{}, error) {
			if logger := c.debugLogger(logInterceptors); logger != nil {
				logger.Debug("Running interceptor", "requestID", requestID, "stage", name)
			}
			typed, _ := value.(T)
			return interceptor.Resolved(ctx, typed)
		}
	}
	if interceptor.Rejected != nil {
		stage.Rejected = func(ctx context.Context, err error) (interface{}, error) {
			if logger := c.debugLogger(logInterceptors); logger != nil {
				logger.Debug("Running rejection handler", "requestID", requestID, "stage", name, "error", err.Error())
			}
			return interceptor.Rejected(ctx, err)
		}
	}
	return stage
}

// dispatchRequest is the core step: pre-flight cancellation check, merge, URL,
// headers, request transforms, transport, response transforms.
func (c *Client) dispatchRequest(ctx context.Context, config *RequestConfig, requestID string) (*Response, error) {
	if config == nil {
		return nil, newConfigError("request interceptor returned no config", ErrNilConfig)
	}

	if err := c.checkPreflight(config.CancelToken, requestID); err != nil {
		return nil, err
	}

	// The token may come from the client defaults rather than the request.
	cfg := MergeConfig(c.defaults, config)
	if cfg.CancelToken != config.CancelToken {
		if err := c.checkPreflight(cfg.CancelToken, requestID); err != nil {
			return nil, err
		}
	}
	if cfg.Method == "" {
		cfg.Method = DefaultMethod
	}

	fullURL, err := c.urlBuilder.Build(cfg.URL, cfg.Params)
	if err != nil {
		clientErr := newConfigError("build request url", err)
		clientErr.RequestID = requestID
		clientErr.Method = strings.ToUpper(cfg.Method)
		clientErr.URL = cfg.URL
		return nil, clientErr
	}
	cfg.URL = fullURL

	if cfg.Headers == nil {
		cfg.Headers = NewHeader()
	}
	ProcessHeaders(cfg.Headers, cfg.Data)
	if requestID != "" && !cfg.Headers.Has(HeaderRequestID) && c.debug != nil && c.debug.Enabled {
		cfg.Headers.Set(HeaderRequestID, requestID)
	}

	data, err := runTransforms(phaseRequest, cfg.Data, cfg.Headers, cfg.TransformRequest)
	if err != nil {
		c.annotate(err, cfg, requestID)
		c.logTransformFailure(requestID, err)
		return nil, err
	}
	cfg.Data = data
	cfg.Headers = FlattenHeaders(cfg.Headers, cfg.Method)

	if logger := c.debugLogger(logRequests); logger != nil {
		logger.Debug("Sending request", "requestID", requestID, "method", strings.ToUpper(cfg.Method), "url", cfg.URL)
	}

	resp, err := c.send(ctx, cfg, requestID)
	if err != nil {
		return nil, err
	}
	if resp.Config == nil {
		resp.Config = cfg
	}
	if resp.Headers == nil {
		resp.Headers = NewHeader()
	}

	data, err = runTransforms(phaseResponse, resp.Data, resp.Headers, cfg.TransformResponse)
	if err != nil {
		c.annotate(err, cfg, requestID)
		var clientErr *ClientError
		if errors.As(err, &clientErr) {
			clientErr.StatusCode = resp.Status
			clientErr.Response = resp
		}
		c.logTransformFailure(requestID, err)
		return nil, err
	}
	resp.Data = data
	return resp, nil
}

func (c *Client) checkPreflight(token *CancelToken, requestID string) error {
	err := token.ThrowIfRequested()
	if err == nil {
		return nil
	}
	c.metrics.RecordCancellation(cancelStagePreflight)
	if logger := c.debugLogger(logCancellations); logger != nil {
		logger.Info("Request cancelled before dispatch", "requestID", requestID, "reason", err.Error())
	}
	return err
}

// send calls the adapter. With a cancel token the call runs on its own goroutine
// and is raced against the token; if the token wins, the adapter's context is
// cancelled and Aborter adapters are told why.
func (c *Client) send(ctx context.Context, cfg *RequestConfig, requestID string) (*Response, error) {
	method := methodLabel(cfg.Method)
	endpoint := endpointOf(cfg.URL)
	start := time.Now()

	c.metrics.RecordRequestStart(method, endpoint)
	defer c.metrics.RecordRequestEnd(method, endpoint)

	token := cfg.CancelToken
	if token == nil {
		resp, err := c.callAdapter(ctx, cfg, requestID)
		c.recordOutcome(method, endpoint, resp, err, start)
		return resp, err
	}

	sendCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	type result struct {
		resp *Response
		err  error
	}
	results := make(chan result, 1)
	go func() {
		resp, err := c.callAdapter(sendCtx, cfg, requestID)
		results <- result{resp: resp, err: err}
	}()

	select {
	case r := <-results:
		c.recordOutcome(method, endpoint, r.resp, r.err, start)
		return r.resp, r.err
	case <-token.Done():
		reason := token.Reason()
		cancel(reason)
		if aborter, ok := c.adapter.(Aborter); ok {
			aborter.Abort(cfg, reason)
		}
		c.metrics.RecordCancellation(cancelStageInflight)
		if logger := c.debugLogger(logCancellations); logger != nil {
			logger.Info("Request cancelled in flight", "requestID", requestID, "reason", reason.Error())
		}
		return nil, reason
	}
}

// callAdapter invokes the adapter and classifies its outcome. Transport
// ClientErrors and cancellations pass through untouched; anything else is
// wrapped as a Transport error.
func (c *Client) callAdapter(ctx context.Context, cfg *RequestConfig, requestID string) (*Response, error) {
	if c.adapter == nil {
		return nil, newConfigError("client has no adapter", ErrNoAdapter)
	}

	out, err := pipeline.Call("adapter", func() (interface{}, error) {
		return c.adapter.Send(ctx, cfg)
	})
	resp, _ := out.(*Response)

	if err != nil {
		var clientErr *ClientError
		if (errors.As(err, &clientErr) && clientErr.Type == ErrorTypeTransport) || IsCancel(err) {
			if clientErr != nil && clientErr.RequestID == "" {
				clientErr.RequestID = requestID
			}
			return nil, err
		}
		return nil, &ClientError{
			Type:      ErrorTypeTransport,
			Message:   "transport failed",
			Cause:     err,
			RequestID: requestID,
			Method:    methodLabel(cfg.Method),
			URL:       cfg.URL,
			Endpoint:  endpointOf(cfg.URL),
			Timestamp: time.Now(),
		}
	}
	if resp == nil {
		return nil, &ClientError{
			Type:      ErrorTypeTransport,
			Message:   "transport failed",
			Cause:     ErrNoResponse,
			RequestID: requestID,
			Method:    methodLabel(cfg.Method),
			URL:       cfg.URL,
			Timestamp: time.Now(),
		}
	}
	return resp, nil
}

func (c *Client) recordOutcome(method, endpoint string, resp *Response, err error, start time.Time) {
	status := 0
	if resp != nil {
		status = resp.Status
	} else {
		var clientErr *ClientError
		if errors.As(err, &clientErr) {
			status = clientErr.StatusCode
		}
	}
	c.metrics.RecordRequest(method, endpoint, status, time.Since(start))
}

func (c *Client) annotate(err error, cfg *RequestConfig, requestID string) {
	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		return
	}
	clientErr.RequestID = requestID
	clientErr.Method = methodLabel(cfg.Method)
	clientErr.URL = cfg.URL
	clientErr.Endpoint = endpointOf(cfg.URL)
}

func (c *Client) logTransformFailure(requestID string, err error) {
	if logger := c.debugLogger(logTransforms); logger != nil {
		logger.Warn("Transform failed", "requestID", requestID, "error", err.Error())
	}
}

func (c *Client) newRequestID() string {
	if c.debug == nil || !c.debug.Enabled || c.debug.RequestIDGen == nil {
		return ""
	}
	return c.debug.RequestIDGen()
}

func methodLabel(method string) string {
	if method == "" {
		return strings.ToUpper(DefaultMethod)
	}
	return strings.ToUpper(method)
}

// endpointOf reduces a URL to host + path for metrics labels.
func endpointOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}

	var builder strings.Builder
	builder.WriteString(u.Host)

	if u.Path != "" && u.Path != "/" {
		builder.WriteString(u.Path)
	} else {
		builder.WriteByte('/')
	}

	return builder.String()
}
