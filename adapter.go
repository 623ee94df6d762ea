package kurir

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPAdapter is the default transport adapter. It sends finalized configs through
// a net/http client, optionally wrapped in middleware.
type HTTPAdapter struct {
	httpClient *http.Client
	middleware []Middleware
}

// NewHTTPAdapter returns an adapter using httpClient (a fresh client when nil) and
// the given middleware. Middleware run in the order given, the first one outermost.
func NewHTTPAdapter(httpClient *http.Client, middleware ...Middleware) *HTTPAdapter {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPAdapter{
		httpClient: httpClient,
		middleware: append([]Middleware(nil), middleware...),
	}
}

// Send implements Adapter. The config timeout becomes a deadline on ctx. Statuses
// rejected by ValidateStatus come back as Transport errors that still carry the
// response.
func (a *HTTPAdapter) Send(ctx context.Context, config *RequestConfig) (*Response, error) {
	start := time.Now()
	method := strings.ToUpper(config.Method)
	if method == "" {
		method = http.MethodGet
	}

	body, err := requestBody(config.Data)
	if err != nil {
		return nil, a.transportError(config, method, "unsupported request data", err, start)
	}

	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, config.URL, body)
	if err != nil {
		return nil, a.transportError(config, method, "invalid request", err, start)
	}
	config.Headers.Each(func(name, value string) {
		if body == nil && strings.EqualFold(name, HeaderContentType) {
			return
		}
		req.Header.Set(name, value)
	})

	resp, err := a.executeMiddleware(req)
	if err != nil {
		message := "network request failed"
		if errors.Is(err, context.DeadlineExceeded) && config.Timeout > 0 {
			message = fmt.Sprintf("timeout of %s exceeded", config.Timeout)
		}
		return nil, a.transportError(config, method, message, err, start)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, a.transportError(config, method, "read response body", err, start)
	}

	response := &Response{
		Data:       data,
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Headers:    ParseHeaders(resp.Header),
		Config:     config,
		Request:    req,
	}

	validate := config.ValidateStatus
	if validate == nil {
		validate = DefaultValidateStatus
	}
	if !validate(resp.StatusCode) {
		clientErr := a.transportError(config, method, fmt.Sprintf("request failed with status code %d", resp.StatusCode), nil, start)
		clientErr.StatusCode = resp.StatusCode
		clientErr.Response = response
		return nil, clientErr
	}
	return response, nil
}

func (a *HTTPAdapter) executeMiddleware(req *http.Request) (*http.Response, error) {
	if len(a.middleware) == 0 {
		return a.httpClient.Do(req)
	}

	current := RoundTripperFunc(a.httpClient.Do)

	// last middleware wraps the client, first middleware runs first
	for i := len(a.middleware) - 1; i >= 0; i-- {
		middleware := a.middleware[i]
		next := current
		current = RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return middleware(r, next)
		})
	}

	return current.RoundTrip(req)
}

func (a *HTTPAdapter) transportError(config *RequestConfig, method, message string, cause error, start time.Time) *ClientError {
	return &ClientError{
		Type:      ErrorTypeTransport,
		Message:   message,
		Cause:     cause,
		Method:    method,
		URL:       config.URL,
		Endpoint:  endpointOf(config.URL),
		Timestamp: time.Now(),
		Duration:  time.Since(start),
	}
}

func requestBody(data interface{}) (io.Reader, error) {
	switch d := data.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(d), nil
	case string:
		return strings.NewReader(d), nil
	case io.Reader:
		return d, nil
	default:
		return nil, fmt.Errorf("cannot send %T; add a request transform that serializes it", data)
	}
}
