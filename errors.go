package kurir

import (
	"errors"
	"fmt"
	"time"
)

// Error types carried by ClientError.
const (
	ErrorTypeTransform  = "Transform"
	ErrorTypeTransport  = "Transport"
	ErrorTypeConfig     = "Config"
	ErrorTypeValidation = "Validation"
	ErrorTypeRateLimit  = "RateLimit"
)

// Sentinel errors for common failure scenarios
var (
	// ErrNilConfig is returned when a request (or a request interceptor) supplies no config
	ErrNilConfig = errors.New("kurir: nil request config")

	// ErrNoAdapter is returned when a client has no transport adapter
	ErrNoAdapter = errors.New("kurir: no transport adapter")

	// ErrNoResponse is returned when an adapter reports success without a response
	ErrNoResponse = errors.New("kurir: adapter returned no response")

	// ErrRateLimited is returned when waiting for a rate limiter token fails
	ErrRateLimited = errors.New("kurir: rate limited")
)

// ClientError describes a failed dispatch. Cancellations are not ClientErrors; see
// Cancel and IsCancel.
type ClientError struct {
	Type    string
	Message string
	Cause   error

	RequestID  string
	Method     string
	URL        string
	Endpoint   string
	StatusCode int

	// Phase and Stage locate a failing transformer ("request"/"response", index).
	Phase string
	Stage int

	// Response is set when the transport produced a response it then rejected,
	// or when a response transform failed.
	Response *Response

	Timestamp time.Time
	Duration  time.Duration
}

// Error implements error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ClientError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *ClientError) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Type: %s\n", e.Type)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.RequestID != "" {
		info += fmt.Sprintf("Request ID: %s\n", e.RequestID)
	}
	if e.Method != "" {
		info += fmt.Sprintf("Method: %s\n", e.Method)
	}
	if e.URL != "" {
		info += fmt.Sprintf("URL: %s\n", e.URL)
	}
	if e.Endpoint != "" {
		info += fmt.Sprintf("Endpoint: %s\n", e.Endpoint)
	}
	if e.StatusCode > 0 {
		info += fmt.Sprintf("Status Code: %d\n", e.StatusCode)
	}
	if e.Phase != "" {
		info += fmt.Sprintf("Transform: %s[%d]\n", e.Phase, e.Stage)
	}
	if !e.Timestamp.IsZero() {
		info += fmt.Sprintf("Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Duration > 0 {
		info += fmt.Sprintf("Duration: %v\n", e.Duration)
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}

// IsTransformError reports whether err is a failed request or response transform.
func IsTransformError(err error) bool {
	return hasType(err, ErrorTypeTransform)
}

// IsTransportError reports whether err came from the transport adapter.
func IsTransportError(err error) bool {
	return hasType(err, ErrorTypeTransport)
}

// IsConfigError reports whether err was caused by unusable configuration.
func IsConfigError(err error) bool {
	return hasType(err, ErrorTypeConfig) || hasType(err, ErrorTypeValidation)
}

func hasType(err error, errorType string) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Type == errorType
}

func newTransformError(phase string, stage int, cause error) *ClientError {
	message := "transform failed"
	if phase != "" {
		message = phase + " transform failed"
	}
	return &ClientError{
		Type:      ErrorTypeTransform,
		Message:   message,
		Cause:     cause,
		Phase:     phase,
		Stage:     stage,
		Timestamp: time.Now(),
	}
}

func newConfigError(message string, cause error) *ClientError {
	return &ClientError{
		Type:      ErrorTypeConfig,
		Message:   message,
		Cause:     cause,
		Timestamp: time.Now(),
	}
}

// errorKind labels err for metrics and logs.
func errorKind(err error) string {
	if IsCancel(err) {
		return "Cancel"
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type
	}
	return "Interceptor"
}
