package kurir

import "time"

// Content types declared by the default configuration and transforms.
const (
	ContentTypeJSON = "application/json;charset=utf-8"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

const (
	// DefaultMethod is used when neither the request nor the defaults set one
	DefaultMethod = "get"
	// DefaultTimeout is the default transport timeout
	DefaultTimeout = 30 * time.Second
	// DefaultAccept is sent on every request unless overridden
	DefaultAccept = "application/json, text/plain, */*"
)

var (
	methodsNoData   = []string{"delete", "get", "head", "options"}
	methodsWithData = []string{"post", "put", "patch"}
)

// DefaultConfig returns a fresh copy of the built-in base configuration: common
// Accept and User-Agent headers, a form content type for methods that carry a
// body, and the default JSON transforms.
func DefaultConfig() *RequestConfig {
	headers := NewHeader()
	common := headers.EnsureGroup(HeaderGroupCommon)
	common.Set(HeaderAccept, DefaultAccept)
	common.Set(HeaderUserAgent, UserAgent())
	for _, method := range methodsNoData {
		headers.EnsureGroup(method)
	}
	for _, method := range methodsWithData {
		headers.EnsureGroup(method).Set(HeaderContentType, ContentTypeForm)
	}

	return &RequestConfig{
		Method:            DefaultMethod,
		Timeout:           DefaultTimeout,
		Headers:           headers,
		TransformRequest:  []Transformer{DefaultTransformRequest},
		TransformResponse: []Transformer{DefaultTransformResponse},
		ValidateStatus:    DefaultValidateStatus,
	}
}

// DefaultValidateStatus accepts 2xx status codes.
func DefaultValidateStatus(status int) bool {
	return status >= 200 && status < 300
}
