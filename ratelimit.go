package kurir

import (
	"context"

	"go.uber.org/multierr"
	"golang.org/x/time/rate"
)

// RateLimitInterceptor returns a request interceptor that blocks until limiter
// grants a token. The wait ends early when ctx is done or the request's cancel
// token fires; the latter fails the request with the cancellation.
func RateLimitInterceptor(limiter *rate.Limiter) ResolvedFunc[*RequestConfig] {
	return func(ctx context.Context, config *RequestConfig) (*RequestConfig, error) {
		if config == nil {
			return nil, ErrNilConfig
		}

		waitCtx, stop := config.CancelToken.Context(ctx)
		defer stop()

		if err := limiter.Wait(waitCtx); err != nil {
			if reason := config.CancelToken.Reason(); reason != nil {
				return config, reason
			}
			return config, &ClientError{
				Type:    ErrorTypeRateLimit,
				Message: "rate limit wait failed",
				Cause:   multierr.Combine(ErrRateLimited, err),
				URL:     config.URL,
				Method:  methodLabel(config.Method),
			}
		}
		return config, nil
	}
}
