// Package kurir is the request-processing core of an HTTP client: it turns a
// caller's RequestConfig into a finalized request, hands it to a transport
// Adapter and returns a normalized Response.
//
// A dispatch runs these steps in order:
//
//   - request interceptors, last registered first
//   - cancel token pre-flight check (a cancelled token never reaches the transport)
//   - merge over the client defaults (MergeConfig)
//   - URL + params (URLBuilder)
//   - header normalization and the JSON content-type default (ProcessHeaders)
//   - request transforms, then header flattening per method (FlattenHeaders)
//   - the transport call, raced against the cancel token
//   - response transforms
//   - response interceptors, in registration order
//
// Failures are values: *Cancel for cancellations (IsCancel) and *ClientError for
// transform, transport and configuration problems. Any interceptor's rejected
// handler may recover a failure.
//
// Typical usage:
//
//	client := kurir.New(
//	    kurir.WithTimeout(5*time.Second),
//	    kurir.WithHeader("X-Client", "inventory"),
//	)
//	client.Interceptors().Request.Use(func(ctx context.Context, cfg *kurir.RequestConfig) (*kurir.RequestConfig, error) {
//	    cfg.Headers = kurir.NewHeaders("Authorization", "Bearer "+token)
//	    return cfg, nil
//	}, nil)
//
//	source := kurir.NewCancelTokenSource()
//	resp, err := client.Get(ctx, "https://api.example.com/items", &kurir.RequestConfig{
//	    Params:      map[string]string{"page": "2"},
//	    CancelToken: source.Token,
//	})
//	if kurir.IsCancel(err) {
//	    // cancelled through source.Cancel
//	}
//
// The built-in HTTPAdapter sends requests with net/http; Prometheus metrics
// (WithMetrics) and debug logging (WithSimpleLogger, WithDebugConfig) are opt-in.
package kurir
