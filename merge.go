package kurir

// MergeConfig merges override over base and returns a new config. Neither input is
// modified. nil inputs are treated as empty configs.
//
// Fields are merged by a fixed strategy:
//
//   - URL, Params, Data: override's value if set, otherwise base's. The two are
//     never combined.
//   - Headers: merged key by key (and group by group) with override winning. An
//     unset override clones base's headers; an Exclusive override replaces them.
//   - everything else: override's value if set, otherwise base's.
func MergeConfig(base, override *RequestConfig) *RequestConfig {
	if base == nil {
		base = &RequestConfig{}
	}
	if override == nil {
		override = &RequestConfig{}
	}

	return &RequestConfig{
		URL:    pick(base.URL, override.URL),
		Params: pickValue(base.Params, override.Params),
		Data:   pickValue(base.Data, override.Data),

		Headers: mergeHeaders(base.Headers, override.Headers),

		Method:            pick(base.Method, override.Method),
		Timeout:           pick(base.Timeout, override.Timeout),
		CancelToken:       pick(base.CancelToken, override.CancelToken),
		TransformRequest:  pickTransformers(base.TransformRequest, override.TransformRequest),
		TransformResponse: pickTransformers(base.TransformResponse, override.TransformResponse),
		ValidateStatus:    pickValidator(base.ValidateStatus, override.ValidateStatus),
	}
}

func pick[T comparable](base, override T) T {
	var zero T
	if override != zero {
		return override
	}
	return base
}

func pickValue(base, override interface{}) interface{} {
	if override != nil {
		return override
	}
	return base
}

// pickTransformers copies the chosen list. A non-nil empty override is a
// deliberate "no transforms" and wins.
func pickTransformers(base, override []Transformer) []Transformer {
	chosen := base
	if override != nil {
		chosen = override
	}
	if chosen == nil {
		return nil
	}
	return append(make([]Transformer, 0, len(chosen)), chosen...)
}

func pickValidator(base, override func(int) bool) func(int) bool {
	if override != nil {
		return override
	}
	return base
}
