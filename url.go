package kurir

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// URLBuilder combines a request URL with its params. Implementations must be pure.
type URLBuilder interface {
	Build(rawURL string, params interface{}) (string, error)
}

// URLBuilderFunc adapts a function to the URLBuilder interface.
type URLBuilderFunc func(rawURL string, params interface{}) (string, error)

// Build implements URLBuilder.
func (f URLBuilderFunc) Build(rawURL string, params interface{}) (string, error) {
	return f(rawURL, params)
}

// QueryURLBuilder appends params to the URL as a sorted query string. Any fragment
// is dropped. Slices repeat their key with a "[]" suffix, times are written in
// RFC 3339, nested objects are JSON-encoded and nil values are skipped.
type QueryURLBuilder struct{}

// Build implements URLBuilder.
func (QueryURLBuilder) Build(rawURL string, params interface{}) (string, error) {
	query, err := encodeParams(params)
	if err != nil {
		return "", err
	}
	if query == "" {
		return rawURL, nil
	}

	if idx := strings.IndexByte(rawURL, '#'); idx != -1 {
		rawURL = rawURL[:idx]
	}
	sep := "?"
	if strings.Contains(rawURL, "?") {
		sep = "&"
	}
	return rawURL + sep + query, nil
}

func encodeParams(params interface{}) (string, error) {
	switch p := params.(type) {
	case nil:
		return "", nil
	case string:
		return p, nil
	case url.Values:
		return p.Encode(), nil
	case map[string]string:
		values := make(url.Values, len(p))
		for k, v := range p {
			values.Set(k, v)
		}
		return values.Encode(), nil
	case map[string][]string:
		return url.Values(p).Encode(), nil
	}

	var fields map[string]interface{}
	if err := mapstructure.Decode(params, &fields); err != nil {
		return "", fmt.Errorf("unsupported params type %T: %w", params, err)
	}

	values := make(url.Values, len(fields))
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := addParam(values, key, fields[key]); err != nil {
			return "", err
		}
	}
	return values.Encode(), nil
}

func addParam(values url.Values, key string, value interface{}) error {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
		for i := 0; i < rv.Len(); i++ {
			encoded, err := paramString(rv.Index(i).Interface())
			if err != nil {
				return err
			}
			values.Add(key+"[]", encoded)
		}
		return nil
	}

	encoded, err := paramString(value)
	if err != nil {
		return err
	}
	values.Add(key, encoded)
	return nil
}

func paramString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	if isPlainObject(value) {
		raw, err := json.Marshal(value)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	return fmt.Sprint(value), nil
}
