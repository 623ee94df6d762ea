package kurir

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"time"

	"github.com/tidwall/gjson"

	"github.com/ambiyansyah-risyal/kurir/internal/pipeline"
)

// Transformer maps a data value to the next one. Headers are passed alongside so a
// transformer can inspect or declare metadata about the data it produces.
type Transformer func(data interface{}, headers *Header) (interface{}, error)

const (
	phaseRequest  = "request"
	phaseResponse = "response"
)

// Transform runs data through fns in order. With no transformers data is returned
// unchanged. The first failing transformer stops the run and its error is returned
// as a Transform ClientError; nothing it produced is kept.
func Transform(data interface{}, headers *Header, fns ...Transformer) (interface{}, error) {
	return runTransforms("", data, headers, fns)
}

func runTransforms(phase string, data interface{}, headers *Header, fns []Transformer) (interface{}, error) {
	for i, fn := range fns {
		if fn == nil {
			continue
		}
		current := data
		next, err := pipeline.Call(fmt.Sprintf("transform %d", i), func() (interface{}, error) {
			return fn(current, headers)
		})
		if err != nil {
			return nil, newTransformError(phase, i, err)
		}
		data = next
	}
	return data, nil
}

// DefaultTransformRequest serializes plain objects (string-keyed maps and structs)
// to JSON and form-encodes url.Values. Everything else is passed through.
func DefaultTransformRequest(data interface{}, _ *Header) (interface{}, error) {
	switch d := data.(type) {
	case nil, string, []byte, io.Reader:
		return data, nil
	case url.Values:
		return d.Encode(), nil
	}

	if !isPlainObject(data) {
		return data, nil
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode request data: %w", err)
	}
	return encoded, nil
}

// DefaultTransformResponse decodes textual bodies that hold valid JSON. Bodies that
// are not JSON are left as they are.
func DefaultTransformResponse(data interface{}, _ *Header) (interface{}, error) {
	var raw []byte
	switch d := data.(type) {
	case []byte:
		if !gjson.ValidBytes(d) {
			return data, nil
		}
		raw = d
	case string:
		if !gjson.Valid(d) {
			return data, nil
		}
		raw = []byte(d)
	default:
		return data, nil
	}

	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return data, nil
	}
	return decoded, nil
}

var (
	timeType   = reflect.TypeOf(time.Time{})
	valuesType = reflect.TypeOf(url.Values{})
	headerType = reflect.TypeOf(http.Header{})
)

// isPlainObject reports whether v is a key/value object: a map keyed by strings or
// a struct (pointers are followed). Times and the net/http and net/url multi-value
// maps are excluded.
func isPlainObject(v interface{}) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(io.Reader); ok {
		return false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		t := rv.Type()
		return t.Key().Kind() == reflect.String && t != valuesType && t != headerType
	case reflect.Struct:
		return rv.Type() != timeType
	default:
		return false
	}
}
