package kurir

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Get looks up a gjson path in the response data. Raw bodies are queried directly;
// decoded data is re-encoded first. A missing path yields a result whose Exists
// reports false.
func (r *Response) Get(path string) gjson.Result {
	if r == nil {
		return gjson.Result{}
	}
	switch d := r.Data.(type) {
	case nil:
		return gjson.Result{}
	case []byte:
		return gjson.GetBytes(d, path)
	case string:
		return gjson.Get(d, path)
	}

	raw, err := json.Marshal(r.Data)
	if err != nil {
		return gjson.Result{}
	}
	return gjson.GetBytes(raw, path)
}

// Header returns a response header value, matched case-insensitively.
func (r *Response) Header(name string) string {
	if r == nil {
		return ""
	}
	return r.Headers.Get(name)
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}
