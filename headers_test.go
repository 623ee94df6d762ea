package kurir

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderSetIsCaseInsensitive(t *testing.T) {
	h := NewHeader()
	h.Set("x-trace", "1")
	h.Set("X-Trace", "2")

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, "2", h.Get("X-TRACE"))
	assert.Equal(t, []string{"X-Trace"}, h.Names())
}

func TestHeaderKeepsInsertionOrder(t *testing.T) {
	h := NewHeaders("B", "2", "A", "1", "C", "3")
	assert.Equal(t, []string{"B", "A", "C"}, h.Names())

	h.Del("a")
	assert.Equal(t, []string{"B", "C"}, h.Names())
	assert.False(t, h.Has("A"))
}

func TestHeaderNilReceiver(t *testing.T) {
	var h *Header
	assert.Equal(t, "", h.Get("X"))
	assert.False(t, h.Has("X"))
	assert.Equal(t, 0, h.Len())
	assert.Nil(t, h.Clone())
	h.Each(func(string, string) { t.Fatal("nil header has no entries") })
}

func TestNewHeadersDanglingKey(t *testing.T) {
	h := NewHeaders("X-Only")
	assert.True(t, h.Has("x-only"))
	assert.Equal(t, "", h.Get("X-Only"))
}

func TestHeaderFromMapIsSorted(t *testing.T) {
	h := HeaderFromMap(map[string]string{"b": "2", "a": "1"})
	assert.Equal(t, []string{"a", "b"}, h.Names())
}

func TestHeaderCloneIsDeep(t *testing.T) {
	h := NewHeaders("X", "1")
	h.EnsureGroup("post").Set("Y", "2")

	clone := h.Clone()
	clone.Set("X", "changed")
	clone.Group("post").Set("Y", "changed")

	assert.Equal(t, "1", h.Get("X"))
	assert.Equal(t, "2", h.Group("post").Get("Y"))
}

func TestNormalizeHeaderName(t *testing.T) {
	h := NewHeaders("content-type", "text/plain")
	NormalizeHeaderName(h, HeaderContentType)

	assert.Equal(t, []string{"Content-Type"}, h.Names())
	assert.Equal(t, "text/plain", h.Get(HeaderContentType))
}

func TestNormalizeHeaderNameCollisionKeepsOneEntry(t *testing.T) {
	h := NewHeaders("content-type", "text/plain", "CONTENT-TYPE", "text/html")
	NormalizeHeaderName(h, HeaderContentType)

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, []string{"Content-Type"}, h.Names())
	assert.Equal(t, "text/html", h.Get(HeaderContentType))
}

func TestProcessHeadersDefaultsToJSON(t *testing.T) {
	h := ProcessHeaders(NewHeader(), map[string]interface{}{"a": 1})
	assert.Equal(t, "application/json;charset=utf-8", h.Get(HeaderContentType))
}

func TestProcessHeadersKeepsDeclaredContentType(t *testing.T) {
	h := ProcessHeaders(NewHeaders("content-type", "text/plain"), map[string]interface{}{"a": 1})
	assert.Equal(t, "text/plain", h.Get(HeaderContentType))
	assert.Equal(t, []string{"Content-Type"}, h.Names())
}

func TestProcessHeadersIgnoresNonObjects(t *testing.T) {
	for _, data := range []interface{}{nil, "text", []byte("raw"), []int{1, 2}, 42} {
		h := ProcessHeaders(NewHeader(), data)
		assert.False(t, h.Has(HeaderContentType), "data %#v", data)
	}
	assert.Nil(t, ProcessHeaders(nil, map[string]string{"a": "b"}))
}

func TestFlattenHeaders(t *testing.T) {
	h := NewHeaders("X-Top", "top")
	h.EnsureGroup(HeaderGroupCommon).Set("Accept", "common")
	h.EnsureGroup(HeaderGroupCommon).Set("X-Shared", "common")
	h.EnsureGroup("post").Set("X-Shared", "post")
	h.EnsureGroup("get").Set("X-Get", "get")

	flat := FlattenHeaders(h, "POST")

	assert.Equal(t, "common", flat.Get("Accept"))
	assert.Equal(t, "post", flat.Get("X-Shared"))
	assert.Equal(t, "top", flat.Get("X-Top"))
	assert.False(t, flat.Has("X-Get"))
	assert.Empty(t, flat.Groups())
}

func TestFlattenHeadersTopLevelWins(t *testing.T) {
	h := NewHeaders("Content-Type", ContentTypeJSON)
	h.EnsureGroup("post").Set("Content-Type", ContentTypeForm)

	assert.Equal(t, ContentTypeJSON, FlattenHeaders(h, "post").Get(HeaderContentType))
}

func TestParseHeadersLowerCases(t *testing.T) {
	src := http.Header{}
	src.Set("Content-Type", "application/json")
	src.Add("Set-Cookie", "a=1")
	src.Add("Set-Cookie", "b=2")

	h := ParseHeaders(src)
	require.Equal(t, []string{"content-type", "set-cookie"}, h.Names())
	assert.Equal(t, "a=1, b=2", h.Get("set-cookie"))
}

func TestHeaderHTTPHeader(t *testing.T) {
	h := NewHeaders("x-a", "1")
	assert.Equal(t, "1", h.HTTPHeader().Get("X-A"))
	assert.Equal(t, map[string]string{"x-a": "1"}, h.Map())
}
