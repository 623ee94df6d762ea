package kurir

import (
	"net/http"
	"sort"
	"strings"
)

// Header groups recognised by FlattenHeaders in addition to the lower-cased
// method names.
const (
	HeaderGroupCommon = "common"
)

// Well-known header names.
const (
	HeaderContentType = "Content-Type"
	HeaderAccept      = "Accept"
	HeaderRequestID   = "X-Request-ID"
	HeaderUserAgent   = "User-Agent"
)

type headerField struct {
	name  string
	value string
}

// Header is an ordered header bag keyed case-insensitively. Each entry remembers
// the casing it was last written with, so there is never more than one entry per
// name and the last write wins.
//
// Before dispatch a Header may also carry named groups ("common", "get", "post",
// ...) which FlattenHeaders folds into a single flat bag.
type Header struct {
	// Exclusive makes this Header replace the base headers outright when it is
	// used as the override side of MergeConfig.
	Exclusive bool

	keys   []string
	fields map[string]headerField

	groupKeys []string
	groups    map[string]*Header
}

// NewHeader returns an empty Header.
func NewHeader() *Header {
	return &Header{fields: make(map[string]headerField)}
}

// NewHeaders builds a Header from key/value pairs in order. A dangling key gets
// an empty value.
func NewHeaders(pairs ...string) *Header {
	h := NewHeader()
	for i := 0; i < len(pairs); i += 2 {
		value := ""
		if i+1 < len(pairs) {
			value = pairs[i+1]
		}
		h.Set(pairs[i], value)
	}
	return h
}

// HeaderFromMap builds a Header from a plain map. Keys are inserted in sorted
// order so the result is deterministic.
func HeaderFromMap(src map[string]string) *Header {
	h := NewHeader()
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Set(k, src[k])
	}
	return h
}

// ParseHeaders converts transport headers into a flat Header whose names are all
// lower-cased. Multiple values are joined with ", ".
func ParseHeaders(src http.Header) *Header {
	h := NewHeader()
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Set(strings.ToLower(k), strings.Join(src[k], ", "))
	}
	return h
}

func (h *Header) init() {
	if h.fields == nil {
		h.fields = make(map[string]headerField)
	}
}

// Set stores value under name, replacing any entry whose name differs only by case.
func (h *Header) Set(name, value string) {
	if name == "" {
		return
	}
	h.init()
	key := strings.ToLower(name)
	if _, exists := h.fields[key]; !exists {
		h.keys = append(h.keys, key)
	}
	h.fields[key] = headerField{name: name, value: value}
}

// Get returns the value stored under name, matched case-insensitively.
func (h *Header) Get(name string) string {
	if h == nil {
		return ""
	}
	return h.fields[strings.ToLower(name)].value
}

// Has reports whether an entry exists for name.
func (h *Header) Has(name string) bool {
	if h == nil {
		return false
	}
	_, ok := h.fields[strings.ToLower(name)]
	return ok
}

// Del removes the entry for name.
func (h *Header) Del(name string) {
	if h == nil {
		return
	}
	key := strings.ToLower(name)
	if _, ok := h.fields[key]; !ok {
		return
	}
	delete(h.fields, key)
	for i, k := range h.keys {
		if k == key {
			h.keys = append(h.keys[:i:i], h.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of flat entries, not counting groups.
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.keys)
}

// Names returns the stored names with their recorded casing, in insertion order.
func (h *Header) Names() []string {
	if h == nil {
		return nil
	}
	names := make([]string, 0, len(h.keys))
	for _, k := range h.keys {
		names = append(names, h.fields[k].name)
	}
	return names
}

// Each calls fn for every flat entry in insertion order.
func (h *Header) Each(fn func(name, value string)) {
	if h == nil {
		return
	}
	for _, k := range h.keys {
		f := h.fields[k]
		fn(f.name, f.value)
	}
}

// Map returns the flat entries as a plain map keyed by recorded casing.
func (h *Header) Map() map[string]string {
	out := make(map[string]string, h.Len())
	h.Each(func(name, value string) {
		out[name] = value
	})
	return out
}

// HTTPHeader converts the flat entries into an http.Header.
func (h *Header) HTTPHeader() http.Header {
	out := make(http.Header, h.Len())
	h.Each(func(name, value string) {
		out.Set(name, value)
	})
	return out
}

// Group returns the named group, or nil when it does not exist.
func (h *Header) Group(name string) *Header {
	if h == nil {
		return nil
	}
	return h.groups[strings.ToLower(name)]
}

// EnsureGroup returns the named group, creating an empty one if needed.
func (h *Header) EnsureGroup(name string) *Header {
	key := strings.ToLower(name)
	if g, ok := h.groups[key]; ok {
		return g
	}
	if h.groups == nil {
		h.groups = make(map[string]*Header)
	}
	g := NewHeader()
	h.groups[key] = g
	h.groupKeys = append(h.groupKeys, key)
	return g
}

// Groups returns the group names in creation order.
func (h *Header) Groups() []string {
	if h == nil {
		return nil
	}
	return append([]string(nil), h.groupKeys...)
}

// Clone returns a deep copy, groups included.
func (h *Header) Clone() *Header {
	if h == nil {
		return nil
	}
	out := &Header{
		Exclusive: h.Exclusive,
		keys:      append([]string(nil), h.keys...),
		fields:    make(map[string]headerField, len(h.fields)),
	}
	for k, f := range h.fields {
		out.fields[k] = f
	}
	for _, g := range h.groupKeys {
		if out.groups == nil {
			out.groups = make(map[string]*Header, len(h.groupKeys))
		}
		out.groups[g] = h.groups[g].Clone()
		out.groupKeys = append(out.groupKeys, g)
	}
	return out
}

// mergeHeaders merges override over base key by key and group by group without
// touching either input. An Exclusive override replaces base outright.
func mergeHeaders(base, override *Header) *Header {
	if override == nil {
		return base.Clone()
	}
	if override.Exclusive {
		return override.Clone()
	}

	merged := base.Clone()
	if merged == nil {
		merged = NewHeader()
	}
	override.Each(merged.Set)
	for _, g := range override.groupKeys {
		mergedGroup := mergeHeaders(merged.groups[g], override.groups[g])
		if _, ok := merged.groups[g]; !ok {
			merged.groupKeys = append(merged.groupKeys, g)
		}
		if merged.groups == nil {
			merged.groups = make(map[string]*Header)
		}
		merged.groups[g] = mergedGroup
	}
	return merged
}

// NormalizeHeaderName rewrites the entry matching canonical (case-insensitively)
// so that it carries canonical's casing.
func NormalizeHeaderName(h *Header, canonical string) {
	if h == nil {
		return
	}
	key := strings.ToLower(canonical)
	f, ok := h.fields[key]
	if !ok || f.name == canonical {
		return
	}
	f.name = canonical
	h.fields[key] = f
}

// ProcessHeaders normalizes Content-Type and, when data is a plain object and no
// content type has been declared, declares JSON.
func ProcessHeaders(h *Header, data interface{}) *Header {
	if h == nil {
		return nil
	}
	NormalizeHeaderName(h, HeaderContentType)

	if isPlainObject(data) && !h.Has(HeaderContentType) {
		h.Set(HeaderContentType, ContentTypeJSON)
	}
	return h
}

// FlattenHeaders folds the common group, then the group for method, then the
// top-level entries into one flat Header. Later sources win. Groups are dropped.
func FlattenHeaders(h *Header, method string) *Header {
	flat := NewHeader()
	if h == nil {
		return flat
	}
	h.Group(HeaderGroupCommon).Each(flat.Set)
	h.Group(method).Each(flat.Set)
	h.Each(flat.Set)
	return flat
}
