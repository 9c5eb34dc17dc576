package protocol

import "strings"

// Headers is an ordered set of SSDP header fields.
//
// Lookups are case-insensitive. The casing used when a key is first inserted
// is the casing written on encode; later Set calls replace the value but keep
// the original key and position. The zero value is ready to use.
type Headers struct {
	keys   []string
	values []string
	index  map[string]int // lower-cased key -> position
}

// NewHeaders returns an empty header set.
func NewHeaders() *Headers {
	return &Headers{index: make(map[string]int)}
}

// Set inserts or replaces a header value.
func (h *Headers) Set(key, value string) {
	if h.index == nil {
		h.index = make(map[string]int)
	}

	folded := strings.ToLower(key)
	if i, ok := h.index[folded]; ok {
		h.values[i] = value
		return
	}

	h.index[folded] = len(h.keys)
	h.keys = append(h.keys, key)
	h.values = append(h.values, value)
}

// Get returns the value for key and whether it was present.
func (h *Headers) Get(key string) (string, bool) {
	if h == nil || h.index == nil {
		return "", false
	}
	i, ok := h.index[strings.ToLower(key)]
	if !ok {
		return "", false
	}
	return h.values[i], true
}

// Value returns the value for key, or "" when absent.
func (h *Headers) Value(key string) string {
	v, _ := h.Get(key)
	return v
}

// Has reports whether key is present.
func (h *Headers) Has(key string) bool {
	_, ok := h.Get(key)
	return ok
}

// Del removes key, preserving the order of the remaining headers.
func (h *Headers) Del(key string) {
	if h == nil || h.index == nil {
		return
	}
	folded := strings.ToLower(key)
	i, ok := h.index[folded]
	if !ok {
		return
	}

	h.keys = append(h.keys[:i], h.keys[i+1:]...)
	h.values = append(h.values[:i], h.values[i+1:]...)
	delete(h.index, folded)
	for j := i; j < len(h.keys); j++ {
		h.index[strings.ToLower(h.keys[j])] = j
	}
}

// Len returns the number of headers.
func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.keys)
}

// Keys returns the header keys in insertion order, as stored.
func (h *Headers) Keys() []string {
	if h == nil {
		return nil
	}
	out := make([]string, len(h.keys))
	copy(out, h.keys)
	return out
}

// Each calls fn for every header in insertion order.
func (h *Headers) Each(fn func(key, value string)) {
	if h == nil {
		return
	}
	for i, k := range h.keys {
		fn(k, h.values[i])
	}
}

// Map returns a copy of the headers keyed by lower-cased name.
func (h *Headers) Map() map[string]string {
	out := make(map[string]string, h.Len())
	h.Each(func(k, v string) {
		out[strings.ToLower(k)] = v
	})
	return out
}
