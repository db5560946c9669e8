package record

import "strings"

// Record is one data row keyed by the header field names. Keys keep the
// header's column order.
type Record struct {
	keys     []string
	values   map[string]string
	overflow []string
}

// New maps values onto keys by position using the same ragged-row policy
// as Parser: missing trailing values become "", surplus values are kept
// in Overflow.
func New(keys []string, values []string) Record {
	return newHeader(keys).record(values)
}

// Get returns the value stored under key. The boolean is false only when
// the key is not part of the header.
func (r Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Value returns the value stored under key or "".
func (r Record) Value(key string) string {
	return r.values[key]
}

// Keys returns the field names in header order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Map returns a copy of the field mapping.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.values))
	for k, v := range r.values {
		m[k] = v
	}
	return m
}

// Len returns the number of keyed fields.
func (r Record) Len() int {
	return len(r.keys)
}

// Overflow returns values found past the last header column.
func (r Record) Overflow() []string {
	if len(r.overflow) == 0 {
		return nil
	}
	overflow := make([]string, len(r.overflow))
	copy(overflow, r.overflow)
	return overflow
}

type header struct {
	keys  []string
	cols  []int
	width int
}

// newHeader drops blank names; on duplicate names the first column wins.
func newHeader(names []string) *header {
	h := &header{width: len(names)}
	seen := make(map[string]bool, len(names))
	for col, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		h.keys = append(h.keys, name)
		h.cols = append(h.cols, col)
	}
	return h
}

func (h *header) record(fields []string) Record {
	values := make(map[string]string, len(h.keys))
	for i, key := range h.keys {
		col := h.cols[i]
		if col < len(fields) {
			values[key] = fields[col]
		} else {
			values[key] = ""
		}
	}

	r := Record{keys: h.keys, values: values}
	if len(fields) > h.width {
		r.overflow = fields[h.width:]
	}
	return r
}
