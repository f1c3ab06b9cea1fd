package recordkit

import (
	"bytes"
	"fmt"
	"iter"
	"sort"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Mapping is a string-keyed mapping that remembers insertion order. It is the
// mapping shape produced by Dump and by the ordered decoders in source/.
type Mapping struct {
	keys   []string
	values map[string]any
}

// NewMapping returns an empty mapping with room for n keys.
func NewMapping(n int) *Mapping {
	return &Mapping{keys: make([]string, 0, n), values: make(map[string]any, n)}
}

// MappingFrom builds a mapping from alternating key/value pairs.
func MappingFrom(kv ...any) *Mapping {
	m := NewMapping(len(kv) / 2)
	for i := 0; i+1 < len(kv); i += 2 {
		m.Set(fmt.Sprint(kv[i]), kv[i+1])
	}
	return m
}

// MappingOf converts any mapping-kind value into a *Mapping. Go maps are
// unordered, so their keys are taken in sorted order.
func MappingOf(v any) (*Mapping, bool) {
	switch t := v.(type) {
	case *Mapping:
		if t == nil {
			return NewMapping(0), true
		}
		return t, true
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMapping(len(keys))
		for _, k := range keys {
			m.Set(k, t[k])
		}
		return m, true
	case map[any]any:
		keys := make([]string, 0, len(t))
		vals := make(map[string]any, len(t))
		for k, val := range t {
			ks := fmt.Sprint(k)
			keys = append(keys, ks)
			vals[ks] = val
		}
		sort.Strings(keys)
		m := NewMapping(len(keys))
		for _, k := range keys {
			m.Set(k, vals[k])
		}
		return m, true
	}
	return nil, false
}

// Set inserts or replaces key. Replacing keeps the original position.
func (m *Mapping) Set(key string, v any) {
	if m.values == nil {
		m.values = map[string]any{}
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes key, preserving the order of the remaining keys.
func (m *Mapping) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns a copy of the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// All iterates entries in insertion order.
func (m *Mapping) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy.
func (m *Mapping) Clone() *Mapping {
	out := NewMapping(m.Len())
	for k, v := range m.All() {
		out.Set(k, v)
	}
	return out
}

// Prepend inserts key in front of every other key, replacing any existing
// entry.
func (m *Mapping) Prepend(key string, v any) {
	m.Delete(key)
	if m.values == nil {
		m.values = map[string]any{}
	}
	m.keys = append([]string{key}, m.keys...)
	m.values[key] = v
}

// Plain deep-converts the mapping into map[string]any, turning nested
// mappings and sequences into plain Go values.
func (m *Mapping) Plain() map[string]any {
	out := make(map[string]any, m.Len())
	for k, v := range m.All() {
		out[k] = Plain(v)
	}
	return out
}

// Plain deep-converts any raw value: *Mapping becomes map[string]any and
// sequences become []any. Scalars are returned unchanged.
func Plain(v any) any {
	switch t := v.(type) {
	case *Mapping:
		return t.Plain()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = Plain(val)
		}
		return out
	}
	if items, ok := Items(v); ok {
		out := make([]any, len(items))
		for i, it := range items {
			out[i] = Plain(it)
		}
		return out
	}
	return v
}

// MarshalYAML emits a mapping node so key order survives serialization.
func (m *Mapping) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for k, v := range m.All() {
		kn := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		vn := &yaml.Node{}
		if err := vn.Encode(v); err != nil {
			return nil, fmt.Errorf("encode %q: %w", k, err)
		}
		node.Content = append(node.Content, kn, vn)
	}
	return node, nil
}

// MarshalJSON emits an object with keys in insertion order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	for k, v := range m.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
