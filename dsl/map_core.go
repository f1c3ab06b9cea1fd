package dsl

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/reoring/recordkit"
	js "github.com/reoring/recordkit/jsonschema"
)

// MapView is the read-only result of a Map field: lookup by key and iteration
// in input order.
type MapView struct {
	m *recordkit.Mapping
}

// Get returns the value stored under key.
func (v *MapView) Get(key string) (any, bool) { return v.m.Get(key) }

// Has reports whether key is present.
func (v *MapView) Has(key string) bool { return v.m.Has(key) }

// Keys returns the keys in input order.
func (v *MapView) Keys() []string { return v.m.Keys() }

// Len returns the number of entries.
func (v *MapView) Len() int { return v.m.Len() }

// All iterates entries in input order.
func (v *MapView) All() iter.Seq2[string, any] { return v.m.All() }

// MapField coerces a mapping whose values share one descriptor.
type MapField struct {
	base
	elem recordkit.Field
}

// Map returns a map descriptor whose values are coerced by elem.
func Map(elem recordkit.Field) *MapField {
	m := &MapField{elem: elem}
	m.coerce = m.Coerce
	return m
}

// WithDefault sets the value used when the field is omitted.
func (m *MapField) WithDefault(v any) *MapField {
	m.setDefault(v)
	return m
}

// Elem returns the value descriptor.
func (m *MapField) Elem() recordkit.Field { return m.elem }

// Check validates the value descriptor and the default.
func (m *MapField) Check() error {
	if m.elem == nil {
		return errors.New("map: nil element descriptor")
	}
	if err := checkAll(m.elem); err != nil {
		return fmt.Errorf("map element: %w", err)
	}
	return m.base.Check()
}

// Coerce accepts only a mapping and coerces every value with its key as
// context key.
func (m *MapField) Coerce(ctx context.Context, raw any) (any, error) {
	src, ok := recordkit.MappingOf(raw)
	if !ok {
		return nil, recordkit.Invalid(recordkit.CodeInvalidType, "mapping", recordkit.KindOf(raw).String())
	}
	out := recordkit.NewMapping(src.Len())
	var iss recordkit.Issues
	for k, val := range src.All() {
		v, err := m.elem.Coerce(recordkit.WithKey(ctx, k), val)
		if err != nil {
			iss = recordkit.AppendIssues(iss, recordkit.IssuesFromErr(recordkit.Pointer(k), err)...)
			if recordkit.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out.Set(k, v)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return &MapView{m: out}, nil
}

// Dump renders the view back to a mapping.
func (m *MapField) Dump(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	view, ok := v.(*MapView)
	if !ok {
		return nil, fmt.Errorf("map: cannot dump %T", v)
	}
	out := recordkit.NewMapping(view.Len())
	for k, val := range view.All() {
		d, err := m.elem.Dump(val)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out.Set(k, d)
	}
	return out, nil
}

// JSONSchema describes an object whose values share one schema.
func (m *MapField) JSONSchema() *js.Schema {
	var elem any = true
	if es, ok := m.elem.(recordkit.JSONSchemaer); ok {
		elem = es.JSONSchema()
	}
	return &js.Schema{Type: "object", AdditionalProperties: elem}
}
