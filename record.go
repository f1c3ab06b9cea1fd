package recordkit

import (
	"fmt"
	"slices"
	"sync"
)

// Instance is a constructed value of some schema type: a *Record or a domain
// struct that embeds one.
type Instance interface {
	Schema() *Type
	Dump() (*Mapping, error)
}

// Record is an immutable value built by Construct. Declared fields can only
// be read; auxiliary values may be attached under undeclared names.
type Record struct {
	typ    *Type
	values []any

	mu  sync.RWMutex
	aux map[string]any
}

var _ Instance = (*Record)(nil)

// Schema returns the record's type.
func (r *Record) Schema() *Type { return r.typ }

// Get returns the value of a declared field. Fields brought in by an include
// are reachable by their own names.
func (r *Record) Get(name string) (any, bool) {
	if i, ok := r.typ.index[name]; ok {
		return r.values[i], true
	}
	for i, e := range r.typ.fields {
		if !e.IsInclude() {
			continue
		}
		if sub, ok := r.values[i].(*Record); ok && sub != nil {
			if v, ok := sub.Get(name); ok {
				return v, true
			}
		}
	}
	return nil, false
}

// Value returns the named field converted to T.
func Value[T any](r *Record, name string) (T, bool) {
	v, ok := r.Get(name)
	if !ok {
		var zero T
		return zero, false
	}
	tv, ok := v.(T)
	return tv, ok
}

// Int returns an integer field, or 0.
func (r *Record) Int(name string) int64 {
	v, _ := Value[int64](r, name)
	return v
}

// Float returns a float field, or 0.
func (r *Record) Float(name string) float64 {
	v, _ := Value[float64](r, name)
	return v
}

// String returns a string field, or "".
func (r *Record) String(name string) string {
	v, _ := Value[string](r, name)
	return v
}

// Bool returns a boolean field, or false.
func (r *Record) Bool(name string) bool {
	v, _ := Value[bool](r, name)
	return v
}

// List returns a copy of a list field.
func (r *Record) List(name string) []any {
	v, _ := Value[[]any](r, name)
	return slices.Clone(v)
}

// Record returns a nested or included record field, or nil.
func (r *Record) Record(name string) *Record {
	v, _ := Value[*Record](r, name)
	return v
}

// Instance returns a polymorphic field, or nil.
func (r *Record) Instance(name string) Instance {
	v, _ := Value[Instance](r, name)
	return v
}

// Attach stores an auxiliary value outside the schema contract. Declared
// field names are read-only. Records filled in from a Nested or Object
// default are built per owner, so attachments never leak between owners.
func (r *Record) Attach(key string, v any) error {
	if _, declared := r.typ.index[key]; declared || r.typ.Understands(key) {
		return fmt.Errorf("%w: %s.%s", ErrReadOnly, r.typ.name, key)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.aux == nil {
		r.aux = map[string]any{}
	}
	r.aux[key] = v
	return nil
}

// Attached returns an auxiliary value stored with Attach.
func (r *Record) Attached(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.aux[key]
	return v, ok
}

// Dump renders the record back to raw data in declaration order, merging
// included fields flat into the result.
func (r *Record) Dump() (*Mapping, error) {
	out := NewMapping(len(r.typ.fields))
	for i, e := range r.typ.fields {
		d, err := e.Field.Dump(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("dump %s.%s: %w", r.typ.name, e.Name, err)
		}
		if e.IsInclude() {
			if sub, ok := d.(*Mapping); ok {
				for k, v := range sub.All() {
					out.Set(k, v)
				}
			}
			continue
		}
		out.Set(e.Name, d)
	}
	return out, nil
}
