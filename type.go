package recordkit

import (
	"fmt"
)

// Type is a named, ordered set of fields. Its field list merges every
// ancestor's fields (ancestor first) with its own; a redeclared name replaces
// the ancestor's descriptor and keeps the ancestor's position. A Type is
// immutable once built and safe to share.
type Type struct {
	name      string
	parents   []*Type
	ancestors []*Type
	own       []FieldEntry
	fields    []FieldEntry
	index     map[string]int
}

// Name returns the registered type name, used as the polymorphic
// discriminator value.
func (t *Type) Name() string { return t.name }

// String implements fmt.Stringer.
func (t *Type) String() string { return t.name }

// Fields returns the merged field list in declaration order.
func (t *Type) Fields() []FieldEntry { return append([]FieldEntry(nil), t.fields...) }

// FieldNames returns the merged field names in declaration order.
func (t *Type) FieldNames() []string {
	out := make([]string, len(t.fields))
	for i, e := range t.fields {
		out[i] = e.Name
	}
	return out
}

// Field returns the descriptor declared (or inherited) under name.
func (t *Type) Field(name string) (Field, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.fields[i].Field, true
}

// Parents returns the direct parents given to Extends.
func (t *Type) Parents() []*Type { return append([]*Type(nil), t.parents...) }

// Ancestors returns every ancestor, most distant first, without duplicates.
func (t *Type) Ancestors() []*Type { return append([]*Type(nil), t.ancestors...) }

// IsA reports whether t is base or descends from it.
func (t *Type) IsA(base *Type) bool {
	if t == base {
		return true
	}
	for _, a := range t.ancestors {
		if a == base {
			return true
		}
	}
	return false
}

// Required reports whether at least one field has no default.
func (t *Type) Required() bool {
	for _, e := range t.fields {
		if e.Field.Required() {
			return true
		}
	}
	return false
}

// Understands reports whether key is claimed by a field of t, directly or
// through an include.
func (t *Type) Understands(key string) bool {
	for _, e := range t.fields {
		if inc, ok := e.Field.(Includer); ok {
			if inc.Included().Understands(key) {
				return true
			}
			continue
		}
		if e.Name == key {
			return true
		}
	}
	return false
}

// Filter returns the entries of m that t understands, in t's field order.
func (t *Type) Filter(m *Mapping) *Mapping {
	out := NewMapping(0)
	for _, e := range t.fields {
		if inc, ok := e.Field.(Includer); ok {
			for k, v := range inc.Included().Filter(m).All() {
				out.Set(k, v)
			}
			continue
		}
		if v, ok := m.Get(e.Name); ok {
			out.Set(e.Name, v)
		}
	}
	return out
}

// TypeBuilder declares a Type.
type TypeBuilder struct {
	name    string
	parents []*Type
	own     []FieldEntry
	errs    []error
}

// Define starts the declaration of a schema type.
func Define(name string) *TypeBuilder { return &TypeBuilder{name: name} }

// Extends sets the parents whose fields are inherited, in order.
func (b *TypeBuilder) Extends(parents ...*Type) *TypeBuilder {
	for _, p := range parents {
		if p == nil {
			b.errs = append(b.errs, &DefinitionError{Type: b.name, Reason: "nil parent type"})
			continue
		}
		b.parents = append(b.parents, p)
	}
	return b
}

// Field declares a field owned by this type.
func (b *TypeBuilder) Field(name string, f Field) *TypeBuilder {
	switch {
	case name == "":
		b.errs = append(b.errs, &DefinitionError{Type: b.name, Reason: "empty field name"})
		return b
	case f == nil:
		b.errs = append(b.errs, &DefinitionError{Type: b.name, Field: name, Reason: "nil descriptor"})
		return b
	}
	for _, e := range b.own {
		if e.Name == name {
			b.errs = append(b.errs, &DefinitionError{Type: b.name, Field: name, Reason: "declared twice"})
			return b
		}
	}
	if c, ok := f.(Checker); ok {
		if err := c.Check(); err != nil {
			b.errs = append(b.errs, &DefinitionError{Type: b.name, Field: name, Cause: err})
		}
	}
	b.own = append(b.own, FieldEntry{Name: name, Field: f})
	return b
}

// Build resolves the ancestry once and returns the immutable type.
func (b *TypeBuilder) Build() (*Type, error) {
	if b.name == "" {
		return nil, &DefinitionError{Reason: "empty type name"}
	}
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	t := &Type{name: b.name, parents: b.parents, own: b.own}
	t.ancestors = linearize(b.parents)

	t.index = map[string]int{}
	merge := func(entries []FieldEntry) {
		for _, e := range entries {
			if i, ok := t.index[e.Name]; ok {
				t.fields[i] = e
				continue
			}
			t.index[e.Name] = len(t.fields)
			t.fields = append(t.fields, e)
		}
	}
	for _, a := range t.ancestors {
		merge(a.own)
	}
	merge(t.own)
	return t, nil
}

// MustBuild is Build for package-level declarations; it panics on error.
func (b *TypeBuilder) MustBuild() *Type {
	t, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("recordkit: %v", err))
	}
	return t
}

// linearize lists every ancestor of parents, most distant first, keeping the
// first occurrence of a type reached through several paths.
func linearize(parents []*Type) []*Type {
	var out []*Type
	seen := map[*Type]struct{}{}
	for _, p := range parents {
		for _, a := range append(p.Ancestors(), p) {
			if _, dup := seen[a]; dup {
				continue
			}
			seen[a] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}
