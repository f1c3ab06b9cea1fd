package dsl

import (
	"context"
	"errors"
	"fmt"

	"github.com/reoring/recordkit"
	js "github.com/reoring/recordkit/jsonschema"
)

var errNilType = errors.New("base is not a schema type")

// NestedField embeds a record of another type under its own name.
type NestedField struct {
	base
	typ *recordkit.Type
}

// Nested returns a descriptor constructing t from a mapping.
func Nested(t *recordkit.Type) *NestedField {
	n := &NestedField{typ: t}
	n.coerce = n.Coerce
	n.fresh = true
	return n
}

// WithDefault sets the raw mapping used when the field is omitted.
func (n *NestedField) WithDefault(v any) *NestedField {
	n.setDefault(v)
	return n
}

// Optional makes the field default to nil.
func (n *NestedField) Optional() *NestedField { return n.WithDefault(nil) }

// Type returns the nested type.
func (n *NestedField) Type() *recordkit.Type { return n.typ }

// Check rejects a missing base type and a default that does not construct.
func (n *NestedField) Check() error {
	if n.typ == nil {
		return errNilType
	}
	return n.base.Check()
}

// Required is true only when no default was given and the nested type
// itself has a required field.
func (n *NestedField) Required() bool {
	return n.base.Required() && n.typ != nil && n.typ.Required()
}

// Default returns the explicit default or, when the nested type has no
// required field, a record built from its own defaults. Each call builds a
// new record.
func (n *NestedField) Default() recordkit.Optional {
	if n.base.hasRaw || n.typ == nil {
		return n.base.Default()
	}
	if n.typ.Required() {
		return recordkit.None()
	}
	rec, err := recordkit.Construct(context.Background(), n.typ, nil)
	if err != nil {
		return recordkit.None()
	}
	return recordkit.Some(rec)
}

// Coerce constructs the nested type from a mapping; null yields nil.
func (n *NestedField) Coerce(ctx context.Context, raw any) (any, error) {
	switch recordkit.KindOf(raw) {
	case recordkit.KindNull:
		return nil, nil
	case recordkit.KindMapping:
		return construct(ctx, n.typ, raw)
	}
	return nil, recordkit.Invalid(recordkit.CodeInvalidType, "mapping", recordkit.KindOf(raw).String())
}

// Dump renders the nested record, or nil.
func (n *NestedField) Dump(v any) (any, error) { return dumpInstance(v) }

// JSONSchema projects the nested type.
func (n *NestedField) JSONSchema() *js.Schema {
	if n.typ == nil {
		return &js.Schema{}
	}
	return recordkit.JSONSchema(n.typ)
}

// IncludeField flattens another type's fields into its owner. The engine
// hands it the subset of the owner's input that the included type
// understands, and its dump is merged into the owner's dump.
type IncludeField struct {
	typ *recordkit.Type
}

var _ recordkit.Includer = (*IncludeField)(nil)

// Include returns a descriptor flattening t into the owner.
func Include(t *recordkit.Type) *IncludeField { return &IncludeField{typ: t} }

// Included returns the flattened type.
func (i *IncludeField) Included() *recordkit.Type { return i.typ }

// Check rejects a missing base type.
func (i *IncludeField) Check() error {
	if i.typ == nil {
		return errNilType
	}
	return nil
}

// Default is absent; includes are always constructed from the owner's input.
func (i *IncludeField) Default() recordkit.Optional { return recordkit.None() }

// Required is false: missing included fields are reported by name instead.
func (i *IncludeField) Required() bool { return false }

// Filter returns the entries of raw understood by the included type.
func (i *IncludeField) Filter(raw *recordkit.Mapping) *recordkit.Mapping { return i.typ.Filter(raw) }

// Coerce constructs the included type. The owner of the enclosing record is
// passed through so includes stay transparent to resolvers.
func (i *IncludeField) Coerce(ctx context.Context, raw any) (any, error) {
	if p, ok := recordkit.ParentFrom(ctx); ok && p.Owner != nil {
		ctx = recordkit.WithOwner(ctx, p.Owner)
	}
	return construct(ctx, i.typ, raw)
}

// Dump renders the included record as a mapping to merge into the owner.
func (i *IncludeField) Dump(v any) (any, error) {
	if v == nil {
		return recordkit.NewMapping(0), nil
	}
	return dumpInstance(v)
}

// construct keeps a failed construction from leaking a typed nil.
func construct(ctx context.Context, t *recordkit.Type, raw any) (any, error) {
	rec, err := recordkit.Construct(ctx, t, raw)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func dumpInstance(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	inst, ok := v.(recordkit.Instance)
	if !ok {
		return nil, fmt.Errorf("cannot dump %T as a record", v)
	}
	return inst.Dump()
}
