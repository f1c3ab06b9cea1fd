package dsl

import (
	"context"
	"errors"
	"fmt"

	"github.com/reoring/recordkit"
	"github.com/reoring/recordkit/i18n"
	js "github.com/reoring/recordkit/jsonschema"
)

// Discriminator is the reserved key naming the concrete type of a
// polymorphic value. It is never a declared field.
const Discriminator = "type"

// Resolver builds the instance named by a discriminator from the remaining
// entries. ctx carries the position (KeyFrom), the record under construction
// (ParentFrom) and any services, so a resolver may supply constructor inputs
// that the raw data does not contain.
type Resolver func(ctx context.Context, typename string, args *recordkit.Mapping) (recordkit.Instance, error)

// DefaultResolver looks the name up in reg (trying each hint prefix) and
// constructs the type directly from args.
func DefaultResolver(reg *recordkit.Registry, hints ...string) Resolver {
	return func(ctx context.Context, typename string, args *recordkit.Mapping) (recordkit.Instance, error) {
		t, err := reg.LookupType(typename, hints...)
		if err != nil {
			return nil, err
		}
		rec, err := recordkit.Construct(ctx, t, args)
		if err != nil {
			return nil, err
		}
		return rec, nil
	}
}

// ObjectField holds exactly one instance of a type chosen at construction
// time by the discriminator.
type ObjectField struct {
	base
	baseType *recordkit.Type
	resolver Resolver
	registry *recordkit.Registry
	hints    []string
}

// Object returns a polymorphic descriptor using the default resolver over
// recordkit.Default.
func Object() *ObjectField {
	o := &ObjectField{}
	o.coerce = o.Coerce
	o.fresh = true
	return o
}

// Base restricts resolved instances to t and its descendants.
func (o *ObjectField) Base(t *recordkit.Type) *ObjectField {
	o.baseType = t
	return o
}

// Resolver replaces the default resolver.
func (o *ObjectField) Resolver(r Resolver) *ObjectField {
	o.resolver = r
	return o
}

// Registry sets the registry used by the default resolver.
func (o *ObjectField) Registry(reg *recordkit.Registry) *ObjectField {
	o.registry = reg
	return o
}

// Hints sets name prefixes tried by the default resolver.
func (o *ObjectField) Hints(prefixes ...string) *ObjectField {
	o.hints = append(o.hints, prefixes...)
	return o
}

// WithDefault sets the raw mapping used when the field is omitted.
func (o *ObjectField) WithDefault(v any) *ObjectField {
	o.setDefault(v)
	return o
}

// Optional makes the field default to nil.
func (o *ObjectField) Optional() *ObjectField { return o.WithDefault(nil) }

func (o *ObjectField) registryOrDefault() *recordkit.Registry {
	if o.registry != nil {
		return o.registry
	}
	return recordkit.Default
}

// Coerce splits the discriminator off a mapping and calls the resolver once
// with the remaining entries. Null yields nil.
func (o *ObjectField) Coerce(ctx context.Context, raw any) (any, error) {
	if recordkit.KindOf(raw) == recordkit.KindNull {
		return nil, nil
	}
	m, ok := recordkit.MappingOf(raw)
	if !ok {
		return nil, recordkit.Invalid(recordkit.CodeInvalidType, "mapping with a "+Discriminator+" entry", recordkit.KindOf(raw).String())
	}
	tag, _ := m.Get(Discriminator)
	name, _ := tag.(string)
	if name == "" {
		return nil, recordkit.Issues{{
			Path:    recordkit.Pointer(Discriminator),
			Code:    recordkit.CodeDiscriminatorMissing,
			Message: i18n.T(recordkit.CodeDiscriminatorMissing, nil),
		}}
	}
	args := m.Clone()
	args.Delete(Discriminator)

	resolve := o.resolver
	if resolve == nil {
		resolve = DefaultResolver(o.registryOrDefault(), o.hints...)
	}
	inst, err := resolve(ctx, name, args)
	if err != nil {
		if iss, ok := recordkit.AsIssues(err); ok {
			return nil, iss
		}
		if errors.Is(err, recordkit.ErrNotFound) {
			return nil, recordkit.Issues{{
				Path:    recordkit.Pointer(Discriminator),
				Code:    recordkit.CodeDiscriminatorUnknown,
				Message: i18n.T(recordkit.CodeDiscriminatorUnknown, nil),
				Hint:    "unknown type: '" + name + "'",
				Cause:   err,
			}}
		}
		return nil, recordkit.IssuesFromErr("/", err)
	}
	if inst == nil || inst.Schema() == nil {
		return nil, recordkit.IssuesFromErr("/", fmt.Errorf("resolver returned no instance for %q", name))
	}
	if o.baseType != nil && !inst.Schema().IsA(o.baseType) {
		return nil, recordkit.Issues{{
			Path:    recordkit.Pointer(Discriminator),
			Code:    recordkit.CodeInvalidType,
			Message: i18n.T(recordkit.CodeInvalidType, map[string]string{"expected": o.baseType.Name()}),
			Hint:    fmt.Sprintf("%s is not a %s", inst.Schema().Name(), o.baseType.Name()),
		}}
	}
	return inst, nil
}

// Dump renders the instance and puts its registered type name first.
func (o *ObjectField) Dump(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	inst, ok := v.(recordkit.Instance)
	if !ok {
		return nil, fmt.Errorf("object: cannot dump %T", v)
	}
	m, err := inst.Dump()
	if err != nil {
		return nil, err
	}
	out := m.Clone()
	out.Prepend(Discriminator, inst.Schema().Name())
	return out, nil
}

// JSONSchema lists every registered subtype of the base type, each pinned by
// its discriminator value. Without a base type only the discriminator is
// described.
func (o *ObjectField) JSONSchema() *js.Schema {
	if o.baseType == nil {
		return &js.Schema{
			Type:       "object",
			Properties: map[string]*js.Schema{Discriminator: {Type: "string"}},
			Required:   []string{Discriminator},
		}
	}
	reg := o.registryOrDefault()
	out := &js.Schema{}
	for _, name := range reg.TypeNames() {
		t, err := reg.LookupType(name)
		if err != nil || !t.IsA(o.baseType) {
			continue
		}
		vs := recordkit.JSONSchema(t)
		vs.Properties[Discriminator] = &js.Schema{Type: "string", Const: name}
		vs.Required = append([]string{Discriminator}, vs.Required...)
		out.AnyOf = append(out.AnyOf, vs)
	}
	return out
}
