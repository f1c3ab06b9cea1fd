package recordkit

import (
	"context"
	"fmt"

	"github.com/reoring/recordkit/i18n"
)

// Construct builds a record of t from a raw mapping (nil counts as empty).
//
// Fields are visited in declaration order. A supplied value is coerced with
// the field name as context key; an absent field takes its default. Every
// coercion failure, every missing required field and every key no field
// claimed is reported together in one Issues value; no record is returned
// unless all of them are absent.
func Construct(ctx context.Context, t *Type, raw any) (*Record, error) {
	if t == nil {
		return nil, &DefinitionError{Reason: "construct of nil type"}
	}
	var m *Mapping
	switch KindOf(raw) {
	case KindNull:
		m = NewMapping(0)
	case KindMapping:
		m, _ = MappingOf(raw)
	default:
		return nil, Invalid(CodeInvalidType, "mapping", KindOf(raw).String())
	}

	parent := &Parent{Type: t, Owner: ownerFrom(ctx)}
	fctx := withParent(WithOwner(ctx, nil), parent)
	failFast := IsFailFast(ctx)

	rec := &Record{typ: t, values: make([]any, len(t.fields))}
	claimed := make(map[string]struct{}, m.Len())
	var iss Issues

	for i, e := range t.fields {
		if inc, ok := e.Field.(Includer); ok {
			sub := inc.Included().Filter(m)
			for _, k := range sub.Keys() {
				claimed[k] = struct{}{}
			}
			v, err := inc.Coerce(WithKey(fctx, e.Name), sub)
			if err != nil {
				// included fields live at the owner's level, so no rebase
				iss = AppendIssues(iss, IssuesFromErr("/", err)...)
			} else {
				rec.values[i] = v
			}
		} else if rv, ok := m.Get(e.Name); ok {
			claimed[e.Name] = struct{}{}
			v, err := e.Field.Coerce(WithKey(fctx, e.Name), rv)
			if err != nil {
				iss = AppendIssues(iss, IssuesFromErr(Pointer(e.Name), err)...)
			} else {
				rec.values[i] = v
			}
		} else if dv, ok := e.Field.Default().Get(); ok {
			rec.values[i] = dv
		} else {
			iss = AppendIssues(iss, Issue{
				Path:    Pointer(e.Name),
				Code:    CodeRequired,
				Message: i18n.T(CodeRequired, nil),
				Hint:    fmt.Sprintf("%s requires %q", t.name, e.Name),
			})
		}
		if failFast && len(iss) > 0 {
			return nil, iss
		}
	}

	for _, k := range m.Keys() {
		if _, ok := claimed[k]; ok {
			continue
		}
		iss = AppendIssues(iss, Issue{
			Path:    Pointer(k),
			Code:    CodeUnknownKey,
			Message: i18n.T(CodeUnknownKey, nil),
			Hint:    fmt.Sprintf("%s does not declare %q", t.name, k),
		})
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return rec, nil
}

// MustConstruct is Construct for static data; it panics on error.
func MustConstruct(ctx context.Context, t *Type, raw any) *Record {
	r, err := Construct(ctx, t, raw)
	if err != nil {
		panic(fmt.Sprintf("recordkit: construct %s: %v", t.Name(), err))
	}
	return r
}
