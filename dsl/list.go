package dsl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/recordkit"
	js "github.com/reoring/recordkit/jsonschema"
)

// ListField coerces a homogeneous sequence.
type ListField struct {
	base
	elem          recordkit.Field
	sep           string
	acceptMapping bool
}

// List returns a list descriptor whose items are coerced by elem.
func List(elem recordkit.Field) *ListField {
	l := &ListField{elem: elem, sep: ","}
	l.coerce = l.Coerce
	return l
}

// Separator sets the delimiter used to split string input (default ",").
func (l *ListField) Separator(sep string) *ListField {
	l.sep = sep
	return l
}

// AcceptMappingValues makes the list accept a mapping and take its values in
// key order, discarding the keys. Without it mapping input is rejected.
func (l *ListField) AcceptMappingValues() *ListField {
	l.acceptMapping = true
	return l
}

// WithDefault sets the value used when the field is omitted.
func (l *ListField) WithDefault(v any) *ListField {
	l.setDefault(v)
	return l
}

// Elem returns the element descriptor.
func (l *ListField) Elem() recordkit.Field { return l.elem }

// Check validates the element descriptor and the default.
func (l *ListField) Check() error {
	if l.elem == nil {
		return errors.New("list: nil element descriptor")
	}
	if l.sep == "" {
		return errors.New("list: empty separator")
	}
	if err := checkAll(l.elem); err != nil {
		return fmt.Errorf("list element: %w", err)
	}
	return l.base.Check()
}

// Coerce accepts a delimited string or a sequence and coerces every item with
// its zero-based index as context key.
func (l *ListField) Coerce(ctx context.Context, raw any) (any, error) {
	const expected = "sequence or delimited string"
	var items []any
	switch recordkit.KindOf(raw) {
	case recordkit.KindScalar:
		s, ok := raw.(string)
		if !ok {
			return nil, recordkit.Invalid(recordkit.CodeInvalidType, expected, recordkit.KindScalar.String())
		}
		items = splitItems(s, l.sep)
	case recordkit.KindSequence:
		items, _ = recordkit.Items(raw)
	case recordkit.KindMapping:
		if !l.acceptMapping {
			return nil, recordkit.Invalid(recordkit.CodeInvalidType, expected, recordkit.KindMapping.String())
		}
		m, _ := recordkit.MappingOf(raw)
		for _, v := range m.All() {
			items = append(items, v)
		}
	default:
		return nil, recordkit.Invalid(recordkit.CodeInvalidType, expected, recordkit.KindOf(raw).String())
	}

	out := make([]any, 0, len(items))
	var iss recordkit.Issues
	for i, it := range items {
		v, err := l.elem.Coerce(recordkit.WithKey(ctx, i), it)
		if err != nil {
			iss = recordkit.AppendIssues(iss, recordkit.IssuesFromErr(recordkit.Pointer(i), err)...)
			if recordkit.IsFailFast(ctx) {
				return nil, iss
			}
			continue
		}
		out = append(out, v)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}

// Dump renders every item in order.
func (l *ListField) Dump(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := recordkit.Items(v)
	if !ok {
		return nil, fmt.Errorf("list: cannot dump %T", v)
	}
	out := make([]any, len(items))
	for i, it := range items {
		d, err := l.elem.Dump(it)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out[i] = d
	}
	return out, nil
}

// JSONSchema describes an array of the element schema.
func (l *ListField) JSONSchema() *js.Schema {
	s := &js.Schema{Type: "array", Items: &js.Schema{}}
	if es, ok := l.elem.(recordkit.JSONSchemaer); ok {
		s.Items = es.JSONSchema()
	}
	return s
}

func splitItems(s, sep string) []any {
	if strings.TrimSpace(s) == "" {
		return []any{}
	}
	parts := strings.Split(s, sep)
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
