package dsl

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/reoring/recordkit"
	js "github.com/reoring/recordkit/jsonschema"
)

// BooleanField accepts native booleans, 0/1 and a fixed set of tokens.
type BooleanField struct{ base }

// Boolean returns a boolean descriptor.
func Boolean() *BooleanField {
	b := &BooleanField{}
	b.coerce = b.Coerce
	return b
}

// WithDefault sets the value used when the field is omitted.
func (b *BooleanField) WithDefault(v any) *BooleanField {
	b.setDefault(v)
	return b
}

var (
	truthy = map[string]struct{}{"true": {}, "yes": {}, "on": {}, "1": {}, "y": {}, "t": {}}
	falsy  = map[string]struct{}{"false": {}, "no": {}, "off": {}, "0": {}, "n": {}, "f": {}}
)

// Coerce recognizes true/yes/on/1/y/t and false/no/off/0/n/f in any case.
func (b *BooleanField) Coerce(_ context.Context, raw any) (any, error) {
	const expected = "boolean (true/false, yes/no, on/off, 1/0)"
	var tok string
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		tok = strings.ToLower(strings.TrimSpace(v))
	case json.Number:
		tok = v.String()
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		tok = formatScalar(v)
	default:
		return nil, recordkit.Invalid(recordkit.CodeInvalidType, expected, recordkit.KindOf(raw).String())
	}
	if _, ok := truthy[tok]; ok {
		return true, nil
	}
	if _, ok := falsy[tok]; ok {
		return false, nil
	}
	return nil, recordkit.Invalid(recordkit.CodeInvalidFormat, expected, raw)
}

// Dump returns the boolean unchanged.
func (b *BooleanField) Dump(v any) (any, error) { return v, nil }

// JSONSchema describes a boolean.
func (b *BooleanField) JSONSchema() *js.Schema { return &js.Schema{Type: "boolean"} }

// StringField renders any scalar as text.
type StringField struct{ base }

// String returns a string descriptor.
func String() *StringField {
	s := &StringField{}
	s.coerce = s.Coerce
	return s
}

// WithDefault sets the value used when the field is omitted.
func (s *StringField) WithDefault(v any) *StringField {
	s.setDefault(v)
	return s
}

// Coerce stringifies scalars; sequences, mappings and null are rejected.
func (s *StringField) Coerce(_ context.Context, raw any) (any, error) {
	if recordkit.KindOf(raw) != recordkit.KindScalar {
		return nil, recordkit.Invalid(recordkit.CodeInvalidType, "string", recordkit.KindOf(raw).String())
	}
	return formatScalar(raw), nil
}

// Dump returns the string unchanged.
func (s *StringField) Dump(v any) (any, error) { return v, nil }

// JSONSchema describes a string.
func (s *StringField) JSONSchema() *js.Schema { return &js.Schema{Type: "string"} }

// formatScalar renders a scalar the way it would be written in a document.
func formatScalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case int:
		return strconv.FormatInt(int64(t), 10)
	case int8:
		return strconv.FormatInt(int64(t), 10)
	case int16:
		return strconv.FormatInt(int64(t), 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint:
		return strconv.FormatUint(uint64(t), 10)
	case uint8:
		return strconv.FormatUint(uint64(t), 10)
	case uint16:
		return strconv.FormatUint(uint64(t), 10)
	case uint32:
		return strconv.FormatUint(uint64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	}
	return ""
}
