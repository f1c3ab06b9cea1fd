package dsl

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/reoring/recordkit"
	"github.com/reoring/recordkit/i18n"
	js "github.com/reoring/recordkit/jsonschema"
)

// Numeric is the set of value types a NumberField produces.
type Numeric interface{ int64 | float64 }

// NumberField converts scalars to T and enforces inclusive bounds.
type NumberField[T Numeric] struct {
	base
	min, max *T
}

// Number returns a number descriptor converting to T.
func Number[T Numeric]() *NumberField[T] {
	n := &NumberField[T]{}
	n.coerce = n.Coerce
	return n
}

// Integer returns a number descriptor producing int64.
func Integer() *NumberField[int64] { return Number[int64]() }

// Float returns a number descriptor producing float64.
func Float() *NumberField[float64] { return Number[float64]() }

// Min sets the inclusive lower bound.
func (n *NumberField[T]) Min(v T) *NumberField[T] {
	n.min = &v
	return n
}

// Max sets the inclusive upper bound.
func (n *NumberField[T]) Max(v T) *NumberField[T] {
	n.max = &v
	return n
}

// WithDefault sets the value used when the field is omitted.
func (n *NumberField[T]) WithDefault(v any) *NumberField[T] {
	n.setDefault(v)
	return n
}

// Coerce converts numbers, numeric strings, json.Number and booleans.
func (n *NumberField[T]) Coerce(_ context.Context, raw any) (any, error) {
	if recordkit.KindOf(raw) != recordkit.KindScalar {
		return nil, recordkit.Invalid(recordkit.CodeInvalidType, n.expected(), recordkit.KindOf(raw).String())
	}
	if s, ok := raw.(string); ok {
		// weak decoding would read "" as zero
		if raw = strings.TrimSpace(s); raw == "" {
			return nil, recordkit.Invalid(recordkit.CodeInvalidFormat, n.expected(), s)
		}
	}
	raw, iss := n.normalize(raw)
	if iss != nil {
		return nil, iss
	}
	var out T
	if err := mapstructure.WeakDecode(raw, &out); err != nil {
		iss := recordkit.Invalid(recordkit.CodeInvalidFormat, n.expected(), raw)
		iss[0].Cause = err
		return nil, iss
	}
	if n.min != nil && out < *n.min {
		return nil, recordkit.Issues{{
			Path:    "/",
			Code:    recordkit.CodeTooSmall,
			Message: i18n.T(recordkit.CodeTooSmall, nil),
			Params:  map[string]any{"min": *n.min, "got": out},
		}}
	}
	if n.max != nil && out > *n.max {
		return nil, recordkit.Issues{{
			Path:    "/",
			Code:    recordkit.CodeTooBig,
			Message: i18n.T(recordkit.CodeTooBig, nil),
			Params:  map[string]any{"max": *n.max, "got": out},
		}}
	}
	return out, nil
}

// normalize brings JSON numbers and unsigned integers to the shapes YAML
// decoding produces, so a document converts the same in either format.
func (n *NumberField[T]) normalize(raw any) (any, recordkit.Issues) {
	switch v := raw.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			iss := recordkit.Invalid(recordkit.CodeInvalidFormat, n.expected(), string(v))
			iss[0].Cause = err
			return nil, iss
		}
		return f, nil
	case uint:
		return n.unsigned(uint64(v))
	case uint64:
		return n.unsigned(v)
	}
	return raw, nil
}

func (n *NumberField[T]) unsigned(v uint64) (any, recordkit.Issues) {
	if n.expected() == "integer" && v > math.MaxInt64 {
		return nil, recordkit.Issues{{
			Path:    "/",
			Code:    recordkit.CodeTooBig,
			Message: i18n.T(recordkit.CodeTooBig, nil),
			Params:  map[string]any{"max": int64(math.MaxInt64), "got": v},
		}}
	}
	return v, nil
}

// Dump returns the number unchanged.
func (n *NumberField[T]) Dump(v any) (any, error) { return v, nil }

// JSONSchema describes the number and its bounds.
func (n *NumberField[T]) JSONSchema() *js.Schema {
	s := &js.Schema{Type: n.expected()}
	if n.min != nil {
		f := float64(*n.min)
		s.Minimum = &f
	}
	if n.max != nil {
		f := float64(*n.max)
		s.Maximum = &f
	}
	return s
}

func (n *NumberField[T]) expected() string {
	var zero T
	if _, ok := any(zero).(float64); ok {
		return "number"
	}
	return "integer"
}
