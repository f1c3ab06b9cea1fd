package recordkit

import (
	"encoding/json"
	"reflect"
)

// Kind classifies raw input once at the coercion boundary.
type Kind uint8

const (
	KindNull Kind = iota
	KindScalar
	KindSequence
	KindMapping
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "other"
	}
}

// KindOf reports the shape of a raw value. Mappings are *Mapping,
// map[string]any and map[any]any; sequences are slices and arrays other than
// []byte; scalars are strings, booleans, numbers and json.Number.
func KindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return KindScalar
	case *Mapping, map[string]any, map[any]any:
		return KindMapping
	case []any:
		return KindSequence
	case []byte:
		return KindOther
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return KindSequence
	case reflect.Pointer:
		if rv.IsNil() {
			return KindNull
		}
	}
	return KindOther
}

// Items returns the elements of a sequence-kind value.
func Items(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	if KindOf(v) != KindSequence {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
