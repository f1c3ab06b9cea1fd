package recordkit

import (
	"context"

	js "github.com/reoring/recordkit/jsonschema"
)

// Field is the typed contract for one field of a schema type. Descriptors are
// defined once per type and shared by every record built from it, so
// implementations must not keep per-construction state.
type Field interface {
	// Coerce converts a raw value into the field's value. Failures are
	// reported as Issues rooted at "/"; the engine rebases them under the
	// field name.
	Coerce(ctx context.Context, raw any) (any, error)
	// Dump renders a value produced by Coerce back to raw data.
	Dump(v any) (any, error)
	// Default is the value used when the raw data omits the field.
	Default() Optional
	// Required reports whether the field must be supplied.
	Required() bool
}

// Includer is implemented by fields that flatten another type's fields into
// their owner instead of storing a nested value under their own name.
type Includer interface {
	Field
	Included() *Type
}

// Checker is implemented by descriptors that can detect an illegal definition
// (for example a default that does not coerce). Build reports the error.
type Checker interface {
	Check() error
}

// JSONSchemaer is implemented by descriptors that can describe themselves as
// JSON Schema.
type JSONSchemaer interface {
	JSONSchema() *js.Schema
}

// FieldEntry is one named field of a type.
type FieldEntry struct {
	Name  string
	Field Field
}

// IsInclude reports whether the entry flattens another type.
func (e FieldEntry) IsInclude() bool {
	_, ok := e.Field.(Includer)
	return ok
}
