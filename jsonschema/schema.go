package jsonschema

// Schema is a minimal JSON Schema representation used for export.
type Schema struct {
	// Core
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	Format  string `json:"format,omitempty" yaml:"format,omitempty"`
	Default any    `json:"default,omitempty" yaml:"default,omitempty"`
	Const   any    `json:"const,omitempty" yaml:"const,omitempty"`

	// Number
	Minimum *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required             []string           `json:"required,omitempty" yaml:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty" yaml:"items,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty" yaml:"anyOf,omitempty"`
}
