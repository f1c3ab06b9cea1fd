package recordkit

import (
	"slices"

	js "github.com/reoring/recordkit/jsonschema"
)

// JSONSchema projects a type into JSON Schema. Included fields appear as
// plain properties of the owner and defaults are rendered through Dump.
func JSONSchema(t *Type) *js.Schema {
	out := &js.Schema{
		Title:                t.name,
		Type:                 "object",
		Properties:           map[string]*js.Schema{},
		AdditionalProperties: false,
	}
	project(out, t)
	return out
}

func project(out *js.Schema, t *Type) {
	for _, e := range t.fields {
		if inc, ok := e.Field.(Includer); ok {
			project(out, inc.Included())
			continue
		}
		ps := &js.Schema{}
		if s, ok := e.Field.(JSONSchemaer); ok {
			ps = s.JSONSchema()
		}
		if dv, ok := e.Field.Default().Get(); ok && dv != nil {
			if d, err := e.Field.Dump(dv); err == nil {
				ps.Default = Plain(d)
			}
		}
		out.Properties[e.Name] = ps
		if e.Field.Required() && !slices.Contains(out.Required, e.Name) {
			out.Required = append(out.Required, e.Name)
		}
	}
}
