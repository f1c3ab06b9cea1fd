// Package dsl provides the field descriptors used to declare recordkit types.
//
// Overview
//   - Scalars: Integer()/Float()/Number[T](), Boolean(), String().
//   - Containers: List(elem) accepts a delimited string or a sequence; Map(elem)
//     accepts a mapping and yields a read-only *MapView.
//   - Composition: Nested(t) embeds a record of t, Include(t) flattens t's
//     fields into the owner, Object() resolves a subtype by its "type"
//     discriminator, Callable() resolves a registered function.
//
// Every descriptor takes WithDefault(v). The default is coerced once, when
// the owning type is built, and a default that does not coerce makes Build
// fail. A descriptor without a default is required.
//
// Example
//
//	point := recordkit.Define("point").
//	    Field("x", dsl.Integer()).
//	    Field("y", dsl.Integer().WithDefault(0)).
//	    MustBuild()
//
//	rec, err := recordkit.Construct(ctx, point, map[string]any{"x": "5"})
//	// rec.Int("x") == 5, rec.Int("y") == 0
//
// Error model
//
// Descriptors report failures as recordkit.Issues rooted at "/"; containers
// rebase element issues under the element's index or key and the engine
// rebases them under the field name, so a failure deep in a document reads
// as /experiments/baseline/repetitions.
package dsl
