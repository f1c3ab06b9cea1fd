// Package recordkit declares record types as ordered sets of field
// descriptors and constructs immutable records from loosely typed input such
// as decoded YAML or JSON.
//
// Overview:
//   - A Type is declared with Define(name), optionally Extends one or more
//     parent types, and lists its fields with descriptors from the dsl
//     package. Redeclaring an inherited name replaces the descriptor.
//   - Construct coerces every supplied value, fills defaults, and reports
//     every problem at once as Issues: coercion failures, missing required
//     fields and unsupported keys, each with a JSON Pointer path.
//   - Record.Dump renders a record back to an ordered *Mapping that
//     constructs an equal record again.
//   - A Registry maps names to types and functions for polymorphic and
//     callable fields.
//
// Construction context:
//
// Descriptors receive a context.Context. KeyFrom reports the field name,
// map key or list index being coerced; ParentFrom reports the record under
// construction together with the owner passed through WithOwner; services
// stored with WithService are visible to every resolver below.
//
// Typical usage:
//
//	point := recordkit.Define("point").
//	    Field("x", dsl.Integer()).
//	    Field("y", dsl.Integer()).
//	    MustBuild()
//
//	rec, err := recordkit.Construct(ctx, point, raw)
//	if iss, ok := recordkit.AsIssues(err); ok {
//	    // iss.Missing(), iss.Unsupported(), per-issue Path/Code/Message
//	}
package recordkit
