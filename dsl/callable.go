package dsl

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"

	"github.com/reoring/recordkit"
	"github.com/reoring/recordkit/i18n"
	js "github.com/reoring/recordkit/jsonschema"
)

// Func is the value of a Callable field: the function and the name it is
// written as in documents.
type Func struct {
	Name string
	Fn   any
}

// Call invokes the function with args via reflection and returns its results.
func (f Func) Call(args ...any) ([]any, error) {
	fv := reflect.ValueOf(f.Fn)
	if fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s: not a function", f.Name)
	}
	ft := fv.Type()
	if (!ft.IsVariadic() && len(args) != ft.NumIn()) || (ft.IsVariadic() && len(args) < ft.NumIn()-1) {
		return nil, fmt.Errorf("%s: want %d arguments, got %d", f.Name, ft.NumIn(), len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var pt reflect.Type
		if ft.IsVariadic() && i >= ft.NumIn()-1 {
			pt = ft.In(ft.NumIn() - 1).Elem()
		} else {
			pt = ft.In(i)
		}
		if a == nil {
			in[i] = reflect.Zero(pt)
			continue
		}
		av := reflect.ValueOf(a)
		if !av.Type().AssignableTo(pt) {
			if !av.Type().ConvertibleTo(pt) {
				return nil, fmt.Errorf("%s: argument %d: %T is not %s", f.Name, i, a, pt)
			}
			av = av.Convert(pt)
		}
		in[i] = av
	}
	res := fv.Call(in)
	out := make([]any, len(res))
	for i, r := range res {
		out[i] = r.Interface()
	}
	return out, nil
}

// CallableField resolves a function from a registry name or accepts a
// function value directly.
type CallableField struct {
	base
	registry *recordkit.Registry
	hints    []string
}

// Callable returns a callable descriptor resolving names in recordkit.Default.
func Callable() *CallableField {
	c := &CallableField{}
	c.coerce = c.Coerce
	return c
}

// Registry sets the registry names are resolved in.
func (c *CallableField) Registry(reg *recordkit.Registry) *CallableField {
	c.registry = reg
	return c
}

// Hints sets name prefixes tried during resolution.
func (c *CallableField) Hints(prefixes ...string) *CallableField {
	c.hints = append(c.hints, prefixes...)
	return c
}

// WithDefault sets the value used when the field is omitted.
func (c *CallableField) WithDefault(v any) *CallableField {
	c.setDefault(v)
	return c
}

func (c *CallableField) registryOrDefault() *recordkit.Registry {
	if c.registry != nil {
		return c.registry
	}
	return recordkit.Default
}

// Coerce accepts a Func, a Go function value or a registered name. The
// name as written is kept for Dump.
func (c *CallableField) Coerce(_ context.Context, raw any) (any, error) {
	switch v := raw.(type) {
	case Func:
		if v.Fn == nil {
			break
		}
		return v, nil
	case *Func:
		if v == nil || v.Fn == nil {
			break
		}
		return *v, nil
	case string:
		fn, _, err := c.registryOrDefault().LookupFunc(v, c.hints...)
		if err != nil {
			code := recordkit.CodeParseError
			if errors.Is(err, recordkit.ErrNotFound) {
				code = recordkit.CodeNotFound
			}
			return nil, recordkit.Issues{{Path: "/", Code: code, Message: i18n.T(code, nil), Hint: "unknown function: '" + v + "'", Cause: err}}
		}
		return Func{Name: v, Fn: fn}, nil
	default:
		if raw != nil && reflect.TypeOf(raw).Kind() == reflect.Func {
			return Func{Name: c.nameOf(raw), Fn: raw}, nil
		}
	}
	return nil, recordkit.Invalid(recordkit.CodeInvalidType, "function or function name", recordkit.KindOf(raw).String())
}

// Dump renders the recorded name, or the registered or qualified name of the
// function when none was recorded.
func (c *CallableField) Dump(v any) (any, error) {
	var f Func
	switch t := v.(type) {
	case nil:
		return nil, nil
	case Func:
		f = t
	case *Func:
		f = *t
	default:
		return nil, fmt.Errorf("callable: cannot dump %T", v)
	}
	if f.Name != "" {
		return f.Name, nil
	}
	return c.nameOf(f.Fn), nil
}

// JSONSchema describes a function name.
func (c *CallableField) JSONSchema() *js.Schema { return &js.Schema{Type: "string"} }

func (c *CallableField) nameOf(fn any) string {
	if n, ok := c.registryOrDefault().NameOf(fn); ok {
		return n
	}
	return QualifiedName(fn)
}

// QualifiedName returns the package-qualified name of a function value.
func QualifiedName(fn any) string {
	if fn == nil {
		return ""
	}
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return reflect.TypeOf(fn).String()
	}
	if f := runtime.FuncForPC(rv.Pointer()); f != nil {
		return f.Name()
	}
	return rv.Type().String()
}
