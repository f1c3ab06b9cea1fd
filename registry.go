package recordkit

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Registry maps qualified names to schema types and functions. It is the
// lookup seam behind polymorphic fields and callables.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*Type
	funcs map[string]any
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]*Type),
		funcs: make(map[string]any),
	}
}

// Default is the registry used when a descriptor is not given one.
var Default = NewRegistry()

// Register adds types to the Default registry.
func Register(types ...*Type) { Default.RegisterType(types...) }

// RegisterFunc adds a function to the Default registry.
func RegisterFunc(name string, fn any) error { return Default.RegisterFunc(name, fn) }

// RegisterType adds types under their names. An existing entry with the same
// name is replaced.
func (r *Registry) RegisterType(types ...*Type) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range types {
		if t != nil {
			r.types[t.name] = t
		}
	}
}

// RegisterFunc adds a function under name.
func (r *Registry) RegisterFunc(name string, fn any) error {
	if name == "" || fn == nil || reflect.TypeOf(fn).Kind() != reflect.Func {
		return &DefinitionError{Field: name, Reason: fmt.Sprintf("%T is not a function", fn)}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs[name] = fn
	return nil
}

// LookupType resolves name, then each hint-qualified form "hint.name".
func (r *Registry) LookupType(name string, hints ...string) (*Type, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range candidates(name, hints) {
		if t, ok := r.types[n]; ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: type %q", ErrNotFound, name)
}

// LookupFunc resolves name like LookupType and also returns the name the
// function was registered under.
func (r *Registry) LookupFunc(name string, hints ...string) (any, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range candidates(name, hints) {
		if fn, ok := r.funcs[n]; ok {
			return fn, n, nil
		}
	}
	return nil, "", fmt.Errorf("%w: function %q", ErrNotFound, name)
}

// NameOf returns the registered name of fn, matched by code pointer.
func (r *Registry) NameOf(fn any) (string, bool) {
	if fn == nil || reflect.TypeOf(fn).Kind() != reflect.Func {
		return "", false
	}
	ptr := reflect.ValueOf(fn).Pointer()
	r.mu.RLock()
	defer r.mu.RUnlock()
	var names []string
	for n, f := range r.funcs {
		if reflect.ValueOf(f).Pointer() == ptr {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return "", false
	}
	sort.Strings(names)
	return names[0], true
}

// TypeNames lists registered type names in sorted order.
func (r *Registry) TypeNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.types))
	for n := range r.types {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func candidates(name string, hints []string) []string {
	out := []string{name}
	for _, h := range hints {
		if h != "" {
			out = append(out, h+"."+name)
		}
	}
	return out
}
