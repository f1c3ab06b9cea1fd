package recordkit

import (
	"context"
	"fmt"
	"reflect"
)

// serviceKey is a unique key per type parameter T for context storage.
type serviceKey[T any] struct{}

// WithService stores a typed shared handle in the context so resolvers can
// inject it into the instances they build.
func WithService[T any](ctx context.Context, svc T) context.Context {
	return context.WithValue(ctx, serviceKey[T]{}, any(svc))
}

// Service retrieves a typed shared handle from context.
func Service[T any](ctx context.Context) (T, bool) {
	var zero T
	v := ctx.Value(serviceKey[T]{})
	if v == nil {
		return zero, false
	}
	if tv, ok := v.(T); ok {
		return tv, true
	}
	return zero, false
}

// RequireService returns the handle or an error wrapping ErrNotFound.
func RequireService[T any](ctx context.Context) (T, error) {
	if v, ok := Service[T](ctx); ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: service %v not provided", ErrNotFound, reflect.TypeFor[T]())
}
