package recordkit

import "context"

type contextKey int

const (
	_ctxKeyFailFast contextKey = iota
	_ctxKeyKey
	_ctxKeyParent
	_ctxKeyOwner
)

// Parent describes the record whose field is being coerced.
type Parent struct {
	Type *Type
	// Owner is the value handed to the construction through WithOwner, for
	// example the domain object that wraps the record.
	Owner any
}

// WithKey returns a child context carrying the position of the value being
// coerced: a field name, a map key or a list index.
func WithKey(ctx context.Context, key any) context.Context {
	return context.WithValue(ctx, _ctxKeyKey, key)
}

// KeyFrom returns the innermost key set by WithKey.
func KeyFrom(ctx context.Context) (any, bool) {
	v := ctx.Value(_ctxKeyKey)
	return v, v != nil
}

// WithOwner attaches the owner of the next construction. The owner is visible
// to that construction's fields through ParentFrom and is not passed further
// down to nested records.
func WithOwner(ctx context.Context, owner any) context.Context {
	return context.WithValue(ctx, _ctxKeyOwner, owner)
}

func ownerFrom(ctx context.Context) any { return ctx.Value(_ctxKeyOwner) }

func withParent(ctx context.Context, p *Parent) context.Context {
	return context.WithValue(ctx, _ctxKeyParent, p)
}

// ParentFrom returns the record under construction that owns the current
// field.
func ParentFrom(ctx context.Context) (*Parent, bool) {
	p, ok := ctx.Value(_ctxKeyParent).(*Parent)
	return p, ok && p != nil
}

// WithFailFast returns a child context that stops a construction at the first
// coercion issue instead of aggregating every issue.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current construction should stop on the
// first issue.
func IsFailFast(ctx context.Context) bool {
	b, _ := ctx.Value(_ctxKeyFailFast).(bool)
	return b
}
