package dsl

import (
	"context"
	"fmt"
	"sync"

	"github.com/reoring/recordkit"
)

// base carries the default handling shared by every descriptor. The raw
// default is coerced lazily, once, so chained options (bounds, separators)
// apply to it regardless of the order they were set in.
type base struct {
	coerce func(context.Context, any) (any, error)
	// fresh rebuilds the default on every use; set by descriptors whose
	// values are records, so owners never share one instance.
	fresh bool

	raw    any
	hasRaw bool

	once sync.Once
	def  recordkit.Optional
	err  error
}

func (b *base) setDefault(v any) {
	b.raw, b.hasRaw = v, true
}

func (b *base) resolve() {
	b.once.Do(func() {
		if !b.hasRaw {
			return
		}
		v, err := b.coerce(context.Background(), b.raw)
		if err != nil {
			b.err = fmt.Errorf("default %v does not coerce: %w", b.raw, err)
			return
		}
		b.def = recordkit.Some(v)
	})
}

// Default returns the coerced default.
func (b *base) Default() recordkit.Optional {
	b.resolve()
	if b.fresh && b.err == nil && b.hasRaw && b.raw != nil {
		if v, err := b.coerce(context.Background(), b.raw); err == nil {
			return recordkit.Some(v)
		}
	}
	return b.def
}

// Required reports whether no default was given.
func (b *base) Required() bool { return !b.hasRaw }

// Check reports a default that does not satisfy the descriptor.
func (b *base) Check() error {
	b.resolve()
	return b.err
}

// checkAll returns the first definition error among descriptors.
func checkAll(fields ...recordkit.Field) error {
	for _, f := range fields {
		if c, ok := f.(recordkit.Checker); ok {
			if err := c.Check(); err != nil {
				return err
			}
		}
	}
	return nil
}
