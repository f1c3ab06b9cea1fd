package recordkit

// Optional is either a present value or absent. Some(nil) is present.
type Optional struct {
	value any
	set   bool
}

// Some wraps a present value.
func Some(v any) Optional { return Optional{value: v, set: true} }

// None is the absent value.
func None() Optional { return Optional{} }

// Get returns the value and whether it is present.
func (o Optional) Get() (any, bool) { return o.value, o.set }

// IsSet reports presence.
func (o Optional) IsSet() bool { return o.set }

// OrElse returns the value when present and fallback otherwise.
func (o Optional) OrElse(fallback any) any {
	if o.set {
		return o.value
	}
	return fallback
}
