// Package optional provides a small tagged container that distinguishes a
// field that was never provided from one provided with a zero value.
//
// Tool arguments arrive as a loosely typed map. An update tool must only send
// the keys the caller supplied, so "title": "" (clear the title) and a missing
// title (leave it alone) have to stay distinguishable all the way down to the
// request payload:
//
//	title := optional.Of("Weekly sync")
//	none := optional.None[string]()
//
//	if v, ok := title.Get(); ok {
//	    event.Summary = v
//	}
package optional

// Value holds either nothing or a single value of type T.
type Value[T any] struct {
	value T
	set   bool
}

// Of returns a Value holding v.
func Of[T any](v T) Value[T] {
	return Value[T]{value: v, set: true}
}

// None returns an empty Value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// IsSet reports whether a value is present.
func (v Value[T]) IsSet() bool {
	return v.set
}

// Get returns the value and whether it is present.
func (v Value[T]) Get() (T, bool) {
	return v.value, v.set
}

// OrElse returns the value if present, otherwise fallback.
func (v Value[T]) OrElse(fallback T) T {
	if v.set {
		return v.value
	}
	return fallback
}
