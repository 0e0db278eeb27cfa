package lensz

// Option holds a value that may be absent.
//
// Option models safe navigation: each step either carries a value forward
// or short-circuits to absence, and OrElse supplies the fallback at the end
// of the chain.
//
//	name := lensz.MapOption(
//	    lensz.FlatMapOption(lensz.FromPtr(p), chiefOf),
//	    nameOf,
//	).OrElse("Eric")
type Option[T any] struct {
	value T
	ok    bool
}

// Some returns a present Option holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// None returns an absent Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// FromPtr returns Some(*p) when p is non-nil, None otherwise.
func FromPtr[T any](p *T) Option[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// IsPresent reports whether the Option holds a value.
func (o Option[T]) IsPresent() bool {
	return o.ok
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// Filter keeps the value only if pred holds for it.
func (o Option[T]) Filter(pred Predicate[T]) Option[T] {
	if !o.ok || !pred(o.value) {
		return None[T]()
	}
	return o
}

// OrElse returns the value if present, fallback otherwise.
func (o Option[T]) OrElse(fallback T) T {
	if !o.ok {
		return fallback
	}
	return o.value
}

// MapOption applies fn to a present value.
func MapOption[T, U any](o Option[T], fn func(T) U) Option[U] {
	if !o.ok {
		return None[U]()
	}
	return Some(fn(o.value))
}

// FlatMapOption applies fn to a present value and flattens the result.
func FlatMapOption[T, U any](o Option[T], fn func(T) Option[U]) Option[U] {
	if !o.ok {
		return None[U]()
	}
	return fn(o.value)
}
