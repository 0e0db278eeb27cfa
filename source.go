package lensz

import (
	"iter"
	"slices"
)

// Source is a re-invocable factory of finite sequences.
//
// Each call returns a fresh sequence positioned at the start, so an
// operation that needs to traverse its input more than once simply calls
// the source again. A Source must yield the same values in the same order
// on every call.
type Source[T any] func() iter.Seq[T]

// FromSlice returns a Source over items. The slice is not copied; callers
// must not mutate it while the Source is in use.
func FromSlice[T any](items []T) Source[T] {
	return func() iter.Seq[T] {
		return slices.Values(items)
	}
}

// FromValues returns a Source over the given values.
func FromValues[T any](items ...T) Source[T] {
	return FromSlice(items)
}

// Collect drains a fresh sequence from the source into a slice.
// A nil Source collects to nil.
func (s Source[T]) Collect() []T {
	if s == nil {
		return nil
	}
	return slices.Collect(s())
}
