package lensz

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Keep returns the items for which pred holds, in input order.
// The result is never nil.
func Keep[T any](items []T, pred Predicate[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// Map applies fn to every item, in input order.
func Map[T, U any](items []T, fn func(T) U) []U {
	out := make([]U, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}

// FlatMap applies fn to every item and concatenates the results.
func FlatMap[T, U any](items []T, fn func(T) []U) []U {
	out := make([]U, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item)...)
	}
	return out
}

// AnyMatch reports whether pred holds for at least one item.
func AnyMatch[T any](items []T, pred Predicate[T]) bool {
	return slices.ContainsFunc(items, pred)
}

// SortStable returns a sorted copy of items. Items that compare equal keep
// their input order.
func SortStable[T any](items []T, compare func(a, b T) int) []T {
	out := slices.Clone(items)
	if out == nil {
		out = []T{}
	}
	slices.SortStableFunc(out, compare)
	return out
}

// By builds a comparison function from an ordered key.
//
//	byAge := lensz.By(func(p Person) int { return p.Age })
func By[T any, K cmp.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int {
		return cmp.Compare(key(a), key(b))
	}
}

// GroupBy partitions items by key. Items inside each group keep input
// order, and only observed keys appear in the result.
func GroupBy[T any, K comparable](items []T, key func(T) K) map[K][]T {
	groups := make(map[K][]T)
	for _, item := range items {
		k := key(item)
		groups[k] = append(groups[k], item)
	}
	return groups
}

// CountBy tallies items by key.
func CountBy[T any, K comparable](items []T, key func(T) K) map[K]int {
	counts := make(map[K]int)
	for _, item := range items {
		counts[key(item)]++
	}
	return counts
}

// Number is the set of types Average can reduce.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Average returns the arithmetic mean of value over items.
// The mean of nothing is undefined, so empty input fails with
// ErrInvalidArgument.
func Average[T any, N Number](items []T, value func(T) N) (float64, error) {
	if len(items) == 0 {
		return 0, fmt.Errorf("%w: average of empty collection", ErrInvalidArgument)
	}
	var sum float64
	for _, item := range items {
		sum += float64(value(item))
	}
	return sum / float64(len(items)), nil
}

// AverageBy groups items by key and averages value within each group.
// Every group is non-empty by construction, so AverageBy cannot fail.
func AverageBy[T any, K comparable, N Number](items []T, key func(T) K, value func(T) N) map[K]float64 {
	groups := GroupBy(items, key)
	out := make(map[K]float64, len(groups))
	for k, group := range groups {
		var sum float64
		for _, item := range group {
			sum += float64(value(item))
		}
		out[k] = sum / float64(len(group))
	}
	return out
}

// Join renders items as prefix + items separated by sep + suffix.
func Join(items []string, sep, prefix, suffix string) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(strings.Join(items, sep))
	b.WriteString(suffix)
	return b.String()
}
