package lensz

// Name is a type alias for rule and connector names.
// Using this type encourages storing names as constants rather than
// using inline strings throughout your code.
//
// Example:
//
//	const (
//	    HasDigitName Name = "has-digit"
//	    StrongName   Name = "strong"
//	)
type Name = string

// Predicate is a total boolean function over a value of type T.
//
// Predicates are plain functions so that any func(T) bool can be used
// directly. The methods below compose them without allocating wrapper
// types:
//
//	hasBoth := hasUpper.And(hasLower)
//	weak := strong.Negate()
type Predicate[T any] func(T) bool

// And returns a predicate that is true when both p and other are true.
// other is not evaluated when p is false.
func (p Predicate[T]) And(other Predicate[T]) Predicate[T] {
	return func(v T) bool {
		return p(v) && other(v)
	}
}

// Or returns a predicate that is true when p or other is true.
// other is not evaluated when p is true.
func (p Predicate[T]) Or(other Predicate[T]) Predicate[T] {
	return func(v T) bool {
		return p(v) || other(v)
	}
}

// Negate returns the logical complement of p.
func (p Predicate[T]) Negate() Predicate[T] {
	return func(v T) bool {
		return !p(v)
	}
}

// All combines predicates with logical AND, evaluated left to right with
// short-circuit semantics. All() with no predicates always holds.
//
// Order never changes the result, only how much work is done, so put
// cheap or selective predicates first.
func All[T any](preds ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range preds {
			if !p(v) {
				return false
			}
		}
		return true
	}
}

// Any combines predicates with logical OR, evaluated left to right with
// short-circuit semantics. Any() with no predicates never holds.
func Any[T any](preds ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range preds {
			if p(v) {
				return true
			}
		}
		return false
	}
}

// Rule is a named predicate. The name appears in metric tags, hook events
// and classification keys so that a decision can be traced back to the
// rule that made it.
type Rule[T any] struct {
	Predicate Predicate[T]
	Name      Name
}

// NewRule creates a Rule from a name and a predicate function.
func NewRule[T any](name Name, fn func(T) bool) Rule[T] {
	return Rule[T]{Name: name, Predicate: fn}
}

// Test evaluates the rule against v.
func (r Rule[T]) Test(v T) bool {
	return r.Predicate(v)
}

// AllRules combines the predicates of rules with All, preserving order.
func AllRules[T any](rules ...Rule[T]) Predicate[T] {
	preds := make([]Predicate[T], len(rules))
	for i, r := range rules {
		preds[i] = r.Predicate
	}
	return All(preds...)
}
