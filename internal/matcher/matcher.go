// Package matcher provides composable boolean predicates over typed values.
//
// A Matcher wraps a one-argument predicate and supports a small combinator
// algebra: And, Or and Not. Combinators short-circuit uniformly, regardless
// of whether the operands are built-in or custom matchers: And skips the
// right matcher once the left fails, Or skips the right matcher once the
// left succeeds.
//
// Matchers never return errors. A predicate that cannot meaningfully apply
// to its input (wrong declared type, nil value) reports false, and the
// assertion layer turns that into a test failure.
package matcher

// Matcher wraps a predicate over values of type T.
type Matcher[T any] struct {
	test func(T) bool
}

// New builds a Matcher from the given predicate.
func New[T any](test func(T) bool) Matcher[T] {
	return Matcher[T]{test: test}
}

// Test evaluates the predicate against v.
func (m Matcher[T]) Test(v T) bool {
	return m.test(v)
}

// And returns a matcher that succeeds only when both m and other succeed.
// other is not evaluated when m fails.
func (m Matcher[T]) And(other Matcher[T]) Matcher[T] {
	return New(func(v T) bool {
		return m.Test(v) && other.Test(v)
	})
}

// Or returns a matcher that succeeds when either m or other succeeds.
// other is not evaluated when m succeeds.
func (m Matcher[T]) Or(other Matcher[T]) Matcher[T] {
	return New(func(v T) bool {
		return m.Test(v) || other.Test(v)
	})
}

// Not returns a matcher that inverts the result of m.
func Not[T any](m Matcher[T]) Matcher[T] {
	return New(func(v T) bool {
		return !m.Test(v)
	})
}
