package matcher

import (
	"github.com/gabapcia/ledgertest/internal/values"
)

// Result is satisfied by script and transaction results that can report
// whether their execution succeeded.
type Result interface {
	Succeeded() bool
}

// Equal matches values with the same declared type and payload as expected.
// Numerically equal payloads with different declared types do not match.
func Equal(expected values.Value) Matcher[values.Value] {
	return New(func(v values.Value) bool {
		if v == nil {
			return expected == nil
		}
		return v.Equal(expected)
	})
}

// BeGreaterThan matches numeric values strictly greater than threshold.
// Values of a different declared type than the threshold never match.
func BeGreaterThan(threshold values.Value) Matcher[values.Value] {
	return New(func(v values.Value) bool {
		cmp, err := values.Compare(v, threshold)
		return err == nil && cmp > 0
	})
}

// BeLessThan matches numeric values strictly less than threshold.
// Values of a different declared type than the threshold never match.
func BeLessThan(threshold values.Value) Matcher[values.Value] {
	return New(func(v values.Value) bool {
		cmp, err := values.Compare(v, threshold)
		return err == nil && cmp < 0
	})
}

// BeNil matches the nil value.
func BeNil() Matcher[values.Value] {
	return New(func(v values.Value) bool {
		if v == nil {
			return true
		}
		return v.Type() == values.TypeNil
	})
}

// BeEmpty matches arrays and dictionaries with no elements.
func BeEmpty() Matcher[values.Value] {
	return HaveElementCount(0)
}

// HaveElementCount matches arrays and dictionaries with exactly count
// elements. Non-collection values never match.
func HaveElementCount(count int) Matcher[values.Value] {
	return New(func(v values.Value) bool {
		switch tv := v.(type) {
		case values.ArrayValue:
			return len(tv) == count
		case values.DictionaryValue:
			return len(tv) == count
		default:
			return false
		}
	})
}

// Contain matches arrays holding an element equal to elem, and dictionaries
// holding an entry keyed by elem. Non-collection values never match.
func Contain(elem values.Value) Matcher[values.Value] {
	return New(func(v values.Value) bool {
		switch tv := v.(type) {
		case values.ArrayValue:
			return tv.Contains(elem)
		case values.DictionaryValue:
			return tv.ContainsKey(elem)
		default:
			return false
		}
	})
}

// BeSucceeded matches script and transaction results whose execution
// succeeded.
func BeSucceeded[T Result]() Matcher[T] {
	return New(func(r T) bool {
		return r.Succeeded()
	})
}

// BeFailed matches script and transaction results whose execution failed.
func BeFailed[T Result]() Matcher[T] {
	return New(func(r T) bool {
		return !r.Succeeded()
	})
}
