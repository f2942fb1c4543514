package values

import (
	"errors"
	"fmt"
)

// ErrNotComparable is returned by Compare when two values cannot be ordered,
// either because their declared types differ or because the type has no
// ordering.
var ErrNotComparable = errors.New("values are not order comparable")

// Compare orders two values of the same numeric declared type.
//
// It returns -1 if a < b, 0 if a == b and 1 if a > b. Values of different
// declared types never compare, even when their payloads are numerically
// equal: the result is ErrNotComparable.
func Compare(a, b Value) (int, error) {
	if a == nil || b == nil {
		return 0, fmt.Errorf("%w: nil value", ErrNotComparable)
	}

	if a.Type() != b.Type() {
		return 0, fmt.Errorf("%w: %s vs %s", ErrNotComparable, a.Type(), b.Type())
	}

	switch av := a.(type) {
	case Int64Value:
		return compareOrdered(int64(av), int64(b.(Int64Value))), nil
	case UInt64Value:
		return compareOrdered(uint64(av), uint64(b.(UInt64Value))), nil
	default:
		return 0, fmt.Errorf("%w: type %s has no ordering", ErrNotComparable, a.Type())
	}
}

func compareOrdered[T int64 | uint64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
