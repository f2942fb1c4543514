// Package expect is the assertion layer of the harness.
//
// Every check returns an error instead of panicking, so failures surface to
// the invoking test function and compose with the standard error-handling
// flow. The error taxonomy mirrors the documented harness behavior:
// ErrAssertionFailed for false conditions, ErrExplicitFailure for Fail,
// ErrMismatch for matcher rejections and ErrNotEqual for equality
// mismatches, including values that differ only in declared type.
package expect

import (
	"errors"
	"fmt"

	"github.com/gabapcia/ledgertest/internal/matcher"
	"github.com/gabapcia/ledgertest/internal/values"
)

var (
	// ErrAssertionFailed is returned by Assert when the condition is false.
	ErrAssertionFailed = errors.New("assertion failed")

	// ErrExplicitFailure is returned by Fail.
	ErrExplicitFailure = errors.New("explicit failure")

	// ErrMismatch is returned by Match when the matcher rejects the value.
	ErrMismatch = errors.New("expectation mismatch")

	// ErrNotEqual is returned by Equal when the values differ in payload or
	// declared type.
	ErrNotEqual = errors.New("values are not equal")
)

// Assert returns nil when condition is true and an ErrAssertionFailed
// carrying msg otherwise.
func Assert(condition bool, msg string) error {
	if condition {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrAssertionFailed, msg)
}

// Fail unconditionally returns an ErrExplicitFailure carrying msg.
func Fail(msg string) error {
	return fmt.Errorf("%w: %s", ErrExplicitFailure, msg)
}

// Match tests actual against the matcher and returns ErrMismatch when the
// matcher rejects it.
func Match[T any](actual T, m matcher.Matcher[T]) error {
	if m.Test(actual) {
		return nil
	}
	return fmt.Errorf("%w: value %v does not satisfy the matcher", ErrMismatch, actual)
}

// Equal compares two values with type-sensitive equality. Values of
// different declared types are never equal, even when their payloads are
// numerically equal.
func Equal(expected, actual values.Value) error {
	if expected == nil || actual == nil {
		if expected == nil && actual == nil {
			return nil
		}
		return fmt.Errorf("%w: expected %v, got %v", ErrNotEqual, expected, actual)
	}

	if expected.Type() != actual.Type() {
		return fmt.Errorf("%w: declared types differ (%s vs %s)", ErrNotEqual, expected.Type(), actual.Type())
	}

	if !expected.Equal(actual) {
		return fmt.Errorf("%w: expected %s, got %s", ErrNotEqual, expected, actual)
	}

	return nil
}
