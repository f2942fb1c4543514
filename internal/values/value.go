// Package values defines the typed value model used across the harness.
//
// Every value carries a declared type alongside its payload. Equality is
// type-sensitive: two values with numerically equal payloads but different
// declared types are never equal (e.g. Int64(100) != UInt64(100)).
package values

import (
	"fmt"
	"strings"
)

// Type identifies the declared type of a Value.
type Type string

const (
	TypeInt64      Type = "Int64"
	TypeUInt64     Type = "UInt64"
	TypeString     Type = "String"
	TypeBool       Type = "Bool"
	TypeAddress    Type = "Address"
	TypeArray      Type = "Array"
	TypeDictionary Type = "Dictionary"
	TypeNil        Type = "Nil"
)

// Value is a typed ledger value. Implementations are immutable after
// construction.
type Value interface {
	// Type returns the declared type of the value.
	Type() Type

	// Equal reports whether other has the same declared type and an equal
	// payload. A nil other is never equal.
	Equal(other Value) bool

	// String renders the payload for logs and CLI output.
	String() string
}

// Int64Value is a signed 64-bit integer.
type Int64Value int64

// NewInt64 wraps n as an Int64Value.
func NewInt64(n int64) Int64Value { return Int64Value(n) }

func (v Int64Value) Type() Type { return TypeInt64 }

func (v Int64Value) Equal(other Value) bool {
	o, ok := other.(Int64Value)
	return ok && o == v
}

func (v Int64Value) String() string { return fmt.Sprintf("%d", int64(v)) }

// UInt64Value is an unsigned 64-bit integer.
type UInt64Value uint64

// NewUInt64 wraps n as a UInt64Value.
func NewUInt64(n uint64) UInt64Value { return UInt64Value(n) }

func (v UInt64Value) Type() Type { return TypeUInt64 }

func (v UInt64Value) Equal(other Value) bool {
	o, ok := other.(UInt64Value)
	return ok && o == v
}

func (v UInt64Value) String() string { return fmt.Sprintf("%d", uint64(v)) }

// StringValue is a UTF-8 string.
type StringValue string

// NewString wraps s as a StringValue.
func NewString(s string) StringValue { return StringValue(s) }

func (v StringValue) Type() Type { return TypeString }

func (v StringValue) Equal(other Value) bool {
	o, ok := other.(StringValue)
	return ok && o == v
}

func (v StringValue) String() string { return fmt.Sprintf("%q", string(v)) }

// BoolValue is a boolean.
type BoolValue bool

// NewBool wraps b as a BoolValue.
func NewBool(b bool) BoolValue { return BoolValue(b) }

func (v BoolValue) Type() Type { return TypeBool }

func (v BoolValue) Equal(other Value) bool {
	o, ok := other.(BoolValue)
	return ok && o == v
}

func (v BoolValue) String() string { return fmt.Sprintf("%t", bool(v)) }

// AddressValue is an account address in "0x"-prefixed hexadecimal form.
type AddressValue string

// NewAddress wraps addr as an AddressValue. The address is stored verbatim.
func NewAddress(addr string) AddressValue { return AddressValue(addr) }

func (v AddressValue) Type() Type { return TypeAddress }

func (v AddressValue) Equal(other Value) bool {
	o, ok := other.(AddressValue)
	return ok && o == v
}

func (v AddressValue) String() string { return string(v) }

// NilValue is the absence of a value.
type NilValue struct{}

// Nil returns the nil value.
func Nil() NilValue { return NilValue{} }

func (v NilValue) Type() Type { return TypeNil }

func (v NilValue) Equal(other Value) bool {
	if other == nil {
		return false
	}
	_, ok := other.(NilValue)
	return ok
}

func (v NilValue) String() string { return "nil" }

// ArrayValue is an ordered list of values.
type ArrayValue []Value

// NewArray builds an ArrayValue from the given elements.
func NewArray(elements ...Value) ArrayValue { return ArrayValue(elements) }

func (v ArrayValue) Type() Type { return TypeArray }

func (v ArrayValue) Equal(other Value) bool {
	o, ok := other.(ArrayValue)
	if !ok || len(o) != len(v) {
		return false
	}

	for i, elem := range v {
		if !elem.Equal(o[i]) {
			return false
		}
	}
	return true
}

func (v ArrayValue) String() string {
	parts := make([]string, len(v))
	for i, elem := range v {
		parts[i] = elem.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Contains reports whether any element of the array equals elem.
func (v ArrayValue) Contains(elem Value) bool {
	for _, e := range v {
		if e.Equal(elem) {
			return true
		}
	}
	return false
}

// DictionaryPair is a single key/value entry of a DictionaryValue.
type DictionaryPair struct {
	Key   Value
	Value Value
}

// DictionaryValue is an unordered collection of key/value pairs. Keys are
// unique under Equal; comparison ignores pair order.
type DictionaryValue []DictionaryPair

// NewDictionary builds a DictionaryValue from the given pairs.
func NewDictionary(pairs ...DictionaryPair) DictionaryValue { return DictionaryValue(pairs) }

func (v DictionaryValue) Type() Type { return TypeDictionary }

func (v DictionaryValue) Equal(other Value) bool {
	o, ok := other.(DictionaryValue)
	if !ok || len(o) != len(v) {
		return false
	}

	for _, pair := range v {
		val, found := o.Get(pair.Key)
		if !found || !pair.Value.Equal(val) {
			return false
		}
	}
	return true
}

func (v DictionaryValue) String() string {
	parts := make([]string, len(v))
	for i, pair := range v {
		parts[i] = pair.Key.String() + ": " + pair.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Get returns the value stored under key, if any.
func (v DictionaryValue) Get(key Value) (Value, bool) {
	for _, pair := range v {
		if pair.Key.Equal(key) {
			return pair.Value, true
		}
	}
	return nil, false
}

// ContainsKey reports whether the dictionary holds an entry under key.
func (v DictionaryValue) ContainsKey(key Value) bool {
	_, ok := v.Get(key)
	return ok
}
