package values

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidLiteral is returned by Parse when the input does not follow the
// "Type:payload" literal form or the payload cannot be parsed.
var ErrInvalidLiteral = errors.New("invalid value literal")

// Parse converts a "Type:payload" literal into a Value. It is used by the CLI
// to accept typed script and transaction arguments.
//
// Supported forms:
//
//	Int64:-42
//	UInt64:42
//	String:hello world
//	Bool:true
//	Address:0x01
//	Nil
//
// Array and Dictionary literals are not supported.
func Parse(s string) (Value, error) {
	if s == string(TypeNil) {
		return Nil(), nil
	}

	typ, payload, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("%w: missing type prefix in %q", ErrInvalidLiteral, s)
	}

	switch Type(typ) {
	case TypeInt64:
		n, err := strconv.ParseInt(payload, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLiteral, err)
		}
		return NewInt64(n), nil

	case TypeUInt64:
		n, err := strconv.ParseUint(payload, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLiteral, err)
		}
		return NewUInt64(n), nil

	case TypeString:
		return NewString(payload), nil

	case TypeBool:
		b, err := strconv.ParseBool(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLiteral, err)
		}
		return NewBool(b), nil

	case TypeAddress:
		if !strings.HasPrefix(payload, "0x") {
			return nil, fmt.Errorf("%w: address must start with 0x", ErrInvalidLiteral)
		}
		return NewAddress(payload), nil

	default:
		return nil, fmt.Errorf("%w: unsupported type %q", ErrInvalidLiteral, typ)
	}
}
