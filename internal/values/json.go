package values

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrUnknownType is returned when decoding a payload whose declared type is
// not part of the value model.
var ErrUnknownType = errors.New("unknown value type")

// envelope is the wire representation of a Value: the declared type plus a
// type-specific payload. Integers travel as strings to avoid JSON number
// precision loss.
type envelope struct {
	Type  Type            `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type pairEnvelope struct {
	Key   envelope `json:"key"`
	Value envelope `json:"value"`
}

// Encode serializes a Value into its JSON envelope form.
func Encode(v Value) ([]byte, error) {
	env, err := toEnvelope(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(env)
}

// Decode parses a JSON envelope back into a Value.
func Decode(data []byte) (Value, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	return fromEnvelope(env)
}

func toEnvelope(v Value) (envelope, error) {
	if v == nil {
		return envelope{Type: TypeNil}, nil
	}

	var (
		payload any
		err     error
	)

	switch tv := v.(type) {
	case Int64Value:
		payload = strconv.FormatInt(int64(tv), 10)
	case UInt64Value:
		payload = strconv.FormatUint(uint64(tv), 10)
	case StringValue:
		payload = string(tv)
	case BoolValue:
		payload = bool(tv)
	case AddressValue:
		payload = string(tv)
	case NilValue:
		return envelope{Type: TypeNil}, nil
	case ArrayValue:
		elems := make([]envelope, len(tv))
		for i, elem := range tv {
			if elems[i], err = toEnvelope(elem); err != nil {
				return envelope{}, err
			}
		}
		payload = elems
	case DictionaryValue:
		pairs := make([]pairEnvelope, len(tv))
		for i, pair := range tv {
			if pairs[i].Key, err = toEnvelope(pair.Key); err != nil {
				return envelope{}, err
			}
			if pairs[i].Value, err = toEnvelope(pair.Value); err != nil {
				return envelope{}, err
			}
		}
		payload = pairs
	default:
		return envelope{}, fmt.Errorf("%w: %T", ErrUnknownType, v)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return envelope{}, err
	}

	return envelope{Type: v.Type(), Value: raw}, nil
}

func fromEnvelope(env envelope) (Value, error) {
	switch env.Type {
	case TypeInt64:
		var s string
		if err := json.Unmarshal(env.Value, &s); err != nil {
			return nil, err
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		return NewInt64(n), nil

	case TypeUInt64:
		var s string
		if err := json.Unmarshal(env.Value, &s); err != nil {
			return nil, err
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, err
		}
		return NewUInt64(n), nil

	case TypeString:
		var s string
		if err := json.Unmarshal(env.Value, &s); err != nil {
			return nil, err
		}
		return NewString(s), nil

	case TypeBool:
		var b bool
		if err := json.Unmarshal(env.Value, &b); err != nil {
			return nil, err
		}
		return NewBool(b), nil

	case TypeAddress:
		var s string
		if err := json.Unmarshal(env.Value, &s); err != nil {
			return nil, err
		}
		return NewAddress(s), nil

	case TypeNil:
		return Nil(), nil

	case TypeArray:
		var elems []envelope
		if err := json.Unmarshal(env.Value, &elems); err != nil {
			return nil, err
		}
		arr := make(ArrayValue, len(elems))
		for i, elem := range elems {
			v, err := fromEnvelope(elem)
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil

	case TypeDictionary:
		var pairs []pairEnvelope
		if err := json.Unmarshal(env.Value, &pairs); err != nil {
			return nil, err
		}
		dict := make(DictionaryValue, len(pairs))
		for i, pair := range pairs {
			k, err := fromEnvelope(pair.Key)
			if err != nil {
				return nil, err
			}
			v, err := fromEnvelope(pair.Value)
			if err != nil {
				return nil, err
			}
			dict[i] = DictionaryPair{Key: k, Value: v}
		}
		return dict, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
}

// EncodeAll serializes a slice of values into a JSON array of envelopes.
func EncodeAll(vs []Value) ([]byte, error) {
	envs := make([]envelope, len(vs))
	for i, v := range vs {
		env, err := toEnvelope(v)
		if err != nil {
			return nil, err
		}
		envs[i] = env
	}
	return json.Marshal(envs)
}

// DecodeAll parses a JSON array of envelopes into a slice of values.
func DecodeAll(data []byte) ([]Value, error) {
	var envs []envelope
	if err := json.Unmarshal(data, &envs); err != nil {
		return nil, err
	}

	vs := make([]Value, len(envs))
	for i, env := range envs {
		v, err := fromEnvelope(env)
		if err != nil {
			return nil, err
		}
		vs[i] = v
	}
	return vs, nil
}
