package encoding

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Serializer describes how individual records are turned into bytes before they are grouped into a block. The
// string representation is what gets stored in the file header and must therefore never change.
type Serializer int

const (
	SerializerMsgpack Serializer = iota + 1 // We do not start at 0 to detect missing values.
	SerializerJSON
)

// String returns the name of the serializer as stored in the file header.
func (s Serializer) String() string {
	switch s {
	case SerializerMsgpack:
		return "msgpack"
	case SerializerJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Serializers provides a list of supported serializers. Helpful for writing tests and benchmarks which iterate over
// all possibilities.
var Serializers = []Serializer{
	SerializerMsgpack,
	SerializerJSON,
}

// DefaultSerializer is the compact binary serializer which should work fine for most use cases.
const DefaultSerializer = SerializerMsgpack

// ParseSerializer returns the serializer with the given name.
func ParseSerializer(name string) (Serializer, error) {
	for _, serializer := range Serializers {
		if serializer.String() == name {
			return serializer, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown serializer %q", ErrConfiguration, name)
}

// Marshaler is the function signature which all record serializers need to implement.
type Marshaler func(record any) ([]byte, error)

// Unmarshaler is the function signature which all record deserializers need to implement. record must be a pointer.
type Unmarshaler func(data []byte, record any) error

// GetMarshaler returns the marshaler matching the serializer.
func GetMarshaler(serializer Serializer) (Marshaler, error) {
	switch serializer {
	case SerializerMsgpack:
		return msgpack.Marshal, nil
	case SerializerJSON:
		return json.Marshal, nil
	default:
		return nil, fmt.Errorf("%w: unknown serializer %d", ErrConfiguration, serializer)
	}
}

// GetUnmarshaler returns the unmarshaler matching the serializer.
func GetUnmarshaler(serializer Serializer) (Unmarshaler, error) {
	switch serializer {
	case SerializerMsgpack:
		return unmarshalMsgpack, nil
	case SerializerJSON:
		return unmarshalJSON, nil
	default:
		return nil, fmt.Errorf("%w: unknown serializer %d", ErrConfiguration, serializer)
	}
}

// unmarshalMsgpack decodes integers into untyped records as int64/uint64 instead of the smallest fitting type.
func unmarshalMsgpack(data []byte, record any) error {
	decoder := msgpack.NewDecoder(bytes.NewReader(data))
	decoder.UseLooseInterfaceDecoding(true)
	return decoder.Decode(record)
}

// unmarshalJSON keeps integers of untyped records integral instead of turning every number into a float64.
func unmarshalJSON(data []byte, record any) error {
	untyped, ok := record.(*any)
	if !ok {
		return json.Unmarshal(data, record)
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(untyped); err != nil {
		return err
	}
	*untyped = NormalizeJSONNumbers(*untyped)
	return nil
}

// NormalizeJSONNumbers replaces json.Number values with int64 where they are integral and float64 otherwise. Numbers
// which fit neither are kept as strings. Lists and maps are normalized in place.
func NormalizeJSONNumbers(value any) any {
	switch typed := value.(type) {
	case json.Number:
		if integer, err := typed.Int64(); err == nil {
			return integer
		}
		if float, err := typed.Float64(); err == nil {
			return float
		}
		return typed.String()
	case []any:
		for i, element := range typed {
			typed[i] = NormalizeJSONNumbers(element)
		}
		return typed
	case map[string]any:
		for key, element := range typed {
			typed[key] = NormalizeJSONNumbers(element)
		}
		return typed
	default:
		return value
	}
}
