package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrNoKey = errors.New("record has no such key")

// extractor picks the part of a record which is sorted by.
type extractor func(record any) (any, error)

// parseKey parses the --key flag of the sort command. "self" sorts by the record itself, "index:N" by the
// N-th element of list records and "field:NAME" by the field NAME of map records.
func parseKey(key string) (extractor, error) {
	kind, argument, _ := strings.Cut(key, ":")
	switch kind {
	case "self":
		return func(record any) (any, error) {
			return record, nil
		}, nil
	case "index":
		position, err := strconv.Atoi(argument)
		if err != nil || position < 0 {
			return nil, fmt.Errorf("invalid key index %q", argument)
		}
		return func(record any) (any, error) {
			list, ok := record.([]any)
			if !ok || position >= len(list) {
				return nil, fmt.Errorf("%w: index %d", ErrNoKey, position)
			}
			return list[position], nil
		}, nil
	case "field":
		if argument == "" {
			return nil, errors.New("missing key field name")
		}
		return func(record any) (any, error) {
			fields, ok := record.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%w: field %q", ErrNoKey, argument)
			}
			value, ok := fields[argument]
			if !ok {
				return nil, fmt.Errorf("%w: field %q", ErrNoKey, argument)
			}
			return value, nil
		}, nil
	default:
		return nil, fmt.Errorf("unsupported key %q", key)
	}
}

// numberKey converts the extracted value into a number.
func numberKey(extract extractor) func(record any) (float64, error) {
	return func(record any) (float64, error) {
		value, err := extract(record)
		if err != nil {
			return 0, err
		}
		switch number := value.(type) {
		case int64:
			return float64(number), nil
		case uint64:
			return float64(number), nil
		case int:
			return float64(number), nil
		case float64:
			return number, nil
		case float32:
			return float64(number), nil
		case bool:
			if number {
				return 1, nil
			}
			return 0, nil
		default:
			return 0, fmt.Errorf("key %v of type %T is not a number", value, value)
		}
	}
}

// stringKey converts the extracted value into a string.
func stringKey(extract extractor) func(record any) (string, error) {
	return func(record any) (string, error) {
		value, err := extract(record)
		if err != nil {
			return "", err
		}
		if text, ok := value.(string); ok {
			return text, nil
		}
		return fmt.Sprint(value), nil
	}
}
