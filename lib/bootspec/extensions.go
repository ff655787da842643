// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package bootspec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
)

// Extensions maps an extension namespace (conventionally reverse-DNS,
// e.g. "org.example.loader") to its value. Values are kept as the exact
// JSON received so that numbers, nesting, and key order survive a
// round trip untouched.
type Extensions map[string]json.RawMessage

// Set marshals value and stores it under key. It rejects empty and
// reserved keys and values that encode as null.
func (e Extensions) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return &ExtensionError{Key: key, Err: fmt.Errorf("%w: %v", ErrInvalidExtension, err)}
	}
	if err := checkExtension(key, raw); err != nil {
		return err
	}
	e[key] = raw
	return nil
}

// Decode unmarshals the extension stored under key into target.
func (e Extensions) Decode(key string, target any) error {
	raw, ok := e[key]
	if !ok {
		return fmt.Errorf("bootspec: no extension %q", key)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return &ExtensionError{Key: key, Err: err}
	}
	return nil
}

// Keys returns the extension namespaces in sorted order.
func (e Extensions) Keys() []string {
	return slices.Sorted(maps.Keys(e))
}

// Equal reports structural equality: same keys, and values that decode
// to the same JSON value regardless of whitespace or object key order.
func (e Extensions) Equal(other Extensions) bool {
	if len(e) != len(other) {
		return false
	}
	for key, value := range e {
		otherValue, ok := other[key]
		if !ok || !equalJSON(value, otherValue) {
			return false
		}
	}
	return true
}

// captureExtensions returns every field that is not excluded. The
// exclusion set is the keys the schema decode consumed, the keys
// declared by every registered schema, and anything else in a reserved
// namespace.
func captureExtensions(fields map[string]json.RawMessage, consumed []string) (Extensions, error) {
	excluded := make(map[string]bool, len(consumed)+2*len(schemas)+1)
	excluded[VersionKey] = true
	for _, key := range consumed {
		excluded[key] = true
	}
	for _, registered := range schemas {
		for _, key := range registered.keys {
			excluded[key] = true
		}
	}

	extensions := make(Extensions)
	for _, key := range sortedKeys(fields) {
		if excluded[key] || IsReservedKey(key) {
			continue
		}
		value := fields[key]
		if err := checkExtension(key, value); err != nil {
			return nil, err
		}
		extensions[key] = value
	}
	return extensions, nil
}

func checkExtension(key string, value json.RawMessage) error {
	switch {
	case key == "":
		return &ExtensionError{Key: key, Err: ErrEmptyExtensionKey}
	case IsReservedKey(key):
		return &ExtensionError{Key: key, Err: ErrReservedExtensionKey}
	case isNull(value):
		return &ExtensionError{Key: key, Err: ErrNullExtension}
	case !json.Valid(value):
		return &ExtensionError{Key: key, Err: ErrInvalidExtension}
	}
	return nil
}

// decodeObject splits a top-level JSON document into raw fields.
func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	fields, err := expectObject(data)
	if err != nil {
		return nil, fmt.Errorf("bootspec: document: %w", err)
	}
	return fields, nil
}

func expectObject(raw json.RawMessage) (map[string]json.RawMessage, error) {
	if kind := jsonKind(raw); kind != "object" {
		return nil, fmt.Errorf("expected a JSON object, got %s", kind)
	}
	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err != nil {
		return nil, err
	}
	return object, nil
}

// jsonKind names the JSON type of raw from its first significant byte.
func jsonKind(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "nothing"
	}
	switch trimmed[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	}
	return "number"
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

// equalJSON compares two JSON texts as values. Numbers compare by
// value: as integers when both are integral, otherwise as floats.
func equalJSON(a, b json.RawMessage) bool {
	if bytes.Equal(a, b) {
		return true
	}
	left, errLeft := decodeValue(a)
	right, errRight := decodeValue(b)
	if errLeft != nil || errRight != nil {
		return false
	}
	return equalValue(left, right)
}

// decodeValue decodes one JSON value keeping numbers as json.Number.
func decodeValue(raw json.RawMessage) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}
	if decoder.More() {
		return nil, errors.New("trailing data after JSON value")
	}
	return value, nil
}

func equalValue(a, b any) bool {
	switch left := a.(type) {
	case map[string]any:
		right, ok := b.(map[string]any)
		if !ok || len(left) != len(right) {
			return false
		}
		for key, value := range left {
			otherValue, ok := right[key]
			if !ok || !equalValue(value, otherValue) {
				return false
			}
		}
		return true
	case []any:
		right, ok := b.([]any)
		if !ok || len(left) != len(right) {
			return false
		}
		for i := range left {
			if !equalValue(left[i], right[i]) {
				return false
			}
		}
		return true
	case json.Number:
		right, ok := b.(json.Number)
		return ok && equalNumber(left, right)
	default:
		return a == b
	}
}

func equalNumber(a, b json.Number) bool {
	return a == b || canonicalNumber(a) == canonicalNumber(b)
}

// canonicalNumber maps a JSON number to the value it denotes: int64 or
// uint64 when the value is integral and fits, float64 otherwise. 1 and
// 1.0 share a canonical value, so equality and the CBOR form agree.
// Literals outside the float64 range stay text.
func canonicalNumber(number json.Number) any {
	text := number.String()
	if integer, err := strconv.ParseInt(text, 10, 64); err == nil {
		return integer
	}
	if unsigned, err := strconv.ParseUint(text, 10, 64); err == nil {
		return unsigned
	}
	float, err := number.Float64()
	if err != nil {
		return text
	}
	if math.Trunc(float) == float {
		switch {
		case float >= math.MinInt64 && float < math.MaxInt64:
			return int64(float)
		case float >= 0 && float < math.MaxUint64:
			return uint64(float)
		}
	}
	return float
}
