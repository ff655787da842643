// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package bootspec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// VersionKey is the top-level key holding the integer schema version.
// It is read before any schema-specific decoding so that a document is
// only ever validated against the schema it claims.
const VersionKey = "org.nixos.bootspec.version"

// LatestVersion is the newest schema version this package implements.
// Synthesis targets it by default.
const LatestVersion = SchemaVersionV1

// reservedPrefixes are the schema-owned namespaces. Every key under
// them belongs to some schema version, implemented here or not, and is
// never captured as an extension. Keys the dispatched schema does not
// consume are dropped, so a document written by a newer schema revision
// still decodes.
var reservedPrefixes = []string{"org.nixos.bootspec.", "org.nixos.specialisation."}

// Generation is a schema-version-tagged boot generation. The set of
// implementations is closed ([GenerationV1] today); use [AsV1] or a type
// switch to reach the concrete model.
type Generation interface {
	// Version returns the schema version tag, e.g. 1.
	Version() int64

	fields() (map[string]json.RawMessage, error)
	equalGeneration(other Generation) bool
}

// schema is one registered schema version.
type schema struct {
	// keys lists every top-level key the schema may consume.
	keys []string

	// decode builds a generation from the top-level fields and returns
	// the keys it consumed.
	decode func(fields map[string]json.RawMessage) (Generation, []string, error)
}

var schemas = map[int64]schema{
	SchemaVersionV1: {
		keys: generationV1Keys,
		decode: func(fields map[string]json.RawMessage) (Generation, []string, error) {
			generation, consumed, err := decodeGenerationV1(fields, nil)
			if err != nil {
				return nil, nil, err
			}
			return generation, consumed, nil
		},
	},
}

// SupportedVersions returns the implemented schema versions in
// ascending order.
func SupportedVersions() []int64 {
	versions := make([]int64, 0, len(schemas))
	for version := range schemas {
		versions = append(versions, version)
	}
	slices.Sort(versions)
	return versions
}

// IsSupportedVersion reports whether version has a registered schema.
func IsSupportedVersion(version int64) bool {
	_, ok := schemas[version]
	return ok
}

// IsReservedKey reports whether key lies in a schema-owned namespace.
func IsReservedKey(key string) bool {
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// AsV1 returns the v1 model wrapped by generation.
func AsV1(generation Generation) (GenerationV1, error) {
	switch typed := generation.(type) {
	case GenerationV1:
		return typed, nil
	case *GenerationV1:
		if typed != nil {
			return *typed, nil
		}
	}
	if generation == nil {
		return GenerationV1{}, fmt.Errorf("bootspec: no generation")
	}
	return GenerationV1{}, fmt.Errorf("bootspec: generation is schema version %d, not %d",
		generation.Version(), SchemaVersionV1)
}

// ParseGeneration decodes the schema-owned part of a top-level JSON
// document. Extension keys are ignored; use [Parse] to keep them.
func ParseGeneration(data []byte) (Generation, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return nil, err
	}
	generation, _, err := dispatch(fields)
	return generation, err
}

// MarshalGeneration encodes generation as a top-level document with its
// version tag and no extensions.
func MarshalGeneration(generation Generation) ([]byte, error) {
	fields, err := generationFields(generation)
	if err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

// generationFields returns the schema-owned top-level fields of
// generation including the version tag.
func generationFields(generation Generation) (map[string]json.RawMessage, error) {
	if generation == nil {
		return nil, fmt.Errorf("bootspec: no generation")
	}
	fields, err := generation.fields()
	if err != nil {
		return nil, fmt.Errorf("bootspec: %w", err)
	}
	fields[VersionKey] = json.RawMessage(strconv.FormatInt(generation.Version(), 10))
	return fields, nil
}

// dispatch reads the version tag, decodes the matching schema, and
// returns the generation together with every key it consumed (the
// version tag included).
func dispatch(fields map[string]json.RawMessage) (Generation, []string, error) {
	version, err := readVersion(fields)
	if err != nil {
		return nil, nil, err
	}
	registered, ok := schemas[version]
	if !ok {
		return nil, nil, &UnsupportedVersionError{Version: version}
	}

	generation, consumed, err := registered.decode(fields)
	if err != nil {
		return nil, nil, err
	}
	consumed = append(consumed, VersionKey)
	return generation, consumed, nil
}

func readVersion(fields map[string]json.RawMessage) (int64, error) {
	raw, ok := fields[VersionKey]
	if !ok {
		return 0, ErrMissingVersion
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return 0, &InvalidVersionError{Raw: string(bytes.TrimSpace(raw))}
	}
	number, ok := value.(json.Number)
	if !ok {
		return 0, &InvalidVersionError{Raw: string(bytes.TrimSpace(raw))}
	}
	version, err := strconv.ParseInt(number.String(), 10, 64)
	if err != nil {
		return 0, &InvalidVersionError{Raw: number.String()}
	}
	return version, nil
}
