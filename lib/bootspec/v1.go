// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package bootspec

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// SchemaVersionV1 is the version tag of the v1 schema.
const SchemaVersionV1 int64 = 1

// Top-level keys owned by the v1 schema.
const (
	// BootSpecKeyV1 holds the [BootSpecV1] object.
	BootSpecKeyV1 = "org.nixos.bootspec.v1"

	// SpecialisationKeyV1 holds the map of specialisation name to nested
	// v1 generation. Optional on input; always emitted.
	SpecialisationKeyV1 = "org.nixos.specialisation.v1"
)

// generationV1Keys is every top-level key a v1 generation may consume.
var generationV1Keys = []string{BootSpecKeyV1, SpecialisationKeyV1}

// BootSpecV1 is the content of the org.nixos.bootspec.v1 object.
//
// Optional paths use the empty string for "absent" and are omitted from
// the encoded form. Fields without omitempty are required on input.
type BootSpecV1 struct {
	// Label is a human-readable name for the configuration, e.g.
	// "NixOS 24.05 (Linux 6.6.30)".
	Label string `json:"label"`

	// Kernel is the path to the kernel image.
	Kernel string `json:"kernel"`

	// KernelParams is the ordered kernel command line.
	KernelParams []string `json:"kernelParams"`

	// Init is the path to the init program.
	Init string `json:"init"`

	// Initrd is the path to the initial ramdisk, if the configuration
	// has one.
	Initrd string `json:"initrd,omitempty"`

	// InitrdSecrets is the path to the program that appends secrets to
	// the initrd, if the configuration has one.
	InitrdSecrets string `json:"initrdSecrets,omitempty"`

	// System is the platform double, e.g. "x86_64-linux".
	System string `json:"system"`

	// Toplevel is the configuration root this record describes.
	Toplevel SystemConfigurationRoot `json:"toplevel"`
}

// bootSpecV1Required is derived from the struct tags so the required
// keys cannot drift from the struct.
var bootSpecV1Required = requiredFields(reflect.TypeFor[BootSpecV1]())

// Equal reports structural equality. A nil and an empty KernelParams
// are equal (both encode as []).
func (b BootSpecV1) Equal(other BootSpecV1) bool {
	return b.Label == other.Label &&
		b.Kernel == other.Kernel &&
		slices.Equal(b.KernelParams, other.KernelParams) &&
		b.Init == other.Init &&
		b.Initrd == other.Initrd &&
		b.InitrdSecrets == other.InitrdSecrets &&
		b.System == other.System &&
		b.Toplevel == other.Toplevel
}

func (b BootSpecV1) marshal() (json.RawMessage, error) {
	if b.KernelParams == nil {
		b.KernelParams = []string{}
	}
	return json.Marshal(b)
}

// SpecialisationsV1 maps specialisation names to nested generations.
type SpecialisationsV1 map[SpecialisationName]GenerationV1

// GenerationV1 is a complete v1 generation: the boot record plus its
// specialisations, recursively. Nested generations never carry
// extensions; those live only on the outermost [Document].
type GenerationV1 struct {
	BootSpec        BootSpecV1
	Specialisations SpecialisationsV1
}

// Version returns [SchemaVersionV1].
func (GenerationV1) Version() int64 { return SchemaVersionV1 }

func (g GenerationV1) fields() (map[string]json.RawMessage, error) {
	bootspec, err := g.BootSpec.marshal()
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", BootSpecKeyV1, err)
	}

	specialisations := make(map[string]json.RawMessage, len(g.Specialisations))
	for name, nested := range g.Specialisations {
		encoded, err := json.Marshal(nested)
		if err != nil {
			return nil, fmt.Errorf("encoding specialisation %q: %w", name, err)
		}
		specialisations[string(name)] = encoded
	}
	encodedSpecialisations, err := json.Marshal(specialisations)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", SpecialisationKeyV1, err)
	}

	return map[string]json.RawMessage{
		BootSpecKeyV1:       bootspec,
		SpecialisationKeyV1: encodedSpecialisations,
	}, nil
}

func (g GenerationV1) equalGeneration(other Generation) bool {
	switch typed := other.(type) {
	case GenerationV1:
		return g.Equal(typed)
	case *GenerationV1:
		return typed != nil && g.Equal(*typed)
	}
	return false
}

// Equal reports structural equality, recursing into specialisations.
// Map order is irrelevant.
func (g GenerationV1) Equal(other GenerationV1) bool {
	if !g.BootSpec.Equal(other.BootSpec) || len(g.Specialisations) != len(other.Specialisations) {
		return false
	}
	for name, nested := range g.Specialisations {
		otherNested, ok := other.Specialisations[name]
		if !ok || !nested.Equal(otherNested) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes g in nested form: the two v1 keys without a
// version tag. Use [MarshalGeneration] or [Document] for a complete
// top-level document.
func (g GenerationV1) MarshalJSON() ([]byte, error) {
	fields, err := g.fields()
	if err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

// UnmarshalJSON decodes the nested form written by MarshalJSON. The
// version tag may be present if it names v1; other keys are ignored.
func (g *GenerationV1) UnmarshalJSON(data []byte) error {
	decoded, err := decodeNestedGenerationV1(data, nil)
	if err != nil {
		return err
	}
	*g = decoded
	return nil
}

// decodeGenerationV1 decodes a v1 generation from already-split
// top-level fields and reports which keys it consumed.
func decodeGenerationV1(fields map[string]json.RawMessage, path []string) (GenerationV1, []string, error) {
	raw, ok := fields[BootSpecKeyV1]
	if !ok {
		return GenerationV1{}, nil, schemaErrorV1(childPath(path, BootSpecKeyV1), ErrMissingField)
	}
	bootspec, err := decodeBootSpecV1(raw, childPath(path, BootSpecKeyV1))
	if err != nil {
		return GenerationV1{}, nil, err
	}
	consumed := []string{BootSpecKeyV1}

	specialisations := SpecialisationsV1{}
	if raw, ok := fields[SpecialisationKeyV1]; ok {
		consumed = append(consumed, SpecialisationKeyV1)
		specialisations, err = decodeSpecialisationsV1(raw, childPath(path, SpecialisationKeyV1))
		if err != nil {
			return GenerationV1{}, nil, err
		}
	}

	return GenerationV1{BootSpec: bootspec, Specialisations: specialisations}, consumed, nil
}

func decodeSpecialisationsV1(raw json.RawMessage, path []string) (SpecialisationsV1, error) {
	entries, err := expectObject(raw)
	if err != nil {
		return nil, schemaErrorV1(path, err)
	}

	specialisations := make(SpecialisationsV1, len(entries))
	for _, name := range sortedKeys(entries) {
		if name == "" {
			return nil, schemaErrorV1(path, errors.New("specialisation name must not be empty"))
		}
		nested, err := decodeNestedGenerationV1(entries[name], childPath(path, name))
		if err != nil {
			return nil, err
		}
		specialisations[SpecialisationName(name)] = nested
	}
	return specialisations, nil
}

// decodeNestedGenerationV1 decodes a specialisation's generation. Nested
// objects have the same shape as a top-level v1 document minus
// extensions: a repeated version tag must agree with v1, and any other
// key is dropped.
func decodeNestedGenerationV1(raw json.RawMessage, path []string) (GenerationV1, error) {
	fields, err := expectObject(raw)
	if err != nil {
		return GenerationV1{}, schemaErrorV1(path, err)
	}

	if _, ok := fields[VersionKey]; ok {
		version, err := readVersion(fields)
		if err != nil {
			return GenerationV1{}, schemaErrorV1(childPath(path, VersionKey), err)
		}
		if version != SchemaVersionV1 {
			return GenerationV1{}, schemaErrorV1(childPath(path, VersionKey),
				fmt.Errorf("nested generation is tagged version %d inside a version %d document", version, SchemaVersionV1))
		}
	}

	generation, _, err := decodeGenerationV1(fields, path)
	return generation, err
}

func decodeBootSpecV1(raw json.RawMessage, path []string) (BootSpecV1, error) {
	object, err := expectObject(raw)
	if err != nil {
		return BootSpecV1{}, schemaErrorV1(path, err)
	}

	for _, key := range bootSpecV1Required {
		value, ok := object[key]
		if !ok {
			return BootSpecV1{}, schemaErrorV1(childPath(path, key), ErrMissingField)
		}
		if isNull(value) {
			return BootSpecV1{}, schemaErrorV1(childPath(path, key), ErrNullField)
		}
	}

	var bootspec BootSpecV1
	if err := json.Unmarshal(raw, &bootspec); err != nil {
		var typeError *json.UnmarshalTypeError
		if errors.As(err, &typeError) && typeError.Field != "" {
			return BootSpecV1{}, schemaErrorV1(childPath(path, strings.Split(typeError.Field, ".")...),
				fmt.Errorf("expected %s, got JSON %s", typeError.Type, typeError.Value))
		}
		return BootSpecV1{}, schemaErrorV1(path, err)
	}
	return bootspec, nil
}

func schemaErrorV1(path []string, err error) *SchemaError {
	return &SchemaError{Version: SchemaVersionV1, Path: path, Err: err}
}

// requiredFields lists the JSON keys of a struct type without omitempty.
func requiredFields(structType reflect.Type) []string {
	var required []string
	for i := range structType.NumField() {
		tag := structType.Field(i).Tag.Get("json")
		name, options, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		if !slices.Contains(strings.Split(options, ","), "omitempty") {
			required = append(required, name)
		}
	}
	return required
}

// childPath returns a new slice; path is never aliased.
func childPath(path []string, keys ...string) []string {
	child := make([]string, 0, len(path)+len(keys))
	child = append(child, path...)
	return append(child, keys...)
}
