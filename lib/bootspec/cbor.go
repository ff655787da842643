// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package bootspec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nixboot/bootspec/lib/codec"
)

// Format is a document encoding.
type Format string

const (
	// FormatJSON is the canonical encoding (boot.json).
	FormatJSON Format = "json"

	// FormatCBOR is the same flat object in CBOR Core Deterministic
	// Encoding.
	FormatCBOR Format = "cbor"
)

func (f Format) String() string { return string(f) }

// ParseFormat resolves a format name as given on a command line or in
// configuration.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatJSON, FormatCBOR:
		return Format(name), nil
	}
	return "", fmt.Errorf("unknown document format %q (expected %q or %q)", name, FormatJSON, FormatCBOR)
}

// Detect reports the encoding of data. A JSON document starts with an
// object or, when authored as JSONC, a comment; anything else is
// treated as CBOR.
func Detect(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '/') {
		return FormatJSON
	}
	return FormatCBOR
}

// ParseAny decodes a document in either encoding.
func ParseAny(data []byte) (Document, error) {
	if Detect(data) == FormatJSON {
		return Parse(data)
	}
	var document Document
	if err := document.UnmarshalCBOR(data); err != nil {
		return Document{}, err
	}
	return document, nil
}

// Encode serializes the document in format. JSON is indented and
// newline-terminated.
func Encode(document Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		data, err := MarshalIndent(document)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatCBOR:
		return document.MarshalCBOR()
	}
	return nil, fmt.Errorf("bootspec: unknown document format %q", format)
}

// MarshalCBOR encodes the document as a CBOR map with the same keys and
// values as the JSON form.
func (d Document) MarshalCBOR() ([]byte, error) {
	fields, err := d.flatten()
	if err != nil {
		return nil, err
	}
	values := make(map[string]any, len(fields))
	for key, raw := range fields {
		value, err := decodeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("bootspec: converting %q to CBOR: %w", key, err)
		}
		values[key] = cborValue(value)
	}
	data, err := codec.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("bootspec: encoding CBOR: %w", err)
	}
	return data, nil
}

// UnmarshalCBOR decodes a CBOR document. Each top-level value is lowered
// to JSON and the result goes through the same dispatch and extension
// capture as [Document.UnmarshalJSON].
func (d *Document) UnmarshalCBOR(data []byte) error {
	var values map[string]any
	if err := codec.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("bootspec: decoding CBOR: %w", err)
	}
	if values == nil {
		return fmt.Errorf("bootspec: document: expected a CBOR map")
	}
	fields := make(map[string]json.RawMessage, len(values))
	for key, value := range values {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("bootspec: lowering CBOR value %q to JSON: %w", key, err)
		}
		fields[key] = raw
	}
	decoded, err := documentFromFields(fields)
	if err != nil {
		return err
	}
	*d = decoded
	return nil
}

// cborValue replaces json.Number leaves with their canonical numeric
// value so integers encode as CBOR integers rather than text.
func cborValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		for key, element := range typed {
			typed[key] = cborValue(element)
		}
		return typed
	case []any:
		for i, element := range typed {
			typed[i] = cborValue(element)
		}
		return typed
	case json.Number:
		return canonicalNumber(typed)
	}
	return value
}
