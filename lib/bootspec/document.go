// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package bootspec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// Document is a complete bootspec document: the schema-owned generation
// plus the caller-defined extensions that travel with it. The two key
// sets never intersect.
type Document struct {
	Generation Generation
	Extensions Extensions
}

// NewDocument returns a document for generation with no extensions.
func NewDocument(generation Generation) Document {
	return Document{Generation: generation, Extensions: Extensions{}}
}

// Version returns the schema version of the document's generation, or
// 0 if it has none.
func (d Document) Version() int64 {
	if d.Generation == nil {
		return 0
	}
	return d.Generation.Version()
}

// Equal reports structural equality of both the generation and the
// extensions. A nil and an empty Extensions are equal.
func (d Document) Equal(other Document) bool {
	if d.Generation == nil || other.Generation == nil {
		return d.Generation == nil && other.Generation == nil && d.Extensions.Equal(other.Extensions)
	}
	return d.Generation.equalGeneration(other.Generation) && d.Extensions.Equal(other.Extensions)
}

// flatten merges the generation's schema-owned fields with the
// extensions into the single top-level object that goes on the wire.
func (d Document) flatten() (map[string]json.RawMessage, error) {
	fields, err := generationFields(d.Generation)
	if err != nil {
		return nil, err
	}
	for _, key := range d.Extensions.Keys() {
		value := d.Extensions[key]
		if err := checkExtension(key, value); err != nil {
			return nil, err
		}
		if _, taken := fields[key]; taken {
			return nil, &ExtensionError{Key: key, Err: ErrReservedExtensionKey}
		}
		fields[key] = value
	}
	return fields, nil
}

// MarshalJSON encodes the document as one flat object with sorted keys.
func (d Document) MarshalJSON() ([]byte, error) {
	fields, err := d.flatten()
	if err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

// UnmarshalJSON decodes a top-level document. The version tag selects
// the schema; every remaining non-reserved key becomes an extension.
func (d *Document) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}
	decoded, err := documentFromFields(fields)
	if err != nil {
		return err
	}
	*d = decoded
	return nil
}

// documentFromFields runs both decode channels over the same fields:
// version dispatch for the schema-owned keys, then extension capture
// for the rest.
func documentFromFields(fields map[string]json.RawMessage) (Document, error) {
	generation, consumed, err := dispatch(fields)
	if err != nil {
		return Document{}, err
	}
	extensions, err := captureExtensions(fields, consumed)
	if err != nil {
		return Document{}, err
	}
	return Document{Generation: generation, Extensions: extensions}, nil
}

// Parse decodes a JSON document. Comments and trailing commas (JSONC)
// are accepted and stripped before decoding.
func Parse(data []byte) (Document, error) {
	var document Document
	if err := document.UnmarshalJSON(jsonc.ToJSON(data)); err != nil {
		return Document{}, err
	}
	return document, nil
}

// MarshalIndent encodes the document with two-space indentation and
// sorted keys, the form written to boot.json.
func MarshalIndent(document Document) ([]byte, error) {
	compact, err := document.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var indented bytes.Buffer
	if err := json.Indent(&indented, compact, "", "  "); err != nil {
		return nil, fmt.Errorf("bootspec: indenting document: %w", err)
	}
	return indented.Bytes(), nil
}

// ReadFile reads and decodes the document at path. The encoding (JSON,
// JSONC, or CBOR) is detected from the content.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	document, err := ParseAny(data)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return document, nil
}

// WriteFile encodes the document in format and atomically replaces path
// with it. JSON output is indented and ends in a newline. The parent
// directory must already exist.
func WriteFile(path string, document Document, format Format) error {
	data, err := Encode(document, format)
	if err != nil {
		return err
	}
	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// writeAtomic writes data to a temporary file beside path, fsyncs it,
// and renames it into place, so readers never see a partial document.
func writeAtomic(path string, data []byte) error {
	temporaryPath := path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return err
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return err
	}

	// The rename is durable only once the directory entry is flushed.
	if directory, err := os.Open(filepath.Dir(path)); err == nil {
		directory.Sync()
		directory.Close()
	}
	return nil
}
