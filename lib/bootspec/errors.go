// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package bootspec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrVersion is matched (via errors.Is) by every version-tag failure:
// a missing tag, a tag that is not an integer, and a tag naming a
// schema version this package does not implement.
var ErrVersion = errors.New("bootspec: schema version")

// ErrMissingVersion is returned when a document has no version tag.
var ErrMissingVersion = fmt.Errorf("%w: document has no %q key", ErrVersion, VersionKey)

// InvalidVersionError reports a version tag that is present but is not
// an integer (a string, a float, an object, null).
type InvalidVersionError struct {
	// Raw is the JSON text of the offending tag value.
	Raw string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("bootspec: invalid schema version %s: %q must be an integer", e.Raw, VersionKey)
}

func (e *InvalidVersionError) Is(target error) bool { return target == ErrVersion }

// UnsupportedVersionError reports a well-formed version tag naming a
// schema this package does not implement. No decode is attempted
// against any known schema when this error is returned.
type UnsupportedVersionError struct {
	Version int64
}

func (e *UnsupportedVersionError) Error() string {
	supported := make([]string, 0, len(schemas))
	for _, version := range SupportedVersions() {
		supported = append(supported, strconv.FormatInt(version, 10))
	}
	return fmt.Sprintf("bootspec: unsupported schema version %d (supported: %s)",
		e.Version, strings.Join(supported, ", "))
}

func (e *UnsupportedVersionError) Is(target error) bool { return target == ErrVersion }

// SchemaError reports a document whose version tag matched a supported
// schema but whose payload failed that schema's structural decode. Path
// locates the offending value from the top of the document, one element
// per object key.
type SchemaError struct {
	Version int64
	Path    []string
	Err     error
}

func (e *SchemaError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("bootspec: schema v%d: %v", e.Version, e.Err)
	}
	quoted := make([]string, len(e.Path))
	for i, element := range e.Path {
		quoted[i] = strconv.Quote(element)
	}
	return fmt.Sprintf("bootspec: schema v%d: %s: %v", e.Version, strings.Join(quoted, " > "), e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Field returns the innermost key of Path, or "" for document-level
// failures.
func (e *SchemaError) Field() string {
	if len(e.Path) == 0 {
		return ""
	}
	return e.Path[len(e.Path)-1]
}

var (
	// ErrMissingField is wrapped by a SchemaError for an absent required key.
	ErrMissingField = errors.New("missing required field")

	// ErrNullField is wrapped by a SchemaError for a required key holding null.
	ErrNullField = errors.New("required field is null")
)

var (
	// ErrNullExtension is wrapped by an ExtensionError for an explicit
	// null extension value. Absent extensions are fine; a null one
	// carries no information and indicates a caller bug.
	ErrNullExtension = errors.New("null extensions are not allowed")

	// ErrEmptyExtensionKey is wrapped by an ExtensionError for "".
	ErrEmptyExtensionKey = errors.New("extension namespace must not be empty")

	// ErrReservedExtensionKey is wrapped by an ExtensionError when a
	// caller-constructed extension uses a schema-owned key.
	ErrReservedExtensionKey = errors.New("key belongs to a schema-owned namespace")

	// ErrInvalidExtension is wrapped by an ExtensionError when a
	// caller-constructed extension value is not valid JSON.
	ErrInvalidExtension = errors.New("extension value is not valid JSON")
)

// ExtensionError reports an extension that cannot be captured or
// emitted. The message always names the offending key.
type ExtensionError struct {
	Key string
	Err error
}

func (e *ExtensionError) Error() string {
	return fmt.Sprintf("bootspec: extension %q: %v", e.Key, e.Err)
}

func (e *ExtensionError) Unwrap() error { return e.Err }
