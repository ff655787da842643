// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package bootspec

import (
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"
)

type testExtension struct {
	Key string `json:"key"`
}

func withExtensions(extensions string) string {
	return strings.Replace(basicDocument, `"org.nixos.specialisation.v1": {}`,
		`"org.nixos.specialisation.v1": {}, `+extensions, 1)
}

func TestParseTypedExtension(t *testing.T) {
	document, err := Parse([]byte(withExtensions(`"org.test": {"key": "hello"}`)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if keys := document.Extensions.Keys(); !slices.Equal(keys, []string{"org.test"}) {
		t.Fatalf("extension keys = %v, want [org.test]", keys)
	}

	var extension testExtension
	if err := document.Extensions.Decode("org.test", &extension); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if extension.Key != "hello" {
		t.Errorf("extension key = %q, want hello", extension.Key)
	}

	v1, _ := AsV1(document.Generation)
	if !v1.BootSpec.Equal(basicBootSpec()) {
		t.Errorf("bootspec = %+v", v1.BootSpec)
	}
}

func TestParseNullExtensionNamesKey(t *testing.T) {
	_, err := Parse([]byte(withExtensions(`"org.test": null`)))

	var extensionError *ExtensionError
	if !errors.As(err, &extensionError) {
		t.Fatalf("error = %v, want *ExtensionError", err)
	}
	if extensionError.Key != "org.test" {
		t.Errorf("Key = %q, want org.test", extensionError.Key)
	}
	if !errors.Is(err, ErrNullExtension) {
		t.Errorf("errors.Is(%v, ErrNullExtension) = false", err)
	}
	if !strings.Contains(err.Error(), `"org.test"`) {
		t.Errorf("message %q does not name the key", err.Error())
	}
}

func TestParseNullInsideExtensionIsFine(t *testing.T) {
	// Only a null extension value itself is rejected; nulls nested
	// inside an extension value are the extension's own business.
	document, err := Parse([]byte(withExtensions(`"org.test": {"key": null}`)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := document.Extensions["org.test"]; !ok {
		t.Error("extension org.test missing")
	}
}

func TestParseEmptyExtensionKey(t *testing.T) {
	_, err := Parse([]byte(withExtensions(`"": 1`)))
	if !errors.Is(err, ErrEmptyExtensionKey) {
		t.Errorf("error = %v, want ErrEmptyExtensionKey", err)
	}
}

func TestExtensionsNeverOverlapSchemaKeys(t *testing.T) {
	document, err := Parse([]byte(withExtensions(
		`"org.test": 1, "org.nixos.systemd-boot": {"sortKey": "nixos"}, "com.example": [true], `+
			`"org.nixos.bootspec.v2": {"label": "next"}, "org.nixos.specialisation.v2": {}`)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []string{"com.example", "org.nixos.systemd-boot", "org.test"}
	if keys := document.Extensions.Keys(); !slices.Equal(keys, want) {
		t.Errorf("extension keys = %v, want %v", keys, want)
	}
	for key := range document.Extensions {
		if IsReservedKey(key) || key == VersionKey || slices.Contains(generationV1Keys, key) {
			t.Errorf("schema-owned key %q captured as an extension", key)
		}
	}
}

func TestParseDuplicateJSONKeyKeepsLast(t *testing.T) {
	document, err := Parse([]byte(withExtensions(`"org.test": 1, "org.test": 2`)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := string(document.Extensions["org.test"]); got != "2" {
		t.Errorf("org.test = %s, want 2", got)
	}
}

func TestExtensionValuesKeepTheirType(t *testing.T) {
	document, err := Parse([]byte(withExtensions(
		`"org.number": 12345678901234567890, "org.float": 1.50, "org.string": "1", "org.bool": false`)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	tests := map[string]string{
		"org.number": "12345678901234567890",
		"org.float":  "1.50",
		"org.string": `"1"`,
		"org.bool":   "false",
	}
	for key, want := range tests {
		if got := string(document.Extensions[key]); got != want {
			t.Errorf("extension %s = %s, want %s", key, got, want)
		}
	}

	encoded, err := document.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	for _, literal := range []string{"12345678901234567890", "1.50"} {
		if !strings.Contains(string(encoded), literal) {
			t.Errorf("encoded document lost literal %s: %s", literal, encoded)
		}
	}
}

func TestExtensionsSet(t *testing.T) {
	extensions := Extensions{}
	if err := extensions.Set("org.test", testExtension{Key: "hello"}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := string(extensions["org.test"]); got != `{"key":"hello"}` {
		t.Errorf("stored value = %s", got)
	}

	var decoded testExtension
	if err := extensions.Decode("org.test", &decoded); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Key != "hello" {
		t.Errorf("decoded = %+v", decoded)
	}
	if err := extensions.Decode("org.absent", &decoded); err == nil {
		t.Error("Decode of an absent key succeeded")
	}
}

func TestExtensionsSetRejects(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   any
		wantErr error
	}{
		{name: "empty key", key: "", value: 1, wantErr: ErrEmptyExtensionKey},
		{name: "reserved key", key: "org.nixos.bootspec.v2", value: 1, wantErr: ErrReservedExtensionKey},
		{name: "version key", key: VersionKey, value: 2, wantErr: ErrReservedExtensionKey},
		{name: "nil value", key: "org.test", value: nil, wantErr: ErrNullExtension},
		{name: "nil pointer", key: "org.test", value: (*testExtension)(nil), wantErr: ErrNullExtension},
		{name: "unencodable", key: "org.test", value: make(chan int), wantErr: ErrInvalidExtension},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			extensions := Extensions{}
			err := extensions.Set(test.key, test.value)

			var extensionError *ExtensionError
			if !errors.As(err, &extensionError) {
				t.Fatalf("error = %v, want *ExtensionError", err)
			}
			if extensionError.Key != test.key {
				t.Errorf("Key = %q, want %q", extensionError.Key, test.key)
			}
			if !errors.Is(err, test.wantErr) {
				t.Errorf("errors.Is(%v, %v) = false", err, test.wantErr)
			}
			if len(extensions) != 0 {
				t.Errorf("rejected value was stored: %v", extensions)
			}
		})
	}
}

func TestExtensionsEqual(t *testing.T) {
	tests := []struct {
		name  string
		left  Extensions
		right Extensions
		equal bool
	}{
		{name: "nil and empty", left: nil, right: Extensions{}, equal: true},
		{
			name:  "whitespace and key order",
			left:  Extensions{"org.test": json.RawMessage(`{"a": 1, "b": [true, "x"]}`)},
			right: Extensions{"org.test": json.RawMessage(`{"b":[true,"x"],"a":1}`)},
			equal: true,
		},
		{
			name:  "numerically equal",
			left:  Extensions{"org.test": json.RawMessage(`1`)},
			right: Extensions{"org.test": json.RawMessage(`1.0`)},
			equal: true,
		},
		{
			name:  "large integers compare exactly",
			left:  Extensions{"org.test": json.RawMessage(`9007199254740993`)},
			right: Extensions{"org.test": json.RawMessage(`9007199254740992`)},
			equal: false,
		},
		{
			name:  "integral float beyond float precision",
			left:  Extensions{"org.test": json.RawMessage(`9007199254740993`)},
			right: Extensions{"org.test": json.RawMessage(`9007199254740992.0`)},
			equal: false,
		},
		{
			name:  "different value",
			left:  Extensions{"org.test": json.RawMessage(`"1"`)},
			right: Extensions{"org.test": json.RawMessage(`1`)},
			equal: false,
		},
		{
			name:  "different keys",
			left:  Extensions{"org.a": json.RawMessage(`1`)},
			right: Extensions{"org.b": json.RawMessage(`1`)},
			equal: false,
		},
		{
			name:  "extra key",
			left:  Extensions{"org.a": json.RawMessage(`1`)},
			right: Extensions{"org.a": json.RawMessage(`1`), "org.b": json.RawMessage(`2`)},
			equal: false,
		},
		{
			name:  "array length",
			left:  Extensions{"org.a": json.RawMessage(`[1]`)},
			right: Extensions{"org.a": json.RawMessage(`[1, 1]`)},
			equal: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.left.Equal(test.right); got != test.equal {
				t.Errorf("left.Equal(right) = %v, want %v", got, test.equal)
			}
			if got := test.right.Equal(test.left); got != test.equal {
				t.Errorf("right.Equal(left) = %v, want %v", got, test.equal)
			}
		})
	}
}
