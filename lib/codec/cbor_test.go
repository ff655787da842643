// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// sampleRecord uses json struct tags; fxamacker/cbor falls back to them
// when cbor tags are absent.
type sampleRecord struct {
	Label        string   `json:"label"`
	KernelParams []string `json:"kernelParams"`
	Initrd       string   `json:"initrd,omitempty"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRecord{
		Label:        "NixOS 24.05 (Linux 6.6.30)",
		KernelParams: []string{"quiet", "loglevel=4"},
		Initrd:       "/nix/store/abc-initrd/initrd",
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Marshal produced empty output")
	}

	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Label != original.Label || decoded.Initrd != original.Initrd ||
		strings.Join(decoded.KernelParams, " ") != strings.Join(original.KernelParams, " ") {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	// Go map iteration order is random; the encoding must not be.
	value := map[string]any{
		"org.nixos.bootspec.version": 1,
		"org.example.zeta":           true,
		"org.example.alpha":          []any{"a", "b"},
	}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	for range 20 {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic encoding violated: %x != %x", first, again)
		}
	}
}

func TestOmitemptyRespected(t *testing.T) {
	withInitrd := sampleRecord{Label: "a", Initrd: "/initrd"}
	withoutInitrd := sampleRecord{Label: "a"}

	dataWith, err := Marshal(withInitrd)
	if err != nil {
		t.Fatal(err)
	}
	dataWithout, err := Marshal(withoutInitrd)
	if err != nil {
		t.Fatal(err)
	}
	if len(dataWithout) >= len(dataWith) {
		t.Errorf("omitempty not effective: without=%d bytes, with=%d bytes",
			len(dataWithout), len(dataWith))
	}
}

func TestUntypedMapsDecodeWithStringKeys(t *testing.T) {
	data, err := Marshal(map[string]any{
		"org.example.loader": map[string]any{"timeout": 5, "entries": []any{"a"}},
	})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded map[string]any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	nested, ok := decoded["org.example.loader"].(map[string]any)
	if !ok {
		t.Fatalf("nested map decoded as %T, want map[string]any", decoded["org.example.loader"])
	}

	// The whole point of map[string]any: encoding/json accepts it.
	encoded, err := json.Marshal(nested)
	if err != nil {
		t.Fatalf("json.Marshal of decoded map: %v", err)
	}
	if string(encoded) != `{"entries":["a"],"timeout":5}` {
		t.Errorf("json form = %s", encoded)
	}
}

func TestUnmarshalRejectsDuplicateKeys(t *testing.T) {
	// a2 61 61 01 61 61 02: {"a": 1, "a": 2}
	data := []byte{0xa2, 0x61, 0x61, 0x01, 0x61, 0x61, 0x02}
	var decoded map[string]any
	if err := Unmarshal(data, &decoded); err == nil {
		t.Errorf("Unmarshal accepted duplicate map keys: %v", decoded)
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var decoded map[string]any
	if err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &decoded); err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(map[string]any{"label": "generation 42"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	notation, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(notation, `"label"`) {
		t.Errorf("notation %q does not contain \"label\"", notation)
	}
	if !strings.Contains(notation, `"generation 42"`) {
		t.Errorf("notation %q does not contain \"generation 42\"", notation)
	}
}

func BenchmarkMarshal(b *testing.B) {
	record := sampleRecord{
		Label:        "NixOS 24.05 (Linux 6.6.30)",
		KernelParams: []string{"quiet", "loglevel=4"},
	}

	b.ReportAllocs()
	for b.Loop() {
		Marshal(record)
	}
}
