// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding configuration for the binary
// form of bootspec documents.
//
// JSON (boot.json) is the canonical encoding. The CBOR form carries the
// same flat top-level map for consumers that prefer a compact binary
// file, and is produced by `bootspec synthesize --format cbor` and
// `bootspec convert`. The encoder uses Core Deterministic Encoding
// (RFC 8949 §4.2), so the same document always produces identical
// bytes:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Untyped maps decode as map[string]any, never map[any]any, so decoded
// values can be handed straight to encoding/json.
package codec
