// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

// Package bootspec implements the versioned boot specification document
// ("boot.json"): a record of how to boot one system configuration
// (kernel, initrd, kernel parameters, init, and nested specialisations)
// plus open-ended extension data owned by callers.
//
// A document is a single flat JSON object. The schema-owned keys live
// under two reserved namespaces, org.nixos.bootspec.* and
// org.nixos.specialisation.*; every other top-level key is an extension
// and is preserved exactly as received:
//
//	{
//	  "org.nixos.bootspec.version": 1,
//	  "org.nixos.bootspec.v1": {"label": "...", "kernel": "...", ...},
//	  "org.nixos.specialisation.v1": {"gpu": {...}},
//	  "org.example.loader": {"timeout": 5}
//	}
//
// Decoding is two-channel. The document is first read as a map of raw
// values. The version tag selects exactly one registered schema (there
// is no "try each version" fallback), the schema decodes its own keys
// and reports which keys it consumed, and everything left over outside
// the reserved org.nixos.bootspec. and org.nixos.specialisation.
// namespaces becomes [Extensions]. Keys a schema does not know inside
// its own objects are ignored so newer documents stay readable. Because extensions are derived from the keys the
// schema actually consumed, the two channels can never overlap.
//
// Key exports:
//
//   - [Document] -- a [Generation] plus [Extensions]; [Parse], [ReadFile], [WriteFile]
//   - [Generation] -- sealed interface over schema versions; [GenerationV1] today
//   - [ParseGeneration] and [MarshalGeneration] -- the version dispatcher alone
//   - [ErrVersion], [SchemaError], [ExtensionError] -- the parse error taxonomy
//
// Documents may also be encoded as CBOR (see [Document.MarshalCBOR]);
// decoded CBOR goes through the same dispatch and capture path as JSON.
//
// Synthesizing a document from a configuration directory lives in
// lib/synthesize so that this package never touches the filesystem
// beyond the explicit [ReadFile] and [WriteFile] helpers.
package bootspec
