// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for the bootspec
// tools.
//
// Configuration is optional. When used, it comes from a single file
// named by either a --config flag or the BOOTSPEC_CONFIG environment
// variable (see [Resolve]). There is no ~/.config discovery and no
// automatic file search, so the configuration in effect is always the
// one the caller named.
//
// The file sets the schema version and output format that synthesis
// targets, the command log level, the default configuration root, and
// a map of extensions attached to every synthesized document:
//
//	schema_version: 1
//	format: json
//	log_level: info
//	root: ${BOOTSPEC_ROOT:-/run/current-system}
//	extensions:
//	  org.example.loader:
//	    timeout: 5
//
// ${VAR} and ${VAR:-default} are expanded in root only. Extension
// values are opaque data and are passed through untouched.
//
// Key exports:
//
//   - [Config] -- the configuration struct
//   - [Default] -- a Config with every default filled in
//   - [Load], [LoadFile], and [Resolve] -- the loading entry points
package config
