// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework shared by the bootspec
// binaries.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. The bootspec tree is assembled in cmd/bootspec/commands
// and dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and structured help output with examples. The
// single-purpose binaries (bootspec-synthesize, bootspec-validate) run
// one command of that tree as their root.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
//
// Flags are declared as tagged struct fields and bound with
// [FlagsFromParams]. Embedding [JSONOutput] adds a --json flag and the
// [JSONOutput.EmitJSON] helper. Commands that report their own failure
// return [ExitError] so main exits non-zero without repeating the
// message.
package cli
