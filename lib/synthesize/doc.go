// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

// Package synthesize builds a bootspec document by inspecting a realized
// system configuration directory, for generations that predate boot.json
// or were built without one.
//
// Synthesis reads a fixed set of well-known entries relative to the
// configuration root (see [Layout]): the OS version and platform files,
// the kernel image and its module tree, the kernel command line, the
// init program, the optional initrd and secrets appender, and one
// nested configuration root per specialisation. Every path recorded in
// the result is absolute; the kernel, initrd, toplevel, and
// specialisation roots are symlink-resolved.
//
// Synthesis is a pure function of the filesystem. Running it twice over
// an unchanged tree yields equal documents.
//
//	document, err := synthesize.Latest("/nix/var/nix/profiles/system")
//
// A [Synthesizer] with a Logger traces each file it reads at debug
// level; the package-level functions use a silent one.
package synthesize
