// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for bootspec packages.
//
// [WriteConfigurationRoot] lays out a fake system configuration root in
// a temporary directory: the version and platform files, a kernel image
// and module tree, the kernel command line, init, and optionally an
// initrd, a secrets appender, and nested specialisation roots. The
// kernel, initrd, and specialisation entries are symlinks into a sibling
// "store" directory, as they are on a real system, so canonicalization
// is exercised. The returned root path is itself symlink-free, so tests
// can compare synthesized paths against it directly.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no bootspec-internal dependencies; the layout it
// writes mirrors the entries listed by synthesize.Layout.
package testutil
