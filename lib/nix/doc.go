// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

// Package nix interprets Nix store paths.
//
// A configuration root is normally a symlink (/run/current-system,
// /nix/var/nix/profiles/system-42-link) into a store entry such as
// /nix/store/<hash>-nixos-system-<host>-<version>. `bootspec doctor`
// uses [ParseStorePath] to report which entry a root resolves to, and
// to warn when a root lives outside the store.
package nix
