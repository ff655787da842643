// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package nix

import (
	"fmt"
	"strings"
)

// StoreDir is the Nix store every store path lives under.
const StoreDir = "/nix/store"

const storePrefix = StoreDir + "/"

// hashLength is the length of the base-32 digest that starts every
// store entry name.
const hashLength = 32

// StorePath is one store entry.
type StorePath struct {
	// Hash is the base-32 digest prefix of the entry name.
	Hash string

	// Name is the entry name after the hash, e.g.
	// "nixos-system-host-24.05".
	Name string
}

// String returns the absolute path of the store entry.
func (p StorePath) String() string {
	return storePrefix + p.Hash + "-" + p.Name
}

// StoreDirectory returns the store entry directory containing path:
//
//	"/nix/store/abc-linux-6.6.31/bzImage" → "/nix/store/abc-linux-6.6.31"
//	"/nix/store/abc-linux-6.6.31"         → "/nix/store/abc-linux-6.6.31"
//
// Returns an error for paths not under /nix/store/ or paths that are
// exactly /nix/store/ with no entry name.
func StoreDirectory(path string) (string, error) {
	if !strings.HasPrefix(path, storePrefix) {
		return "", fmt.Errorf("path %q is not under %s/", path, StoreDir)
	}

	remainder := path[len(storePrefix):]
	if remainder == "" {
		return "", fmt.Errorf("path %q has no store entry name", path)
	}

	entry, _, _ := strings.Cut(remainder, "/")
	return storePrefix + entry, nil
}

// ParseStorePath splits the store entry containing path into its hash
// and name. The hash must be 32 characters and separated from a
// non-empty name by a dash.
func ParseStorePath(path string) (StorePath, error) {
	directory, err := StoreDirectory(path)
	if err != nil {
		return StorePath{}, err
	}
	entry := directory[len(storePrefix):]

	hash, name, found := strings.Cut(entry, "-")
	if !found || len(hash) != hashLength || name == "" {
		return StorePath{}, fmt.Errorf("store entry %q is not of the form <hash>-<name>", entry)
	}
	return StorePath{Hash: hash, Name: name}, nil
}
