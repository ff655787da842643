// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package synthesize

import "path/filepath"

// Well-known entries of a configuration root, relative to the root.
const (
	VersionFile       = "nixos-version"
	SystemFile        = "system"
	KernelParamsFile  = "kernel-params"
	InitFile          = "init"
	InitrdFile        = "initrd"
	InitrdSecretsFile = "append-initrd-secrets"
	SpecialisationDir = "specialisation"
	KernelModulesDir  = "kernel-modules"
)

// ModulesDir holds exactly one directory, named by the kernel version.
var ModulesDir = filepath.Join(KernelModulesDir, "lib", "modules")

// KernelImage returns the root-relative path of the kernel image for a
// platform double: bzImage on x86, Image everywhere else. i686-linux
// gets bzImage too, unlike earlier synthesizers that only special-cased
// x86_64-linux and pointed i686 roots at a nonexistent Image.
func KernelImage(system string) string {
	switch system {
	case "x86_64-linux", "i686-linux":
		return filepath.Join(KernelModulesDir, "bzImage")
	}
	return filepath.Join(KernelModulesDir, "Image")
}

// Kind distinguishes what an [Entry] is expected to be on disk.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// Entry is one path synthesis consults.
type Entry struct {
	// Name describes the entry for humans, e.g. "kernel image".
	Name string

	// Path is relative to the configuration root.
	Path string

	Kind Kind

	// Optional entries may be absent; synthesis then omits the
	// corresponding field (or, for specialisations, records none).
	Optional bool

	// Unchecked entries are recorded by path without being read or
	// resolved; their absence does not fail synthesis.
	Unchecked bool
}

// Layout lists every entry synthesis consults for a root whose platform
// double is system, in the order synthesis reads them.
func Layout(system string) []Entry {
	return []Entry{
		{Name: "OS version", Path: VersionFile, Kind: KindFile},
		{Name: "platform double", Path: SystemFile, Kind: KindFile},
		{Name: "kernel image", Path: KernelImage(system), Kind: KindFile},
		{Name: "kernel modules", Path: ModulesDir, Kind: KindDirectory},
		{Name: "kernel parameters", Path: KernelParamsFile, Kind: KindFile},
		{Name: "init program", Path: InitFile, Kind: KindFile, Unchecked: true},
		{Name: "initrd", Path: InitrdFile, Kind: KindFile, Optional: true},
		{Name: "initrd secrets appender", Path: InitrdSecretsFile, Kind: KindFile, Optional: true},
		{Name: "specialisations", Path: SpecialisationDir, Kind: KindDirectory, Optional: true},
	}
}
