// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// Generation describes the configuration root written by
// [WriteConfigurationRoot].
type Generation struct {
	// OSVersion is written to nixos-version, followed by a newline.
	OSVersion string

	// System is written to system. It also selects the kernel image
	// name: bzImage for x86, Image otherwise.
	System string

	// KernelVersions name the directories created under
	// kernel-modules/lib/modules. Synthesis expects exactly one.
	KernelVersions []string

	// KernelParams is written verbatim to kernel-params.
	KernelParams string

	// Initrd and InitrdSecrets create the optional entries.
	Initrd        bool
	InitrdSecrets bool

	// Specialisations are written as nested roots in the store and
	// linked from the specialisation directory by name.
	Specialisations map[string]Generation
}

// DefaultGeneration returns a complete x86_64 generation with an initrd
// and a secrets appender but no specialisations.
func DefaultGeneration() Generation {
	return Generation{
		OSVersion:      "24.05.20240524.dirty",
		System:         "x86_64-linux",
		KernelVersions: []string{"6.6.31"},
		KernelParams:   "init=/nix/store/xxx/init loglevel=4\n",
		Initrd:         true,
		InitrdSecrets:  true,
	}
}

// WriteConfigurationRoot writes generation into a fresh temporary
// directory and returns the symlink-free path of its root.
func WriteConfigurationRoot(t testing.TB, generation Generation) string {
	t.Helper()

	base, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolving temporary directory: %v", err)
	}
	store := filepath.Join(base, "store")
	root := filepath.Join(store, "system-root")
	writeGeneration(t, store, root, generation)
	return root
}

func writeGeneration(t testing.TB, store, root string, generation Generation) {
	t.Helper()

	mkdir(t, root)
	writeFile(t, filepath.Join(root, "nixos-version"), generation.OSVersion+"\n")
	writeFile(t, filepath.Join(root, "system"), generation.System+"\n")
	writeFile(t, filepath.Join(root, "kernel-params"), generation.KernelParams)
	writeFile(t, filepath.Join(root, "init"), "#!/bin/sh\n")

	image := "Image"
	if generation.System == "x86_64-linux" || generation.System == "i686-linux" {
		image = "bzImage"
	}
	kernelStore := filepath.Join(store, filepath.Base(root)+"-linux")
	mkdir(t, kernelStore)
	writeFile(t, filepath.Join(kernelStore, image), "kernel")
	modules := filepath.Join(root, "kernel-modules", "lib", "modules")
	mkdir(t, modules)
	symlink(t, filepath.Join(kernelStore, image), filepath.Join(root, "kernel-modules", image))
	for _, version := range generation.KernelVersions {
		mkdir(t, filepath.Join(modules, version))
	}

	if generation.Initrd {
		initrdStore := filepath.Join(store, filepath.Base(root)+"-initrd")
		mkdir(t, initrdStore)
		writeFile(t, filepath.Join(initrdStore, "initrd"), "initrd")
		symlink(t, filepath.Join(initrdStore, "initrd"), filepath.Join(root, "initrd"))
	}
	if generation.InitrdSecrets {
		writeFile(t, filepath.Join(root, "append-initrd-secrets"), "#!/bin/sh\n")
	}

	if len(generation.Specialisations) == 0 {
		return
	}
	specialisations := filepath.Join(root, "specialisation")
	mkdir(t, specialisations)
	names := make([]string, 0, len(generation.Specialisations))
	for name := range generation.Specialisations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		nestedRoot := filepath.Join(store, filepath.Base(root)+"-specialisation-"+name)
		writeGeneration(t, store, nestedRoot, generation.Specialisations[name])
		symlink(t, nestedRoot, filepath.Join(specialisations, name))
	}
}

func mkdir(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
}

func writeFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func symlink(t testing.TB, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("linking %s -> %s: %v", link, target, err)
	}
}
