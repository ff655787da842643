// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package synthesize

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nixboot/bootspec/lib/bootspec"
)

// Synthesizer reads configuration roots. The zero value is ready to use.
type Synthesizer struct {
	// Logger receives debug-level traces of each entry read. Nil
	// discards them.
	Logger *slog.Logger
}

// generators maps each synthesizable schema version to its builder.
var generators = map[int64]func(s *Synthesizer, root string) (bootspec.Generation, error){
	bootspec.SchemaVersionV1: func(s *Synthesizer, root string) (bootspec.Generation, error) {
		return s.GenerationV1(root)
	},
}

// BootSpecV1 synthesizes the boot record of root, ignoring its
// specialisations.
func BootSpecV1(root string) (bootspec.BootSpecV1, error) {
	return (&Synthesizer{}).BootSpecV1(root)
}

// GenerationV1 synthesizes root and, recursively, its specialisations.
func GenerationV1(root string) (bootspec.GenerationV1, error) {
	return (&Synthesizer{}).GenerationV1(root)
}

// Document synthesizes a document of the given schema version with no
// extensions.
func Document(root string, version int64) (bootspec.Document, error) {
	return (&Synthesizer{}).Document(root, version, nil)
}

// Latest synthesizes a document of [bootspec.LatestVersion].
func Latest(root string) (bootspec.Document, error) {
	return (&Synthesizer{}).Latest(root)
}

// Latest synthesizes a document of [bootspec.LatestVersion] with no
// extensions.
func (s *Synthesizer) Latest(root string) (bootspec.Document, error) {
	return s.Document(root, bootspec.LatestVersion, nil)
}

// Document synthesizes a document of the given schema version and
// attaches extensions to it. An unsupported version fails with
// *bootspec.UnsupportedVersionError before the filesystem is touched.
func (s *Synthesizer) Document(root string, version int64, extensions bootspec.Extensions) (bootspec.Document, error) {
	generate, ok := generators[version]
	if !ok {
		return bootspec.Document{}, &bootspec.UnsupportedVersionError{Version: version}
	}

	generation, err := generate(s, root)
	if err != nil {
		return bootspec.Document{}, err
	}

	document := bootspec.NewDocument(generation)
	for _, key := range extensions.Keys() {
		if err := document.Extensions.Set(key, extensions[key]); err != nil {
			return bootspec.Document{}, err
		}
	}
	return document, nil
}

// GenerationV1 synthesizes root and one nested generation per entry of
// its specialisation directory.
func (s *Synthesizer) GenerationV1(root string) (bootspec.GenerationV1, error) {
	record, err := s.BootSpecV1(root)
	if err != nil {
		return bootspec.GenerationV1{}, err
	}
	canonicalRoot := string(record.Toplevel)

	specialisations := bootspec.SpecialisationsV1{}
	directory := filepath.Join(canonicalRoot, SpecialisationDir)
	entries, err := os.ReadDir(directory)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		entries = nil
	case err != nil:
		return bootspec.GenerationV1{}, &PathError{Op: OpList, Path: directory, Err: err}
	}

	for _, entry := range entries {
		name := entry.Name()
		nestedRoot, err := canonicalize(filepath.Join(directory, name))
		if err != nil {
			return bootspec.GenerationV1{}, err
		}
		s.logger().Debug("synthesizing specialisation", "name", name, "root", nestedRoot)

		nested, err := s.GenerationV1(nestedRoot)
		if err != nil {
			return bootspec.GenerationV1{}, fmt.Errorf("specialisation %q: %w", name, err)
		}
		specialisations[bootspec.SpecialisationName(name)] = nested
	}

	return bootspec.GenerationV1{BootSpec: record, Specialisations: specialisations}, nil
}

// BootSpecV1 synthesizes the boot record of root alone.
func (s *Synthesizer) BootSpecV1(root string) (bootspec.BootSpecV1, error) {
	logger := s.logger()

	canonicalRoot, err := canonicalize(root)
	if err != nil {
		return bootspec.BootSpecV1{}, err
	}
	logger.Debug("synthesizing generation", "root", canonicalRoot)

	osVersion, err := readTrimmed(canonicalRoot, VersionFile)
	if err != nil {
		return bootspec.BootSpecV1{}, err
	}
	system, err := readTrimmed(canonicalRoot, SystemFile)
	if err != nil {
		return bootspec.BootSpecV1{}, err
	}

	kernel, err := canonicalize(filepath.Join(canonicalRoot, KernelImage(system)))
	if err != nil {
		return bootspec.BootSpecV1{}, err
	}
	kernelVersion, err := readKernelVersion(canonicalRoot)
	if err != nil {
		return bootspec.BootSpecV1{}, err
	}
	logger.Debug("found kernel", "image", kernel, "version", kernelVersion, "system", system)

	kernelParams, err := readKernelParams(canonicalRoot)
	if err != nil {
		return bootspec.BootSpecV1{}, err
	}

	initrd, err := optionalPath(canonicalRoot, InitrdFile, true)
	if err != nil {
		return bootspec.BootSpecV1{}, err
	}
	initrdSecrets, err := optionalPath(canonicalRoot, InitrdSecretsFile, false)
	if err != nil {
		return bootspec.BootSpecV1{}, err
	}
	logger.Debug("optional entries", "initrd", initrd, "initrd_secrets", initrdSecrets)

	return bootspec.BootSpecV1{
		Label:         fmt.Sprintf("NixOS %s (Linux %s)", osVersion, kernelVersion),
		Kernel:        kernel,
		KernelParams:  kernelParams,
		Init:          filepath.Join(canonicalRoot, InitFile),
		Initrd:        initrd,
		InitrdSecrets: initrdSecrets,
		System:        system,
		Toplevel:      bootspec.SystemConfigurationRoot(canonicalRoot),
	}, nil
}

func (s *Synthesizer) logger() *slog.Logger {
	if s == nil || s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// canonicalize returns the absolute, symlink-free form of path.
func canonicalize(path string) (string, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", &PathError{Op: OpCanonicalize, Path: path, Err: err}
	}
	resolved, err := filepath.EvalSymlinks(absolute)
	if err != nil {
		return "", &PathError{Op: OpCanonicalize, Path: absolute, Err: err}
	}
	return resolved, nil
}

// readTrimmed reads a one-line file under root without its surrounding
// whitespace.
func readTrimmed(root, name string) (string, error) {
	path := filepath.Join(root, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &PathError{Op: OpRead, Path: path, Err: err}
	}
	return strings.TrimSpace(string(data)), nil
}

// readKernelParams splits the kernel command line on single spaces. An
// empty file is an empty command line.
func readKernelParams(root string) ([]string, error) {
	line, err := readTrimmed(root, KernelParamsFile)
	if err != nil {
		return nil, err
	}
	if line == "" {
		return []string{}, nil
	}
	return strings.Split(line, " "), nil
}

// readKernelVersion names the single directory under the kernel module
// tree.
func readKernelVersion(root string) (string, error) {
	directory, err := canonicalize(filepath.Join(root, ModulesDir))
	if err != nil {
		return "", err
	}
	entries, err := os.ReadDir(directory)
	if err != nil {
		return "", &PathError{Op: OpList, Path: directory, Err: err}
	}

	var candidates []string
	for _, entry := range entries {
		candidates = append(candidates, entry.Name())
	}
	if len(candidates) != 1 {
		return "", &KernelVersionError{Dir: directory, Candidates: candidates}
	}
	return candidates[0], nil
}

// optionalPath returns the path of name under root if it exists, and ""
// otherwise. With resolve set the returned path is symlink-resolved.
func optionalPath(root, name string, resolve bool) (string, error) {
	path := filepath.Join(root, name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", &PathError{Op: OpStat, Path: path, Err: err}
	}
	if !resolve {
		return path, nil
	}
	return canonicalize(path)
}
