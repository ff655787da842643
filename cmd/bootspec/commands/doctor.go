// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/nixboot/bootspec/cmd/bootspec/cli"
	"github.com/nixboot/bootspec/cmd/bootspec/cli/doctor"
	"github.com/nixboot/bootspec/lib/bootspec"
	"github.com/nixboot/bootspec/lib/nix"
	"github.com/nixboot/bootspec/lib/synthesize"
)

type doctorParams struct {
	cli.JSONOutput
	configParams
}

func doctorCommand(stdout io.Writer) *cli.Command {
	var params doctorParams

	return &cli.Command{
		Name:    "doctor",
		Summary: "Check a configuration root for everything synthesis reads",
		Description: `Check each well-known entry of a configuration root (OS version,
platform, kernel image, kernel modules, kernel parameters, init, initrd,
secrets appender, specialisations) and then attempt synthesis.

Where "bootspec synthesize" stops at the first problem, doctor reports
every entry, so a broken layout is diagnosed file by file. Without a
root argument the config file's root is used (default:
/run/current-system). Exits with status 1 if any check fails.`,
		Usage: "bootspec doctor [root] [flags]",
		Examples: []cli.Example{
			{
				Description: "Check the running system",
				Command:     "bootspec doctor",
			},
			{
				Description: "Check a freshly built system as JSON",
				Command:     "bootspec doctor ./result --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("doctor", &params)
		},
		Run: func(args []string) error {
			if len(args) > 1 {
				return fmt.Errorf("expected at most 1 argument, got %d\n\nUsage:\n  bootspec doctor [root] [flags]", len(args))
			}
			cfg, logger, err := params.load()
			if err != nil {
				return err
			}
			root := cfg.Root
			if len(args) == 1 {
				root = args[0]
			}

			results, version := runChecks(root, cfg.SchemaVersion, logger.With("command", "doctor", "root", root))

			if done, err := params.EmitJSON(stdout, doctor.BuildJSON(root, results, version)); done {
				if err != nil {
					return err
				}
				if doctor.Failed(results) {
					return &cli.ExitError{Code: 1}
				}
				return nil
			}
			return doctor.PrintChecklist(stdout, results, isTerminal(stdout))
		},
	}
}

// runChecks checks every entry of the layout under root and, if none
// failed, synthesizes a document of version. It returns the results and
// the version synthesized, or 0 when synthesis did not succeed.
func runChecks(root string, version int64, logger *slog.Logger) ([]doctor.Result, int64) {
	var results []doctor.Result

	resolved, err := filepath.Abs(root)
	if err == nil {
		resolved, err = filepath.EvalSymlinks(resolved)
	}
	if err != nil {
		results = append(results,
			doctor.Fail("configuration root", err.Error()),
			doctor.Skip("synthesis", "configuration root is not readable"),
		)
		return results, 0
	}
	results = append(results, doctor.Pass("configuration root", resolved))
	if storePath, err := nix.ParseStorePath(resolved); err == nil {
		results = append(results, doctor.Pass("store entry", storePath.Name))
	} else {
		results = append(results, doctor.Warn("store entry", err.Error()))
	}

	system := ""
	if data, err := os.ReadFile(filepath.Join(resolved, synthesize.SystemFile)); err == nil {
		system = strings.TrimSpace(string(data))
	}
	for _, entry := range synthesize.Layout(system) {
		results = append(results, checkEntry(resolved, entry))
	}

	if doctor.Failed(results) {
		results = append(results, doctor.Skip("synthesis", "required entries are missing or invalid"))
		return results, 0
	}

	synthesizer := synthesize.Synthesizer{Logger: logger}
	document, err := synthesizer.Document(resolved, version, nil)
	if err != nil {
		results = append(results, doctor.Fail("synthesis", err.Error()))
		return results, 0
	}
	results = append(results, doctor.Pass("synthesis", describeDocument(document)))
	return results, document.Version()
}

// checkEntry reports whether one layout entry is present and of the
// expected kind.
func checkEntry(root string, entry synthesize.Entry) doctor.Result {
	path := filepath.Join(root, entry.Path)
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && entry.Optional:
		return doctor.Pass(entry.Name, fmt.Sprintf("%s not present (optional)", entry.Path))
	case errors.Is(err, fs.ErrNotExist) && entry.Unchecked:
		return doctor.Warn(entry.Name, fmt.Sprintf("%s not present; it is recorded without being checked", entry.Path))
	case err != nil:
		return doctor.Fail(entry.Name, err.Error())
	}

	if entry.Kind == synthesize.KindDirectory && !info.IsDir() {
		return doctor.Fail(entry.Name, fmt.Sprintf("%s is not a directory", path))
	}
	if entry.Kind == synthesize.KindFile && info.IsDir() {
		return doctor.Fail(entry.Name, fmt.Sprintf("%s is a directory", path))
	}

	if entry.Path == synthesize.ModulesDir {
		return checkKernelVersion(entry.Name, path)
	}

	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return doctor.Fail(entry.Name, err.Error())
	}
	return doctor.Pass(entry.Name, target)
}

// checkKernelVersion requires exactly one kernel version directory.
func checkKernelVersion(name, directory string) doctor.Result {
	entries, err := os.ReadDir(directory)
	if err != nil {
		return doctor.Fail(name, err.Error())
	}
	if len(entries) != 1 {
		var candidates []string
		for _, entry := range entries {
			candidates = append(candidates, entry.Name())
		}
		return doctor.Fail(name, (&synthesize.KernelVersionError{Dir: directory, Candidates: candidates}).Error())
	}
	return doctor.Pass(name, "kernel version "+entries[0].Name())
}

func describeDocument(document bootspec.Document) string {
	description := fmt.Sprintf("v%d document", document.Version())
	if generation, err := bootspec.AsV1(document.Generation); err == nil {
		description += fmt.Sprintf(", %q, %d specialisation(s)",
			generation.BootSpec.Label, len(generation.Specialisations))
	}
	return description
}

// isTerminal reports whether w is a terminal, for colouring output.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
