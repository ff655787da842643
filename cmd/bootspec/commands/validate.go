// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/pflag"

	"github.com/nixboot/bootspec/cmd/bootspec/cli"
	"github.com/nixboot/bootspec/lib/bootspec"
)

type validateParams struct {
	cli.JSONOutput
}

// validateResult is the --json report of a validate run.
type validateResult struct {
	Path            string          `json:"path"`
	Valid           bool            `json:"valid"`
	Version         int64           `json:"version,omitempty"`
	Format          bootspec.Format `json:"format,omitempty"`
	Digest          string          `json:"digest,omitempty"`
	Specialisations []string        `json:"specialisations,omitempty"`
	Extensions      []string        `json:"extensions,omitempty"`
	Error           string          `json:"error,omitempty"`
}

// Validate returns the command that checks a document parses under a
// supported schema version.
func Validate(stdout io.Writer) *cli.Command {
	var params validateParams

	return &cli.Command{
		Name:    "validate",
		Summary: "Check that a bootspec document is well formed",
		Description: `Parse a bootspec document (JSON, JSONC, or CBOR) and report its schema
version. A document is valid when its version tag names a supported
schema, every schema-owned field decodes, and every extension is a
non-null value outside the schema-owned namespaces.

An invalid document exits with status 1 and a diagnostic naming the
failing field or extension.`,
		Usage: "bootspec validate <path> [flags]",
		Examples: []cli.Example{
			{
				Description: "Validate the current boot.json",
				Command:     "bootspec validate /run/current-system/boot.json",
			},
			{
				Description: "Report the version and extension keys as JSON",
				Command:     "bootspec validate boot.json --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("validate", &params)
		},
		Run: func(args []string) error {
			if err := requireArgs(args, 1, "bootspec validate <path> [flags]"); err != nil {
				return err
			}
			path := args[0]

			result, err := validateFile(path)
			if done, emitErr := params.EmitJSON(stdout, result); done {
				if emitErr != nil {
					return emitErr
				}
				if err != nil {
					return &cli.ExitError{Code: 1}
				}
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(stdout, "%s: valid v%d document\n", path, result.Version)
			return nil
		},
	}
}

// validateFile parses path and describes it. The result is filled in
// even when err is non-nil.
func validateFile(path string) (validateResult, error) {
	result := validateResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("reading %s: %w", path, err)
		result.Error = err.Error()
		return result, err
	}
	result.Format = bootspec.Detect(data)

	document, err := bootspec.ParseAny(data)
	if err != nil {
		err = fmt.Errorf("%s: %w", path, err)
		result.Error = err.Error()
		return result, err
	}

	digest, err := document.Digest()
	if err != nil {
		err = fmt.Errorf("%s: %w", path, err)
		result.Error = err.Error()
		return result, err
	}

	result.Valid = true
	result.Version = document.Version()
	result.Digest = digest.String()
	result.Extensions = document.Extensions.Keys()
	if generation, err := bootspec.AsV1(document.Generation); err == nil {
		for name := range generation.Specialisations {
			result.Specialisations = append(result.Specialisations, string(name))
		}
		slices.Sort(result.Specialisations)
	}
	return result, nil
}
