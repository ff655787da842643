// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/nixboot/bootspec/cmd/bootspec/cli"
	"github.com/nixboot/bootspec/lib/bootspec"
	"github.com/nixboot/bootspec/lib/synthesize"
)

type synthesizeParams struct {
	configParams
	Version int64  `json:"version" flag:"version" desc:"schema version to synthesize (default: config schema_version)"`
	Format  string `json:"format"  flag:"format"  desc:"output encoding: json or cbor (default: config format)"`
}

// Synthesize returns the command that builds a document from a
// configuration root and writes it to a file.
func Synthesize(stdout io.Writer) *cli.Command {
	var params synthesizeParams

	return &cli.Command{
		Name:    "synthesize",
		Summary: "Synthesize a bootspec document from a configuration root",
		Description: `Read a NixOS configuration root and write the boot.json describing it.

The root and every specialisation under it are resolved to their
symlink-free store paths. Extensions from the config file's extensions
map are attached to the document. Pass "-" as the output path to
write to stdout.`,
		Usage: "bootspec synthesize <root> <out> [flags]",
		Examples: []cli.Example{
			{
				Description: "Describe the running system",
				Command:     "bootspec synthesize /run/current-system boot.json",
			},
			{
				Description: "Write the CBOR form of a built system",
				Command:     "bootspec synthesize ./result boot.cbor --format cbor",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("synthesize", &params)
		},
		Run: func(args []string) error {
			if err := requireArgs(args, 2, "bootspec synthesize <root> <out> [flags]"); err != nil {
				return err
			}
			root, out := args[0], args[1]

			cfg, logger, err := params.load()
			if err != nil {
				return err
			}

			version := cfg.SchemaVersion
			if params.Version != 0 {
				version = params.Version
			}
			formatName := cfg.Format
			if params.Format != "" {
				formatName = params.Format
			}
			format, err := bootspec.ParseFormat(formatName)
			if err != nil {
				return err
			}
			extensions, err := cfg.DocumentExtensions()
			if err != nil {
				return err
			}

			logger = logger.With("command", "synthesize", "root", root)
			synthesizer := synthesize.Synthesizer{Logger: logger}
			document, err := synthesizer.Document(root, version, extensions)
			if err != nil {
				return fmt.Errorf("synthesizing %s: %w", root, err)
			}

			if err := writeDocument(stdout, out, document, format); err != nil {
				return err
			}
			logger.Info("wrote bootspec document",
				"out", out,
				"version", document.Version(),
				"format", format,
				"extensions", len(document.Extensions),
			)
			return nil
		},
	}
}
