// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/nixboot/bootspec/cmd/bootspec/cli"
	"github.com/nixboot/bootspec/lib/bootspec"
	"github.com/nixboot/bootspec/lib/codec"
)

type convertParams struct {
	To string `json:"to" flag:"to" desc:"target encoding: json or cbor (default: from the output file extension)"`
}

func convertCommand(stdout io.Writer) *cli.Command {
	var params convertParams

	return &cli.Command{
		Name:    "convert",
		Summary: "Re-encode a document between JSON and CBOR",
		Description: `Read a bootspec document in any supported encoding (JSON, JSONC, or
CBOR) and write it in the target encoding. The document is fully
parsed and validated on the way through, so extensions round-trip
unchanged and an invalid input is never re-encoded.

Without --to, an output path ending in .cbor selects CBOR and anything
else selects JSON. Pass "-" as the output path to write to stdout.`,
		Usage: "bootspec convert <in> <out> [flags]",
		Examples: []cli.Example{
			{
				Description: "Write the binary form of boot.json",
				Command:     "bootspec convert boot.json boot.cbor",
			},
			{
				Description: "Print a CBOR document as JSON",
				Command:     "bootspec convert boot.cbor - --to json",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("convert", &params)
		},
		Run: func(args []string) error {
			if err := requireArgs(args, 2, "bootspec convert <in> <out> [flags]"); err != nil {
				return err
			}
			in, out := args[0], args[1]

			format, err := targetFormat(params.To, out)
			if err != nil {
				return err
			}
			document, err := bootspec.ReadFile(in)
			if err != nil {
				return err
			}
			return writeDocument(stdout, out, document, format)
		},
	}
}

// targetFormat resolves --to, falling back to the output file extension.
func targetFormat(to, out string) (bootspec.Format, error) {
	if to != "" {
		return bootspec.ParseFormat(to)
	}
	if filepath.Ext(out) == ".cbor" {
		return bootspec.FormatCBOR, nil
	}
	return bootspec.FormatJSON, nil
}

func diagCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "diag",
		Summary: "Print the CBOR form of a document in diagnostic notation",
		Description: `Parse a bootspec document in any supported encoding, encode it as CBOR,
and print the result in CBOR diagnostic notation (RFC 8949 Section 8).

This is the quickest way to see exactly what "bootspec convert --to
cbor" writes: map keys appear in Core Deterministic order and integers
are shown as integers.`,
		Usage: "bootspec diag <path>",
		Examples: []cli.Example{
			{
				Description: "Inspect a binary document",
				Command:     "bootspec diag boot.cbor",
			},
		},
		Run: func(args []string) error {
			if err := requireArgs(args, 1, "bootspec diag <path>"); err != nil {
				return err
			}
			document, err := bootspec.ReadFile(args[0])
			if err != nil {
				return err
			}
			data, err := document.MarshalCBOR()
			if err != nil {
				return err
			}
			notation, err := codec.Diagnose(data)
			if err != nil {
				return fmt.Errorf("diagnostic notation: %w", err)
			}
			_, err = fmt.Fprintln(stdout, notation)
			return err
		},
	}
}
