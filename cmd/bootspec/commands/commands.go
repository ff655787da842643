// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the bootspec CLI command tree. The bootspec
// binary runs the whole tree; bootspec-synthesize and bootspec-validate
// each run a single command from it, so the three binaries share one
// implementation.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nixboot/bootspec/cmd/bootspec/cli"
	"github.com/nixboot/bootspec/lib/bootspec"
	"github.com/nixboot/bootspec/lib/config"
)

// Root builds and returns the complete bootspec CLI command tree, writing
// command output to stdout.
func Root() *cli.Command {
	return root(os.Stdout)
}

func root(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name: "bootspec",
		Description: `bootspec: boot specification documents.

Synthesize boot.json from a NixOS configuration root, validate and
re-encode existing documents, and diagnose configuration roots that
fail to synthesize.`,
		Subcommands: []*cli.Command{
			Synthesize(stdout),
			Validate(stdout),
			convertCommand(stdout),
			diagCommand(stdout),
			doctorCommand(stdout),
			versionCommand(stdout),
		},
	}
}

// configParams adds --config to a command's parameters.
type configParams struct {
	Config string `json:"-" flag:"config" desc:"path to a bootspec.yaml config file (default: $BOOTSPEC_CONFIG)"`
}

// load resolves the configuration and builds a logger at its log level.
func (p *configParams) load() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Resolve(p.Config)
	if err != nil {
		return nil, nil, err
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	return cfg, cli.NewCommandLogger(level), nil
}

// requireArgs fails unless exactly want positional arguments were given.
func requireArgs(args []string, want int, usage string) error {
	if len(args) != want {
		return fmt.Errorf("expected %d argument(s), got %d\n\nUsage:\n  %s", want, len(args), usage)
	}
	return nil
}

// writeDocument writes document to path in format, or to stdout when
// path is "-".
func writeDocument(stdout io.Writer, path string, document bootspec.Document, format bootspec.Format) error {
	if path != "-" {
		return bootspec.WriteFile(path, document, format)
	}
	data, err := bootspec.Encode(document, format)
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}
