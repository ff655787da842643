// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/nixboot/bootspec/cmd/bootspec/cli"
	"github.com/nixboot/bootspec/lib/version"
)

type versionParams struct {
	Short bool `json:"short" flag:"short" desc:"print only the version number"`
}

func versionCommand(stdout io.Writer) *cli.Command {
	var params versionParams

	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("version", &params)
		},
		Run: func(args []string) error {
			if params.Short {
				fmt.Fprintln(stdout, version.Short())
				return nil
			}
			fmt.Fprintf(stdout, "bootspec %s\n", version.Full())
			return nil
		},
	}
}
