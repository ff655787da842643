// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

// bootspec-synthesize writes the boot.json describing a configuration
// root. It is the standalone form of "bootspec synthesize", for use in
// system activation scripts.
package main

import (
	"os"

	"github.com/nixboot/bootspec/cmd/bootspec/commands"
	"github.com/nixboot/bootspec/lib/process"
)

func main() {
	command := commands.Synthesize(os.Stdout)
	command.Name = "bootspec-synthesize"
	command.Usage = "bootspec-synthesize <root> <out> [flags]"
	process.Exit(command.Execute(os.Args[1:]))
}
