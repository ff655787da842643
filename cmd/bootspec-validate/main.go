// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

// bootspec-validate checks that a boot.json parses under a supported
// schema version. It is the standalone form of "bootspec validate".
package main

import (
	"os"

	"github.com/nixboot/bootspec/cmd/bootspec/commands"
	"github.com/nixboot/bootspec/lib/process"
)

func main() {
	command := commands.Validate(os.Stdout)
	command.Name = "bootspec-validate"
	command.Usage = "bootspec-validate <path> [flags]"
	process.Exit(command.Execute(os.Args[1:]))
}
