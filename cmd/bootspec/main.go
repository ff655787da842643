// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

// bootspec synthesizes, validates, and converts boot specification
// documents.
package main

import (
	"os"

	"github.com/nixboot/bootspec/cmd/bootspec/commands"
	"github.com/nixboot/bootspec/lib/process"
)

func main() {
	// Commands that print their own output (validate --json, doctor)
	// return an error carrying the exit code; process.Exit does not
	// print a redundant "error:" line for those.
	process.Exit(commands.Root().Execute(os.Args[1:]))
}
