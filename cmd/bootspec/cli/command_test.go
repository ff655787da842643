// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "bootspec",
		Subcommands: []*Command{
			{
				Name: "synthesize",
				Run: func(args []string) error {
					called = "synthesize"
					return nil
				},
			},
			{
				Name: "validate",
				Run: func(args []string) error {
					called = "validate"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"validate"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "validate" {
		t.Errorf("dispatched to %q, want %q", called, "validate")
	}
}

func TestCommand_Execute_PassesRemainingArgs(t *testing.T) {
	var receivedArgs []string

	root := &Command{
		Name: "bootspec",
		Subcommands: []*Command{
			{
				Name: "convert",
				Run: func(args []string) error {
					receivedArgs = args
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"convert", "boot.json", "boot.cbor"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(receivedArgs) != 2 || receivedArgs[0] != "boot.json" || receivedArgs[1] != "boot.cbor" {
		t.Errorf("args = %v, want [boot.json boot.cbor]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	type params struct {
		Format string `flag:"format" desc:"output format" default:"json"`
	}
	var p params
	var receivedArgs []string

	command := &Command{
		Name:  "synthesize",
		Flags: func() *pflag.FlagSet { return FlagsFromParams("synthesize", &p) },
		Run: func(args []string) error {
			receivedArgs = args
			return nil
		},
	}

	if err := command.Execute([]string{"--format", "cbor", "/run/current-system", "out"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if p.Format != "cbor" {
		t.Errorf("Format = %q, want %q", p.Format, "cbor")
	}
	if len(receivedArgs) != 2 {
		t.Errorf("args = %v, want two positional args", receivedArgs)
	}
}

func TestCommand_Execute_FlagsAfterPositionals(t *testing.T) {
	type params struct {
		JSONOutput
	}
	var p params

	command := &Command{
		Name:  "validate",
		Flags: func() *pflag.FlagSet { return FlagsFromParams("validate", &p) },
		Run:   func(args []string) error { return nil },
	}

	if err := command.Execute([]string{"boot.json", "--json"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !p.OutputJSON {
		t.Error("OutputJSON = false, want true")
	}
}

func TestCommand_Execute_UnknownCommandSuggests(t *testing.T) {
	root := &Command{
		Name: "bootspec",
		Subcommands: []*Command{
			{Name: "validate", Run: func(args []string) error { return nil }},
			{Name: "convert", Run: func(args []string) error { return nil }},
		},
	}

	err := root.Execute([]string{"valdiate"})
	if err == nil {
		t.Fatal("Execute() should fail for an unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "validate"?`) {
		t.Errorf("error = %q, want a suggestion for validate", err)
	}
}

func TestCommand_Execute_UnknownCommandWithoutSuggestion(t *testing.T) {
	root := &Command{
		Name: "bootspec",
		Subcommands: []*Command{
			{Name: "validate", Run: func(args []string) error { return nil }},
		},
	}

	err := root.Execute([]string{"kubernetes"})
	if err == nil {
		t.Fatal("Execute() should fail for an unknown command")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest anything", err)
	}
}

func TestCommand_Execute_UnknownFlagSuggests(t *testing.T) {
	type params struct {
		Format string `flag:"format" desc:"output format"`
	}
	var p params

	command := &Command{
		Name:  "synthesize",
		Flags: func() *pflag.FlagSet { return FlagsFromParams("synthesize", &p) },
		Run:   func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--fromat", "cbor"})
	if err == nil {
		t.Fatal("Execute() should fail for an unknown flag")
	}
	if !strings.Contains(err.Error(), "did you mean --format?") {
		t.Errorf("error = %q, want a suggestion for --format", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name: "bootspec",
		Subcommands: []*Command{
			{Name: "validate", Run: func(args []string) error { return nil }},
		},
	}

	err := root.Execute(nil)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("Execute(nil) error = %v, want subcommand required", err)
	}
}

func TestCommand_Execute_HelpRunsNothing(t *testing.T) {
	called := false
	command := &Command{
		Name: "validate",
		Run: func(args []string) error {
			called = true
			return nil
		},
	}

	for _, arg := range []string{"-h", "--help", "help"} {
		if err := command.Execute([]string{arg}); err != nil {
			t.Errorf("Execute(%q) error: %v", arg, err)
		}
	}
	if called {
		t.Error("help flags should not run the command")
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	type params struct {
		To string `flag:"to" desc:"target format"`
	}
	var p params

	root := &Command{Name: "bootspec"}
	convert := &Command{
		Name:        "convert",
		Summary:     "Re-encode a document",
		Description: "Convert a bootspec document between JSON and CBOR.",
		Usage:       "bootspec convert <in> <out> [flags]",
		Flags:       func() *pflag.FlagSet { return FlagsFromParams("convert", &p) },
		Examples: []Example{
			{Description: "Write the binary form", Command: "bootspec convert boot.json boot.cbor --to cbor"},
		},
		parent: root,
	}
	root.Subcommands = []*Command{convert}

	var buffer bytes.Buffer
	convert.PrintHelp(&buffer)
	help := buffer.String()

	for _, want := range []string{
		"Convert a bootspec document between JSON and CBOR.",
		"bootspec convert <in> <out> [flags]",
		"--to",
		"target format",
		"# Write the binary form",
		"bootspec convert boot.json boot.cbor --to cbor",
	} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}

	buffer.Reset()
	root.PrintHelp(&buffer)
	help = buffer.String()
	if !strings.Contains(help, "convert") || !strings.Contains(help, "Re-encode a document") {
		t.Errorf("root help should list subcommands:\n%s", help)
	}
	if !strings.Contains(help, "Run 'bootspec <command> --help'") {
		t.Errorf("root help missing footer:\n%s", help)
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "bootspec"}
	validate := &Command{Name: "validate", parent: root}
	if got := validate.fullName(); got != "bootspec validate" {
		t.Errorf("fullName() = %q, want %q", got, "bootspec validate")
	}
}

func TestExitError(t *testing.T) {
	var err error = &ExitError{Code: 3}
	coder, ok := err.(interface{ ExitCode() int })
	if !ok {
		t.Fatal("ExitError does not implement ExitCode()")
	}
	if coder.ExitCode() != 3 {
		t.Errorf("ExitCode() = %d, want 3", coder.ExitCode())
	}
	if err.Error() != "exit code 3" {
		t.Errorf("Error() = %q", err.Error())
	}
}
