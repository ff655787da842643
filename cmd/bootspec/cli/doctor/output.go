// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nixboot/bootspec/cmd/bootspec/cli"
)

// ANSI 256-colour codes for each status.
var statusColors = map[Status]lipgloss.Color{
	StatusPass: lipgloss.Color("2"),
	StatusFail: lipgloss.Color("1"),
	StatusWarn: lipgloss.Color("3"),
	StatusSkip: lipgloss.Color("8"),
}

var nameStyle = lipgloss.NewStyle().Width(32)

// PrintChecklist writes results to w as a human-readable checklist and
// returns an [cli.ExitError] with code 1 if any check failed. With styled
// set, status labels are coloured and names padded with lipgloss.
func PrintChecklist(w io.Writer, results []Result, styled bool) error {
	for _, result := range results {
		label := fmt.Sprintf("[%-4s]", strings.ToUpper(string(result.Status)))
		name := fmt.Sprintf("%-32s", result.Name)
		if styled {
			label = lipgloss.NewStyle().Foreground(statusColors[result.Status]).Bold(true).Render(label)
			name = nameStyle.Render(result.Name)
		}
		fmt.Fprintf(w, "%s  %s  %s\n", label, name, result.Message)
	}

	fmt.Fprintln(w)

	if Failed(results) {
		fmt.Fprintln(w, "Some checks failed.")
		return &cli.ExitError{Code: 1}
	}
	fmt.Fprintln(w, "All checks passed.")
	return nil
}
