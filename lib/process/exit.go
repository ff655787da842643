// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"io"
	"os"
)

// Exit terminates the process for the error a command returned. A nil
// error returns without exiting. An error carrying an exit code (an
// ExitCode() int method) exits with that code silently, because the
// command already reported the outcome. Any other error is written to
// stderr as "error: err" and exits with code 1.
func Exit(err error) {
	if err == nil {
		return
	}
	os.Exit(report(os.Stderr, err))
}

// report writes the message for err to w, if it needs one, and returns
// the exit code.
func report(w io.Writer, err error) int {
	if coder, ok := err.(interface{ ExitCode() int }); ok {
		return coder.ExitCode()
	}
	fmt.Fprintf(w, "error: %v\n", err)
	return 1
}
