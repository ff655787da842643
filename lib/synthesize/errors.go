// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package synthesize

import (
	"fmt"
	"strings"
)

// Operations recorded in a [PathError].
const (
	OpCanonicalize = "canonicalize"
	OpRead         = "read"
	OpList         = "list"
	OpStat         = "stat"
)

// PathError reports a filesystem operation on a well-known entry that
// failed during synthesis. Err is the underlying error, so
// errors.Is(err, fs.ErrNotExist) works through it.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("synthesize: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// KernelVersionError reports a kernel module directory that does not
// contain exactly one version subdirectory. The kernel version is
// taken from that subdirectory's name, so zero or several candidates
// leave it undetermined.
type KernelVersionError struct {
	Dir        string
	Candidates []string
}

func (e *KernelVersionError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("synthesize: no kernel version directory in %s", e.Dir)
	}
	return fmt.Sprintf("synthesize: ambiguous kernel version in %s: found %s",
		e.Dir, strings.Join(e.Candidates, ", "))
}
