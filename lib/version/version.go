// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/nixboot/bootspec/lib/bootspec"
)

// These variables are set via -ldflags at build time.
var (
	// GitCommit is the short git SHA of the build.
	GitCommit = "unknown"

	// GitDirty indicates whether there were uncommitted changes.
	GitDirty = "false"

	// BuildTime is the UTC timestamp of the build.
	BuildTime = "unknown"

	// Version is the semantic version. This is set manually for releases.
	Version = "0.1.0-dev"
)

// Info returns a formatted version string suitable for --version output.
func Info() string {
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, GitCommit, dirty, BuildTime)
}

// Full returns detailed version information including the Go version
// and the document schema versions this build reads and writes.
func Full() string {
	return fmt.Sprintf("%s\n  Schema versions: %s\n  Go: %s\n  Platform: %s/%s",
		Info(), SchemaVersions(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number.
func Short() string {
	return Version
}

// SchemaVersions lists the supported document schema versions, e.g. "1".
func SchemaVersions() string {
	versions := bootspec.SupportedVersions()
	names := make([]string, len(versions))
	for i, version := range versions {
		names[i] = strconv.FormatInt(version, 10)
	}
	return strings.Join(names, ", ")
}
