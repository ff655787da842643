// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

// Package doctor provides the result and reporting types behind
// `bootspec doctor`.
//
// The doctor command runs a series of checks against a configuration
// root and reports results in a consistent format. The package provides:
//
//   - [Result] type with status and message
//   - Constructors: [Pass], [Fail], [Warn], [Skip]
//   - [PrintChecklist] for human-readable output, coloured with lipgloss
//     when the output is a terminal
//   - [BuildJSON] for machine-readable output
//
// What to check lives in cmd/bootspec/commands. This package provides
// only the reporting infrastructure.
package doctor
