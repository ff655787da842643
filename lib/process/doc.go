// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides the entrypoint error handling shared by the
// bootspec binaries. Each main runs its command and hands the result to
// [Exit], so all three binaries report errors and choose exit codes the
// same way.
package process
