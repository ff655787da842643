// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package doctor

// Status is the outcome of a single check.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusWarn Status = "warn"
	StatusSkip Status = "skip"
)

// Result holds the outcome of a single check.
type Result struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// Pass creates a passing check result.
func Pass(name, message string) Result {
	return Result{Name: name, Status: StatusPass, Message: message}
}

// Fail creates a failing check result.
func Fail(name, message string) Result {
	return Result{Name: name, Status: StatusFail, Message: message}
}

// Warn creates a warning check result. Warnings do not cause the doctor
// command to exit with a non-zero status.
func Warn(name, message string) Result {
	return Result{Name: name, Status: StatusWarn, Message: message}
}

// Skip creates a skipped check result. Checks are skipped when a
// prerequisite check failed (synthesis is skipped when a required entry
// is missing).
func Skip(name, message string) Result {
	return Result{Name: name, Status: StatusSkip, Message: message}
}

// Failed reports whether any result failed.
func Failed(results []Result) bool {
	for _, result := range results {
		if result.Status == StatusFail {
			return true
		}
	}
	return false
}

// JSONOutput is the JSON output structure for the doctor command.
type JSONOutput struct {
	Root    string   `json:"root"`
	Checks  []Result `json:"checks"`
	OK      bool     `json:"ok"`
	Version int64    `json:"version,omitempty"`
}

// BuildJSON builds the JSON output struct for the checks run against
// root. version is the schema version synthesis produced, or 0 when it
// did not run.
func BuildJSON(root string, results []Result, version int64) JSONOutput {
	if results == nil {
		results = []Result{}
	}
	return JSONOutput{
		Root:    root,
		Checks:  results,
		OK:      !Failed(results),
		Version: version,
	}
}
