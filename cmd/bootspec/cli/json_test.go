// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestEmitJSON(t *testing.T) {
	var buffer bytes.Buffer

	output := JSONOutput{}
	done, err := output.EmitJSON(&buffer, map[string]int{"version": 1})
	if done || err != nil {
		t.Fatalf("EmitJSON without --json = (%v, %v), want (false, nil)", done, err)
	}
	if buffer.Len() != 0 {
		t.Errorf("EmitJSON without --json wrote %q", buffer.String())
	}

	output.OutputJSON = true
	done, err = output.EmitJSON(&buffer, map[string]int{"version": 1})
	if !done || err != nil {
		t.Fatalf("EmitJSON with --json = (%v, %v), want (true, nil)", done, err)
	}
	if got, want := buffer.String(), "{\n  \"version\": 1\n}\n"; got != want {
		t.Errorf("EmitJSON wrote %q, want %q", got, want)
	}
}

func TestEmitJSON_NilSliceIsEmptyArray(t *testing.T) {
	var buffer bytes.Buffer
	output := JSONOutput{OutputJSON: true}

	var empty []string
	if _, err := output.EmitJSON(&buffer, empty); err != nil {
		t.Fatalf("EmitJSON: %v", err)
	}
	if got := strings.TrimSpace(buffer.String()); got != "[]" {
		t.Errorf("EmitJSON(nil slice) = %q, want []", got)
	}
}

func TestNewLogger(t *testing.T) {
	var buffer bytes.Buffer

	logger := newLogger(&buffer, false, slog.LevelInfo)
	logger.Debug("hidden")
	logger.Info("synthesized", "root", "/run/current-system")

	output := buffer.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("debug record should be dropped at info level: %s", output)
	}
	if !strings.Contains(output, `"msg":"synthesized"`) || !strings.Contains(output, `"root":"/run/current-system"`) {
		t.Errorf("non-terminal output should be JSON: %s", output)
	}

	buffer.Reset()
	newLogger(&buffer, true, slog.LevelInfo).Info("synthesized", "root", "/run/current-system")
	if !strings.Contains(buffer.String(), "msg=synthesized") {
		t.Errorf("terminal output should be text: %s", buffer.String())
	}
}
