// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package nix

import "testing"

const hash = "0123456789abcdfghijklmnpqrsvwxyz"

func TestStoreDirectory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{
			name: "file path within store entry",
			path: "/nix/store/abc-linux-6.6.31/bzImage",
			want: "/nix/store/abc-linux-6.6.31",
		},
		{
			name: "bare store directory",
			path: "/nix/store/abc-nixos-system",
			want: "/nix/store/abc-nixos-system",
		},
		{
			name: "deeply nested file",
			path: "/nix/store/xyz-linux/lib/modules/6.6.31/kernel",
			want: "/nix/store/xyz-linux",
		},
		{
			name:    "not under nix store",
			path:    "/run/current-system",
			wantErr: true,
		},
		{
			name:    "bare nix store root",
			path:    "/nix/store/",
			wantErr: true,
		},
		{
			name:    "nix store without trailing slash",
			path:    "/nix/store",
			wantErr: true,
		},
		{
			name:    "empty path",
			path:    "",
			wantErr: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			got, err := StoreDirectory(testCase.path)
			if testCase.wantErr {
				if err == nil {
					t.Fatalf("expected error for path %q, got %q", testCase.path, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error for path %q: %v", testCase.path, err)
			}
			if got != testCase.want {
				t.Errorf("StoreDirectory(%q) = %q, want %q", testCase.path, got, testCase.want)
			}
		})
	}
}

func TestParseStorePath(t *testing.T) {
	t.Parallel()

	root := "/nix/store/" + hash + "-nixos-system-host-24.05"
	got, err := ParseStorePath(root + "/kernel-params")
	if err != nil {
		t.Fatalf("ParseStorePath: %v", err)
	}
	if got.Hash != hash || got.Name != "nixos-system-host-24.05" {
		t.Errorf("ParseStorePath = %+v", got)
	}
	if got.String() != root {
		t.Errorf("String() = %q, want %q", got.String(), root)
	}

	for _, bad := range []string{
		"/run/current-system",
		"/nix/store/abc-short-hash",
		"/nix/store/" + hash,
		"/nix/store/" + hash + "-",
	} {
		if _, err := ParseStorePath(bad); err == nil {
			t.Errorf("ParseStorePath(%q) should fail", bad)
		}
	}
}
