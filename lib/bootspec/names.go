// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package bootspec

// JSONFilename is the conventional file name of a bootspec document
// inside a system configuration directory.
const JSONFilename = "boot.json"

// SpecialisationName names a nested boot configuration within its
// parent's specialisation map.
type SpecialisationName string

func (n SpecialisationName) String() string { return string(n) }

// SystemConfigurationRoot is the absolute path of a realized system
// configuration (the directory that synthesis reads). It is opaque once
// captured.
type SystemConfigurationRoot string

func (r SystemConfigurationRoot) String() string { return string(r) }
