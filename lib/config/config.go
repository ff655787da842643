// Copyright 2026 The Bootspec Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/nixboot/bootspec/lib/bootspec"
)

// EnvironmentVariable names the configuration file when no --config
// flag is given.
const EnvironmentVariable = "BOOTSPEC_CONFIG"

// DefaultRoot is the configuration root of the running system.
const DefaultRoot = "/run/current-system"

// Config is the configuration of the bootspec tools.
type Config struct {
	// SchemaVersion is the version synthesis produces.
	// Default: the latest supported version.
	SchemaVersion int64 `yaml:"schema_version"`

	// Format is the encoding synthesis writes: "json" or "cbor".
	// Default: json
	Format string `yaml:"format"`

	// LogLevel is the minimum level commands log at: debug, info,
	// warn, or error.
	// Default: warn
	LogLevel string `yaml:"log_level"`

	// Root is the configuration root inspected when a command is not
	// given one.
	// Default: /run/current-system
	Root string `yaml:"root"`

	// Extensions are attached to every synthesized document, keyed by
	// extension namespace.
	Extensions map[string]any `yaml:"extensions"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		SchemaVersion: bootspec.LatestVersion,
		Format:        string(bootspec.FormatJSON),
		LogLevel:      "warn",
		Root:          DefaultRoot,
	}
}

// Load loads configuration from the file named by BOOTSPEC_CONFIG. It
// fails if the variable is not set.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of a bootspec.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// Resolve returns the configuration named by path, or by BOOTSPEC_CONFIG
// when path is empty, or the defaults when neither is set.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	if os.Getenv(EnvironmentVariable) != "" {
		return Load()
	}
	return Default(), nil
}

// LoadFile loads configuration from path over the defaults and
// validates it.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.Root = expandVars(cfg.Root, map[string]string{"HOME": os.Getenv("HOME")})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if !bootspec.IsSupportedVersion(c.SchemaVersion) {
		errs = append(errs, fmt.Errorf("schema_version %d is not supported (supported: %v)",
			c.SchemaVersion, bootspec.SupportedVersions()))
	}

	if _, err := bootspec.ParseFormat(c.Format); err != nil {
		errs = append(errs, fmt.Errorf("format: %w", err))
	}

	if !slices.Contains(logLevels, c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level must be one of: %v", logLevels))
	}

	if c.Root == "" {
		errs = append(errs, fmt.Errorf("root is required"))
	}

	if _, err := c.DocumentExtensions(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// OutputFormat returns Format as a document format.
func (c *Config) OutputFormat() (bootspec.Format, error) {
	return bootspec.ParseFormat(c.Format)
}

// Level returns LogLevel as a slog level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// DocumentExtensions converts the configured extensions to document
// extensions. Keys must be non-empty and outside the schema-owned
// namespaces, and values must not be null.
func (c *Config) DocumentExtensions() (bootspec.Extensions, error) {
	extensions := bootspec.Extensions{}
	var errs []error
	for _, key := range sortedKeys(c.Extensions) {
		value, err := jsonValue(c.Extensions[key])
		if err != nil {
			errs = append(errs, fmt.Errorf("extensions.%s: %w", key, err))
			continue
		}
		if err := extensions.Set(key, value); err != nil {
			errs = append(errs, fmt.Errorf("extensions: %w", err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return extensions, nil
}

// jsonValue rewrites the generic maps yaml.v3 produces for mappings
// with non-string keys into maps encoding/json accepts.
func jsonValue(value any) (any, error) {
	switch typed := value.(type) {
	case map[string]any:
		converted := make(map[string]any, len(typed))
		for key, element := range typed {
			convertedElement, err := jsonValue(element)
			if err != nil {
				return nil, err
			}
			converted[key] = convertedElement
		}
		return converted, nil
	case map[any]any:
		converted := make(map[string]any, len(typed))
		for key, element := range typed {
			name, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("mapping key %v is not a string", key)
			}
			convertedElement, err := jsonValue(element)
			if err != nil {
				return nil, err
			}
			converted[name] = convertedElement
		}
		return converted, nil
	case []any:
		converted := make([]any, len(typed))
		for i, element := range typed {
			convertedElement, err := jsonValue(element)
			if err != nil {
				return nil, err
			}
			converted[i] = convertedElement
		}
		return converted, nil
	}
	if _, err := json.Marshal(value); err != nil {
		return nil, err
	}
	return value, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
