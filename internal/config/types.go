// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/respath/respath/internal/registry"
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config holds the persisted path preferences.
	Config struct {
		UseStdPath  bool          `json:"use_std_path" mapstructure:"use_std_path" toml:"use_std_path"`
		Verbose     bool          `json:"verbose" mapstructure:"verbose" toml:"verbose"`
		SearchPaths []string      `json:"search_paths" mapstructure:"search_paths" toml:"search_paths"`
		HelpPaths   []string      `json:"help_paths" mapstructure:"help_paths" toml:"help_paths"`
		Startup     StartupConfig `json:"startup" mapstructure:"startup" toml:"startup"`
		NamedLists  []NamedList   `json:"named_lists" mapstructure:"named_lists" toml:"named_lists"`
	}

	// StartupConfig holds the startup flags string and library list.
	StartupConfig struct {
		Flags     string   `json:"flags" mapstructure:"flags" toml:"flags"`
		Libraries []string `json:"libraries" mapstructure:"libraries" toml:"libraries"`
	}

	// NamedList is one extra registry entry.
	NamedList struct {
		Key   string   `json:"key" mapstructure:"key" toml:"key"`
		Paths []string `json:"paths" mapstructure:"paths" toml:"paths"`
	}

	// InvalidConfigError reports constraints the schema cannot express.
	// It wraps ErrInvalidConfig.
	InvalidConfigError struct {
		Field  string
		Reason string
	}
)

// DefaultConfig returns the settings of a fresh installation.
func DefaultConfig() *Config {
	return &Config{
		UseStdPath:  true,
		SearchPaths: []string{},
		HelpPaths:   []string{},
		Startup:     StartupConfig{Libraries: []string{}},
		NamedLists:  []NamedList{},
	}
}

// Validate checks that named list keys are unique and that none of them
// shadows a list stored in its own field.
func (c *Config) Validate() error {
	seen := make(map[string]int, len(c.NamedLists))
	for i, nl := range c.NamedLists {
		field := fmt.Sprintf("named_lists[%d]", i)
		switch nl.Key {
		case registry.SearchPathMain:
			return &InvalidConfigError{Field: field, Reason: "use search_paths for " + nl.Key}
		case registry.HelpPathMain:
			return &InvalidConfigError{Field: field, Reason: "use help_paths for " + nl.Key}
		}
		if first, ok := seen[nl.Key]; ok {
			return &InvalidConfigError{Field: field, Reason: fmt.Sprintf("duplicate key %q (same as named_lists[%d])", nl.Key, first)}
		}
		seen[nl.Key] = i
	}
	return nil
}

// List returns the paths stored for key, or nil.
func (c *Config) List(key string) []string {
	switch key {
	case registry.SearchPathMain:
		return slices.Clone(c.SearchPaths)
	case registry.HelpPathMain:
		return slices.Clone(c.HelpPaths)
	}
	for _, nl := range c.NamedLists {
		if nl.Key == key {
			return slices.Clone(nl.Paths)
		}
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }
