// SPDX-License-Identifier: MPL-2.0

// Package config persists the path preferences using Viper with CUE as the
// file format.
//
// Configuration is loaded from ~/.config/respath/config.cue (or the XDG
// equivalent on Linux, ~/Library/Application Support/respath/config.cue on
// macOS, %APPDATA%\respath\config.cue on Windows). Files are validated
// against the embedded schema (config_schema.cue) before they reach Viper.
//
// The package never touches the named list registry directly: Apply
// restores lists through the registry's set operation and Snapshot reads
// them back through get.
package config
