// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for respath.
//
// This package implements the Cobra command hierarchy for the respath CLI:
// resolution and its probe trace, help lookup, the named-list registry,
// the startup flags tokenizer, configuration management and the issue
// catalog.
package cmd
