// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include environment management (MustSetenv, MustUnsetenv,
// SetHomeDir, Lookup), directory operations (MustChdir, MustMkdirAll,
// SlashTempDir) and resource fixtures (WriteFile, MustClose).
package testutil
