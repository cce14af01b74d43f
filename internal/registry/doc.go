// SPDX-License-Identifier: MPL-2.0

// Package registry binds string keys to name lists. Four keys are built
// in and always present; any other key springs into existence on its
// first append and keeps its binding until the registry is closed.
package registry
