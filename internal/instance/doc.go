// SPDX-License-Identifier: MPL-2.0

// Package instance holds the per-host path state: the named list
// registry, the locale tag read once at start, the standard path and
// verbose switches, and the startup flags and libraries. It is the only
// place that mutates the registry in response to dialogs and flags.
package instance
