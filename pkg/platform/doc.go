// SPDX-License-Identifier: MPL-2.0

// Package platform names the build targets that carry their own path rules.
//
// The path convention, the static search path defaults and the config
// directory lookup all branch on these values instead of repeating
// runtime.GOOS string literals.
package platform
