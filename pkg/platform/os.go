// SPDX-License-Identifier: MPL-2.0

package platform

import "runtime"

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// Current returns the running target's OS name.
func Current() string {
	return runtime.GOOS
}

// IsWindows reports whether goos names the Windows target.
func IsWindows(goos string) bool {
	return goos == Windows
}
