// SPDX-License-Identifier: MPL-2.0

// Package pathconv isolates the target-specific path rules used by the
// resolver: separator canonicalization, absolute-name detection, home and
// environment expansion, the list separator and the path length capacity.
//
// Callers never branch on the operating system themselves; they hold a
// Convention (usually Host()) and ask it.
package pathconv

import (
	"strings"

	"github.com/respath/respath/pkg/platform"
)

var (
	// Posix is the convention for Linux, macOS and the BSDs.
	Posix = Convention{
		Name:          "posix",
		Separator:     '/',
		ListSeparator: ':',
		HomeVar:       "HOME",
		MaxPath:       4095,
	}

	// Windows is the convention for Windows targets. Names are canonicalized
	// to forward slashes internally and converted back right before an open.
	Windows = Convention{
		Name:          "windows",
		Separator:     '\\',
		ListSeparator: ';',
		HomeVar:       "USERPROFILE",
		DriveLetters:  true,
		PercentVars:   true,
		MaxPath:       32766,
	}
)

type (
	// Convention describes the path rules of one target.
	Convention struct {
		// Name identifies the convention in logs and diagnostics.
		Name string
		// Separator is the native directory separator.
		Separator byte
		// ListSeparator splits delimited path lists ("a:b" or "a;b").
		ListSeparator byte
		// HomeVar is the environment variable a leading "~" expands to.
		HomeVar string
		// DriveLetters enables the "X:/" absolute form.
		DriveLetters bool
		// PercentVars enables "%NAME%" absolute detection and expansion.
		PercentVars bool
		// MaxPath is the longest candidate path, in bytes, the target can open.
		MaxPath int
	}

	// LookupFunc resolves an environment variable, os.LookupEnv style.
	LookupFunc func(key string) (string, bool)
)

// Host returns the convention of the running target.
func Host() Convention {
	return ForOS(platform.Current())
}

// ForOS returns the convention for a GOOS value.
func ForOS(goos string) Convention {
	if platform.IsWindows(goos) {
		return Windows
	}
	return Posix
}

// ToSlash converts native separators to '/'.
func (c Convention) ToSlash(s string) string {
	if c.Separator == '/' || c.Separator == 0 {
		return s
	}
	return strings.ReplaceAll(s, string(c.Separator), "/")
}

// FromSlash converts '/' to the native separator.
func (c Convention) FromSlash(s string) string {
	if c.Separator == '/' || c.Separator == 0 {
		return s
	}
	return strings.ReplaceAll(s, "/", string(c.Separator))
}

// IsAbsolute reports whether name bypasses the search tiers: a leading
// '/' or '~' on every target, plus "X:/" and "%NAME%" forms where enabled.
func (c Convention) IsAbsolute(name string) bool {
	name = c.ToSlash(name)
	if name == "" {
		return false
	}
	switch name[0] {
	case '/', '~':
		return true
	case '%':
		return c.PercentVars
	}
	if c.DriveLetters && len(name) >= 3 && name[1] == ':' && name[2] == '/' {
		return true
	}
	return false
}

// Expand replaces a leading "~" with the home directory and, where the
// convention supports it, "%NAME%" references with their values. A "~"
// with no home variable set expands to the empty string.
func (c Convention) Expand(dir string, lookup LookupFunc) string {
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, ok := lookup(c.HomeVar)
		if !ok || home == "" {
			return ""
		}
		dir = home + dir[1:]
	}
	if c.PercentVars {
		dir = expandPercent(dir, lookup)
	}
	return dir
}

// Split divides a delimited path list on the list separator. Empty
// segments are kept; callers decide whether to drop them.
func (c Convention) Split(s string) []string {
	sep := c.ListSeparator
	if sep == 0 {
		sep = ':'
	}
	return strings.Split(s, string(sep))
}

// expandPercent substitutes every %NAME% whose variable is set. Unknown
// references and a dangling '%' are copied through unchanged.
func expandPercent(s string, lookup LookupFunc) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for {
		start := strings.IndexByte(s, '%')
		if start < 0 {
			sb.WriteString(s)
			break
		}
		end := strings.IndexByte(s[start+1:], '%')
		if end < 0 {
			sb.WriteString(s)
			break
		}
		end += start + 1
		name := s[start+1 : end]
		sb.WriteString(s[:start])
		if value, ok := lookup(name); ok && name != "" {
			sb.WriteString(value)
			s = s[end+1:]
			continue
		}
		// keep the opening '%' and rescan from the closing one
		sb.WriteString(s[start:end])
		s = s[end:]
	}
	return sb.String()
}
