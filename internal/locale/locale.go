// SPDX-License-Identifier: MPL-2.0

// Package locale derives the language tags used to order help file
// candidates from the environment's locale setting.
package locale

import "strings"

// EnvVar is the environment variable read at instance start.
const EnvVar = "LANG"

// Tag is a (language, language_region) pair, both lowercase with '_' as
// the separator. The zero Tag means no usable locale.
type Tag struct {
	Language string
	Region   string
}

// Parse derives a Tag from a locale string such as "en_US.UTF-8".
//
// The value is lowercased, '-' becomes '_' and everything from the first
// '.' on is dropped. "c" and "posix" yield the zero Tag, as does a value
// with nothing before its first '_'. Region is set only when an '_' is
// present, in which case Language is the text before the first '_'.
func Parse(value string) Tag {
	v := strings.ReplaceAll(strings.ToLower(value), "-", "_")
	if i := strings.IndexByte(v, '.'); i >= 0 {
		v = v[:i]
	}
	if v == "" || v == "c" || v == "posix" {
		return Tag{}
	}
	lang, _, found := strings.Cut(v, "_")
	switch {
	case !found:
		return Tag{Language: v}
	case lang == "":
		return Tag{}
	}
	return Tag{Language: lang, Region: v}
}

// FromEnv reads EnvVar through lookup and parses it. An unset variable
// yields the zero Tag.
func FromEnv(lookup func(string) (string, bool)) Tag {
	value, ok := lookup(EnvVar)
	if !ok {
		return Tag{}
	}
	return Parse(value)
}

// IsZero reports whether neither tag is set.
func (t Tag) IsZero() bool {
	return t.Language == "" && t.Region == ""
}

// String renders the most specific tag, or "" for the zero Tag.
func (t Tag) String() string {
	if t.Region != "" {
		return t.Region
	}
	return t.Language
}
