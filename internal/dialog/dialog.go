// SPDX-License-Identifier: MPL-2.0

// Package dialog decodes the strings dialog front ends send for path
// settings. An encoded string starts with '+' and uses two-character
// escapes for the characters the message bus would otherwise split on.
package dialog

import "strings"

const marker = '+'

// escapes maps the character after '+' to the character it stands for.
var escapes = map[byte]byte{
	'_': ' ',
	'+': '+',
	'c': ',',
	's': ';',
	'd': '$',
}

// Decode undoes Encode. A string not starting with '+' is returned
// unchanged, as is a '+' followed by anything other than an escape letter.
func Decode(s string) string {
	if s == "" || s[0] != marker {
		return s
	}
	s = s[1:]
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == marker && i+1 < len(s) {
			if ch, ok := escapes[s[i+1]]; ok {
				sb.WriteByte(ch)
				i++
				continue
			}
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// Encode escapes s for transport and marks it with a leading '+'.
func Encode(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 1)
	sb.WriteByte(marker)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ':
			sb.WriteString("+_")
		case '+':
			sb.WriteString("++")
		case ',':
			sb.WriteString("+c")
		case ';':
			sb.WriteString("+s")
		case '$':
			sb.WriteString("+d")
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// DecodeAll decodes every element and drops those that decode to "".
func DecodeAll(encoded []string) []string {
	out := make([]string, 0, len(encoded))
	for _, e := range encoded {
		if d := Decode(e); d != "" {
			out = append(out, d)
		}
	}
	return out
}
