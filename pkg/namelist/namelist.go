// SPDX-License-Identifier: MPL-2.0

// Package namelist implements the ordered directory lists searched by the
// resolver. A List keeps insertion order, never holds empty strings and
// suppresses duplicates unless the caller asks otherwise.
package namelist

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/respath/respath/pkg/pathconv"
)

// ErrNotFound is returned by Get for an index past the end of the list.
var ErrNotFound = errors.New("name list entry not found")

type (
	// List is an append-only sequence of separator-normalized paths.
	// The zero value is an empty list using the posix convention.
	List struct {
		conv    pathconv.Convention
		entries []string
	}

	// IndexError reports an out-of-range Get. It wraps ErrNotFound.
	IndexError struct {
		Index int
		Len   int
	}
)

// New returns an empty list that normalizes entries with conv.
func New(conv pathconv.Convention) *List {
	return &List{conv: conv}
}

// Append normalizes value and adds it at the tail. An empty value is
// ignored, and so is a value already present when allowDuplicates is false.
func (l *List) Append(value string, allowDuplicates bool) *List {
	if value == "" {
		return l
	}
	value = l.conv.ToSlash(value)
	if !allowDuplicates && slices.Contains(l.entries, value) {
		return l
	}
	l.entries = append(l.entries, value)
	return l
}

// AppendDelimited splits s on the list separator and appends every
// non-empty segment with duplicates suppressed.
func (l *List) AppendDelimited(s string) *List {
	for _, segment := range l.conv.Split(s) {
		l.Append(segment, false)
	}
	return l
}

// Free drops every entry. Freeing an empty list is a no-op.
func (l *List) Free() {
	if l == nil {
		return
	}
	clear(l.entries)
	l.entries = nil
}

// Get returns the entry at position n.
func (l *List) Get(n int) (string, error) {
	if l == nil || n < 0 || n >= len(l.entries) {
		return "", &IndexError{Index: n, Len: l.Len()}
	}
	return l.entries[n], nil
}

// Len returns the number of entries.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Contains reports whether the normalized value is already listed.
func (l *List) Contains(value string) bool {
	if l == nil {
		return false
	}
	return slices.Contains(l.entries, l.conv.ToSlash(value))
}

// Entries returns a copy of the entries in order.
func (l *List) Entries() []string {
	if l == nil || len(l.entries) == 0 {
		return nil
	}
	return slices.Clone(l.entries)
}

// All iterates the entries in order.
func (l *List) All() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		if l == nil {
			return
		}
		for i, e := range l.entries {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Error implements the error interface for IndexError.
func (e *IndexError) Error() string {
	return fmt.Sprintf("name list index %d out of range (len %d)", e.Index, e.Len)
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *IndexError) Unwrap() error { return ErrNotFound }
