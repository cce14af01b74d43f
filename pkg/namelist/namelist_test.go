// SPDX-License-Identifier: MPL-2.0

package namelist

import (
	"errors"
	"slices"
	"testing"

	"github.com/respath/respath/pkg/pathconv"
)

func TestAppend_SuppressesDuplicates(t *testing.T) {
	t.Parallel()

	l := New(pathconv.Posix)
	l.Append("foo", false)
	l.Append("foo", false)

	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", l.Len())
	}
}

func TestAppend_AllowDuplicates(t *testing.T) {
	t.Parallel()

	l := New(pathconv.Posix)
	l.Append("foo", false)
	l.Append("foo", true)

	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", l.Len())
	}
}

func TestAppend_IgnoresEmpty(t *testing.T) {
	t.Parallel()

	l := New(pathconv.Posix)
	l.Append("", true)

	if l.Len() != 0 {
		t.Errorf("empty value was appended: %v", l.Entries())
	}
}

func TestAppend_NormalizesSeparators(t *testing.T) {
	t.Parallel()

	l := New(pathconv.Windows)
	l.Append(`C:\Pd\extra`, false)
	l.Append("C:/Pd/extra", false)

	want := []string{"C:/Pd/extra"}
	if got := l.Entries(); !slices.Equal(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}

func TestAppendDelimited(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		conv  pathconv.Convention
		input string
		want  []string
	}{
		{"drops empty segments", pathconv.Posix, "a:b::c", []string{"a", "b", "c"}},
		{"leading and trailing separators", pathconv.Posix, ":a:b:", []string{"a", "b"}},
		{"duplicates dropped", pathconv.Posix, "a:b:a", []string{"a", "b"}},
		{"empty input", pathconv.Posix, "", nil},
		{"windows semicolons", pathconv.Windows, `C:\a;D:\b`, []string{"C:/a", "D:/b"}},
		{"windows keeps colon in drive", pathconv.Windows, "C:/a", []string{"C:/a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l := New(tt.conv).AppendDelimited(tt.input)
			if got := l.Entries(); !slices.Equal(got, tt.want) {
				t.Errorf("AppendDelimited(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFree_Idempotent(t *testing.T) {
	t.Parallel()

	l := New(pathconv.Posix).AppendDelimited("a:b")
	l.Free()
	l.Free()

	if l.Len() != 0 {
		t.Errorf("Len() after Free = %d, want 0", l.Len())
	}

	var nilList *List
	nilList.Free()

	l.Append("c", false)
	if got, _ := l.Get(0); got != "c" {
		t.Errorf("list not reusable after Free, Get(0) = %q", got)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	l := New(pathconv.Posix).AppendDelimited("a:b")

	if got, err := l.Get(1); err != nil || got != "b" {
		t.Errorf("Get(1) = %q, %v; want b, nil", got, err)
	}

	for _, n := range []int{2, -1} {
		_, err := l.Get(n)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%d) error = %v, want ErrNotFound", n, err)
		}
	}
}

func TestAll_Order(t *testing.T) {
	t.Parallel()

	l := New(pathconv.Posix).AppendDelimited("x:y:z")
	var got []string
	for i, e := range l.All() {
		if i != len(got) {
			t.Fatalf("index %d out of order", i)
		}
		got = append(got, e)
	}
	if !slices.Equal(got, []string{"x", "y", "z"}) {
		t.Errorf("All() yielded %v", got)
	}
}

func TestZeroValue(t *testing.T) {
	t.Parallel()

	var l List
	l.Append("a", false)
	if !l.Contains("a") {
		t.Error("zero-value list should accept appends")
	}
}
