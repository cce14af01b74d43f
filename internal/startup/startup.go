// SPDX-License-Identifier: MPL-2.0

// Package startup parses the startup flags string once it has been split
// into arguments. Flags may be written with one dash ("-path") or two.
package startup

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/respath/respath/internal/registry"
)

const (
	// Unset leaves the standard path setting alone.
	Unset Toggle = iota
	// On enables the standard path.
	On
	// Off disables the standard path.
	Off
)

// ErrInvalidFlags is the sentinel wrapped by FlagError.
var ErrInvalidFlags = errors.New("invalid startup flags")

type (
	// Toggle is a tri-state switch: a flag may force a setting or leave it.
	Toggle int

	// Flags is a fully parsed startup flags string.
	Flags struct {
		Paths     []string
		HelpPaths []string
		StdPath   Toggle
		Verbose   int
		Libs      []string
		// Files are the positional arguments, in order.
		Files []string
	}

	// Target receives parsed flags.
	Target interface {
		AppendDelimited(key, s string)
		SetUseStdPath(bool)
		SetVerbose(bool)
		AddLibraries(s string)
	}

	// FlagError reports arguments the parser rejected. It wraps ErrInvalidFlags.
	FlagError struct {
		Args []string
		Err  error
	}

	// switchValue is a pflag.Value that moves a Toggle to one state.
	switchValue struct {
		dst *Toggle
		to  Toggle
	}
)

// Parse interprets args. Nothing is returned unless every argument parses.
func Parse(args []string) (*Flags, error) {
	var f Flags
	fs := newFlagSet(&f)
	if err := fs.Parse(normalize(fs, args)); err != nil {
		return nil, &FlagError{Args: args, Err: err}
	}
	f.Files = fs.Args()
	return &f, nil
}

// Usage renders the accepted flags.
func Usage() string {
	return newFlagSet(&Flags{}).FlagUsages()
}

// Apply hands the parsed settings to t.
func (f *Flags) Apply(t Target) {
	for _, p := range f.Paths {
		t.AppendDelimited(registry.SearchPathTemp, p)
	}
	for _, p := range f.HelpPaths {
		t.AppendDelimited(registry.HelpPathTemp, p)
	}
	switch f.StdPath {
	case On:
		t.SetUseStdPath(true)
	case Off:
		t.SetUseStdPath(false)
	}
	if f.Verbose > 0 {
		t.SetVerbose(true)
	}
	for _, l := range f.Libs {
		t.AddLibraries(l)
	}
}

func newFlagSet(f *Flags) *pflag.FlagSet {
	fs := pflag.NewFlagSet("startup", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.StringArrayVar(&f.Paths, "path", nil, "add to the temporary search path (list separated)")
	fs.StringArrayVar(&f.HelpPaths, "helppath", nil, "add to the temporary help path (list separated)")
	fs.VarPF(&switchValue{dst: &f.StdPath, to: On}, "stdpath", "", "search the standard path").NoOptDefVal = "true"
	fs.VarPF(&switchValue{dst: &f.StdPath, to: Off}, "nostdpath", "", "don't search the standard path").NoOptDefVal = "true"
	fs.CountVar(&f.Verbose, "verbose", "trace every probe")
	fs.StringArrayVar(&f.Libs, "lib", nil, "load libraries at startup (list separated)")
	return fs
}

// normalize turns single-dash spellings of the flags registered in fs into
// double-dash ones. The argument after a flag that takes a value is left
// alone, as is everything after "--".
func normalize(fs *pflag.FlagSet, args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out); i++ {
		a := out[i]
		if a == "--" {
			break
		}
		if len(a) < 2 || a[0] != '-' {
			continue
		}
		name := strings.TrimPrefix(a[1:], "-")
		name, _, hasValue := strings.Cut(name, "=")
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if a[1] != '-' {
			out[i] = "-" + a
		}
		if !hasValue && flag.NoOptDefVal == "" {
			i++
		}
	}
	return out
}

func (s *switchValue) Set(v string) error {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return err
	}
	if b {
		*s.dst = s.to
	}
	return nil
}

func (s *switchValue) String() string { return strconv.FormatBool(*s.dst == s.to) }

func (s *switchValue) Type() string { return "bool" }

// String renders the toggle for display.
func (t Toggle) String() string {
	switch t {
	case On:
		return "on"
	case Off:
		return "off"
	default:
		return "unset"
	}
}

// Error implements the error interface for FlagError.
func (e *FlagError) Error() string {
	return fmt.Sprintf("startup flags %q: %v", strings.Join(e.Args, " "), e.Err)
}

// Unwrap returns ErrInvalidFlags for errors.Is() compatibility.
func (e *FlagError) Unwrap() error { return ErrInvalidFlags }
