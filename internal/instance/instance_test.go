// SPDX-License-Identifier: MPL-2.0

package instance

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/respath/respath/internal/dialog"
	"github.com/respath/respath/internal/registry"
	"github.com/respath/respath/internal/resolver"
	"github.com/respath/respath/internal/testutil"
	"github.com/respath/respath/pkg/argv"
	"github.com/respath/respath/pkg/platform"
)

func newTestInstance(t *testing.T, env map[string]string, opts ...Option) (*Instance, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	base := []Option{WithLookup(testutil.Lookup(env)), WithLogOutput(&logs)}
	inst := New(append(base, opts...)...)
	t.Cleanup(func() { _ = inst.Close() })
	return inst, &logs
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	inst, _ := newTestInstance(t, map[string]string{"LANG": "en_US.UTF-8"})
	if !inst.UseStdPath() {
		t.Error("standard path should default to on")
	}
	if inst.Verbose() {
		t.Error("verbose should default to off")
	}
	if tag := inst.Locale(); tag.Language != "en" || tag.Region != "en_us" {
		t.Errorf("Locale() = %+v", tag)
	}
}

func TestSetExtraPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos string
		env  map[string]string
		want []string
	}{
		{
			goos: platform.Linux,
			env:  map[string]string{"HOME": "/home/ada"},
			want: []string{"/home/ada/.local/lib/pd/extra/", "/home/ada/pd-externals", "/usr/local/lib/pd-externals", "/usr/lib/pd/extra"},
		},
		{
			goos: platform.Linux,
			env:  map[string]string{},
			want: []string{"/usr/local/lib/pd-externals", "/usr/lib/pd/extra"},
		},
		{
			goos: platform.Darwin,
			env:  map[string]string{"HOME": "/Users/ada"},
			want: []string{"/Users/ada/Library/Pd", "/Library/Pd", "/usr/lib/pd/extra"},
		},
		{
			goos: platform.Windows,
			env:  map[string]string{"AppData": `C:\Users\ada\AppData\Roaming`, "CommonProgramFiles": `C:\Program Files\Common Files`},
			want: []string{"C:/Users/ada/AppData/Roaming/Pd", "C:/Program Files/Common Files/Pd", "/usr/lib/pd/extra"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			t.Parallel()
			inst, _ := newTestInstance(t, tt.env, WithOS(tt.goos))
			inst.AppendDelimited(registry.SearchPathStatic, "/stale")
			inst.SetExtraPath("/usr/lib/pd/extra")
			if got := inst.Registry().List(registry.SearchPathStatic); !slices.Equal(got, tt.want) {
				t.Errorf("static path = %v\nwant %v", got, tt.want)
			}
		})
	}
}

func TestResolve_UsesMainPath(t *testing.T) {
	t.Parallel()

	dir := testutil.SlashTempDir(t)
	testutil.WriteFile(t, dir, "freeverb~.pd_linux")

	inst, _ := newTestInstance(t, nil)
	if err := inst.SetPathList(registry.SearchPathMain, dialog.Encode(dir)); err != nil {
		t.Fatal(err)
	}

	res, err := inst.Resolve("", "freeverb~", ".pd_linux")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	defer res.Close()
	if res.Dir != dir {
		t.Errorf("Dir = %q", res.Dir)
	}
}

func TestResolve_VerboseTrace(t *testing.T) {
	t.Parallel()

	inst, logs := newTestInstance(t, nil)
	inst.SetVerbose(true)
	_, err := inst.Resolve("/nonexistent", "x", ".pd")
	if !errors.Is(err, resolver.ErrNotFound) {
		t.Fatalf("error = %v", err)
	}
	if !strings.Contains(logs.String(), "tried /nonexistent/x.pd and failed") {
		t.Errorf("trace missing from log:\n%s", logs.String())
	}
}

func TestResolveHelp(t *testing.T) {
	t.Parallel()

	dir := testutil.SlashTempDir(t)
	testutil.WriteFile(t, dir, "metro-help.pd")

	var loadedDir, loadedName string
	loader := loaderFunc(func(d, n string) error { loadedDir, loadedName = d, n; return nil })

	inst, logs := newTestInstance(t, map[string]string{"LANG": "C"}, WithLoader(loader))
	if err := inst.AddToHelpPath(dir, Keep); err != nil {
		t.Fatal(err)
	}

	loc, err := inst.ResolveHelp("metro", "")
	if err != nil {
		t.Fatalf("ResolveHelp() error: %v", err)
	}
	if loadedName != "metro-help.pd" || loadedDir != loc.Dir {
		t.Errorf("loader got %q %q", loadedDir, loadedName)
	}

	_, err = inst.ResolveHelp("nope", "")
	if !errors.Is(err, resolver.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if !strings.Contains(logs.String(), "couldn't find help patch") {
		t.Errorf("missing warning:\n%s", logs.String())
	}
}

type loaderFunc func(dir, name string) error

func (f loaderFunc) Load(dir, name string) error { return f(dir, name) }

func TestAddToPath_Modes(t *testing.T) {
	t.Parallel()

	saves := 0
	inst, _ := newTestInstance(t, nil, WithSaver(SaverFunc(func(*Instance) error { saves++; return nil })))

	if err := inst.AddToPath("+/tmp/My+_Externals", Temporary); err != nil {
		t.Fatal(err)
	}
	if err := inst.AddToPath("/opt/pd", Keep); err != nil {
		t.Fatal(err)
	}
	if err := inst.AddToPath("/opt/saved", Save); err != nil {
		t.Fatal(err)
	}
	if err := inst.AddToPath("+", Save); err != nil {
		t.Fatal(err)
	}

	reg := inst.Registry()
	if got := reg.List(registry.SearchPathTemp); !slices.Equal(got, []string{"/tmp/My Externals"}) {
		t.Errorf("temp = %v", got)
	}
	if got := reg.List(registry.SearchPathMain); !slices.Equal(got, []string{"/opt/pd", "/opt/saved"}) {
		t.Errorf("main = %v", got)
	}
	if saves != 1 {
		t.Errorf("saver called %d times, want 1", saves)
	}
}

func TestAddToHelpPath_Temporary(t *testing.T) {
	t.Parallel()

	inst, _ := newTestInstance(t, nil)
	if err := inst.AddToHelpPath("/doc/5.reference", Temporary); err != nil {
		t.Fatal(err)
	}
	if got := inst.Registry().List(registry.HelpPathTemp); !slices.Equal(got, []string{"/doc/5.reference"}) {
		t.Errorf("helppath.temp = %v", got)
	}
}

func TestPathDialog(t *testing.T) {
	t.Parallel()

	inst, _ := newTestInstance(t, nil)
	inst.AppendDelimited(registry.SearchPathMain, "/old")
	if err := inst.PathDialog(false, true, "+/a+_b", "", "/c"); err != nil {
		t.Fatalf("PathDialog() error: %v", err)
	}

	if inst.UseStdPath() || !inst.Verbose() {
		t.Error("dialog switches not applied")
	}
	if got := inst.Registry().List(registry.SearchPathMain); !slices.Equal(got, []string{"/a b", "/c"}) {
		t.Errorf("main = %v", got)
	}
}

func TestStartupDialogAndDoFlags(t *testing.T) {
	t.Parallel()

	inst, _ := newTestInstance(t, nil)
	if err := inst.StartupDialog(dialog.Encode(`-path "/My Patches" -nostdpath -lib zexy`), "+cyclone", ""); err != nil {
		t.Fatalf("StartupDialog() error: %v", err)
	}

	if got := inst.Libraries(); !slices.Equal(got, []string{"cyclone"}) {
		t.Errorf("Libraries() = %v", got)
	}
	if err := inst.DoFlags(nil); err != nil {
		t.Fatalf("DoFlags() error: %v", err)
	}
	if inst.UseStdPath() {
		t.Error("-nostdpath not applied")
	}
	if got := inst.Registry().List(registry.SearchPathTemp); !slices.Equal(got, []string{"/My Patches"}) {
		t.Errorf("temp = %v", got)
	}
	if got := inst.Libraries(); !slices.Equal(got, []string{"cyclone", "zexy"}) {
		t.Errorf("Libraries() = %v", got)
	}
}

func TestDoFlags_NotAppliedOnError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags string
		want  error
	}{
		{"unterminated quote", `-path "/x`, argv.ErrParse},
		{"trailing escape", `-path /x\`, argv.ErrParse},
		{"too long", "-path " + strings.Repeat("x", argv.MaxLen), argv.ErrOverflow},
		{"unknown flag", "-path /x -bogus", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			inst, logs := newTestInstance(t, nil)
			inst.SetFlags(tt.flags)

			err := inst.DoFlags(nil)
			if err == nil {
				t.Fatal("DoFlags() succeeded")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if got := inst.Registry().List(registry.SearchPathTemp); got != nil {
				t.Errorf("flags partly applied: %v", got)
			}
			if logs.Len() == 0 {
				t.Error("error was not logged")
			}
		})
	}
}

func TestClose(t *testing.T) {
	t.Parallel()

	inst, _ := newTestInstance(t, nil)
	inst.AppendDelimited("my.list", "/x")
	if err := inst.Close(); err != nil {
		t.Fatal(err)
	}
	if err := inst.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if inst.Registry().Has("my.list") {
		t.Error("dynamic list survived Close")
	}
	if _, err := inst.Resolve("", "x", ".pd"); !errors.Is(err, ErrClosed) {
		t.Errorf("Resolve after Close = %v, want ErrClosed", err)
	}
}

func TestClose_RejectsDialogEdits(t *testing.T) {
	t.Parallel()

	inst, _ := newTestInstance(t, nil)
	if err := inst.Close(); err != nil {
		t.Fatal(err)
	}

	edits := map[string]func() error{
		"AddToPath":     func() error { return inst.AddToPath("/opt/late", Keep) },
		"AddToHelpPath": func() error { return inst.AddToHelpPath("/doc/late", Temporary) },
		"PathDialog":    func() error { return inst.PathDialog(true, false, "/late") },
		"StartupDialog": func() error { return inst.StartupDialog("+-lib_late") },
		"SetPathList":   func() error { return inst.SetPathList("my.list", "/late") },
		"DoFlags":       func() error { return inst.DoFlags(nil) },
	}
	for name, edit := range edits {
		if err := edit(); !errors.Is(err, ErrClosed) {
			t.Errorf("%s after Close = %v, want ErrClosed", name, err)
		}
	}

	for _, key := range []string{registry.SearchPathMain, registry.SearchPathTemp, registry.HelpPathTemp, "my.list"} {
		if got := inst.Registry().List(key); len(got) != 0 {
			t.Errorf("%s = %v after rejected edits", key, got)
		}
	}
	if inst.Flags() != "" {
		t.Errorf("Flags() = %q after rejected edits", inst.Flags())
	}
}
