// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"errors"
	"slices"
	"testing"

	"github.com/respath/respath/internal/locale"
	"github.com/respath/respath/internal/registry"
	"github.com/respath/respath/internal/testutil"
	"github.com/respath/respath/pkg/pathconv"
)

func TestHelpCandidates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		tag   locale.Tag
		want  []string
	}{
		{
			name:  "full locale",
			input: "osc~",
			tag:   locale.Parse("de_AT.UTF-8"),
			want:  []string{"osc~-help.de_at.pd", "osc~-help.de.pd", "osc~-help.pd", "help-osc~"},
		},
		{
			name:  "language only",
			input: "metro",
			tag:   locale.Parse("fr"),
			want:  []string{"metro-help.fr.pd", "metro-help.pd", "help-metro"},
		},
		{
			name:  "no locale",
			input: "metro",
			want:  []string{"metro-help.pd", "help-metro"},
		},
		{
			name:  "region without language",
			input: "x",
			tag:   locale.Parse("_US"),
			want:  []string{"x-help.pd", "help-x"},
		},
		{
			name:  "trailing .pd stripped once",
			input: "abs.pd.pd",
			want:  []string{"abs.pd-help.pd", "help-abs.pd.pd"},
		},
		{
			name:  "bare .pd kept",
			input: ".pd",
			want:  []string{".pd-help.pd", "help-.pd"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := HelpCandidates(tt.input, tt.tag); !slices.Equal(got, tt.want) {
				t.Errorf("HelpCandidates(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestHelp_CandidateOrderBeatsTierOrder(t *testing.T) {
	t.Parallel()

	early, late := testutil.SlashTempDir(t), testutil.SlashTempDir(t)
	testutil.WriteFile(t, early, "osc~-help.pd")
	testutil.WriteFile(t, late, "osc~-help.de.pd")

	reg := registry.New(pathconv.Host())
	reg.Append(registry.HelpPathTemp, early, false)
	reg.Append(registry.HelpPathMain, late, false)

	r, op := newResolver(t, reg)
	loc, err := r.Help("osc~", early, locale.Parse("de_DE"), true)
	if err != nil {
		t.Fatalf("Help() error: %v", err)
	}
	if loc.Dir != late || loc.Name != "osc~-help.de.pd" {
		t.Errorf("Help() = %+v, want the localized file in %s", loc, late)
	}
	if op.open() != 0 {
		t.Error("Help must close the file it finds")
	}
}

func TestHelp_TierOrder(t *testing.T) {
	t.Parallel()

	dirs := map[string]string{}
	reg := registry.New(pathconv.Host())
	for _, key := range []string{
		registry.HelpPathTemp, registry.SearchPathTemp, registry.HelpPathMain,
		registry.SearchPathMain, registry.HelpPathStatic, registry.SearchPathStatic,
	} {
		dirs[key] = testutil.SlashTempDir(t)
		reg.Append(key, dirs[key], false)
	}
	base := testutil.SlashTempDir(t)

	r, op := newResolver(t, reg)
	_, err := r.Help("nope", base, locale.Tag{}, true)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}

	want := []string{
		base + "/nope-help.pd",
		dirs[registry.HelpPathTemp] + "/nope-help.pd",
		dirs[registry.SearchPathTemp] + "/nope-help.pd",
		dirs[registry.HelpPathMain] + "/nope-help.pd",
		dirs[registry.SearchPathMain] + "/nope-help.pd",
		dirs[registry.HelpPathStatic] + "/nope-help.pd",
		dirs[registry.SearchPathStatic] + "/nope-help.pd",
	}
	if len(op.opens) != 2*len(want) {
		t.Fatalf("made %d probes, want %d", len(op.opens), 2*len(want))
	}
	if !slices.Equal(op.opens[:len(want)], want) {
		t.Errorf("first pass = %v\nwant %v", op.opens[:len(want)], want)
	}
	if got := op.opens[len(want)]; got != base+"/help-nope" {
		t.Errorf("legacy pass starts with %q", got)
	}

	var hnf *HelpNotFoundError
	if !errors.As(err, &hnf) || len(hnf.Tried) != 2 {
		t.Errorf("error = %#v, want *HelpNotFoundError with 2 names", err)
	}
}

func TestHelp_StdPathDisabled(t *testing.T) {
	t.Parallel()

	static := testutil.SlashTempDir(t)
	testutil.WriteFile(t, static, "line-help.pd")

	reg := registry.New(pathconv.Host())
	reg.Append(registry.HelpPathStatic, static, false)

	r, _ := newResolver(t, reg)
	if _, err := r.Help("line", testutil.SlashTempDir(t), locale.Tag{}, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("help found in static tier with std path off: %v", err)
	}
	if _, err := r.Help("line", testutil.SlashTempDir(t), locale.Tag{}, true); err != nil {
		t.Errorf("help not found with std path on: %v", err)
	}
}

func TestHelp_LegacyName(t *testing.T) {
	t.Parallel()

	doc := testutil.SlashTempDir(t)
	testutil.WriteFile(t, doc, "help-old.pd")

	reg := registry.New(pathconv.Host())
	reg.Append(registry.HelpPathMain, doc, false)

	r, _ := newResolver(t, reg)
	loc, err := r.Help("old.pd", "", locale.Tag{}, true)
	if err != nil {
		t.Fatalf("Help() error: %v", err)
	}
	if loc.Name != "help-old.pd" {
		t.Errorf("Name = %q", loc.Name)
	}
	if loc.Path() != doc+"/help-old.pd" {
		t.Errorf("Path() = %q", loc.Path())
	}
}

func TestHelp_EmptyBaseDirUsesCurrent(t *testing.T) {
	t.Parallel()

	reg := registry.New(pathconv.Host())
	r, op := newResolver(t, reg)
	_, _ = r.Help("nothing-here", "", locale.Tag{}, true)

	if len(op.opens) == 0 || op.opens[0] != "./nothing-here-help.pd" {
		t.Errorf("first probe = %v, want ./nothing-here-help.pd", op.opens)
	}
}
