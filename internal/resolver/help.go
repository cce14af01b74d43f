// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"fmt"
	"strings"

	"github.com/respath/respath/internal/locale"
	"github.com/respath/respath/internal/registry"
)

const (
	helpExt    = ".pd"
	helpSuffix = "-help"
	legacyHelp = "help-"
)

type (
	// Located is a resolved file whose handle has already been closed.
	Located struct {
		Dir  string
		Name string
	}

	// HelpNotFoundError reports that no help naming convention matched.
	// It wraps ErrNotFound.
	HelpNotFoundError struct {
		Name  string
		Tried []string
	}

	// helpCandidate is one naming convention to search for.
	helpCandidate struct {
		name string
		ext  string
	}
)

// HelpTiers returns the help search plan: the base directory ("./" when
// empty), the temporary help and search paths, the user help and search
// paths, then the built-in help and standard paths.
func (r *Resolver) HelpTiers(baseDir string) []Tier {
	if baseDir == "" {
		baseDir = "./"
	}
	return []Tier{
		{Name: "base", Dirs: []string{baseDir}},
		r.listTier(registry.HelpPathTemp, false),
		r.listTier(registry.SearchPathTemp, false),
		r.listTier(registry.HelpPathMain, false),
		r.listTier(registry.SearchPathMain, false),
		r.listTier(registry.HelpPathStatic, true),
		r.listTier(registry.SearchPathStatic, true),
	}
}

// HelpCandidates lists the names Help tries for name, in order.
func HelpCandidates(name string, tag locale.Tag) []string {
	cands := helpCandidates(name, tag)
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.name + c.ext
	}
	return out
}

// Help locates the help file for name. Every naming convention runs the
// whole help plan before the next one is tried. The file found is closed
// before returning; loading it is up to the caller.
func (r *Resolver) Help(name, baseDir string, tag locale.Tag, useStdPath bool) (*Located, error) {
	plan := r.HelpTiers(baseDir)
	cands := helpCandidates(name, tag)
	for _, c := range cands {
		res, err := r.Search(c.name, c.ext, useStdPath, plan)
		if err != nil {
			if isOverflow(err) {
				return nil, err
			}
			continue
		}
		loc := &Located{Dir: res.Dir, Name: res.Name}
		_ = res.Close()
		return loc, nil
	}
	return nil, &HelpNotFoundError{Name: name, Tried: HelpCandidates(name, tag)}
}

func helpCandidates(name string, tag locale.Tag) []helpCandidate {
	stem := name
	if len(stem) > len(helpExt) && strings.HasSuffix(stem, helpExt) {
		stem = stem[:len(stem)-len(helpExt)]
	}

	cands := make([]helpCandidate, 0, 4)
	if tag.Region != "" {
		cands = append(cands, helpCandidate{stem, helpSuffix + "." + tag.Region + helpExt})
	}
	if tag.Language != "" {
		cands = append(cands, helpCandidate{stem, helpSuffix + "." + tag.Language + helpExt})
	}
	return append(cands,
		helpCandidate{stem, helpSuffix + helpExt},
		helpCandidate{legacyHelp + name, ""},
	)
}

// Path joins Dir and Name back into a full path.
func (l *Located) Path() string {
	return join(l.Dir, l.Name)
}

// Error implements the error interface for HelpNotFoundError.
func (e *HelpNotFoundError) Error() string {
	return fmt.Sprintf("couldn't find help patch for %q (tried %s)", e.Name, strings.Join(e.Tried, ", "))
}

// Unwrap returns ErrNotFound for errors.Is() compatibility.
func (e *HelpNotFoundError) Unwrap() error { return ErrNotFound }
