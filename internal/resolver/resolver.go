// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/respath/respath/internal/registry"
	"github.com/respath/respath/pkg/pathconv"
)

const (
	// Found means the candidate opened as a regular file.
	Found Outcome = iota
	// Missing means the open failed.
	Missing
	// Rejected means the candidate opened but is a directory or could not be stat'ed.
	Rejected
	// Skipped means the directory could not be expanded (home unset).
	Skipped
)

var (
	// ErrNotFound is returned when every tier is exhausted.
	ErrNotFound = errors.New("resource not found")
	// ErrOverflow is the sentinel wrapped by OverflowError.
	ErrOverflow = errors.New("candidate path too long")
)

type (
	// Opener opens a file read-only. The default uses os.Open.
	Opener interface {
		Open(name string) (fs.File, error)
	}

	// OpenerFunc adapts a function to Opener.
	OpenerFunc func(name string) (fs.File, error)

	// Lists is the read side of the named list registry.
	Lists interface {
		List(key string) []string
	}

	// Outcome classifies one probe.
	Outcome int

	// Attempt records one probe for the trace sink.
	Attempt struct {
		Tier    string
		Path    string
		Outcome Outcome
	}

	// Tracer receives every probe in order.
	Tracer interface {
		Trace(Attempt)
	}

	// TraceFunc adapts a function to Tracer.
	TraceFunc func(Attempt)

	// Tier is one ordered directory list tried in full before the next.
	Tier struct {
		Name string
		Dirs []string
		// Std tiers are skipped when the standard path is disabled.
		Std bool
	}

	// Resolved is a successful resolution. Dir and Name use '/' separators
	// and Name may carry the extension. The caller owns File.
	Resolved struct {
		Dir  string
		Name string
		File fs.File
	}

	// OverflowError reports a candidate longer than the target can open.
	// It wraps ErrOverflow.
	OverflowError struct {
		Path string
		Max  int
	}

	// Resolver searches tiers. Its zero value is not usable; call New.
	Resolver struct {
		conv   pathconv.Convention
		lists  Lists
		opener Opener
		lookup pathconv.LookupFunc
		tracer Tracer
	}

	// Option configures a Resolver.
	Option func(*Resolver)
)

// New creates a Resolver reading tiers from lists.
func New(conv pathconv.Convention, lists Lists, opts ...Option) *Resolver {
	r := &Resolver{
		conv:   conv,
		lists:  lists,
		opener: OpenerFunc(func(name string) (fs.File, error) { return os.Open(name) }),
		lookup: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithOpener replaces the filesystem.
func WithOpener(o Opener) Option {
	return func(r *Resolver) { r.opener = o }
}

// WithLookup replaces the environment used for '~' and %VAR% expansion.
func WithLookup(lookup pathconv.LookupFunc) Option {
	return func(r *Resolver) { r.lookup = lookup }
}

// WithTracer installs a sink for every probe.
func WithTracer(t Tracer) Option {
	return func(r *Resolver) { r.tracer = t }
}

// Open implements Opener.
func (f OpenerFunc) Open(name string) (fs.File, error) { return f(name) }

// Trace implements Tracer.
func (f TraceFunc) Trace(a Attempt) { f(a) }

// Tiers returns the standard tier plan around extra: the base directory,
// the temporary search path, extra in order, then the standard path.
func (r *Resolver) Tiers(baseDir string, extra ...Tier) []Tier {
	plan := make([]Tier, 0, len(extra)+3)
	plan = append(plan,
		Tier{Name: "base", Dirs: []string{baseDir}},
		r.listTier(registry.SearchPathTemp, false),
	)
	plan = append(plan, extra...)
	return append(plan, r.listTier(registry.SearchPathStatic, true))
}

// ListTier builds a tier from the named list bound to key.
func (r *Resolver) ListTier(key string) Tier {
	return r.listTier(key, false)
}

// Open resolves name+ext along the standard tier plan. On success the
// caller must close the returned file. Exhaustion yields ErrNotFound; an
// overlong candidate aborts the search with an *OverflowError.
func (r *Resolver) Open(baseDir, name, ext string, useStdPath bool, extra ...Tier) (*Resolved, error) {
	return r.Search(name, ext, useStdPath, r.Tiers(baseDir, extra...))
}

// Search resolves name+ext along an explicit plan.
func (r *Resolver) Search(name, ext string, useStdPath bool, plan []Tier) (*Resolved, error) {
	if r.conv.IsAbsolute(name) {
		dir, base := r.splitAbsolute(name)
		res, err := r.tryOne("absolute", dir, base, ext)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, fmt.Errorf("%s%s: %w", name, ext, ErrNotFound)
		}
		return res, nil
	}

	for _, tier := range plan {
		if tier.Std && !useStdPath {
			continue
		}
		for _, dir := range tier.Dirs {
			res, err := r.tryOne(tier.Name, dir, name, ext)
			if err != nil {
				return nil, err
			}
			if res != nil {
				return res, nil
			}
		}
	}
	return nil, fmt.Errorf("%s%s: %w", name, ext, ErrNotFound)
}

// Explain runs the standard search and returns every probe made. Any
// file it opens is closed again.
func (r *Resolver) Explain(baseDir, name, ext string, useStdPath bool, extra ...Tier) ([]Attempt, *Resolved, error) {
	var attempts []Attempt
	traced := *r
	traced.tracer = TraceFunc(func(a Attempt) {
		attempts = append(attempts, a)
		if r.tracer != nil {
			r.tracer.Trace(a)
		}
	})
	res, err := traced.Open(baseDir, name, ext, useStdPath, extra...)
	if res != nil {
		_ = res.Close()
		res.File = nil
	}
	return attempts, res, err
}

// tryOne probes dir/name+ext. It returns (nil, nil) when the probe fails
// and the search should go on.
func (r *Resolver) tryOne(tier, dir, name, ext string) (*Resolved, error) {
	expanded := r.conv.ToSlash(r.conv.Expand(dir, r.lookup))
	if dir != "" && expanded == "" {
		r.trace(Attempt{Tier: tier, Path: dir, Outcome: Skipped})
		return nil, nil
	}
	path := join(expanded, name+ext)
	if len(path) > r.conv.MaxPath {
		return nil, &OverflowError{Path: path, Max: r.conv.MaxPath}
	}

	f, err := r.opener.Open(r.conv.FromSlash(path))
	if err != nil {
		r.trace(Attempt{Tier: tier, Path: path, Outcome: Missing})
		return nil, nil
	}
	if info, err := f.Stat(); err != nil || info.IsDir() {
		_ = f.Close()
		r.trace(Attempt{Tier: tier, Path: path, Outcome: Rejected})
		return nil, nil
	}
	r.trace(Attempt{Tier: tier, Path: path, Outcome: Found})

	resDir, resName := splitLast(path)
	return &Resolved{Dir: resDir, Name: resName, File: f}, nil
}

func (r *Resolver) trace(a Attempt) {
	if r.tracer != nil {
		r.tracer.Trace(a)
	}
}

func (r *Resolver) listTier(key string, std bool) Tier {
	var dirs []string
	if r.lists != nil {
		dirs = r.lists.List(key)
	}
	return Tier{Name: key, Dirs: dirs, Std: std}
}

// splitAbsolute divides an absolute name at its last '/'. A name with no
// '/' at all is probed as is.
func (r *Resolver) splitAbsolute(name string) (dir, base string) {
	name = r.conv.ToSlash(name)
	i := strings.LastIndexByte(name, '/')
	switch {
	case i < 0:
		return "", name
	case i == 0:
		return "/", name[1:]
	default:
		return name[:i], name[i+1:]
	}
}

// join concatenates dir and name with exactly one '/' between them.
func join(dir, name string) string {
	if dir == "" {
		return name
	}
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}

// splitLast divides a resolved path into directory and file name. A file
// at the root keeps "/" as its directory.
func splitLast(path string) (dir, name string) {
	i := strings.LastIndexByte(path, '/')
	switch {
	case i < 0:
		return "", path
	case i == 0:
		return "/", path[1:]
	default:
		return path[:i], path[i+1:]
	}
}

// Path joins Dir and Name back into a full path.
func (r *Resolved) Path() string {
	return join(r.Dir, r.Name)
}

// Close releases the handle. It is safe to call more than once.
func (r *Resolved) Close() error {
	if r == nil || r.File == nil {
		return nil
	}
	err := r.File.Close()
	r.File = nil
	return err
}

// String renders the outcome the way the verbose trace prints it.
func (o Outcome) String() string {
	switch o {
	case Found:
		return "succeeded"
	case Missing:
		return "failed"
	case Rejected:
		return "stat failed or directory"
	case Skipped:
		return "skipped, home directory unset"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Error implements the error interface for OverflowError.
func (e *OverflowError) Error() string {
	return fmt.Sprintf("candidate path is %d bytes, limit is %d: %.64s...", len(e.Path), e.Max, e.Path)
}

// Unwrap returns ErrOverflow for errors.Is() compatibility.
func (e *OverflowError) Unwrap() error { return ErrOverflow }

func isOverflow(err error) bool {
	return errors.Is(err, ErrOverflow)
}
