// SPDX-License-Identifier: MPL-2.0

package instance

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/respath/respath/internal/dialog"
	"github.com/respath/respath/internal/locale"
	"github.com/respath/respath/internal/registry"
	"github.com/respath/respath/internal/resolver"
	"github.com/respath/respath/internal/startup"
	"github.com/respath/respath/pkg/argv"
	"github.com/respath/respath/pkg/namelist"
	"github.com/respath/respath/pkg/pathconv"
	"github.com/respath/respath/pkg/platform"
)

const (
	// Temporary adds to the command-line list for this run only.
	Temporary Mode = iota
	// Keep adds to the user list.
	Keep
	// Save adds to the user list and persists the settings.
	Save
)

// ErrClosed is returned by operations on a closed instance.
var ErrClosed = errors.New("instance closed")

type (
	// Mode selects where AddToPath and AddToHelpPath put a directory.
	Mode int

	// Saver persists the instance settings.
	Saver interface {
		Save(*Instance) error
	}

	// SaverFunc adapts a function to Saver.
	SaverFunc func(*Instance) error

	// Loader takes over a located help file.
	Loader interface {
		Load(dir, name string) error
	}

	// FlagParser consumes the tokenized startup flags. It must not change
	// anything unless the whole argument list is acceptable.
	FlagParser interface {
		ParseFlags(inst *Instance, args []string) error
	}

	// Instance is the path state of one host instance.
	Instance struct {
		conv     pathconv.Convention
		goos     string
		lookup   pathconv.LookupFunc
		reg      *registry.Registry
		tag      locale.Tag
		resolver *resolver.Resolver
		logger   *log.Logger
		saver    Saver
		loader   Loader
		opener   resolver.Opener

		mu         sync.RWMutex
		useStdPath bool
		verbose    bool
		flags      string
		libs       *namelist.List
		closed     bool
	}

	// Option configures an Instance.
	Option func(*Instance)

	// startupParser applies flags through internal/startup.
	startupParser struct{}
)

// New creates an instance. The locale is read once, here.
func New(opts ...Option) *Instance {
	inst := &Instance{
		goos:       platform.Current(),
		lookup:     os.LookupEnv,
		useStdPath: true,
		logger:     log.NewWithOptions(os.Stderr, log.Options{Prefix: "respath"}),
	}
	inst.conv = pathconv.ForOS(inst.goos)
	for _, opt := range opts {
		opt(inst)
	}

	inst.reg = registry.New(inst.conv)
	inst.libs = namelist.New(inst.conv)
	inst.tag = locale.FromEnv(inst.lookup)

	ropts := []resolver.Option{
		resolver.WithLookup(inst.lookup),
		resolver.WithTracer(resolver.TraceFunc(inst.trace)),
	}
	if inst.opener != nil {
		ropts = append(ropts, resolver.WithOpener(inst.opener))
	}
	inst.resolver = resolver.New(inst.conv, inst.reg, ropts...)
	return inst
}

// WithOS selects the target convention and the built-in directories.
func WithOS(goos string) Option {
	return func(i *Instance) {
		i.goos = goos
		i.conv = pathconv.ForOS(goos)
	}
}

// WithConvention overrides the path convention chosen by WithOS.
func WithConvention(conv pathconv.Convention) Option {
	return func(i *Instance) { i.conv = conv }
}

// WithLookup replaces the environment.
func WithLookup(lookup pathconv.LookupFunc) Option {
	return func(i *Instance) { i.lookup = lookup }
}

// WithLogger replaces the logger.
func WithLogger(l *log.Logger) Option {
	return func(i *Instance) { i.logger = l }
}

// WithLogOutput sends log output to w.
func WithLogOutput(w io.Writer) Option {
	return func(i *Instance) {
		i.logger = log.NewWithOptions(w, log.Options{Prefix: "respath"})
	}
}

// WithSaver installs the settings persistence hook.
func WithSaver(s Saver) Option {
	return func(i *Instance) { i.saver = s }
}

// WithLoader installs the help hand-off.
func WithLoader(l Loader) Option {
	return func(i *Instance) { i.loader = l }
}

// WithOpener replaces the filesystem used by the resolver.
func WithOpener(o resolver.Opener) Option {
	return func(i *Instance) { i.opener = o }
}

// Save implements Saver.
func (f SaverFunc) Save(i *Instance) error { return f(i) }

// Registry exposes the named lists.
func (i *Instance) Registry() *registry.Registry { return i.reg }

// Resolver exposes the resolver bound to the registry.
func (i *Instance) Resolver() *resolver.Resolver { return i.resolver }

// Locale returns the tag read at start.
func (i *Instance) Locale() locale.Tag { return i.tag }

// Convention returns the path convention in use.
func (i *Instance) Convention() pathconv.Convention { return i.conv }

// Logger returns the instance logger.
func (i *Instance) Logger() *log.Logger { return i.logger }

// UseStdPath reports whether the standard tiers are searched.
func (i *Instance) UseStdPath() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.useStdPath
}

// SetUseStdPath enables or disables the standard tiers.
func (i *Instance) SetUseStdPath(b bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.useStdPath = b
}

// Verbose reports whether every probe is logged.
func (i *Instance) Verbose() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.verbose
}

// SetVerbose switches probe logging. Verbose mode logs at debug level.
func (i *Instance) SetVerbose(b bool) {
	i.mu.Lock()
	i.verbose = b
	i.mu.Unlock()
	if b {
		i.logger.SetLevel(log.DebugLevel)
	} else {
		i.logger.SetLevel(log.InfoLevel)
	}
}

// AppendDelimited adds every segment of s to the list bound to key.
func (i *Instance) AppendDelimited(key, s string) {
	i.reg.AppendDelimited(key, s)
}

// Flags returns the startup flags string.
func (i *Instance) Flags() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.flags
}

// SetFlags replaces the startup flags string without applying it.
func (i *Instance) SetFlags(s string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.flags = s
}

// Libraries returns the startup libraries in order.
func (i *Instance) Libraries() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.libs.Entries()
}

// AddLibraries appends every segment of the list-separated s.
func (i *Instance) AddLibraries(s string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.libs.AppendDelimited(s)
}

// SetLibraries replaces the startup libraries.
func (i *Instance) SetLibraries(libs ...string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.libs.Free()
	for _, l := range libs {
		i.libs.AppendDelimited(l)
	}
}

// Resolve locates name+ext from baseDir along the temporary, user and
// standard search paths. The caller closes the result.
func (i *Instance) Resolve(baseDir, name, ext string) (*resolver.Resolved, error) {
	if err := i.checkOpen(); err != nil {
		return nil, err
	}
	return i.resolver.Open(baseDir, name, ext, i.UseStdPath(), i.resolver.ListTier(registry.SearchPathMain))
}

// Explain runs Resolve and reports every probe.
func (i *Instance) Explain(baseDir, name, ext string) ([]resolver.Attempt, *resolver.Resolved, error) {
	if err := i.checkOpen(); err != nil {
		return nil, nil, err
	}
	return i.resolver.Explain(baseDir, name, ext, i.UseStdPath(), i.resolver.ListTier(registry.SearchPathMain))
}

// ResolveHelp locates the help file for name and hands it to the loader,
// if one is installed. Failing to find it is logged as a warning and
// returned, but is not fatal to anything.
func (i *Instance) ResolveHelp(name, baseDir string) (*resolver.Located, error) {
	if err := i.checkOpen(); err != nil {
		return nil, err
	}
	loc, err := i.resolver.Help(name, baseDir, i.tag, i.UseStdPath())
	if err != nil {
		if errors.Is(err, resolver.ErrNotFound) {
			i.logger.Warn("couldn't find help patch", "name", name)
		}
		return nil, err
	}
	if i.loader != nil {
		if err := i.loader.Load(loc.Dir, loc.Name); err != nil {
			return loc, fmt.Errorf("loading help %s: %w", loc.Path(), err)
		}
	}
	return loc, nil
}

// SetExtraPath rebuilds the standard search path: the per-user install
// directories of the target first, then p.
func (i *Instance) SetExtraPath(p string) {
	i.reg.Free(registry.SearchPathStatic)
	for _, dir := range userDirs(i.goos) {
		i.reg.Append(registry.SearchPathStatic, i.conv.Expand(dir, i.lookup), false)
	}
	i.reg.Append(registry.SearchPathStatic, p, false)
}

// SetPathList replaces the list bound to key with the decoded values.
func (i *Instance) SetPathList(key string, encoded ...string) error {
	if err := i.checkOpen(); err != nil {
		return err
	}
	i.reg.Set(key, dialog.DecodeAll(encoded)...)
	return nil
}

// PathDialog applies the search path dialog: both switches and the
// complete user search path.
func (i *Instance) PathDialog(useStdPath, verbose bool, encoded ...string) error {
	if err := i.checkOpen(); err != nil {
		return err
	}
	i.SetUseStdPath(useStdPath)
	i.SetVerbose(verbose)
	return i.SetPathList(registry.SearchPathMain, encoded...)
}

// AddToPath adds one encoded directory list to the search path.
func (i *Instance) AddToPath(encoded string, mode Mode) error {
	return i.addTo(registry.SearchPathTemp, registry.SearchPathMain, encoded, mode)
}

// AddToHelpPath adds one encoded directory list to the help path.
func (i *Instance) AddToHelpPath(encoded string, mode Mode) error {
	return i.addTo(registry.HelpPathTemp, registry.HelpPathMain, encoded, mode)
}

// StartupDialog replaces the startup flags string and library list.
func (i *Instance) StartupDialog(encodedFlags string, encodedLibs ...string) error {
	if err := i.checkOpen(); err != nil {
		return err
	}
	i.SetFlags(dialog.Decode(encodedFlags))
	i.SetLibraries(dialog.DecodeAll(encodedLibs)...)
	return nil
}

// DoFlags tokenizes the startup flags and hands them to parser, or to the
// built-in startup flag set when parser is nil. A tokenizing error stops
// before the parser runs.
func (i *Instance) DoFlags(parser FlagParser) error {
	if err := i.checkOpen(); err != nil {
		return err
	}
	args, err := argv.Tokenize(i.Flags())
	if err != nil {
		i.logger.Error("flags", "error", err)
		return err
	}
	if parser == nil {
		parser = startupParser{}
	}
	if err := parser.ParseFlags(i, args); err != nil {
		i.logger.Error("error parsing startup arguments", "error", err)
		return err
	}
	return nil
}

// Close frees every list. Later resolutions and dialog edits fail with
// ErrClosed.
func (i *Instance) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return nil
	}
	i.closed = true
	i.reg.Close()
	i.libs.Free()
	return nil
}

func (i *Instance) addTo(tempKey, mainKey, encoded string, mode Mode) error {
	if err := i.checkOpen(); err != nil {
		return err
	}
	dir := dialog.Decode(encoded)
	if dir == "" {
		return nil
	}
	if mode == Temporary {
		i.reg.AppendDelimited(tempKey, dir)
		return nil
	}
	i.reg.AppendDelimited(mainKey, dir)
	if mode == Save && i.saver != nil {
		return i.saver.Save(i)
	}
	return nil
}

func (i *Instance) checkOpen() error {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.closed {
		return ErrClosed
	}
	return nil
}

func (i *Instance) trace(a resolver.Attempt) {
	if !i.Verbose() {
		return
	}
	i.logger.Debugf("tried %s and %s", a.Path, a.Outcome)
}

func (startupParser) ParseFlags(inst *Instance, args []string) error {
	f, err := startup.Parse(args)
	if err != nil {
		return err
	}
	f.Apply(inst)
	return nil
}

// userDirs lists the per-user install directories searched ahead of the
// built-in extra directory.
func userDirs(goos string) []string {
	switch goos {
	case platform.Linux:
		return []string{"~/.local/lib/pd/extra/", "~/pd-externals", "/usr/local/lib/pd-externals"}
	case platform.Darwin:
		return []string{"~/Library/Pd", "/Library/Pd"}
	case platform.Windows:
		return []string{"%AppData%/Pd", "%CommonProgramFiles%/Pd"}
	default:
		return nil
	}
}
