// SPDX-License-Identifier: MPL-2.0

package registry

import (
	"slices"
	"sync"

	"github.com/respath/respath/pkg/namelist"
	"github.com/respath/respath/pkg/pathconv"
)

// Built-in keys.
const (
	SearchPathTemp   = "searchpath.temp"
	SearchPathMain   = "searchpath.main"
	SearchPathStatic = "searchpath.static"
	HelpPathMain     = "helppath.main"
)

// Well-known dynamic keys used by help lookup.
const (
	HelpPathTemp   = "helppath.temp"
	HelpPathStatic = "helppath.static"
)

type (
	// builtin is the index of a fixed slot.
	builtin int

	// Registry maps keys to name lists. It is safe for concurrent use.
	Registry struct {
		mu      sync.RWMutex
		conv    pathconv.Convention
		slots   [numBuiltins]*namelist.List
		dynamic map[string]*namelist.List
	}
)

const (
	slotSearchTemp builtin = iota
	slotSearchMain
	slotSearchStatic
	slotHelpMain
	numBuiltins
)

var builtinKeys = [numBuiltins]string{
	slotSearchTemp:   SearchPathTemp,
	slotSearchMain:   SearchPathMain,
	slotSearchStatic: SearchPathStatic,
	slotHelpMain:     HelpPathMain,
}

// New returns a registry whose lists normalize entries with conv.
func New(conv pathconv.Convention) *Registry {
	r := &Registry{conv: conv, dynamic: make(map[string]*namelist.List)}
	for i := range r.slots {
		r.slots[i] = namelist.New(conv)
	}
	return r
}

// IsBuiltin reports whether key names one of the fixed slots.
func IsBuiltin(key string) bool {
	return slices.Contains(builtinKeys[:], key)
}

// Convention returns the path convention the lists use.
func (r *Registry) Convention() pathconv.Convention {
	return r.conv
}

// List returns a copy of the entries bound to key. An unknown key yields
// nil and is not created.
func (r *Registry) List(key string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(key).Entries()
}

// Has reports whether key is bound, built-in keys always are.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(key) != nil
}

// Keys returns the built-in keys followed by the dynamic ones in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := slices.Clone(builtinKeys[:])
	dyn := make([]string, 0, len(r.dynamic))
	for k := range r.dynamic {
		dyn = append(dyn, k)
	}
	slices.Sort(dyn)
	return append(keys, dyn...)
}

// Append adds value to the list bound to key, creating the binding if
// needed. An empty key or an empty value does nothing.
func (r *Registry) Append(key, value string, allowDuplicates bool) {
	if key == "" || value == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bind(key).Append(value, allowDuplicates)
}

// Ensure binds key to an empty list if it is not bound yet.
func (r *Registry) Ensure(key string) {
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bind(key)
}

// AppendDelimited splits s on the list separator and appends every
// non-empty segment with duplicates suppressed.
func (r *Registry) AppendDelimited(key, s string) {
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appendDelimited(key, s)
}

// Set replaces the contents bound to key. Each value is itself treated as
// a delimited list. The previous contents are discarded, never merged.
func (r *Registry) Set(key string, values ...string) {
	if key == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if l := r.lookup(key); l != nil {
		l.Free()
	}
	for _, v := range values {
		r.appendDelimited(key, v)
	}
}

// Free empties the list bound to key. The key stays bound. Freeing an
// unknown key does nothing.
func (r *Registry) Free(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookup(key).Free()
}

// Close empties every list and drops the dynamic bindings.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.slots {
		l.Free()
	}
	for k, l := range r.dynamic {
		l.Free()
		delete(r.dynamic, k)
	}
}

func (r *Registry) appendDelimited(key, s string) {
	if s == "" {
		return
	}
	r.bind(key).AppendDelimited(s)
}

// lookup returns the list bound to key or nil. Callers hold r.mu.
func (r *Registry) lookup(key string) *namelist.List {
	if i := slices.Index(builtinKeys[:], key); i >= 0 {
		return r.slots[i]
	}
	return r.dynamic[key]
}

// bind returns the list bound to key, creating it. Callers hold r.mu for writing.
func (r *Registry) bind(key string) *namelist.List {
	if l := r.lookup(key); l != nil {
		return l
	}
	l := namelist.New(r.conv)
	r.dynamic[key] = l
	return l
}
