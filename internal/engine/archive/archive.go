package archive

import (
	"sort"
	"strings"
)

const (
	classSuffix      = ".class"
	moduleDescriptor = "module-info.class"
)

// Archive is one packaged unit of classes: a jar or an exploded class
// directory. Identity is pointer identity; two Archive values are the
// same archive only if they are the same pointer. Entries are kept
// sorted so every traversal of an archive is deterministic.
type Archive struct {
	name    string
	path    string
	dir     bool
	entries []string
	mod     *Module
}

// New returns an archive with the given display name and entry list.
// Entry names use '/' separators, as stored in a jar. The archive
// starts with an automatic module named after it, so concurrent
// readers never observe a nil or lazily written module.
func New(name string, entries []string) *Archive {
	sorted := append([]string(nil), entries...)
	sort.Strings(sorted)
	return &Archive{name: name, entries: sorted, mod: NewAutomaticModule(name)}
}

func (a *Archive) Name() string { return a.name }

func (a *Archive) Path() string { return a.path }

// Entries returns the archive's member entry names in sorted order.
// The returned slice must not be mutated.
func (a *Archive) Entries() []string { return a.entries }

// Module returns the module metadata attached to the archive, never
// nil.
func (a *Archive) Module() *Module {
	return a.mod
}

func (a *Archive) SetModule(m *Module) { a.mod = m }

// HasModuleDescriptor reports whether the archive carries a
// module-info entry.
func (a *Archive) HasModuleDescriptor() bool {
	for _, e := range a.entries {
		if e == moduleDescriptor {
			return true
		}
	}
	return false
}

// Classes returns the fully-qualified names of the classes stored in
// the archive, excluding the module descriptor.
func (a *Archive) Classes() []string {
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		if cn, ok := EntryToClassName(e); ok {
			out = append(out, cn)
		}
	}
	return out
}

// EntryToClassName converts a jar entry name to a fully-qualified
// class name. It reports false for non-class entries and for the
// module descriptor.
func EntryToClassName(entry string) (string, bool) {
	if entry == moduleDescriptor || !strings.HasSuffix(entry, classSuffix) {
		return "", false
	}
	name := strings.TrimSuffix(entry, classSuffix)
	return strings.ReplaceAll(name, "/", "."), true
}
