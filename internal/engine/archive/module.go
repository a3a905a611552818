package archive

import "regexp"

// SystemModulePattern matches module names in the reserved platform
// namespaces. Modules whose names match are treated as system modules
// and are excluded from analysis unless explicitly included.
var SystemModulePattern = regexp.MustCompile(`java\..*|jdk\..*|javafx\..*`)

// IsSystemModuleName reports whether name falls in a reserved platform
// namespace. The match is anchored over the whole name.
func IsSystemModuleName(name string) bool {
	m := SystemModulePattern.FindString(name)
	return m == name && name != ""
}

// Module is the metadata attached to an archive. Exports tracks the
// exported package names; automatic and open modules export everything.
type Module struct {
	Name      string
	System    bool
	Automatic bool
	Open      bool
	Exports   map[string]bool
}

// NewModule returns a named module exporting the given packages.
func NewModule(name string, exports ...string) *Module {
	m := &Module{Name: name, Exports: make(map[string]bool, len(exports))}
	for _, pkg := range exports {
		m.Exports[pkg] = true
	}
	return m
}

// NewSystemModule returns a platform module exporting the given packages.
func NewSystemModule(name string, exports ...string) *Module {
	m := NewModule(name, exports...)
	m.System = true
	return m
}

// NewAutomaticModule returns an unnamed-descriptor module. Automatic
// modules export every package they contain.
func NewAutomaticModule(name string) *Module {
	return &Module{Name: name, Automatic: true}
}

// IsSystem reports whether the module belongs to the platform image.
func (m *Module) IsSystem() bool {
	return m != nil && m.System
}

// IsExported reports whether pkg is readable from outside the module.
func (m *Module) IsExported(pkg string) bool {
	if m == nil {
		return false
	}
	if m.Automatic || m.Open {
		return true
	}
	return m.Exports[pkg]
}
