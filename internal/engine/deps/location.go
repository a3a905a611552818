package deps

import "strings"

// Location identifies one endpoint of a dependency edge by its
// fully-qualified class name, e.g. "java.util.List".
type Location string

// PackageName returns the package part of the location, or "" for a
// class in the default package.
func (l Location) PackageName() string {
	i := strings.LastIndexByte(string(l), '.')
	if i < 0 {
		return ""
	}
	return string(l[:i])
}

// ClassName returns the simple class name.
func (l Location) ClassName() string {
	i := strings.LastIndexByte(string(l), '.')
	return string(l[i+1:])
}

// Dependency is one directed class-to-class edge produced by the
// class-file scanner. Values are immutable; the filter never mutates
// them.
type Dependency struct {
	Origin Location
	Target Location
}
