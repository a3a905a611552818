package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var versionSuffix = regexp.MustCompile(`-\d.*$`)

// Read opens the jar or exploded class directory at path and indexes
// its entries. No class bytes are read until EachClass is called.
func Read(path string) (*Archive, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %q: %w", path, err)
	}

	var entries []string
	dir := info.IsDir()
	if dir {
		entries, err = dirEntries(path)
	} else {
		entries, err = zipEntries(path)
	}
	if err != nil {
		return nil, err
	}

	a := New(filepath.Base(path), entries)
	a.path = path
	a.dir = dir
	a.SetModule(resolveModule(a))
	return a, nil
}

// EachClass streams every class entry's bytes through fn, skipping the
// module descriptor. fn returning an error aborts the traversal.
func (a *Archive) EachClass(fn func(name string, data []byte) error) error {
	if a.path == "" {
		return nil
	}
	if a.dir {
		return a.eachClassDir(fn)
	}
	return a.eachClassZip(fn)
}

func (a *Archive) eachClassZip(fn func(string, []byte) error) error {
	r, err := zip.OpenReader(a.path)
	if err != nil {
		return fmt.Errorf("open archive %q: %w", a.path, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if _, ok := EntryToClassName(f.Name); !ok {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("read entry %q in %q: %w", f.Name, a.path, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("read entry %q in %q: %w", f.Name, a.path, err)
		}
		if err := fn(f.Name, data); err != nil {
			return err
		}
	}
	return nil
}

func (a *Archive) eachClassDir(fn func(string, []byte) error) error {
	for _, entry := range a.entries {
		if _, ok := EntryToClassName(entry); !ok {
			continue
		}
		data, err := os.ReadFile(filepath.Join(a.path, filepath.FromSlash(entry)))
		if err != nil {
			return fmt.Errorf("read entry %q in %q: %w", entry, a.path, err)
		}
		if err := fn(entry, data); err != nil {
			return err
		}
	}
	return nil
}

func dirEntries(root string) ([]string, error) {
	var entries []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, classSuffix) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entries = append(entries, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk archive %q: %w", root, err)
	}
	return entries, nil
}

func zipEntries(path string) ([]string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %q: %w", path, err)
	}
	defer r.Close()

	entries := make([]string, 0, len(r.File))
	for _, f := range r.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		entries = append(entries, f.Name)
	}
	return entries, nil
}

// resolveModule derives module metadata for a freshly read archive.
// Archives with a module descriptor keep their derived name as a named
// module; anything else becomes an automatic module. Full descriptor
// decoding (requires/exports tables) is not performed here.
func resolveModule(a *Archive) *Module {
	name := AutomaticModuleName(a.name)
	if a.HasModuleDescriptor() {
		m := NewModule(name)
		m.System = IsSystemModuleName(name)
		return m
	}
	m := NewAutomaticModule(name)
	m.System = IsSystemModuleName(name)
	return m
}

// AutomaticModuleName derives a module name from an archive file name
// the way the platform derives automatic module names: extension and
// trailing version dropped, remaining separator runs collapsed to '.'.
func AutomaticModuleName(fileName string) string {
	name := fileName
	for _, ext := range []string{".jar", ".zip", ".jmod"} {
		name = strings.TrimSuffix(name, ext)
	}
	name = versionSuffix.ReplaceAllString(name, "")
	var b strings.Builder
	lastDot := true
	for _, r := range name {
		alnum := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
		if alnum {
			b.WriteRune(r)
			lastDot = false
			continue
		}
		if !lastDot {
			b.WriteByte('.')
			lastDot = true
		}
	}
	return strings.TrimSuffix(b.String(), ".")
}
