package app

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"depscope/internal/core/config"
)

// makeClass synthesizes the smallest class file the scanner can read:
// a constant pool holding this-class plus the referenced classes.
func makeClass(this string, refs ...string) []byte {
	var pool bytes.Buffer
	count := uint16(0)
	addUtf8 := func(s string) uint16 {
		pool.WriteByte(1) // CONSTANT_Utf8
		binary.Write(&pool, binary.BigEndian, uint16(len(s)))
		pool.WriteString(s)
		count++
		return count
	}
	addClass := func(utf8 uint16) uint16 {
		pool.WriteByte(7) // CONSTANT_Class
		binary.Write(&pool, binary.BigEndian, utf8)
		count++
		return count
	}

	thisIdx := addClass(addUtf8(this))
	for _, ref := range refs {
		addClass(addUtf8(ref))
	}

	var out bytes.Buffer
	binary.Write(&out, binary.BigEndian, uint32(0xCAFEBABE))
	binary.Write(&out, binary.BigEndian, uint16(0))
	binary.Write(&out, binary.BigEndian, uint16(52))
	binary.Write(&out, binary.BigEndian, count+1)
	out.Write(pool.Bytes())
	binary.Write(&out, binary.BigEndian, uint16(0x21)) // access_flags
	binary.Write(&out, binary.BigEndian, thisIdx)
	binary.Write(&out, binary.BigEndian, uint16(0)) // super_class
	return out.Bytes()
}

func writeJar(t *testing.T, path string, classes map[string][]byte) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for entry, data := range classes {
		fw, err := w.Create(entry)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestRun_EndToEndDefaultPolicy(t *testing.T) {
	dir := t.TempDir()
	writeJar(t, filepath.Join(dir, "x.jar"), map[string][]byte{
		"a/b/C.class": makeClass("a/b/C", "a/b/D", "c/d/E"),
		"a/b/D.class": makeClass("a/b/D"),
	})
	writeJar(t, filepath.Join(dir, "y.jar"), map[string][]byte{
		"c/d/E.class": makeClass("c/d/E", "java/lang/Object"),
	})

	cfg, err := config.Load(filepath.Join(dir, "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Scan.Roots = []string{dir}

	a, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = a.Close() }()

	res, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// Same-package a.b.C -> a.b.D is dropped at the edge stage; the
	// two survivors cross archive boundaries.
	if len(res.Accepted) != 2 {
		t.Fatalf("accepted %d edges: %v", len(res.Accepted), res.Accepted)
	}
	if res.Accepted[0].Dep.Target != "c.d.E" || res.Accepted[0].TargetArchive.Name() != "y.jar" {
		t.Fatalf("unexpected first edge: %+v", res.Accepted[0])
	}
	if res.Accepted[1].Dep.Target != "java.lang.Object" || res.Accepted[1].TargetArchive.Name() != "not found" {
		t.Fatalf("unexpected second edge: %+v", res.Accepted[1])
	}
	if a.edgesSeen != 3 {
		t.Fatalf("edgesSeen = %d", a.edgesSeen)
	}
}

func TestRun_IncludePatternLimitsScope(t *testing.T) {
	dir := t.TempDir()
	writeJar(t, filepath.Join(dir, "x.jar"), map[string][]byte{
		"a/b/C.class": makeClass("a/b/C", "c/d/E"),
	})
	writeJar(t, filepath.Join(dir, "y.jar"), map[string][]byte{
		"c/d/E.class": makeClass("c/d/E", "a/b/C"),
	})

	cfg, err := config.Load(filepath.Join(dir, "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Scan.Roots = []string{dir}
	cfg.Filter.Include = `a\.b\..*`

	a, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = a.Close() }()

	res, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// Only x.jar contains classes matching the include pattern, so
	// y.jar's edge never appears.
	if len(res.Accepted) != 1 {
		t.Fatalf("accepted %d edges: %v", len(res.Accepted), res.Accepted)
	}
	if res.Accepted[0].Dep.Origin != "a.b.C" {
		t.Fatalf("unexpected origin: %v", res.Accepted[0].Dep)
	}
}

// A cancelled context must fail the run promptly: the producer keeps
// sending archives to the worker pool, so workers have to drain the
// channel even when they stop scanning.
func TestRun_CancelledContextReturns(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 8; i++ {
		writeJar(t, filepath.Join(dir, fmt.Sprintf("lib%d.jar", i)), map[string][]byte{
			"a/b/C.class": makeClass("a/b/C", "c/d/E"),
		})
	}

	cfg, err := config.Load(filepath.Join(dir, "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Scan.Roots = []string{dir}
	cfg.Scan.Workers = 2

	a, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = a.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		_, err := a.Run(ctx)
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected error from cancelled context")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestRun_ClassDirectoryRoot(t *testing.T) {
	classDir := filepath.Join(t.TempDir(), "classes")
	if err := os.MkdirAll(filepath.Join(classDir, "a", "b"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(classDir, "a", "b", "C.class"),
		makeClass("a/b/C", "c/d/E"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(filepath.Join(classDir, "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Scan.Roots = []string{classDir}

	a, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = a.Close() }()

	res, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Accepted) != 1 || res.Accepted[0].Dep.Origin != "a.b.C" {
		t.Fatalf("accepted edges: %v", res.Accepted)
	}
	if res.Accepted[0].OriginArchive.Name() != "classes" {
		t.Fatalf("origin archive: %s", res.Accepted[0].OriginArchive.Name())
	}
}

func TestNew_RejectsUnknownOutputFormat(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	// Simulates a -format flag override landing after config validation.
	cfg.Output.Format = "summry"
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for unknown output format")
	}
}

func TestRun_HistoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeJar(t, filepath.Join(dir, "x.jar"), map[string][]byte{
		"a/b/C.class": makeClass("a/b/C", "c/d/E"),
	})

	cfg, err := config.Load(filepath.Join(dir, "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Scan.Roots = []string{dir}
	cfg.History.Enabled = true
	cfg.History.Path = filepath.Join(dir, "state", "depscope.db")

	a, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = a.Close() }()

	if _, err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	runs, err := a.RecentRuns(5)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ArchiveCount != 1 || runs[0].ClassCount != 1 {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}
