package util

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSortedStringKeys(t *testing.T) {
	m := map[string]int{"b": 1, "a": 2, "c": 3}
	keys := SortedStringKeys(m)
	if len(keys) != 3 || keys[0] != "a" || keys[2] != "c" {
		t.Fatalf("keys = %v", keys)
	}
}

func TestWriteFileWithDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "report.txt")
	if err := WriteFileWithDirs(path, []byte("ok"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "ok" {
		t.Fatalf("read back: %q, %v", data, err)
	}
}

func TestLimiter_ZeroRateIsUnlimited(t *testing.T) {
	l := NewLimiter(0, 0)
	for i := 0; i < 100; i++ {
		if !l.Allow() {
			t.Fatal("unlimited limiter refused")
		}
	}
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
}

func TestLimiter_BoundsRate(t *testing.T) {
	l := NewLimiter(1, 1)
	if !l.Allow() {
		t.Fatal("first event refused")
	}
	if l.Allow() {
		t.Fatal("second immediate event allowed at 1/s")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); err == nil {
		t.Fatal("wait should have hit the deadline")
	}
}
