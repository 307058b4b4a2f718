package runlock

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"flowpack/internal/faults"
)

func TestAcquireIsExclusive(t *testing.T) {
	root := filepath.Join(t.TempDir(), "staging")

	first, err := Acquire(root)
	if err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	if first.Path() != root+".lock" {
		t.Fatalf("lock path = %q", first.Path())
	}

	_, err = Acquire(root)
	if err == nil {
		t.Fatal("expected second Acquire to fail while lock is held")
	}
	if !errors.Is(err, ErrHeld) || !faults.IsPrecondition(err) {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(root + ".lock"); !os.IsNotExist(err) {
		t.Fatalf("expected lock file removed, stat err = %v", err)
	}

	second, err := Acquire(root)
	if err != nil {
		t.Fatalf("Acquire after release: %v", err)
	}
	if err := second.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
}

func TestPathForTrimsTrailingSeparator(t *testing.T) {
	if got := PathFor("/data/out/"); got != "/data/out.lock" {
		t.Fatalf("PathFor = %q", got)
	}
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	if err := l.Release(); err != nil {
		t.Fatalf("Release on nil: %v", err)
	}
}
