package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"flowpack/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckOutputDirectory_Creatable(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "staging")
	result := CheckOutputDirectory("staging", target)
	if !result.Passed {
		t.Fatalf("expected creatable dir to pass, got: %s", result.Detail)
	}
}

func TestCheckOutputDirectory_FileInTheWay(t *testing.T) {
	f := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckOutputDirectory("staging", f); result.Passed {
		t.Fatal("expected failure when a file occupies the output path")
	}
}

func TestCheckReadableFile(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "list.text")
	if err := os.WriteFile(list, []byte("a.json\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckReadableFile("list", list); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result := CheckReadableFile("list", dir); result.Passed {
		t.Fatal("expected failure for directory")
	}
	if result := CheckReadableFile("list", filepath.Join(dir, "missing")); result.Passed {
		t.Fatal("expected failure for missing file")
	}
}

func TestCheckSystemDeps_Git(t *testing.T) {
	binDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(binDir, "git"), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir)

	cfg := config.Default()
	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 1 {
		t.Fatalf("expected one status, got %d", len(statuses))
	}
	if !statuses[0].Available {
		t.Fatalf("expected git to be available, got %#v", statuses[0])
	}

	cfg.Acquire.GitBinary = "clearly-not-present-git"
	cfg.Acquire.GitFallbacks = nil
	statuses = CheckSystemDeps(&cfg)
	if statuses[0].Available {
		t.Fatal("expected git to be unavailable")
	}
}

func TestRunAllSkipsStateDirWhenHistoryDisabled(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ScratchDir = filepath.Join(base, "scratch")
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.OrganizedDir = filepath.Join(base, "organized")
	cfg.Paths.ListFile = filepath.Join(base, "list.text")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.History.Enabled = false

	results := RunAll(&cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "Organizer list" {
		t.Fatalf("expected only the missing list to fail, got %#v", failed)
	}
}
