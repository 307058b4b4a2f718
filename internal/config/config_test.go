package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"flowpack/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	workDir := t.TempDir()
	t.Chdir(workDir)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if want := filepath.Join(tempHome, ".local", "share", "flowpack"); cfg.Paths.StateDir != want {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, want)
	}
	if !filepath.IsAbs(cfg.Paths.ScratchDir) || filepath.Base(cfg.Paths.ScratchDir) != "temp_repos" {
		t.Fatalf("unexpected scratch dir: %q", cfg.Paths.ScratchDir)
	}
	if cfg.Merge.Fallback != "uncategorized" {
		t.Fatalf("unexpected merge fallback: %q", cfg.Merge.Fallback)
	}
	if cfg.Organize.Fallback != "Uncategorized" {
		t.Fatalf("unexpected organize fallback: %q", cfg.Organize.Fallback)
	}
	if len(cfg.Acquire.Sources) != 10 {
		t.Fatalf("expected 10 built-in sources, got %d", len(cfg.Acquire.Sources))
	}
	if got := cfg.HistoryPath(); got != filepath.Join(cfg.Paths.StateDir, "history.db") {
		t.Fatalf("unexpected history path: %q", got)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.StateDir); err != nil || !info.IsDir() {
		t.Fatalf("expected state dir to exist: %v", err)
	}
}

func TestLoadCustomPathReplacesCategoryTable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "flowpack.toml")
	content := `
[paths]
staging_dir = "` + filepath.ToSlash(filepath.Join(dir, "out")) + `"

[merge]
fallback = "misc"

[[merge.categories]]
name = "chat"
keywords = ["Slack", "DISCORD"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected custom config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Paths.StagingDir != filepath.Join(dir, "out") {
		t.Fatalf("unexpected staging dir: %q", cfg.Paths.StagingDir)
	}

	table := cfg.MergeTable()
	if diff := cmp.Diff([]string{"chat", "misc"}, table.Names()); diff != "" {
		t.Fatalf("unexpected merge table (-want +got):\n%s", diff)
	}
	if got := table.Classify("Team-Discord-Alerts.json"); got != "chat" {
		t.Fatalf("expected keywords to be lower-cased, got %q", got)
	}
	// Lists the file omits keep their defaults.
	if len(cfg.Organize.Categories) != 7 {
		t.Fatalf("expected default organize categories, got %d", len(cfg.Organize.Categories))
	}
	if diff := cmp.Diff([]string{".json"}, cfg.Merge.Extensions); diff != "" {
		t.Fatalf("unexpected merge extensions (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad log format",
			content: "[logging]\nformat = \"xml\"\n",
			wantErr: "logging.format",
		},
		{
			name:    "negative clone depth",
			content: "[acquire]\nclone_depth = -1\n",
			wantErr: "acquire.clone_depth",
		},
		{
			name:    "extension without dot",
			content: "[merge]\nextensions = [\"json\"]\n",
			wantErr: "merge.extensions",
		},
		{
			name:    "duplicate category",
			content: "[[organize.categories]]\nname = \"a\"\nkeywords = [\"x\"]\n[[organize.categories]]\nname = \"a\"\nkeywords = [\"y\"]\n",
			wantErr: "duplicate category",
		},
		{
			name:    "category without keywords",
			content: "[[merge.categories]]\nname = \"a\"\nkeywords = []\n",
			wantErr: "merge.categories[0].keywords",
		},
		{
			name:    "unknown key",
			content: "[paths]\nnope = 1\n",
			wantErr: "parse config",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGitBinaryEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FLOWPACK_GIT_BINARY", "/opt/git/bin/git")
	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Acquire.GitBinary != "/opt/git/bin/git" {
		t.Fatalf("expected env git binary, got %q", cfg.Acquire.GitBinary)
	}
}

func TestLogLevelEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FLOWPACK_LOG_LEVEL", " DEBUG ")
	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected env log level, got %q", cfg.Logging.Level)
	}
}

func TestHistoryDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.History.Enabled = false
	if got := cfg.HistoryPath(); got != "" {
		t.Fatalf("expected empty history path, got %q", got)
	}
}

func TestSampleConfigLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	defaults := config.Default()
	if diff := cmp.Diff(defaults.Organize.Categories, cfg.Organize.Categories); diff != "" {
		t.Fatalf("sample organize categories drift from defaults (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(defaults.Merge.Categories, cfg.Merge.Categories); diff != "" {
		t.Fatalf("sample merge categories drift from defaults (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(defaults.Acquire.Sources, cfg.Acquire.Sources); diff != "" {
		t.Fatalf("sample sources drift from defaults (-want +got):\n%s", diff)
	}
}

func TestEncodeRoundTrips(t *testing.T) {
	cfg := config.Default()
	out, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(out, "scratch_dir") || !strings.Contains(out, "AI & LLMs") {
		t.Fatalf("encoded config missing expected keys:\n%s", out)
	}
}
