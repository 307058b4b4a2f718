package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"flowpack/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ScratchDir = filepath.Join(base, "scratch")
	cfgVal.Paths.StagingDir = filepath.Join(base, "staging")
	cfgVal.Paths.OrganizedDir = filepath.Join(base, "organized")
	cfgVal.Paths.ListFile = filepath.Join(base, "list.text")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.History.Path = filepath.Join(base, "state", "history.db")
	cfgVal.Acquire.Sources = nil
	cfgVal.Acquire.GitFallbacks = nil

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithHistoryDisabled turns off the run history store.
func WithHistoryDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// WithSources sets the acquisition source list.
func WithSources(refs ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Acquire.Sources = append([]string(nil), refs...)
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, git is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"git"}
		}
		StubBinaries(b.t, filepath.Join(b.baseDir, "bin"), "#!/bin/sh\nexit 0\n", names...)
	}
}

// WithCloningGit installs a git stub whose clone creates the destination
// directory and drops a marker file into it.
func WithCloningGit() ConfigOption {
	return func(b *configBuilder) {
		script := "#!/bin/sh\nfor arg; do dest=$arg; done\nmkdir -p \"$dest\" && echo cloned > \"$dest/.cloned\"\n"
		StubBinaries(b.t, filepath.Join(b.baseDir, "bin"), script, "git")
	}
}

// WithoutGit points the git binary at a name that cannot resolve.
func WithoutGit() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Acquire.GitBinary = "flowpack-test-missing-git"
		b.cfg.Acquire.GitFallbacks = []string{filepath.Join(b.baseDir, "missing", "git")}
	}
}

// StubBinaries writes script to binDir under every name and prepends binDir
// to PATH for the lifetime of the test.
func StubBinaries(t testing.TB, binDir, script string, names ...string) {
	t.Helper()
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	for _, name := range names {
		target := filepath.Join(binDir, name)
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}

	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StagingDir)
}
