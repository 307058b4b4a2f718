package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flowpack/internal/config"
	"flowpack/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t, opts...)
	configPath := filepath.Join(homeDir, ".config", "flowpack", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    testsupport.BaseDir(cfg),
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()

	var b strings.Builder
	fmt.Fprintf(&b, "[paths]\nscratch_dir = %q\nstaging_dir = %q\norganized_dir = %q\nlist_file = %q\nstate_dir = %q\n\n",
		cfg.Paths.ScratchDir,
		cfg.Paths.StagingDir,
		cfg.Paths.OrganizedDir,
		cfg.Paths.ListFile,
		cfg.Paths.StateDir,
	)
	fmt.Fprintf(&b, "[acquire]\ngit_binary = %q\n", cfg.Acquire.GitBinary)
	if len(cfg.Acquire.GitFallbacks) > 0 {
		fmt.Fprintf(&b, "git_fallbacks = %s\n", tomlList(cfg.Acquire.GitFallbacks))
	}
	if len(cfg.Acquire.Sources) > 0 {
		fmt.Fprintf(&b, "sources = %s\n", tomlList(cfg.Acquire.Sources))
	}
	fmt.Fprintf(&b, "\n[history]\nenabled = %t\npath = %q\n\n", cfg.History.Enabled, cfg.History.Path)
	b.WriteString("[logging]\nformat = \"json\"\nlevel = \"info\"\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func tomlList(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, fmt.Sprintf("%q", v))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	fullArgs := args
	if configPath != "" {
		fullArgs = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(fullArgs)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected output to contain %q, got:\n%s", substr, output)
	}
}
