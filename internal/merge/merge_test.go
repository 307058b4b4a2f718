package merge_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"flowpack/internal/config"
	"flowpack/internal/digest"
	"flowpack/internal/faults"
	"flowpack/internal/history"
	"flowpack/internal/logging"
	"flowpack/internal/merge"
	"flowpack/internal/runlock"
	"flowpack/internal/testsupport"
)

func newOptions(cfg *config.Config) merge.Options {
	return merge.Options{
		ScratchDir: cfg.Paths.ScratchDir,
		OutputDir:  cfg.Paths.StagingDir,
		Table:      cfg.MergeTable(),
		Extensions: cfg.Merge.Extensions,
	}
}

func TestRunStagesDedupesAndClassifies(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	scratch := cfg.Paths.ScratchDir

	testsupport.WriteWorkflow(t, filepath.Join(scratch, "repo-a", "slack_digest.json"), "slack")
	testsupport.WriteWorkflow(t, filepath.Join(scratch, "repo-b", "copy_of_slack.json"), "slack")
	testsupport.WriteWorkflow(t, filepath.Join(scratch, "repo-b", "Docker_Deploy.json"), "docker")
	testsupport.WriteWorkflow(t, filepath.Join(scratch, "repo-b", "misc.json"), "misc")
	testsupport.WriteFile(t, filepath.Join(scratch, "repo-a", "package.json"), `{"name": "pkg"}`)
	testsupport.WriteFile(t, filepath.Join(scratch, "repo-a", "broken.json"), `{"nodes": [`)
	testsupport.WriteFile(t, filepath.Join(scratch, "repo-a", "README.md"), "# readme")

	result, err := merge.New(logging.NewNop()).Run(context.Background(), newOptions(cfg))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Staged != 3 || result.Duplicates != 1 || result.Skipped != 2 || result.Errors != 0 {
		t.Fatalf("unexpected counters: %+v", result)
	}
	if result.Scanned != 6 {
		t.Fatalf("scanned = %d, want 6", result.Scanned)
	}

	want := []string{
		"devops/Docker_Deploy.json",
		"productivity/slack_digest.json",
		"uncategorized/misc.json",
	}
	if diff := cmp.Diff(want, testsupport.ListFiles(t, cfg.Paths.StagingDir)); diff != "" {
		t.Fatalf("staged tree mismatch (-want +got):\n%s", diff)
	}

	// The source tree is left intact.
	if got := len(testsupport.ListFiles(t, scratch)); got != 7 {
		t.Fatalf("scratch file count = %d, want 7", got)
	}
}

func TestRunPrefixesCollidingNames(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	scratch := cfg.Paths.ScratchDir

	testsupport.WriteWorkflow(t, filepath.Join(scratch, "a", "workflow.json"), "one")
	testsupport.WriteWorkflow(t, filepath.Join(scratch, "b", "workflow.json"), "two")
	testsupport.WriteWorkflow(t, filepath.Join(scratch, "c", "workflow.json"), "three")

	result, err := merge.New(logging.NewNop()).Run(context.Background(), newOptions(cfg))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Staged != 3 {
		t.Fatalf("staged = %d, want 3", result.Staged)
	}

	want := []string{
		"uncategorized/1_workflow.json",
		"uncategorized/2_workflow.json",
		"uncategorized/workflow.json",
	}
	if diff := cmp.Diff(want, testsupport.ListFiles(t, cfg.Paths.StagingDir)); diff != "" {
		t.Fatalf("staged tree mismatch (-want +got):\n%s", diff)
	}
	dir := filepath.Join(cfg.Paths.StagingDir, "uncategorized")
	if got := testsupport.ReadFile(t, filepath.Join(dir, "workflow.json")); got != `{"name": "one", "nodes": [], "connections": {}}` {
		t.Fatalf("first staged file overwritten: %s", got)
	}
}

func TestRunNeverOverwritesExistingStagedFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	scratch := cfg.Paths.ScratchDir
	dir := filepath.Join(cfg.Paths.StagingDir, "uncategorized")

	testsupport.WriteFile(t, filepath.Join(dir, "flow.json"), "existing")
	testsupport.WriteFile(t, filepath.Join(dir, "0_flow.json"), "existing-prefixed")
	testsupport.WriteWorkflow(t, filepath.Join(scratch, "x", "flow.json"), "new")

	result, err := merge.New(logging.NewNop()).Run(context.Background(), newOptions(cfg))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Staged != 1 {
		t.Fatalf("staged = %d", result.Staged)
	}
	if got := testsupport.ReadFile(t, filepath.Join(dir, "0_flow.json")); got != "existing-prefixed" {
		t.Fatalf("0_flow.json overwritten: %q", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "1_flow.json")); err != nil {
		t.Fatalf("expected 1_flow.json: %v", err)
	}
}

func TestStagedName(t *testing.T) {
	dir := t.TempDir()
	if name, n := merge.StagedName(dir, "x.json", 5); name != "x.json" || n != -1 {
		t.Fatalf("free name = %q, %d", name, n)
	}
	testsupport.WriteFile(t, filepath.Join(dir, "x.json"), "")
	testsupport.WriteFile(t, filepath.Join(dir, "5_x.json"), "")
	if name, n := merge.StagedName(dir, "x.json", 5); name != "6_x.json" || n != 6 {
		t.Fatalf("taken name = %q, %d", name, n)
	}
}

func TestRunPreservesModificationTime(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	src := filepath.Join(cfg.Paths.ScratchDir, "r", "email_flow.json")
	testsupport.WriteWorkflow(t, src, "email")
	info, err := os.Stat(src)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := merge.New(logging.NewNop()).Run(context.Background(), newOptions(cfg)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	staged, err := os.Stat(filepath.Join(cfg.Paths.StagingDir, "marketing", "email_flow.json"))
	if err != nil {
		t.Fatalf("stat staged: %v", err)
	}
	if !staged.ModTime().Equal(info.ModTime()) {
		t.Fatalf("mtime %v, want %v", staged.ModTime(), info.ModTime())
	}
}

func TestRunMissingScratchStagesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	result, err := merge.New(logging.NewNop()).Run(context.Background(), newOptions(cfg))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Staged != 0 || result.Scanned != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestRunFailsWhileLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	lock, err := runlock.Acquire(cfg.Paths.StagingDir)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer lock.Release()

	_, err = merge.New(logging.NewNop()).Run(context.Background(), newOptions(cfg))
	if !faults.IsPrecondition(err) {
		t.Fatalf("expected precondition error, got %v", err)
	}
}

func TestRunRecordsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	testsupport.WriteWorkflow(t, filepath.Join(cfg.Paths.ScratchDir, "a", "gpt_bot.json"), "gpt")
	testsupport.WriteWorkflow(t, filepath.Join(cfg.Paths.ScratchDir, "b", "gpt_bot.json"), "gpt")

	result, err := merge.New(logging.NewNop(), merge.WithRecorder(store)).Run(context.Background(), newOptions(cfg))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	runs, err := store.ListRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != result.RunID || runs[0].Summary["duplicates"] != 1 {
		t.Fatalf("unexpected runs: %+v", runs)
	}
	files, err := store.RunFiles(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("RunFiles: %v", err)
	}
	actions := make([]history.Action, 0, len(files))
	for _, f := range files {
		actions = append(actions, f.Action)
	}
	if diff := cmp.Diff([]history.Action{history.ActionStaged, history.ActionDuplicate}, actions); diff != "" {
		t.Fatalf("actions mismatch (-want +got):\n%s", diff)
	}
	if files[0].Category != "ai" {
		t.Fatalf("category = %q, want ai", files[0].Category)
	}
}

func TestRunCancelledMidRunIsRecordedAsFailed(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	testsupport.WriteWorkflow(t, filepath.Join(cfg.Paths.ScratchDir, "a", "flow.json"), "flow")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rec := testsupport.CancelAfterBegin(store, cancel)

	result, err := merge.New(logging.NewNop(), merge.WithRecorder(rec)).Run(ctx, newOptions(cfg))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	testsupport.RequireRunFailed(t, store, result.RunID)
}

func TestRunRecordsDigestOfValidatedBytes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenHistory(t, cfg)
	path := filepath.Join(cfg.Paths.ScratchDir, "a", "stripe_payout.json")
	testsupport.WriteWorkflow(t, path, "payout")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	result, err := merge.New(logging.NewNop(), merge.WithRecorder(store)).Run(context.Background(), newOptions(cfg))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	files, err := store.RunFiles(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("RunFiles: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected one record, got %+v", files)
	}
	if want := digest.Bytes(data).String(); files[0].Digest != want {
		t.Fatalf("digest = %s, want %s", files[0].Digest, want)
	}
}
