package testsupport

import (
	"context"
	"testing"

	"flowpack/internal/config"
	"flowpack/internal/history"
)

// MustOpenHistory opens the history store for cfg and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// CancelAfterBegin wraps rec so cancel fires as soon as a run has been
// started, simulating an interrupt that lands mid-run.
func CancelAfterBegin(rec history.Recorder, cancel context.CancelFunc) history.Recorder {
	return &cancelAfterBegin{Recorder: rec, cancel: cancel}
}

type cancelAfterBegin struct {
	history.Recorder
	cancel context.CancelFunc
}

func (r *cancelAfterBegin) BeginRun(ctx context.Context, pipeline history.Pipeline, sourceRoot, outputRoot string) (string, error) {
	id, err := r.Recorder.BeginRun(ctx, pipeline, sourceRoot, outputRoot)
	r.cancel()
	return id, err
}

// RequireRunFailed asserts that runID finished with StatusFailed.
func RequireRunFailed(t testing.TB, store *history.Store, runID string) {
	t.Helper()

	run, err := store.GetRun(context.Background(), runID)
	if err != nil {
		t.Fatalf("GetRun(%s): %v", runID, err)
	}
	if run.Status != history.StatusFailed {
		t.Fatalf("run status = %q, want %q", run.Status, history.StatusFailed)
	}
	if run.FinishedAt.IsZero() {
		t.Fatal("expected finished_at to be set")
	}
	if run.ErrorMessage == "" {
		t.Fatal("expected an error message on the failed run")
	}
}
