package history

import (
	"context"

	"github.com/google/uuid"
)

// Recorder receives run lifecycle events from the pipelines.
type Recorder interface {
	BeginRun(ctx context.Context, pipeline Pipeline, sourceRoot, outputRoot string) (string, error)
	RecordFile(ctx context.Context, record FileRecord) error
	FinishRun(ctx context.Context, runID string, status Status, summary map[string]int, runErr error) error
}

// NopRecorder hands out run identifiers but persists nothing. It is used when
// history is disabled.
type NopRecorder struct{}

func (NopRecorder) BeginRun(context.Context, Pipeline, string, string) (string, error) {
	return uuid.NewString(), nil
}

func (NopRecorder) RecordFile(context.Context, FileRecord) error { return nil }

func (NopRecorder) FinishRun(context.Context, string, Status, map[string]int, error) error {
	return nil
}

// OrNop returns r, or a NopRecorder when r is nil.
func OrNop(r Recorder) Recorder {
	if r == nil {
		return NopRecorder{}
	}
	return r
}

var _ Recorder = (*Store)(nil)
