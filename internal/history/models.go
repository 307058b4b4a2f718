package history

import "time"

// Pipeline names the stage that produced a run.
type Pipeline string

const (
	PipelineAcquire  Pipeline = "acquire"
	PipelineMerge    Pipeline = "merge"
	PipelineOrganize Pipeline = "organize"
	PipelineClean    Pipeline = "clean"
)

// Status tracks the lifecycle of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Action describes what happened to one file during a run.
type Action string

const (
	ActionStaged    Action = "staged"
	ActionDuplicate Action = "duplicate"
	ActionOrganized Action = "organized"
	ActionRemoved   Action = "removed"
	ActionCloned    Action = "cloned"
	ActionFailed    Action = "failed"
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID           string
	Pipeline     Pipeline
	Status       Status
	SourceRoot   string
	OutputRoot   string
	Summary      map[string]int
	ErrorMessage string
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Duration returns the elapsed run time, or zero while running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// FileRecord captures one file-level outcome within a run.
type FileRecord struct {
	RunID      string
	Action     Action
	SourcePath string
	DestPath   string
	Category   string
	Digest     string
	Detail     string
	RecordedAt time.Time
}
