package acquire

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"flowpack/internal/deps"
	"flowpack/internal/faults"
	"flowpack/internal/history"
	"flowpack/internal/logging"
)

// Options configures an Acquirer.
type Options struct {
	GitBinary    string
	GitFallbacks []string
	CloneDepth   int
}

// Failure pairs a source with the error that stopped it.
type Failure struct {
	Source Source
	Err    error
}

// Result summarizes one acquisition run.
type Result struct {
	RunID      string
	ScratchDir string
	Cloned     []Source
	Skipped    []Source
	Failed     []Failure
}

// Summary returns the counters stored in run history.
func (r Result) Summary() map[string]int {
	return map[string]int{
		"cloned":  len(r.Cloned),
		"skipped": len(r.Skipped),
		"failed":  len(r.Failed),
	}
}

// Acquirer clones sources into a scratch directory.
type Acquirer struct {
	opts     Options
	logger   *slog.Logger
	recorder history.Recorder
	fetcher  Fetcher
}

// Option configures an Acquirer.
type Option func(*Acquirer)

// WithFetcher replaces the git-backed fetcher. The git client is still
// resolved first so the precondition holds regardless of fetcher.
func WithFetcher(f Fetcher) Option {
	return func(a *Acquirer) {
		a.fetcher = f
	}
}

// WithRecorder attaches a history recorder.
func WithRecorder(r history.Recorder) Option {
	return func(a *Acquirer) {
		a.recorder = history.OrNop(r)
	}
}

// New constructs an Acquirer.
func New(opts Options, logger *slog.Logger, options ...Option) *Acquirer {
	a := &Acquirer{
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "acquire"),
		recorder: history.NopRecorder{},
	}
	for _, opt := range options {
		opt(a)
	}
	return a
}

// Run clones every source that is not yet present under scratchDir.
func (a *Acquirer) Run(ctx context.Context, sources []Source, scratchDir string) (Result, error) {
	result := Result{ScratchDir: scratchDir}

	binary, err := deps.ResolveBinary(a.opts.GitBinary, a.opts.GitFallbacks)
	if err != nil {
		logging.ErrorWithContext(a.logger, "git client not found", "git_missing",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "install git or set acquire.git_binary"),
			logging.String(logging.FieldImpact, "no sources were acquired"),
		)
		return result, faults.Wrap(faults.ErrPrecondition, "acquire", "resolve git", "git client is not installed or not on PATH", err)
	}

	fetcher := a.fetcher
	if fetcher == nil {
		gf, err := NewGitFetcher(binary, a.opts.CloneDepth)
		if err != nil {
			return result, faults.Wrap(faults.ErrConfiguration, "acquire", "build fetcher", "", err)
		}
		fetcher = gf
	}

	if err := os.MkdirAll(scratchDir, 0o755); err != nil {
		return result, faults.Wrap(faults.ErrPrecondition, "acquire", "create scratch", scratchDir, err)
	}

	runID, err := a.recorder.BeginRun(ctx, history.PipelineAcquire, "", scratchDir)
	if err != nil {
		return result, fmt.Errorf("begin history run: %w", err)
	}
	result.RunID = runID
	ctx = logging.WithStage(logging.WithRunID(ctx, runID), string(history.PipelineAcquire))
	logger := logging.WithContext(ctx, a.logger)

	logger.Info("acquisition started",
		logging.Int("sources", len(sources)),
		logging.String("scratch_dir", scratchDir),
		logging.String("git", binary),
	)

	var runErr error
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		a.acquireOne(ctx, logger, fetcher, src, scratchDir, &result)
	}

	status := history.StatusCompleted
	if runErr != nil {
		status = history.StatusFailed
	}
	if err := a.recorder.FinishRun(context.WithoutCancel(ctx), runID, status, result.Summary(), runErr); err != nil {
		logger.Warn("failed to finish history run", logging.Error(err))
	}

	logger.Info("acquisition finished",
		logging.Int("cloned", len(result.Cloned)),
		logging.Int("skipped", len(result.Skipped)),
		logging.Int("failed", len(result.Failed)),
	)
	return result, runErr
}

func (a *Acquirer) acquireOne(ctx context.Context, logger *slog.Logger, fetcher Fetcher, src Source, scratchDir string, result *Result) {
	name := src.Name()
	srcLogger := logger.With(logging.String(logging.FieldSource, name))

	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		err := fmt.Errorf("cannot derive a directory name from %q", src.Ref)
		a.fail(ctx, srcLogger, src, "", err, result)
		return
	}

	dest := filepath.Join(scratchDir, name)
	if _, err := os.Lstat(dest); err == nil {
		srcLogger.Info("already present, skipping", logging.String(logging.FieldPath, dest))
		result.Skipped = append(result.Skipped, src)
		return
	}

	srcLogger.Info("cloning", logging.String("ref", src.Ref))
	if err := fetcher.Fetch(ctx, src.Ref, dest); err != nil {
		a.fail(ctx, srcLogger, src, dest, err, result)
		return
	}

	result.Cloned = append(result.Cloned, src)
	a.record(ctx, srcLogger, history.FileRecord{
		RunID:      result.RunID,
		Action:     history.ActionCloned,
		SourcePath: src.Ref,
		DestPath:   dest,
	})
}

func (a *Acquirer) fail(ctx context.Context, logger *slog.Logger, src Source, dest string, err error, result *Result) {
	logging.WarnWithContext(logger, "clone failed", "source_clone_failed",
		logging.Error(err),
		logging.String("ref", src.Ref),
		logging.String(logging.FieldErrorHint, "check the repository URL and network access"),
		logging.String(logging.FieldImpact, "source skipped; remaining sources continue"),
	)
	result.Failed = append(result.Failed, Failure{Source: src, Err: err})
	a.record(ctx, logger, history.FileRecord{
		RunID:      result.RunID,
		Action:     history.ActionFailed,
		SourcePath: src.Ref,
		DestPath:   dest,
		Detail:     err.Error(),
	})
}

func (a *Acquirer) record(ctx context.Context, logger *slog.Logger, rec history.FileRecord) {
	if err := a.recorder.RecordFile(ctx, rec); err != nil {
		logger.Warn("failed to record history", logging.Error(err))
	}
}
