package merge

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"flowpack/internal/classify"
	"flowpack/internal/digest"
	"flowpack/internal/faults"
	"flowpack/internal/fileutil"
	"flowpack/internal/history"
	"flowpack/internal/logging"
	"flowpack/internal/pathlist"
	"flowpack/internal/runlock"
	"flowpack/internal/workflowfile"
)

// Options describes one merge run.
type Options struct {
	ScratchDir string
	OutputDir  string
	Table      classify.Table
	Extensions []string
}

// ItemError pairs a file path with the error that stopped it.
type ItemError struct {
	Path  string
	Error error
}

// Result summarizes a merge run.
type Result struct {
	RunID      string
	OutputDir  string
	Scanned    int
	Staged     int
	Duplicates int
	Skipped    int
	Errors     int
	Failures   []ItemError
	Categories map[string]int
	Duration   time.Duration
}

// Summary returns the counters stored in run history.
func (r Result) Summary() map[string]int {
	return map[string]int{
		"scanned":    r.Scanned,
		"staged":     r.Staged,
		"duplicates": r.Duplicates,
		"skipped":    r.Skipped,
		"errors":     r.Errors,
	}
}

// Pipeline runs merge-and-stage passes.
type Pipeline struct {
	logger   *slog.Logger
	recorder history.Recorder
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRecorder attaches a history recorder.
func WithRecorder(r history.Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = history.OrNop(r)
	}
}

// New constructs a merge pipeline.
func New(logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		logger:   logging.NewComponentLogger(logger, "merge"),
		recorder: history.NopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run stages every unique workflow file under opts.ScratchDir.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Result, error) {
	started := time.Now()
	result := Result{Categories: map[string]int{}}

	if strings.TrimSpace(opts.OutputDir) == "" {
		return result, faults.Wrap(faults.ErrConfiguration, "merge", "validate", "output directory is empty", nil)
	}
	outputDir, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return result, faults.Wrap(faults.ErrConfiguration, "merge", "resolve output", opts.OutputDir, err)
	}
	result.OutputDir = outputDir
	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = []string{".json"}
	}

	lock, err := runlock.Acquire(outputDir)
	if err != nil {
		return result, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			p.logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return result, faults.Wrap(faults.ErrPrecondition, "merge", "create output", outputDir, err)
	}

	runID, err := p.recorder.BeginRun(ctx, history.PipelineMerge, opts.ScratchDir, outputDir)
	if err != nil {
		return result, fmt.Errorf("begin history run: %w", err)
	}
	result.RunID = runID
	ctx = logging.WithStage(logging.WithRunID(ctx, runID), string(history.PipelineMerge))
	logger := logging.WithContext(ctx, p.logger)

	logger.Info("merge started",
		logging.String("scratch_dir", opts.ScratchDir),
		logging.String("output_dir", outputDir),
	)

	s := &stager{
		ctx:        ctx,
		logger:     logger,
		recorder:   p.recorder,
		table:      opts.Table,
		extensions: extensions,
		outputDir:  outputDir,
		seen:       digest.NewSet(),
		result:     &result,
	}

	var runErr error
	if info, statErr := os.Stat(opts.ScratchDir); statErr != nil || !info.IsDir() {
		logging.WarnWithContext(logger, "scratch directory missing; nothing to merge", "scratch_missing",
			logging.String("scratch_dir", opts.ScratchDir),
			logging.String(logging.FieldErrorHint, "run flowpack acquire first"),
			logging.String(logging.FieldImpact, "no files staged"),
		)
	} else {
		runErr = filepath.WalkDir(opts.ScratchDir, s.visit)
	}

	result.Duration = time.Since(started)
	status := history.StatusCompleted
	if runErr != nil {
		status = history.StatusFailed
	}
	if err := p.recorder.FinishRun(context.WithoutCancel(ctx), runID, status, result.Summary(), runErr); err != nil {
		logger.Warn("failed to finish history run", logging.Error(err))
	}

	logger.Info("merge finished",
		logging.Int("staged", result.Staged),
		logging.Int("duplicates", result.Duplicates),
		logging.Int("skipped", result.Skipped),
		logging.Int("errors", result.Errors),
		logging.Int64(logging.FieldDurationMS, result.Duration.Milliseconds()),
	)
	return result, runErr
}

type stager struct {
	ctx        context.Context
	logger     *slog.Logger
	recorder   history.Recorder
	table      classify.Table
	extensions []string
	outputDir  string
	seen       *digest.Set
	result     *Result
}

func (s *stager) visit(path string, d fs.DirEntry, walkErr error) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	if walkErr != nil {
		s.fail(path, "walk", walkErr)
		if d != nil && d.IsDir() {
			return fs.SkipDir
		}
		return nil
	}
	if d.IsDir() {
		if filepath.Clean(path) == s.outputDir {
			return fs.SkipDir
		}
		return nil
	}
	if !pathlist.HasExtension(d.Name(), s.extensions) {
		return nil
	}
	if !d.Type().IsRegular() {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return nil
		}
	}

	s.result.Scanned++
	s.stage(path, d.Name())
	return nil
}

func (s *stager) stage(path, name string) {
	data, err := os.ReadFile(path)
	if err != nil || !workflowfile.Check(data) {
		s.result.Skipped++
		s.logger.Debug("not a workflow document", logging.String(logging.FieldPath, path))
		return
	}

	sum := digest.Bytes(data)
	if !s.seen.Add(sum) {
		s.result.Duplicates++
		s.logger.Debug("duplicate content",
			logging.String(logging.FieldPath, path),
			logging.String(logging.FieldDigest, sum.String()),
		)
		s.record(history.FileRecord{Action: history.ActionDuplicate, SourcePath: path, Digest: sum.String()})
		return
	}

	category := s.table.Classify(strings.ToLower(name))
	destDir := filepath.Join(s.outputDir, category)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		s.fail(path, "create category directory", err)
		return
	}

	dest, err := s.copyUnique(path, destDir, name)
	if err != nil {
		s.fail(path, "copy", err)
		return
	}

	s.result.Staged++
	s.result.Categories[category]++
	s.logger.Debug("staged",
		logging.String(logging.FieldPath, dest),
		logging.String(logging.FieldCategory, category),
	)
	s.record(history.FileRecord{
		Action:     history.ActionStaged,
		SourcePath: path,
		DestPath:   dest,
		Category:   category,
		Digest:     sum.String(),
	})
}

// copyUnique copies into the first free name and retries with the next
// candidate when another writer claims it first.
func (s *stager) copyUnique(src, destDir, name string) (string, error) {
	const maxAttempts = 100
	next := s.result.Staged
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate, n := StagedName(destDir, name, next)
		dest := filepath.Join(destDir, candidate)
		err := fileutil.CopyPreserving(src, dest)
		if err == nil {
			return dest, nil
		}
		if !fileutil.IsExist(err) {
			return "", err
		}
		next = n + 1
	}
	return "", fmt.Errorf("no free name for %s after %d attempts", name, maxAttempts)
}

// StagedName returns the name to stage name under dir: name itself when free,
// otherwise "<n>_<name>" for the first n >= staged that is free. The second
// return value is the prefix used, or -1 when none was needed.
func StagedName(dir, name string, staged int) (string, int) {
	if !fileutil.Exists(filepath.Join(dir, name)) {
		return name, -1
	}
	if staged < 0 {
		staged = 0
	}
	for n := staged; ; n++ {
		candidate := fmt.Sprintf("%d_%s", n, name)
		if !fileutil.Exists(filepath.Join(dir, candidate)) {
			return candidate, n
		}
	}
}

func (s *stager) fail(path, op string, err error) {
	s.result.Errors++
	s.result.Failures = append(s.result.Failures, ItemError{Path: path, Error: err})
	logging.WarnWithContext(s.logger, "failed to stage file", "stage_file_failed",
		logging.String(logging.FieldPath, path),
		logging.String("operation", op),
		logging.Error(err),
		logging.String(logging.FieldImpact, "file not staged; batch continues"),
	)
	s.record(history.FileRecord{Action: history.ActionFailed, SourcePath: path, Detail: fmt.Sprintf("%s: %v", op, err)})
}

func (s *stager) record(rec history.FileRecord) {
	rec.RunID = s.result.RunID
	if err := s.recorder.RecordFile(s.ctx, rec); err != nil {
		s.logger.Warn("failed to record history", logging.Error(err))
	}
}
