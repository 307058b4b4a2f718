package organizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"flowpack/internal/classify"
	"flowpack/internal/faults"
	"flowpack/internal/fileutil"
	"flowpack/internal/history"
	"flowpack/internal/logging"
	"flowpack/internal/pathlist"
	"flowpack/internal/runlock"
	"flowpack/internal/textutil"
)

// DefaultProgressEvery is how many organized files pass between progress lines.
const DefaultProgressEvery = 50

// Options describes one organizer run.
type Options struct {
	OutputDir     string
	Table         classify.Table
	Extensions    []string
	GenericNames  []string
	ProgressEvery int
}

// ItemError pairs a listed path with the error that stopped it.
type ItemError struct {
	Path  string
	Error error
}

// Result summarizes an organizer run.
type Result struct {
	RunID      string
	OutputDir  string
	Listed     int
	Organized  int
	Errors     int
	Failures   []ItemError
	Categories map[string]int
	Duration   time.Duration
}

// Summary returns the counters stored in run history.
func (r Result) Summary() map[string]int {
	return map[string]int{
		"listed":    r.Listed,
		"organized": r.Organized,
		"errors":    r.Errors,
	}
}

// Organizer copies listed files into a categorized tree.
type Organizer struct {
	logger   *slog.Logger
	recorder history.Recorder
}

// Option configures an Organizer.
type Option func(*Organizer)

// WithRecorder attaches a history recorder.
func WithRecorder(r history.Recorder) Option {
	return func(o *Organizer) {
		o.recorder = history.OrNop(r)
	}
}

// New constructs an Organizer.
func New(logger *slog.Logger, opts ...Option) *Organizer {
	o := &Organizer{
		logger:   logging.NewComponentLogger(logger, "organizer"),
		recorder: history.NopRecorder{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunFile reads the path list at listPath and organizes its entries. A
// missing list file is a precondition failure.
func (o *Organizer) RunFile(ctx context.Context, listPath string, opts Options) (Result, error) {
	paths, err := pathlist.Read(listPath)
	if err != nil {
		logging.ErrorWithContext(o.logger, "path list unavailable", "list_missing",
			logging.String(logging.FieldPath, listPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "generate one with flowpack list <dir> --out "+listPath),
		)
		return Result{}, err
	}
	o.logger.Info("path list loaded",
		logging.String(logging.FieldPath, listPath),
		logging.Int("paths", len(paths)),
	)
	return o.Run(ctx, paths, opts)
}

// Run organizes the given paths.
func (o *Organizer) Run(ctx context.Context, paths []string, opts Options) (Result, error) {
	started := time.Now()
	result := Result{Listed: len(paths), Categories: map[string]int{}}

	if strings.TrimSpace(opts.OutputDir) == "" {
		return result, faults.Wrap(faults.ErrConfiguration, "organize", "validate", "output directory is empty", nil)
	}
	outputDir, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return result, faults.Wrap(faults.ErrConfiguration, "organize", "resolve output", opts.OutputDir, err)
	}
	result.OutputDir = outputDir
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".json"}
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}

	lock, err := runlock.Acquire(outputDir)
	if err != nil {
		return result, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			o.logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	runID, err := o.recorder.BeginRun(ctx, history.PipelineOrganize, "", outputDir)
	if err != nil {
		return result, fmt.Errorf("begin history run: %w", err)
	}
	result.RunID = runID
	ctx = logging.WithStage(logging.WithRunID(ctx, runID), string(history.PipelineOrganize))
	logger := logging.WithContext(ctx, o.logger)
	logger.Info("organizing", logging.Int("paths", len(paths)), logging.String("output_dir", outputDir))

	var runErr error
	for _, raw := range paths {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		o.organizeOne(ctx, logger, strings.TrimSpace(raw), outputDir, opts, &result)
	}

	result.Duration = time.Since(started)
	status := history.StatusCompleted
	if runErr != nil {
		status = history.StatusFailed
	}
	if err := o.recorder.FinishRun(context.WithoutCancel(ctx), runID, status, result.Summary(), runErr); err != nil {
		logger.Warn("failed to finish history run", logging.Error(err))
	}

	logger.Info("organizing complete",
		logging.Int("organized", result.Organized),
		logging.Int("errors", result.Errors),
		logging.String("output_dir", outputDir),
		logging.Int64(logging.FieldDurationMS, result.Duration.Milliseconds()),
	)
	return result, runErr
}

func (o *Organizer) organizeOne(ctx context.Context, logger *slog.Logger, path, outputDir string, opts Options, result *Result) {
	if path == "" || !pathlist.HasExtension(path, opts.Extensions) {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		o.fail(ctx, logger, path, err, result)
		return
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("listed path missing; skipping", logging.String(logging.FieldPath, abs))
			return
		}
		o.fail(ctx, logger, abs, err, result)
		return
	}

	base, ext, fromParent := SmartName(abs, opts.GenericNames)
	category := opts.Table.Classify(base)
	logger.Debug("organizer naming decision",
		logging.String(logging.FieldDecisionType, "organizer_naming"),
		logging.String("decision_result", textutil.Ternary(fromParent, "parent_folder", "file_stem")),
		logging.String("decision_base", base),
		logging.String(logging.FieldCategory, category),
	)

	destDir := filepath.Join(outputDir, category)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		o.fail(ctx, logger, abs, err, result)
		return
	}

	dest, err := copyWithSuffix(abs, destDir, base, ext)
	if err != nil {
		o.fail(ctx, logger, abs, err, result)
		return
	}

	result.Organized++
	result.Categories[category]++
	if result.Organized%opts.ProgressEvery == 0 {
		logger.Info("organizer progress", logging.Int("organized", result.Organized))
	}
	if err := o.recorder.RecordFile(ctx, history.FileRecord{
		RunID:      result.RunID,
		Action:     history.ActionOrganized,
		SourcePath: abs,
		DestPath:   dest,
		Category:   category,
	}); err != nil {
		logger.Warn("failed to record history", logging.Error(err))
	}
}

// copyWithSuffix copies into the first free suffixed name, moving on to the
// next candidate if the chosen one appears before the copy lands.
func copyWithSuffix(src, destDir, base, ext string) (string, error) {
	const maxAttempts = 100
	for attempt := 0; attempt < maxAttempts; attempt++ {
		dest := filepath.Join(destDir, SuffixedName(destDir, base, ext))
		err := fileutil.CopyPreserving(src, dest)
		if err == nil {
			return dest, nil
		}
		if !fileutil.IsExist(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("no free name for %s%s after %d attempts", base, ext, maxAttempts)
}

func (o *Organizer) fail(ctx context.Context, logger *slog.Logger, path string, err error, result *Result) {
	result.Errors++
	result.Failures = append(result.Failures, ItemError{Path: path, Error: err})
	logging.WarnWithContext(logger, "failed to organize file", "organize_file_failed",
		logging.String(logging.FieldPath, path),
		logging.Error(err),
		logging.String(logging.FieldImpact, "file not organized; remaining paths continue"),
	)
	if recErr := o.recorder.RecordFile(ctx, history.FileRecord{
		RunID:      result.RunID,
		Action:     history.ActionFailed,
		SourcePath: path,
		Detail:     err.Error(),
	}); recErr != nil {
		logger.Warn("failed to record history", logging.Error(recErr))
	}
}
