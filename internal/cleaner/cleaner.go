// Package cleaner removes suffix-numbered copies such as "flow_1.json" when
// the unnumbered "flow.json" sits in the same directory.
//
// Matching ignores case: "Flow_2.JSON" is removed when "flow.json" exists.
// Each directory is judged on its own, against a listing taken before any
// file in it is deleted. Numbered files without a canonical sibling are kept.
package cleaner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"golang.org/x/text/cases"

	"flowpack/internal/faults"
	"flowpack/internal/history"
	"flowpack/internal/logging"
	"flowpack/internal/runlock"
	"flowpack/internal/textutil"
)

// Options describes one cleanup run.
type Options struct {
	Root      string
	Extension string
	DryRun    bool
}

// Removal records a deleted copy and the canonical file it duplicated.
type Removal struct {
	Path string
	Kept string
}

// ItemError pairs a path with the error that stopped it.
type ItemError struct {
	Path  string
	Error error
}

// Result summarizes a cleanup run.
type Result struct {
	RunID       string
	Root        string
	DryRun      bool
	Directories int
	Removed     []Removal
	Errors      int
	Failures    []ItemError
	Duration    time.Duration
}

// Summary returns the counters stored in run history.
func (r Result) Summary() map[string]int {
	return map[string]int{
		"directories": r.Directories,
		"removed":     len(r.Removed),
		"errors":      r.Errors,
	}
}

// Cleaner deletes suffix duplicates.
type Cleaner struct {
	logger   *slog.Logger
	recorder history.Recorder
	fold     cases.Caser
}

// Option configures a Cleaner.
type Option func(*Cleaner)

// WithRecorder attaches a history recorder. Dry runs are never recorded.
func WithRecorder(r history.Recorder) Option {
	return func(c *Cleaner) {
		c.recorder = history.OrNop(r)
	}
}

// New constructs a Cleaner.
func New(logger *slog.Logger, opts ...Option) *Cleaner {
	c := &Cleaner{
		logger:   logging.NewComponentLogger(logger, "cleaner"),
		recorder: history.NopRecorder{},
		fold:     cases.Fold(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Pattern returns the expression matching "<base>_<digits><ext>" names.
func Pattern(extension string) *regexp.Regexp {
	if extension == "" {
		extension = ".json"
	}
	return regexp.MustCompile(`(?i)^(.*)_(\d+)(` + regexp.QuoteMeta(extension) + `)$`)
}

// Canonical returns the name a numbered copy duplicates, or false when name
// is not a numbered copy.
func Canonical(pattern *regexp.Regexp, name string) (string, bool) {
	match := pattern.FindStringSubmatch(name)
	if match == nil {
		return "", false
	}
	return match[1] + match[3], true
}

// Run scans opts.Root and removes numbered copies that have a canonical
// sibling. A missing root is a precondition failure.
func (c *Cleaner) Run(ctx context.Context, opts Options) (Result, error) {
	started := time.Now()
	result := Result{Root: opts.Root, DryRun: opts.DryRun}

	info, err := os.Stat(opts.Root)
	if err != nil {
		return result, faults.Wrap(faults.ErrPrecondition, "clean", "stat root", fmt.Sprintf("directory %s not found", opts.Root), err)
	}
	if !info.IsDir() {
		return result, faults.Wrap(faults.ErrPrecondition, "clean", "stat root", fmt.Sprintf("%s is not a directory", opts.Root), nil)
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return result, faults.Wrap(faults.ErrConfiguration, "clean", "resolve root", opts.Root, err)
	}
	result.Root = root

	recorder := c.recorder
	if opts.DryRun {
		recorder = history.NopRecorder{}
	} else {
		lock, err := runlock.Acquire(root)
		if err != nil {
			return result, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				c.logger.Warn("failed to release run lock", logging.Error(err))
			}
		}()
	}

	runID, err := recorder.BeginRun(ctx, history.PipelineClean, root, root)
	if err != nil {
		return result, fmt.Errorf("begin history run: %w", err)
	}
	result.RunID = runID
	ctx = logging.WithStage(logging.WithRunID(ctx, runID), string(history.PipelineClean))
	logger := logging.WithContext(ctx, c.logger)
	logger.Info("scanning for numbered duplicates", logging.String(logging.FieldPath, root), logging.Bool("dry_run", opts.DryRun))

	pattern := Pattern(opts.Extension)
	runErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			c.fail(logger, path, walkErr, &result)
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		c.cleanDir(ctx, logger, recorder, pattern, path, opts.DryRun, &result)
		return nil
	})

	result.Duration = time.Since(started)
	status := history.StatusCompleted
	if runErr != nil {
		status = history.StatusFailed
	}
	if err := recorder.FinishRun(context.WithoutCancel(ctx), runID, status, result.Summary(), runErr); err != nil {
		logger.Warn("failed to finish history run", logging.Error(err))
	}

	logger.Info("cleanup complete",
		logging.Int("removed", len(result.Removed)),
		logging.Int("errors", result.Errors),
		logging.Bool("dry_run", opts.DryRun),
		logging.Int64(logging.FieldDurationMS, result.Duration.Milliseconds()),
	)
	return result, runErr
}

func (c *Cleaner) cleanDir(ctx context.Context, logger *slog.Logger, recorder history.Recorder, pattern *regexp.Regexp, dir string, dryRun bool, result *Result) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		c.fail(logger, dir, err, result)
		return
	}
	result.Directories++

	files := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files[c.fold.String(entry.Name())] = entry.Name()
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		canonical, ok := Canonical(pattern, name)
		if !ok {
			continue
		}
		kept, exists := files[c.fold.String(canonical)]
		if !exists {
			continue
		}

		target := filepath.Join(dir, name)
		keptPath := filepath.Join(dir, kept)
		if !dryRun {
			if err := os.Remove(target); err != nil {
				c.fail(logger, target, err, result)
				continue
			}
		}
		result.Removed = append(result.Removed, Removal{Path: target, Kept: keptPath})
		logger.Info(textutil.Ternary(dryRun, "would remove duplicate", "removed duplicate"),
			logging.String(logging.FieldPath, target),
			logging.String("kept", keptPath),
		)
		if err := recorder.RecordFile(ctx, history.FileRecord{
			RunID:      result.RunID,
			Action:     history.ActionRemoved,
			SourcePath: target,
			DestPath:   keptPath,
		}); err != nil {
			logger.Warn("failed to record history", logging.Error(err))
		}
	}
}

func (c *Cleaner) fail(logger *slog.Logger, path string, err error, result *Result) {
	result.Errors++
	result.Failures = append(result.Failures, ItemError{Path: path, Error: err})
	logging.WarnWithContext(logger, "cleanup failed for path", "clean_failed",
		logging.String(logging.FieldPath, path),
		logging.Error(err),
		logging.String(logging.FieldImpact, "file kept; scan continues"),
	)
}
