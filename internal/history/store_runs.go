package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"flowpack/internal/faults"
)

// ErrAmbiguousRun is returned when a run id prefix matches several runs.
var ErrAmbiguousRun = errors.New("run id prefix is ambiguous")

// BeginRun inserts a running row and returns its new identifier.
func (s *Store) BeginRun(ctx context.Context, pipeline Pipeline, sourceRoot, outputRoot string) (string, error) {
	id := uuid.NewString()
	err := s.exec(ctx,
		`INSERT INTO runs (id, pipeline, status, source_root, output_root, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, string(pipeline), string(StatusRunning), sourceRoot, outputRoot, formatTime(time.Now()),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// RecordFile appends a file outcome to a run.
func (s *Store) RecordFile(ctx context.Context, record FileRecord) error {
	if strings.TrimSpace(record.RunID) == "" {
		return errors.New("record file: run id is empty")
	}
	recordedAt := record.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	err := s.exec(ctx,
		`INSERT INTO run_files (run_id, action, source_path, dest_path, category, digest, detail, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.RunID, string(record.Action), record.SourcePath, record.DestPath,
		record.Category, record.Digest, record.Detail, formatTime(recordedAt),
	)
	if err != nil {
		return fmt.Errorf("insert run file: %w", err)
	}
	return nil
}

// FinishRun stores the final status and summary counters of a run.
func (s *Store) FinishRun(ctx context.Context, runID string, status Status, summary map[string]int, runErr error) error {
	if summary == nil {
		summary = map[string]int{}
	}
	encoded, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	message := ""
	if runErr != nil {
		message = runErr.Error()
	}
	err = s.exec(ctx,
		`UPDATE runs SET status = ?, summary_json = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		string(status), string(encoded), message, formatTime(time.Now()), runID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0 means 20.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, pipeline, status, source_root, output_root, summary_json, error_message, started_at, finished_at
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun resolves a run by full identifier or unique prefix.
func (s *Store) GetRun(ctx context.Context, idOrPrefix string) (*Run, error) {
	ctx = ensureContext(ctx)
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, faults.Wrap(faults.ErrValidation, "history", "get run", "run id is empty", nil)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, pipeline, status, source_root, output_root, summary_json, error_message, started_at, finished_at
		 FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\' LIMIT 2`, idOrPrefix, escapeLike(idOrPrefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		if run.ID == idOrPrefix {
			return &run, nil
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, faults.Wrap(faults.ErrNotFound, "history", "get run", fmt.Sprintf("no run matches %q", idOrPrefix), nil)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrAmbiguousRun, idOrPrefix)
	}
}

// RunFiles returns the file records of a run in insertion order.
func (s *Store) RunFiles(ctx context.Context, runID string) ([]FileRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, action, source_path, dest_path, category, digest, detail, recorded_at
		 FROM run_files WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run files: %w", err)
	}
	defer rows.Close()

	var records []FileRecord
	for rows.Next() {
		var (
			rec        FileRecord
			action     string
			recordedAt string
		)
		if err := rows.Scan(&rec.RunID, &action, &rec.SourcePath, &rec.DestPath, &rec.Category, &rec.Digest, &rec.Detail, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan run file: %w", err)
		}
		rec.Action = Action(action)
		rec.RecordedAt = parseTime(recordedAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run        Run
		pipeline   string
		status     string
		summary    string
		startedAt  string
		finishedAt sql.NullString
	)
	if err := row.Scan(&run.ID, &pipeline, &status, &run.SourceRoot, &run.OutputRoot, &summary, &run.ErrorMessage, &startedAt, &finishedAt); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Pipeline = Pipeline(pipeline)
	run.Status = Status(status)
	run.StartedAt = parseTime(startedAt)
	if finishedAt.Valid {
		run.FinishedAt = parseTime(finishedAt.String)
	}
	run.Summary = map[string]int{}
	if strings.TrimSpace(summary) != "" {
		if err := json.Unmarshal([]byte(summary), &run.Summary); err != nil {
			return Run{}, fmt.Errorf("decode summary for run %s: %w", run.ID, err)
		}
	}
	return run, nil
}

// timeLayout keeps fractional seconds fixed-width so stored values sort.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(value time.Time) string {
	return value.UTC().Format(timeLayout)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(timeLayout, value); err == nil {
		return t
	}
	return time.Time{}
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
