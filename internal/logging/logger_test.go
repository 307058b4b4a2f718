package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"flowpack/internal/config"
	"flowpack/internal/logging"
)

func TestNewWritesConsoleOutputToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "flowpack.log")

	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("merge complete", logging.String(logging.FieldComponent, "merge"), logging.Int("staged", 4))
	logger.Debug("suppressed")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	for _, want := range []string{"INFO", "[merge]", "– merge complete", "    - staged: 4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got %q", want, out)
		}
	}
	if strings.Contains(out, "suppressed") {
		t.Fatalf("debug line should be filtered at info level: %q", out)
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("ignored")
	logger.Warn("clone failed", logging.String(logging.FieldSource, "repo-a"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one line, got %d: %q", len(lines), buf.String())
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &payload); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	if payload["level"] != "warn" {
		t.Fatalf("level = %v, want warn", payload["level"])
	}
	if payload["msg"] != "clone failed" {
		t.Fatalf("msg = %v", payload["msg"])
	}
	if payload["source"] != "repo-a" {
		t.Fatalf("source = %v", payload["source"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key in %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigOverrideLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "error"

	var buf bytes.Buffer
	logger, err := logging.NewFromConfig(&cfg, "", &buf)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Warn("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected warn to be filtered, got %q", buf.String())
	}

	logger, err = logging.NewFromConfig(&cfg, "debug", &buf)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected debug line after override, got %q", buf.String())
	}
}

func TestWithContextAddsRunSubject(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithRunID(context.Background(), "0123456789abcdef")
	ctx = logging.WithStage(ctx, "merge")
	logging.WithContext(ctx, logger).Info("staged")

	if !strings.Contains(buf.String(), "Merge · run 01234567") {
		t.Fatalf("expected subject in output, got %q", buf.String())
	}
	if id, ok := logging.RunIDFromContext(ctx); !ok || id != "0123456789abcdef" {
		t.Fatalf("RunIDFromContext = %q, %v", id, ok)
	}
}

func TestWarnWithContextAddsEventType(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "copy failed", "stage_copy_failed",
		logging.Error(errors.New("disk full")),
		logging.String(logging.FieldErrorHint, "free space in the output directory"),
	)

	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &payload); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if payload[logging.FieldEventType] != "stage_copy_failed" {
		t.Fatalf("event_type = %v", payload[logging.FieldEventType])
	}
	if payload["error"] != "disk full" {
		t.Fatalf("error = %v", payload["error"])
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("nop logger should never be enabled")
	}
	logging.NewComponentLogger(nil, "organizer").Info("nothing")
}
