package faults

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestWrapKeepsMarkerAndCause(t *testing.T) {
	err := Wrap(ErrPrecondition, "acquire", "resolve git", "git client not found", fs.ErrNotExist)
	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("expected precondition marker, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "acquire: resolve git: git client not found") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !IsPrecondition(err) {
		t.Fatal("expected IsPrecondition to match")
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := Wrap(nil, "", "", "", nil)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "stage failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
	if IsPrecondition(err) {
		t.Fatal("did not expect precondition classification")
	}
}
