package organizer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSmartName(t *testing.T) {
	generic := []string{"template.json", "workflow.json", "data.json", "backup.json"}
	tests := []struct {
		path       string
		wantBase   string
		wantExt    string
		fromParent bool
	}{
		{path: "/src/whatsapp-typebot/template.json", wantBase: "whatsapp-typebot", wantExt: ".json", fromParent: true},
		{path: "/src/Sales Flow/Workflow.JSON", wantBase: "Sales Flow", wantExt: ".JSON", fromParent: true},
		{path: "/src/misc/My Flow.json", wantBase: "My Flow", wantExt: ".json"},
		{path: "/src/misc/archive.backup.json", wantBase: "archive.backup", wantExt: ".json"},
		{path: "/template.json", wantBase: "template", wantExt: ".json"},
	}
	for _, tc := range tests {
		base, ext, fromParent := SmartName(tc.path, generic)
		if base != tc.wantBase || ext != tc.wantExt || fromParent != tc.fromParent {
			t.Errorf("SmartName(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tc.path, base, ext, fromParent, tc.wantBase, tc.wantExt, tc.fromParent)
		}
	}
}

func TestSuffixedName(t *testing.T) {
	dir := t.TempDir()
	if got := SuffixedName(dir, "flow", ".json"); got != "flow.json" {
		t.Fatalf("free name = %q", got)
	}
	for _, name := range []string{"flow.json", "flow_1.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if got := SuffixedName(dir, "flow", ".json"); got != "flow_2.json" {
		t.Fatalf("taken name = %q", got)
	}
}
