package acquire

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSourceName(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{ref: "https://github.com/Zie619/n8n-workflows", want: "n8n-workflows"},
		{ref: "https://github.com/Zie619/n8n-workflows.git", want: "n8n-workflows"},
		{ref: "https://github.com/Zie619/n8n-workflows/", want: "n8n-workflows"},
		{ref: "https://github.com/Zie619/n8n-workflows.git/", want: "n8n-workflows"},
		{ref: "git@github.com:someone/awesome.git", want: "awesome"},
		{ref: "https://example.com/foo.github.io", want: "foo.github.io"},
		{ref: "  /srv/mirrors/local-repo  ", want: "local-repo"},
	}
	for _, tc := range tests {
		if got := (Source{Ref: tc.ref}).Name(); got != tc.want {
			t.Errorf("Name(%q) = %q, want %q", tc.ref, got, tc.want)
		}
	}
}

func TestParseSourcesDropsBlanks(t *testing.T) {
	got := ParseSources([]string{"a", "", "  ", " b "})
	want := []Source{{Ref: "a"}, {Ref: "b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseSources mismatch (-want +got):\n%s", diff)
	}
}

func TestReadSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.txt")
	writeFile(t, path, "https://example.com/one.git\n\n  https://example.com/two  \n")

	got, err := ReadSources(path)
	if err != nil {
		t.Fatalf("ReadSources: %v", err)
	}
	want := []Source{{Ref: "https://example.com/one.git"}, {Ref: "https://example.com/two"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ReadSources mismatch (-want +got):\n%s", diff)
	}
}
