package acquire

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"flowpack/internal/faults"
)

// Fetcher materializes a repository reference at dest.
type Fetcher interface {
	Fetch(ctx context.Context, ref, dest string) error
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// GitFetcher clones repositories with the git command line client.
type GitFetcher struct {
	binary string
	depth  int
	exec   Executor
}

// GitOption configures a GitFetcher.
type GitOption func(*GitFetcher)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) GitOption {
	return func(f *GitFetcher) {
		if exec != nil {
			f.exec = exec
		}
	}
}

// NewGitFetcher constructs a fetcher around a resolved git binary. depth > 0
// requests a shallow clone.
func NewGitFetcher(binary string, depth int, opts ...GitOption) (*GitFetcher, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("git binary required")
	}
	f := &GitFetcher{binary: binary, depth: depth, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Args returns the git arguments used to clone ref into dest.
func (f *GitFetcher) Args(ref, dest string) []string {
	args := []string{"clone"}
	if f.depth > 0 {
		args = append(args, "--depth", strconv.Itoa(f.depth))
	}
	return append(args, ref, dest)
}

// Fetch runs git clone.
func (f *GitFetcher) Fetch(ctx context.Context, ref, dest string) error {
	output, err := f.exec.Run(ctx, f.binary, f.Args(ref, dest))
	if err != nil {
		message := ref
		if detail := lastLine(output); detail != "" {
			message = fmt.Sprintf("%s (%s)", ref, detail)
		}
		return faults.Wrap(faults.ErrExternalTool, "acquire", "git clone", message, err)
	}
	return nil
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.CombinedOutput()
}

func lastLine(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
