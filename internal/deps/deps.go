package deps

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Requirement defines an external dependency flowpack relies on.
type Requirement struct {
	Name        string
	Command     string
	Fallbacks   []string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
// Command reports the resolved location when a fallback was used.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" && len(req.Fallbacks) == 0 {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := ResolveBinary(cmd, req.Fallbacks)
		if err != nil {
			status.Available = false
			status.Detail = err.Error()
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}

// ResolveBinary looks up command on PATH and then tries each fallback
// location in order. The first executable hit is returned.
func ResolveBinary(command string, fallbacks []string) (string, error) {
	command = strings.TrimSpace(command)
	if command != "" {
		if path, err := exec.LookPath(command); err == nil {
			return path, nil
		}
	}
	for _, candidate := range fallbacks {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	if command == "" {
		return "", fmt.Errorf("no fallback location for binary exists")
	}
	return "", fmt.Errorf("binary %q not found", command)
}
