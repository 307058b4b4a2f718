package preflight

import (
	"flowpack/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the filesystem checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckOutputDirectory("Scratch directory", cfg.Paths.ScratchDir),
		CheckOutputDirectory("Staging directory", cfg.Paths.StagingDir),
		CheckOutputDirectory("Organized directory", cfg.Paths.OrganizedDir),
		CheckReadableFile("Organizer list", cfg.Paths.ListFile),
	}
	if cfg.History.Enabled {
		results = append(results, CheckOutputDirectory("State directory", cfg.Paths.StateDir))
	}
	return results
}

// Failed returns the subset of results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
