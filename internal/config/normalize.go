package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAcquire()
	c.normalizeMerge()
	c.normalizeOrganize()
	c.normalizeClean()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ScratchDir) == "" {
		c.Paths.ScratchDir = defaultScratchDir
	}
	if c.Paths.ScratchDir, err = expandPath(c.Paths.ScratchDir); err != nil {
		return fmt.Errorf("paths.scratch_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OrganizedDir) == "" {
		c.Paths.OrganizedDir = defaultOrganizedDir
	}
	if c.Paths.OrganizedDir, err = expandPath(c.Paths.OrganizedDir); err != nil {
		return fmt.Errorf("paths.organized_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ListFile) == "" {
		c.Paths.ListFile = defaultListFile
	}
	if c.Paths.ListFile, err = expandPath(c.Paths.ListFile); err != nil {
		return fmt.Errorf("paths.list_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAcquire() {
	if value, ok := os.LookupEnv("FLOWPACK_GIT_BINARY"); ok && strings.TrimSpace(value) != "" {
		c.Acquire.GitBinary = strings.TrimSpace(value)
	}
	c.Acquire.GitBinary = strings.TrimSpace(c.Acquire.GitBinary)
	if c.Acquire.GitBinary == "" {
		c.Acquire.GitBinary = defaultGitBinary
	}
	if c.Acquire.GitFallbacks == nil {
		c.Acquire.GitFallbacks = defaultGitFallbacks()
	}
	if len(c.Acquire.Sources) == 0 {
		c.Acquire.Sources = defaultSources()
	} else {
		c.Acquire.Sources = trimUnique(c.Acquire.Sources, false)
	}
}

func (c *Config) normalizeMerge() {
	c.Merge.Extensions = normalizeExtensions(c.Merge.Extensions)
	c.Merge.Fallback = strings.TrimSpace(c.Merge.Fallback)
	if c.Merge.Fallback == "" {
		c.Merge.Fallback = defaultMergeFallback
	}
	if len(c.Merge.Categories) == 0 {
		c.Merge.Categories = defaultMergeCategories()
	}
}

func (c *Config) normalizeOrganize() {
	c.Organize.Extensions = normalizeExtensions(c.Organize.Extensions)
	c.Organize.Fallback = strings.TrimSpace(c.Organize.Fallback)
	if c.Organize.Fallback == "" {
		c.Organize.Fallback = defaultOrganizeFallback
	}
	if len(c.Organize.GenericNames) == 0 {
		c.Organize.GenericNames = defaultGenericNames()
	} else {
		c.Organize.GenericNames = trimUnique(c.Organize.GenericNames, true)
	}
	if c.Organize.ProgressEvery < 0 {
		c.Organize.ProgressEvery = defaultProgressEvery
	}
	if len(c.Organize.Categories) == 0 {
		c.Organize.Categories = defaultOrganizeCategories()
	}
}

func (c *Config) normalizeClean() {
	c.Clean.Extension = strings.TrimSpace(c.Clean.Extension)
	if c.Clean.Extension == "" {
		c.Clean.Extension = defaultCleanExtension
	}
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = ""
		return nil
	}
	var err error
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if value, ok := os.LookupEnv("FLOWPACK_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// normalizeExtensions keeps extension case as written; matching is case-sensitive.
func normalizeExtensions(values []string) []string {
	if len(values) == 0 {
		return defaultExtensions()
	}
	out := trimUnique(values, false)
	if len(out) == 0 {
		return defaultExtensions()
	}
	return out
}

func trimUnique(values []string, lower bool) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.TrimSpace(value)
		if lower {
			normalized = strings.ToLower(normalized)
		}
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
