package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"flowpack/internal/classify"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the directories and files each stage reads or writes.
type Paths struct {
	ScratchDir   string `toml:"scratch_dir" validate:"required"`
	StagingDir   string `toml:"staging_dir" validate:"required"`
	OrganizedDir string `toml:"organized_dir" validate:"required"`
	ListFile     string `toml:"list_file" validate:"required"`
	StateDir     string `toml:"state_dir" validate:"required"`
}

// Acquire contains settings for cloning source corpora.
type Acquire struct {
	GitBinary    string   `toml:"git_binary" validate:"required"`
	GitFallbacks []string `toml:"git_fallbacks"`
	CloneDepth   int      `toml:"clone_depth" validate:"gte=0"`
	Sources      []string `toml:"sources" validate:"dive,required"`
}

// Merge contains the merge-and-stage vocabulary.
type Merge struct {
	Extensions []string            `toml:"extensions" validate:"required,min=1"`
	Fallback   string              `toml:"fallback" validate:"required"`
	Categories []classify.Category `toml:"categories" validate:"required,min=1,dive"`
}

// Organize contains the list-driven organizer vocabulary and naming rules.
type Organize struct {
	Extensions    []string            `toml:"extensions" validate:"required,min=1"`
	Fallback      string              `toml:"fallback" validate:"required"`
	GenericNames  []string            `toml:"generic_names"`
	ProgressEvery int                 `toml:"progress_every" validate:"gte=0"`
	Categories    []classify.Category `toml:"categories" validate:"required,min=1,dive"`
}

// Clean contains settings for the numbered-suffix cleaner.
type Clean struct {
	Extension string `toml:"extension" validate:"required"`
}

// History contains settings for the run history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format" validate:"oneof=console json"`
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
}

// Config encapsulates all configuration values for flowpack.
//
// Configuration sections by stage:
//   - Paths: scratch area, output roots, organizer path list, state directory
//   - Acquire: git client resolution and the source repository list
//   - Merge: category table used when staging the scratch area
//   - Organize: category table and smart-naming rules for list-driven runs
//   - Clean: extension the suffix-duplicate cleaner operates on
//   - History: SQLite run history
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Acquire  Acquire  `toml:"acquire"`
	Merge    Merge    `toml:"merge"`
	Organize Organize `toml:"organize"`
	Clean    Clean    `toml:"clean"`
	History  History  `toml:"history"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/flowpack/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		// Lists come from the file verbatim; normalize restores defaults for
		// any the file leaves out.
		cfg.clearLists()
		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("flowpack.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory used for history and run locks.
// Stage output directories are created on demand by the stages themselves.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.StateDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.StateDir, err)
	}
	return nil
}

// MergeTable returns the category table for the merge-and-stage pipeline.
func (c *Config) MergeTable() classify.Table {
	return classify.NewTable(c.Merge.Categories, c.Merge.Fallback)
}

// OrganizeTable returns the category table for the list-driven organizer.
func (c *Config) OrganizeTable() classify.Table {
	return classify.NewTable(c.Organize.Categories, c.Organize.Fallback)
}

// HistoryPath returns the history database location, or "" when history is disabled.
func (c *Config) HistoryPath() string {
	if !c.History.Enabled {
		return ""
	}
	if strings.TrimSpace(c.History.Path) != "" {
		return c.History.Path
	}
	return filepath.Join(c.Paths.StateDir, "history.db")
}

func (c *Config) clearLists() {
	c.Acquire.GitFallbacks = nil
	c.Acquire.Sources = nil
	c.Merge.Extensions = nil
	c.Merge.Categories = nil
	c.Organize.Extensions = nil
	c.Organize.GenericNames = nil
	c.Organize.Categories = nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}
