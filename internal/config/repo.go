package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the repo-relative path of the per-repository config file.
const FileName = ".cairn/config.yml"

// Repo holds per-repository settings read from .cairn/config.yml.
type Repo struct {
	// IncludeUntracked controls whether checkpoint capture includes
	// files git does not yet track. The --untracked flag overrides it
	// per invocation.
	IncludeUntracked bool `yaml:"include_untracked"`

	// AutoCheckpoints controls whether advancing a work unit creates an
	// automatic checkpoint at each lifecycle transition.
	AutoCheckpoints bool `yaml:"auto_checkpoints"`
}

// DefaultRepo returns the settings used when no config file exists.
func DefaultRepo() Repo {
	return Repo{
		IncludeUntracked: true,
		AutoCheckpoints:  true,
	}
}

// LoadRepo reads the per-repository config from root. A missing file is
// not an error and yields the defaults. Environment variables
// CAIRN_INCLUDE_UNTRACKED and CAIRN_AUTO_CHECKPOINTS ("true"/"false")
// override file values.
func LoadRepo(root string) (Repo, error) {
	cfg := DefaultRepo()

	data, err := os.ReadFile(filepath.Join(root, FileName))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("reading %s: %w", FileName, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", FileName, err)
	}

	applyEnvBool("CAIRN_INCLUDE_UNTRACKED", &cfg.IncludeUntracked)
	applyEnvBool("CAIRN_AUTO_CHECKPOINTS", &cfg.AutoCheckpoints)
	return cfg, nil
}

// WriteDefaultRepo writes a commented default config file if none exists.
// Returns true if a file was written.
func WriteDefaultRepo(root string) (bool, error) {
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating config directory: %w", err)
	}

	content := `# cairn per-repository configuration
# include_untracked: capture files git does not yet track in checkpoints
include_untracked: true
# auto_checkpoints: create an automatic checkpoint at each work-unit transition
auto_checkpoints: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", FileName, err)
	}
	return true, nil
}

func applyEnvBool(key string, dst *bool) {
	switch os.Getenv(key) {
	case "true", "1", "yes":
		*dst = true
	case "false", "0", "no":
		*dst = false
	}
}
