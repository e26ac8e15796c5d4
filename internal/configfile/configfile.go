// Package configfile reads and writes the workspace metadata file.
package configfile

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the metadata file inside the workspace directory.
const ConfigFileName = "metadata.yml"

// WorkspaceDirName is the per-repo workspace directory.
const WorkspaceDirName = ".bugdash"

// Config holds workspace settings. Flags and BUGDASH_* env vars override
// these at runtime.
type Config struct {
	Database       string `yaml:"database"`
	DefaultProject string `yaml:"default_project,omitempty"`
	PreviewRows    int    `yaml:"preview_rows,omitempty"` // 0 means the built-in default
}

// DefaultConfig returns the settings a fresh workspace starts with.
func DefaultConfig() *Config {
	return &Config{Database: "bugdash.db"}
}

// ConfigPath returns the metadata file path for a workspace directory.
func ConfigPath(workspaceDir string) string {
	return filepath.Join(workspaceDir, ConfigFileName)
}

// DatabasePath resolves the database location relative to the workspace.
func (c *Config) DatabasePath(workspaceDir string) string {
	if filepath.IsAbs(c.Database) {
		return c.Database
	}
	return filepath.Join(workspaceDir, c.Database)
}

// Load reads the metadata file. A missing file returns (nil, nil) so
// callers can fall back to defaults.
func Load(workspaceDir string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(workspaceDir)) // #nosec G304 - controlled path
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Database == "" {
		cfg.Database = DefaultConfig().Database
	}
	return &cfg, nil
}

// Save writes the metadata file, creating the workspace directory if
// needed.
func (c *Config) Save(workspaceDir string) error {
	if err := os.MkdirAll(workspaceDir, 0o750); err != nil {
		return fmt.Errorf("creating workspace dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(ConfigPath(workspaceDir), data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Discover walks up from dir looking for a workspace directory. Returns
// the workspace path or "" when none is found.
func Discover(dir string) string {
	for {
		candidate := filepath.Join(dir, WorkspaceDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
