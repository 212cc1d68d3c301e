// Package platform assembles the engine from file configuration. It is
// the composition root: everything above it is wiring-free.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/mgreten/revq/pkg/core"
)

// TeamRule configures one classification tier from config. Title
// matching takes literal tokens or regular expressions.
type TeamRule struct {
	Slug          string   `yaml:"slug"`
	Members       []string `yaml:"members"`
	TitleTokens   []string `yaml:"title_tokens"`
	TitlePatterns []string `yaml:"title_patterns"`
}

// Config is the on-disk configuration, one YAML document.
type Config struct {
	Repo     string `yaml:"repo"`
	Operator string `yaml:"operator"`

	Vault struct {
		Path      string `yaml:"path"`
		TodoFile  string `yaml:"todo_file"`
		ReviewDir string `yaml:"review_dir"`
		Marker    string `yaml:"marker"`
	} `yaml:"vault"`

	Teams struct {
		Integration TeamRule `yaml:"integration"`
		Platform    TeamRule `yaml:"platform"`
		Backend     TeamRule `yaml:"backend"`
	} `yaml:"teams"`

	GeneralCap int `yaml:"general_cap"`

	Enrich struct {
		Command   string `yaml:"command"`
		Threshold int    `yaml:"threshold"`
	} `yaml:"enrich"`

	Ntfy struct {
		Server string `yaml:"server"`
		Topic  string `yaml:"topic"`
	} `yaml:"ntfy"`

	LedgerPath string `yaml:"ledger_path"`
}

// DefaultConfigPath resolves the per-user config location.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "revq", "config.yaml")
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Validate checks the fields no default can stand in for.
func (c *Config) Validate() error {
	switch {
	case c.Repo == "":
		return fmt.Errorf("%w: repo", core.ErrMissingConfig)
	case c.Operator == "":
		return fmt.Errorf("%w: operator", core.ErrMissingConfig)
	case c.Vault.Path == "":
		return fmt.Errorf("%w: vault.path", core.ErrMissingConfig)
	case c.Vault.TodoFile == "":
		return fmt.Errorf("%w: vault.todo_file", core.ErrMissingConfig)
	}

	for _, team := range []TeamRule{c.Teams.Integration, c.Teams.Platform, c.Teams.Backend} {
		for _, p := range team.TitlePatterns {
			if _, err := regexp.Compile(p); err != nil {
				return fmt.Errorf("title pattern %q: %w", p, err)
			}
		}
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.LedgerPath == "" {
		c.LedgerPath = filepath.Join(filepath.Dir(DefaultConfigPath()), "ledger.json")
	}
	if c.Vault.ReviewDir == "" {
		c.Vault.ReviewDir = c.Vault.Path
	}
}

// TodoPath is the absolute path of the task document.
func (c *Config) TodoPath() string {
	return filepath.Join(c.Vault.Path, c.Vault.TodoFile)
}
