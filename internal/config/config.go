// Package config loads and saves the deskorg configuration record.
//
// The record holds the monitor directory, the ordered category rules, the
// auto-organize switch and the check interval. TOML is the native format;
// paths ending in .json use the legacy settings layout. Loading never fails
// outright: each malformed field falls back to its default and the problems
// are reported as a joined configuration error.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/eliteGoblin/focusd/desk_org/internal/domain"
	"github.com/eliteGoblin/focusd/desk_org/internal/infra"
	"github.com/eliteGoblin/focusd/desk_org/internal/rules"
)

// CategoryRule is one persisted category with its extensions.
type CategoryRule struct {
	Name       string   `toml:"name"`
	Extensions []string `toml:"extensions"`
}

// Config is the persisted configuration record.
type Config struct {
	MonitorDirectory string         `toml:"monitor_directory" env:"DESKORG_MONITOR_DIR"`
	AutoOrganize     bool           `toml:"auto_organize" env:"DESKORG_AUTO_ORGANIZE"`
	IntervalSeconds  int            `toml:"interval_seconds" env:"DESKORG_INTERVAL_SECONDS"`
	Categories       []CategoryRule `toml:"categories"`
}

// DefaultConfigPath returns the absolute path of the default config file.
func DefaultConfigPath() (string, error) {
	return infra.ExpandPath(defaultConfigPath)
}

// Load reads the config at path (the default path when empty) and applies
// environment overrides. The returned config is always usable. A non-nil
// error lists the fields that were replaced by defaults; every entry
// matches domain.ErrConfiguration.
func Load(path string) (*Config, error) {
	cfg, fileErr := LoadFile(path)
	envErr := cfg.ApplyEnv()
	return cfg, errors.Join(fileErr, envErr)
}

// LoadFile reads the config at path without environment overrides. Fields
// that are missing, of the wrong type or invalid fall back to their
// defaults one by one; the rest of the file is kept.
func LoadFile(path string) (*Config, error) {
	var problems []error

	resolved, err := resolveConfigPath(path)
	if err != nil {
		problems = append(problems, configErr(err, "resolve config path"))
	}

	cfg := Default()
	if resolved != "" {
		data, err := os.ReadFile(resolved)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			problems = append(problems, configErr(err, "read %s", resolved))
		default:
			parsed, fieldErrs, err := decode(resolved, data)
			if err != nil {
				problems = append(problems, configErr(err, "parse %s", resolved))
			} else {
				cfg = *parsed
			}
			for _, fieldErr := range fieldErrs {
				problems = append(problems, configErr(fieldErr, "%s", resolved))
			}
		}
	}

	problems = append(problems, cfg.normalize()...)
	return &cfg, errors.Join(problems...)
}

// ApplyEnv overrides fields from DESKORG_* environment variables. Invalid
// values fall back to defaults and are reported.
func (c *Config) ApplyEnv() error {
	var problems []error
	if err := cleanenv.ReadEnv(c); err != nil {
		problems = append(problems, configErr(err, "read environment overrides"))
	}
	problems = append(problems, c.normalize()...)
	return errors.Join(problems...)
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	out := *c
	if c.Categories != nil {
		out.Categories = make([]CategoryRule, len(c.Categories))
		for i, rule := range c.Categories {
			out.Categories[i] = CategoryRule{Name: rule.Name, Extensions: append([]string{}, rule.Extensions...)}
		}
	}
	return &out
}

// Save writes cfg to path atomically, creating parent directories.
func Save(path string, cfg *Config) error {
	resolved, err := resolveConfigPath(path)
	if err != nil {
		return err
	}

	data, err := encode(resolved, cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return writeAtomic(resolved, data)
}

// Backup copies the config file at path to path + ".bak". It returns the
// backup path, or "" when there is no file to back up.
func Backup(path string) (string, error) {
	resolved, err := resolveConfigPath(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(resolved)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read config for backup: %w", err)
	}
	backup := resolved + ".bak"
	if err := writeAtomic(backup, data); err != nil {
		return "", err
	}
	return backup, nil
}

func writeAtomic(path string, data []byte) error {
	tmpPath := fmt.Sprintf("%s.%d.tmp", path, os.Getpid())
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// RuleTable builds the rule table described by the config. Invalid entries
// are dropped and reported.
func (c *Config) RuleTable() (*rules.Table, error) {
	cats := make([]domain.Category, 0, len(c.Categories))
	for _, rule := range c.Categories {
		cats = append(cats, domain.Category{Name: rule.Name, Extensions: rule.Extensions})
	}
	return rules.NewTableFromCategories(cats)
}

// SetRules replaces the persisted categories with the contents of table.
func (c *Config) SetRules(table *rules.Table) {
	cats := table.Categories()
	c.Categories = make([]CategoryRule, 0, len(cats))
	for _, cat := range cats {
		exts := cat.Extensions
		if exts == nil {
			exts = []string{}
		}
		c.Categories = append(c.Categories, CategoryRule{Name: cat.Name, Extensions: exts})
	}
}

// IsLegacyPath reports whether path uses the JSON settings layout.
func IsLegacyPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func encode(path string, cfg *Config) ([]byte, error) {
	if IsLegacyPath(path) {
		return encodeLegacy(cfg)
	}
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func resolveConfigPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultConfigPath
	}
	return infra.ExpandPath(path)
}

func configErr(cause error, msgFmt string, args ...any) error {
	return domain.Wrap(domain.ErrConfiguration, cause, msgFmt, args...)
}
