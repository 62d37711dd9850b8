package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config mirrors the scan flag names. Zero values mean "not set";
// pointer fields distinguish an explicit false/zero from absence.
type Config struct {
	RulesDirs     []string `yaml:"rules_dirs,omitempty"`
	NoBuiltin     *bool    `yaml:"no_builtin,omitempty"`
	Workers       *int     `yaml:"workers,omitempty"`
	Format        string   `yaml:"format,omitempty"`
	Out           string   `yaml:"out,omitempty"`
	FailOn        string   `yaml:"fail_on,omitempty"`
	MaxFileBytes  *int64   `yaml:"max_file_bytes,omitempty"`
	Verbose       *bool    `yaml:"verbose,omitempty"`
	DisabledRules []string `yaml:"disabled_rules,omitempty"`
	EnabledRules  []string `yaml:"enabled_rules,omitempty"`
	Severities    []string `yaml:"severities,omitempty"`
	Categories    []string `yaml:"categories,omitempty"`
	Languages     []string `yaml:"languages,omitempty"`
	Frameworks    []string `yaml:"frameworks,omitempty"`
}

// Load reads config from layered sources:
//  1. ~/.arcshield/config.yaml (global)
//  2. ./.arcshield/config.yaml (repo-local, takes precedence)
//
// Missing files are silently ignored.
func Load() (Config, error) {
	home, _ := os.UserHomeDir()
	cwd, _ := os.Getwd()

	var merged Config
	if home != "" {
		global, err := loadFile(filepath.Join(home, ".arcshield", "config.yaml"))
		if err != nil {
			return Config{}, fmt.Errorf("load global config: %w", err)
		}
		merged = merge(merged, global)
	}
	if cwd != "" {
		local, err := loadFile(filepath.Join(cwd, ".arcshield", "config.yaml"))
		if err != nil {
			return Config{}, fmt.Errorf("load local config: %w", err)
		}
		merged = merge(merged, local)
	}
	return merged, nil
}

func loadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 {
		return Config{}, nil
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// merge applies overrides from b onto a. Non-zero fields in b win.
func merge(a, b Config) Config {
	if len(b.RulesDirs) > 0 {
		a.RulesDirs = b.RulesDirs
	}
	if b.NoBuiltin != nil {
		a.NoBuiltin = b.NoBuiltin
	}
	if b.Workers != nil {
		a.Workers = b.Workers
	}
	if b.Format != "" {
		a.Format = b.Format
	}
	if b.Out != "" {
		a.Out = b.Out
	}
	if b.FailOn != "" {
		a.FailOn = b.FailOn
	}
	if b.MaxFileBytes != nil {
		a.MaxFileBytes = b.MaxFileBytes
	}
	if b.Verbose != nil {
		a.Verbose = b.Verbose
	}
	if len(b.DisabledRules) > 0 {
		a.DisabledRules = b.DisabledRules
	}
	if len(b.EnabledRules) > 0 {
		a.EnabledRules = b.EnabledRules
	}
	if len(b.Severities) > 0 {
		a.Severities = b.Severities
	}
	if len(b.Categories) > 0 {
		a.Categories = b.Categories
	}
	if len(b.Languages) > 0 {
		a.Languages = b.Languages
	}
	if len(b.Frameworks) > 0 {
		a.Frameworks = b.Frameworks
	}
	return a
}
