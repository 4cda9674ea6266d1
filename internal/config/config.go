// Package config loads YAML configuration. Precedence is CLI flags over
// the repo-local file over the global file; fields are pointers so unset
// values can be told apart from zero values when merging.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for secretscope.
type FileConfig struct {
	Include        []string `yaml:"include"`
	Exclude        []string `yaml:"exclude"`
	ExcludeDirs    []string `yaml:"exclude_dirs"`
	MaxBytes       *int64   `yaml:"max_bytes"`
	Workers        *int     `yaml:"workers"`
	NoEntropy      *bool    `yaml:"no_entropy"`
	NoColor        *bool    `yaml:"no_color"`
	Recursive      *bool    `yaml:"recursive"`
	CustomRules    *string  `yaml:"custom_rules"`
	Format         *string  `yaml:"format"`
	FailOnFindings *bool    `yaml:"fail_on_findings"`

	S3 *S3Config `yaml:"s3"`
}

// S3Config holds defaults for bucket scans.
type S3Config struct {
	Region     *string  `yaml:"region"`
	MaxFiles   *int     `yaml:"max_files"`
	Extensions []string `yaml:"extensions"`
	Simulate   *bool    `yaml:"simulate"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root.
// It supports .secretscope.yml/.yaml and secretscope.yml/.yaml.
func LoadLocal(root string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".secretscope.yml", ".secretscope.yaml", "secretscope.yml", "secretscope.yaml"} {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or
// ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "secretscope", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}

// Merge overlays hi on top of lo: any field set in hi wins.
func Merge(lo, hi FileConfig) FileConfig {
	out := lo
	if hi.Include != nil {
		out.Include = hi.Include
	}
	if hi.Exclude != nil {
		out.Exclude = hi.Exclude
	}
	if hi.ExcludeDirs != nil {
		out.ExcludeDirs = hi.ExcludeDirs
	}
	if hi.MaxBytes != nil {
		out.MaxBytes = hi.MaxBytes
	}
	if hi.Workers != nil {
		out.Workers = hi.Workers
	}
	if hi.NoEntropy != nil {
		out.NoEntropy = hi.NoEntropy
	}
	if hi.NoColor != nil {
		out.NoColor = hi.NoColor
	}
	if hi.Recursive != nil {
		out.Recursive = hi.Recursive
	}
	if hi.CustomRules != nil {
		out.CustomRules = hi.CustomRules
	}
	if hi.Format != nil {
		out.Format = hi.Format
	}
	if hi.FailOnFindings != nil {
		out.FailOnFindings = hi.FailOnFindings
	}
	if hi.S3 != nil {
		out.S3 = hi.S3
	}
	return out
}
