// Package config loads the sbxmeta.yaml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/spraakbanken/sbxmeta/internal/compiler/ast"
	"github.com/spraakbanken/sbxmeta/internal/compiler/codegen"
	"github.com/spraakbanken/sbxmeta/internal/compiler/inference"
)

// FileName is the configuration file looked up from the working directory
const FileName = "sbxmeta"

// EnvPrefix prefixes environment overrides, e.g. SBXMETA_EXPORT_DIR
const EnvPrefix = "SBXMETA"

// Config represents the sbxmeta configuration
type Config struct {
	ModulesDir string         `mapstructure:"modules_dir"`
	PluginsDir string         `mapstructure:"plugins_dir"`
	ExportDir  string         `mapstructure:"export_dir"`
	Format     string         `mapstructure:"format"`
	UsageGuide bool           `mapstructure:"usage_guide"`
	Workers    int            `mapstructure:"workers"`
	Defaults   DefaultsConfig `mapstructure:"defaults"`
	Index      IndexConfig    `mapstructure:"index"`
	Corpus     CorpusConfig   `mapstructure:"corpus"`

	// Root is the directory relative paths are resolved against: the
	// directory of the configuration file, or the working directory
	Root string `mapstructure:"-"`
	// File is the configuration file that was read, if any
	File string `mapstructure:"-"`
}

// DefaultsConfig holds values applied to records that leave them unset
type DefaultsConfig struct {
	License      string      `mapstructure:"license"`
	Contact      interface{} `mapstructure:"contact"`
	AnalysisUnit string      `mapstructure:"analysis_unit"`
}

// IndexConfig configures the catalog index written next to the records
type IndexConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Language string `mapstructure:"language"`
}

// CorpusConfig locates a corpus configuration for the corpus command
type CorpusConfig struct {
	Config string `mapstructure:"config"`
}

// Load reads the configuration. An empty path searches the working directory
// and its parents for sbxmeta.yaml; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("modules_dir", "modules")
	v.SetDefault("plugins_dir", "plugins")
	v.SetDefault("export_dir", "export")
	v.SetDefault("format", string(codegen.FormatYAML))
	v.SetDefault("usage_guide", false)
	v.SetDefault("workers", 0)
	v.SetDefault("defaults.license", codegen.DefaultLicense)
	v.SetDefault("defaults.contact", ast.DefaultContactKeyword)
	v.SetDefault("defaults.analysis_unit", "")
	v.SetDefault("index.enabled", false)
	v.SetDefault("index.language", "eng")
	v.SetDefault("corpus.config", "config.yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		if found, err := FindConfigFile(); err == nil {
			path = found
		}
	}

	root, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		root = filepath.Dir(path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Root = root
	cfg.File = path

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindConfigFile walks up from the working directory looking for
// sbxmeta.yaml or sbxmeta.yml
func FindConfigFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, ext := range []string{".yaml", ".yml"} {
			candidate := filepath.Join(dir, FileName+ext)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s.yaml found", FileName)
		}
		dir = parent
	}
}

// Path resolves a configured path against the configuration root
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// OutputFormat returns the configured record format
func (c *Config) OutputFormat() codegen.Format {
	f, err := codegen.ParseFormat(c.Format)
	if err != nil {
		return codegen.FormatYAML
	}
	return f
}

// RecordDefaults returns the record defaults
func (c *Config) RecordDefaults() codegen.Defaults {
	return codegen.Defaults{
		License:      c.Defaults.License,
		Contact:      c.Defaults.Contact,
		AnalysisUnit: c.Defaults.AnalysisUnit,
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if _, err := codegen.ParseFormat(cfg.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got: %d", cfg.Workers)
	}
	if cfg.Defaults.AnalysisUnit != "" {
		if _, ok := inference.ParseUnit(cfg.Defaults.AnalysisUnit); !ok {
			return fmt.Errorf("defaults.analysis_unit must be one of %s, got: %s",
				strings.Join(inference.LevelNames(), ", "), cfg.Defaults.AnalysisUnit)
		}
	}
	if cfg.ExportDir == "" {
		return fmt.Errorf("export_dir must not be empty")
	}
	return nil
}
