package corpus

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// Config is the subset of a corpus configuration that describes the corpus
// in the catalog
type Config struct {
	Metadata    Metadata    `mapstructure:"metadata"`
	Korp        Korp        `mapstructure:"korp"`
	SBXMetadata SBXMetadata `mapstructure:"sbx_metadata"`
}

// Metadata holds the corpus identity and its texts
type Metadata struct {
	ID               string      `mapstructure:"id"`
	Language         string      `mapstructure:"language"`
	Name             interface{} `mapstructure:"name"`
	ShortDescription interface{} `mapstructure:"short_description"`
	Description      interface{} `mapstructure:"description"`
}

// Korp holds the Korp interface settings
type Korp struct {
	Mode string `mapstructure:"mode"`
}

// SBXMetadata holds the catalog specific settings
type SBXMetadata struct {
	Trainingdata  bool                     `mapstructure:"trainingdata"`
	Unlisted      bool                     `mapstructure:"unlisted"`
	InCollections []string                 `mapstructure:"in_collections"`
	Annotation    interface{}              `mapstructure:"annotation"`
	Keywords      []string                 `mapstructure:"keywords"`
	Caveats       interface{}              `mapstructure:"caveats"`
	References    interface{}              `mapstructure:"references"`
	IntendedUses  interface{}              `mapstructure:"intended_uses"`
	XMLExport     interface{}              `mapstructure:"xml_export"`
	StatsExport   bool                     `mapstructure:"stats_export"`
	Korp          bool                     `mapstructure:"korp"`
	Downloads     []map[string]interface{} `mapstructure:"downloads"`
	Interface     []map[string]interface{} `mapstructure:"interface"`
	ContactInfo   interface{}              `mapstructure:"contact_info"`
	Size          Size                     `mapstructure:"size"`
}

// LoadConfig reads a corpus configuration file. The format follows the
// file extension.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)

	v.SetDefault("korp.mode", ModernKorpMode)
	v.SetDefault("sbx_metadata.xml_export", false)
	v.SetDefault("sbx_metadata.stats_export", false)
	v.SetDefault("sbx_metadata.korp", true)
	v.SetDefault("sbx_metadata.trainingdata", false)
	v.SetDefault("sbx_metadata.unlisted", false)
	v.SetDefault("sbx_metadata.contact_info", "sbx-default")

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read corpus config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal corpus config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Metadata.ID == "" {
		return fmt.Errorf("metadata.id is required")
	}
	if _, err := xmlExportMode(cfg.SBXMetadata.XMLExport); err != nil {
		return err
	}
	return nil
}
