// Package corpus builds the catalog record of a corpus from its
// configuration.
package corpus

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spraakbanken/sbxmeta/internal/compiler/ast"
	"github.com/spraakbanken/sbxmeta/internal/compiler/codegen"
	"github.com/spraakbanken/sbxmeta/internal/compiler/errors"
	"github.com/spraakbanken/sbxmeta/internal/compiler/identifier"
)

// Type is the record type of corpora
const Type = "corpus"

// KorpURL is the base address of the Korp interface
const KorpURL = "http://spraakbanken.gu.se/korp"

// ModernKorpMode links to the corpus without a Korp mode
const ModernKorpMode = "modern"

// Size counts the corpus contents
type Size struct {
	Tokens    int `mapstructure:"tokens" yaml:"tokens" json:"tokens"`
	Sentences int `mapstructure:"sentences" yaml:"sentences" json:"sentences"`
}

// Language names a language of the corpus
type Language struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// Record is the catalog record of a corpus
type Record struct {
	ID               string                   `yaml:"-" json:"-"`
	Name             interface{}              `yaml:"name" json:"name"`
	ShortDescription interface{}              `yaml:"short_description" json:"short_description"`
	Type             string                   `yaml:"type" json:"type"`
	Trainingdata     bool                     `yaml:"trainingdata" json:"trainingdata"`
	Unlisted         bool                     `yaml:"unlisted" json:"unlisted"`
	Successors       []string                 `yaml:"successors" json:"successors"`
	LanguageCodes    []string                 `yaml:"language_codes" json:"language_codes"`
	Languages        []Language               `yaml:"languages" json:"languages"`
	Size             Size                     `yaml:"size" json:"size"`
	InCollections    []string                 `yaml:"in_collections" json:"in_collections"`
	Downloads        []map[string]interface{} `yaml:"downloads" json:"downloads"`
	Interface        []map[string]interface{} `yaml:"interface" json:"interface"`
	ContactInfo      interface{}              `yaml:"contact_info" json:"contact_info"`
	Annotation       interface{}              `yaml:"annotation" json:"annotation"`
	Keywords         []string                 `yaml:"keywords" json:"keywords"`
	Caveats          interface{}              `yaml:"caveats" json:"caveats"`
	References       interface{}              `yaml:"references" json:"references"`
	IntendedUses     interface{}              `yaml:"intended_uses" json:"intended_uses"`
	Description      interface{}              `yaml:"description" json:"description"`
}

// Builder turns corpus configurations into records
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a builder. A nil logger disables logging.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger}
}

// Build creates the corpus record. Short description problems are returned
// as warnings; an invalid xml_export value is an error.
func (b *Builder) Build(cfg *Config) (*Record, errors.List, error) {
	md := cfg.Metadata
	sbx := cfg.SBXMetadata

	r := &Record{
		ID:            md.ID,
		Name:          orEmpty(localizedValue(md.Name)),
		Type:          Type,
		Trainingdata:  sbx.Trainingdata,
		Unlisted:      sbx.Unlisted,
		Successors:    []string{},
		LanguageCodes: []string{},
		Languages:     []Language{},
		Size:          sbx.Size,
		InCollections: nonNil(sbx.InCollections),
		Annotation:    sbx.Annotation,
		Keywords:      nonNil(sbx.Keywords),
		Caveats:       sbx.Caveats,
		References:    sbx.References,
		IntendedUses:  sbx.IntendedUses,
	}

	if md.Language != "" {
		r.LanguageCodes = append(r.LanguageCodes, md.Language)
		r.Languages = append(r.Languages, Language{Code: md.Language, Name: identifier.LanguageName(md.Language)})
	}

	short := localizedValue(md.ShortDescription)
	description := localizedValue(md.Description)
	fallback := false
	if short == nil && description != nil {
		short, fallback = description, true
	}
	r.ShortDescription = orEmpty(short)
	if !fallback && description != nil {
		r.Description = description
	} else {
		r.Description = map[string]string{"swe": "", "eng": ""}
	}

	warnings := codegen.LintShortDescription(ast.SourceLocation{}, md.ID, short, fallback)
	for _, w := range warnings {
		b.logger.Warn(w.Message, zap.String("corpus", md.ID), zap.String("code", string(w.Code)))
	}

	downloads, err := standardDownloads(sbx, md.ID)
	if err != nil {
		return nil, warnings, err
	}
	r.Downloads = append(downloads, nonEmpty(sbx.Downloads)...)

	r.Interface = []map[string]interface{}{}
	if sbx.Korp {
		r.Interface = append(r.Interface, korpInterface(md.ID, cfg.Korp.Mode))
	}
	r.Interface = append(r.Interface, nonEmpty(sbx.Interface)...)

	r.ContactInfo = codegen.ExpandContact(sbx.ContactInfo)

	return r, warnings, nil
}

func standardDownloads(sbx SBXMetadata, id string) ([]map[string]interface{}, error) {
	downloads := []map[string]interface{}{}

	mode, err := xmlExportMode(sbx.XMLExport)
	if err != nil {
		return nil, err
	}
	if mode != "" {
		item := map[string]interface{}{
			"licence":     "CC-BY",
			"restriction": "attribution",
			"download":    fmt.Sprintf("http://spraakbanken.gu.se/lb/resurser/meningsmangder/%s.xml.bz2", id),
			"type":        "corpus",
			"format":      "XML",
		}
		if mode == "scrambled" {
			item["info"] = "this file contains a scrambled version of the corpus"
		}
		downloads = append(downloads, item)
	}

	if sbx.StatsExport {
		downloads = append(downloads, map[string]interface{}{
			"licence":     "CC-BY",
			"restriction": "attribution",
			"download":    fmt.Sprintf("https://svn.spraakdata.gu.se/sb-arkiv/pub/frekvens/%s.csv", id),
			"type":        "token frequencies",
			"format":      "CSV",
		})
	}
	return downloads, nil
}

func korpInterface(id, mode string) map[string]interface{} {
	item := map[string]interface{}{
		"licence":     "other",
		"restriction": "other",
	}
	if mode == "" || mode == ModernKorpMode {
		item["access"] = fmt.Sprintf("%s/#?corpus=%s", KorpURL, id)
	} else {
		item["access"] = fmt.Sprintf("%s/?mode=%s#corpus=%s", KorpURL, mode, id)
	}
	return item
}

// xmlExportMode normalizes the xml_export setting to "", "scrambled" or
// "original"
func xmlExportMode(v interface{}) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case bool:
		if !x {
			return "", nil
		}
	case string:
		switch strings.ToLower(x) {
		case "", "false":
			return "", nil
		case "scrambled", "original":
			return strings.ToLower(x), nil
		}
	}
	return "", fmt.Errorf("invalid config value for sbx_metadata.xml_export: '%v'. Possible values: 'scrambled', 'original', false", v)
}

// localizedValue converts a configured text to a plain string or a mapping
// of language to text. Empty values yield nil.
func localizedValue(v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return t
	case map[string]interface{}:
		out := make(map[string]string, len(t))
		for lang, text := range t {
			if s := fmt.Sprint(text); text != nil && s != "" {
				out[lang] = s
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case map[string]string:
		if len(t) == 0 {
			return nil
		}
		return t
	}
	return nil
}

func orEmpty(v interface{}) interface{} {
	if v == nil {
		return map[string]string{}
	}
	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonEmpty(items []map[string]interface{}) []map[string]interface{} {
	var out []map[string]interface{}
	for _, item := range items {
		if len(item) > 0 {
			out = append(out, item)
		}
	}
	return out
}
