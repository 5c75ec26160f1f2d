package corpus

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sbxmeta/internal/compiler/codegen"
	"github.com/spraakbanken/sbxmeta/internal/compiler/errors"
)

const attasidor = `metadata:
  id: attasidor
  language: swe
  name:
    swe: 8 Sidor
    eng: 8 Sidor
  description:
    swe: Nyheter på lätt svenska.
    eng: News in easy Swedish.
sbx_metadata:
  xml_export: scrambled
  stats_export: true
  keywords:
    - news
  size:
    tokens: 1200
    sentences: 90
  downloads:
    - download: https://example.org/attasidor.zip
      format: zip
  contact_info:
    surname: Svensson
    givenName: Anna
    email: anna@example.org
`

func loadString(t *testing.T, name, content string) *Config {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/corpus/"+name, []byte(content), 0o644))
	cfg, err := LoadConfig(fs, "/corpus/"+name)
	require.NoError(t, err)
	return cfg
}

func TestBuildCorpusRecord(t *testing.T) {
	cfg := loadString(t, "config.yaml", attasidor)

	r, warnings, err := NewBuilder(nil).Build(cfg)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "attasidor", r.ID)
	assert.Equal(t, Type, r.Type)
	assert.Equal(t, map[string]string{"swe": "8 Sidor", "eng": "8 Sidor"}, r.Name)
	assert.Equal(t, []string{"swe"}, r.LanguageCodes)
	assert.Equal(t, []Language{{Code: "swe", Name: "Swedish"}}, r.Languages)
	assert.Equal(t, Size{Tokens: 1200, Sentences: 90}, r.Size)
	assert.Equal(t, []string{"news"}, r.Keywords)
	assert.Equal(t, []string{}, r.Successors)

	// Description is used as short description and left empty
	assert.Equal(t, map[string]string{"swe": "Nyheter på lätt svenska.", "eng": "News in easy Swedish."}, r.ShortDescription)
	assert.Equal(t, map[string]string{"swe": "", "eng": ""}, r.Description)

	require.Len(t, r.Downloads, 3)
	assert.Equal(t, "http://spraakbanken.gu.se/lb/resurser/meningsmangder/attasidor.xml.bz2", r.Downloads[0]["download"])
	assert.Equal(t, "this file contains a scrambled version of the corpus", r.Downloads[0]["info"])
	assert.Equal(t, "token frequencies", r.Downloads[1]["type"])
	assert.Equal(t, "https://example.org/attasidor.zip", r.Downloads[2]["download"])

	require.Len(t, r.Interface, 1)
	assert.Equal(t, "http://spraakbanken.gu.se/korp/#?corpus=attasidor", r.Interface[0]["access"])

	contact, ok := r.ContactInfo.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Anna", contact["givenName"])
	assert.Equal(t, "Svensson", contact["surname"])
}

func TestBuildDefaults(t *testing.T) {
	cfg := loadString(t, "config.yaml", "metadata:\n  id: minimal\n  short_description: A corpus.\n  description: A longer text.\n")

	r, _, err := NewBuilder(nil).Build(cfg)
	require.NoError(t, err)

	assert.Equal(t, "A corpus.", r.ShortDescription)
	assert.Equal(t, "A longer text.", r.Description)
	assert.Equal(t, map[string]string{}, r.Name)
	assert.Empty(t, r.Downloads)
	require.Len(t, r.Interface, 1)
	assert.Equal(t, &codegen.DefaultContact, r.ContactInfo)
}

func TestKorpInterface(t *testing.T) {
	tests := []struct {
		mode string
		want string
	}{
		{"", "http://spraakbanken.gu.se/korp/#?corpus=vivill"},
		{"modern", "http://spraakbanken.gu.se/korp/#?corpus=vivill"},
		{"historical", "http://spraakbanken.gu.se/korp/?mode=historical#corpus=vivill"},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			item := korpInterface("vivill", tt.mode)
			assert.Equal(t, tt.want, item["access"])
			assert.Equal(t, "other", item["licence"])
		})
	}
}

func TestXMLExportMode(t *testing.T) {
	tests := []struct {
		value   interface{}
		want    string
		wantErr bool
	}{
		{nil, "", false},
		{false, "", false},
		{"false", "", false},
		{"scrambled", "scrambled", false},
		{"Original", "original", false},
		{true, "", true},
		{"shuffled", "", true},
	}
	for _, tt := range tests {
		got, err := xmlExportMode(tt.value)
		if tt.wantErr {
			assert.Error(t, err, "%v", tt.value)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestInvalidXMLExportFailsLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/config.yaml", []byte("metadata:\n  id: x\nsbx_metadata:\n  xml_export: shuffled\n"), 0o644))

	_, err := LoadConfig(fs, "/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sbx_metadata.xml_export")
}

func TestMissingIDFailsLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/config.yaml", []byte("metadata:\n  language: swe\n"), 0o644))

	_, err := LoadConfig(fs, "/config.yaml")
	assert.Error(t, err)
}

func TestShortDescriptionWarnings(t *testing.T) {
	long := strings.Repeat("a", 251)
	cfg := loadString(t, "config.yaml", "metadata:\n  id: x\n  short_description:\n    swe: <b>fet</b>\n    eng: "+long+"\n")

	_, warnings, err := NewBuilder(nil).Build(cfg)
	require.NoError(t, err)
	require.Len(t, warnings, 2)
	assert.Equal(t, errors.WarnShortDescriptionLength, warnings[0].Code)
	assert.Equal(t, errors.WarnShortDescriptionHTML, warnings[1].Code)
}

func TestLoadJSONConfig(t *testing.T) {
	cfg := loadString(t, "config.json", `{"metadata": {"id": "x", "language": "eng"}, "korp": {"mode": "other"}}`)
	assert.Equal(t, "eng", cfg.Metadata.Language)
	assert.Equal(t, "other", cfg.Korp.Mode)
	assert.True(t, cfg.SBXMetadata.Korp)
}
