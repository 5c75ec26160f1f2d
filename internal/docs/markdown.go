package docs

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/spraakbanken/sbxmeta/internal/compiler/ast"
	"github.com/spraakbanken/sbxmeta/internal/compiler/codegen"
)

// IndexFileName is the catalog index written next to the type directories
const IndexFileName = "README.md"

// MarkdownGenerator renders a markdown index of an exported catalog
type MarkdownGenerator struct {
	fs        afero.Fs
	exportDir string
	language  string
}

// NewMarkdownGenerator creates a generator writing into exportDir. Names
// and short descriptions are shown in language when available.
func NewMarkdownGenerator(fs afero.Fs, exportDir, language string) *MarkdownGenerator {
	if language == "" {
		language = "eng"
	}
	return &MarkdownGenerator{fs: fs, exportDir: exportDir, language: language}
}

// Generate writes the index for records and returns its path
func (g *MarkdownGenerator) Generate(records []*codegen.Record, extension string) (string, error) {
	if err := g.fs.MkdirAll(g.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(g.exportDir, IndexFileName)
	if err := afero.WriteFile(g.fs, path, []byte(g.Render(records, extension)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write catalog index: %w", err)
	}
	return path, nil
}

// Render returns the index text. Records are grouped by type and sorted by
// id; links point at the exported files.
func (g *MarkdownGenerator) Render(records []*codegen.Record, extension string) string {
	groups := map[string][]*codegen.Record{}
	for _, r := range records {
		groups[r.Type] = append(groups[r.Type], r)
	}

	var buf strings.Builder
	buf.WriteString("# Analysis Catalog\n\n")
	fmt.Fprintf(&buf, "This file was automatically generated by sbxmeta. %d records.\n\n", len(records))

	for _, typ := range []string{ast.TypeAnalysis, ast.TypeUtility} {
		list := groups[typ]
		if len(list) == 0 {
			continue
		}
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

		title := "Analyses"
		if typ == ast.TypeUtility {
			title = "Utilities"
		}
		fmt.Fprintf(&buf, "## %s\n\n", title)
		buf.WriteString("| ID | Name | Task | Unit | Description |\n")
		buf.WriteString("|----|------|------|------|-------------|\n")
		for _, r := range list {
			fmt.Fprintf(&buf, "| [`%s`](%s/%s%s) | %s | %s | %s | %s |\n",
				r.ID, typ, r.ID, extension,
				cell(g.text(r.Name)), cell(r.Task), cell(r.AnalysisUnit), cell(g.text(r.ShortDescription)))
		}
		buf.WriteString("\n")
	}

	return buf.String()
}

// text picks the configured language from a localized value, falling back
// to English, Swedish and then any language
func (g *MarkdownGenerator) text(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]string:
		for _, lang := range []string{g.language, "eng", "swe"} {
			if s := t[lang]; s != "" {
				return s
			}
		}
		langs := make([]string, 0, len(t))
		for lang := range t {
			langs = append(langs, lang)
		}
		sort.Strings(langs)
		if len(langs) > 0 {
			return t[langs[0]]
		}
	}
	return ""
}

// cell makes a value safe for a single table cell
func cell(s string) string {
	if s == "" {
		return "-"
	}
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
