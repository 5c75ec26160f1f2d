package build

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sbxmeta/internal/compiler/ast"
	"github.com/spraakbanken/sbxmeta/internal/compiler/codegen"
	"github.com/spraakbanken/sbxmeta/internal/compiler/errors"
	"github.com/spraakbanken/sbxmeta/internal/utils"
)

func module(name string) utils.Module {
	return utils.Module{
		Name:         name,
		Dir:          "/modules/" + name,
		MetadataPath: "/modules/" + name + "/metadata.yaml",
	}
}

func compile(t *testing.T, opts *BuildOptions, source string) *ModuleResult {
	t.Helper()
	res, err := NewSystem(afero.NewMemMapFs(), opts).CompileSource(module("test"), []byte(source), nil)
	require.NoError(t, err)
	return res
}

func codes(list errors.List) []errors.ErrorCode {
	out := make([]errors.ErrorCode, 0, len(list))
	for _, d := range list {
		out = append(out, d.Code)
	}
	return out
}

func TestScenarioTokenization(t *testing.T) {
	res := compile(t, nil, `id: sbx-swe-tokenization-sparv-linebreaks
annotations:
  - segment.token
example_output: "<token>Det</token>"
`)
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Records, 1)

	r := res.Records[0]
	assert.Equal(t, "sbx-swe-tokenization-sparv-linebreaks", r.ID)
	assert.Equal(t, "token", r.AnalysisUnit)
	assert.Equal(t, ast.TypeAnalysis, r.Type)
	assert.Equal(t, codegen.DefaultLicense, r.License)
	assert.Equal(t, "<token>Det</token>", r.Example)
}

func TestScenarioAbstractParent(t *testing.T) {
	res := compile(t, nil, `id: sbx-swe-dep-parent
abstract: true
license: CC BY 4.0
---
id: sbx-swe-dep-malt-ud
parent: sbx-swe-dep-parent
annotations:
  - <token>:malt.deprel
  - <token>:malt.dephead_ref
example_output: <token deprel="SS">Det</token>
`)
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "sbx-swe-dep-malt-ud", res.Records[0].ID)
	assert.Equal(t, "CC BY 4.0", res.Records[0].License)
	assert.Equal(t, "token", res.Records[0].AnalysisUnit)
}

func TestScenarioAbstractParentWithUsageGuide(t *testing.T) {
	opts := DefaultBuildOptions()
	opts.UsageGuide = true

	res := compile(t, opts, `id: sbx-swe-dep-parent
abstract: true
license: CC BY 4.0
---
id: sbx-swe-dep-malt-ud
parent: sbx-swe-dep-parent
annotations:
  - <token>:malt.deprel
`)
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "CC BY 4.0", res.Records[0].License)
	assert.Contains(t, res.Records[0].Example, "- <token>:malt.deprel")
}

func TestScenarioMissingParent(t *testing.T) {
	res := compile(t, nil, `id: sbx-swe-pos-stanza
annotations:
  - <token>:stanza.pos
example_output: <token pos="PN">Det</token>
---
id: sbx-swe-dep-orphan
parent: sbx-swe-missing-parent
annotations:
  - <token>:x.y
example_output: x
---
id: sbx-swe-ner-stanza
annotations:
  - <sentence>:stanza.ne
example_output: y
`)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "sbx-swe-pos-stanza", res.Records[0].ID)
	assert.Equal(t, "sbx-swe-ner-stanza", res.Records[1].ID)
	assert.Equal(t, "sentence", res.Records[1].AnalysisUnit)

	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, errors.ErrMissingParent, d.Code)
	assert.Equal(t, "MissingParentError", d.Kind())
	assert.Contains(t, d.Message, "sbx-swe-dep-orphan")
	assert.Contains(t, d.Message, "sbx-swe-missing-parent")
	assert.Equal(t, "test", d.Module)
	assert.Equal(t, "/modules/test/metadata.yaml", d.File)
	assert.Equal(t, 1, res.Failed())
}

func TestExplicitExampleWins(t *testing.T) {
	example := "Run it like this:\n\n    sparv run\n"
	res := compile(t, nil, fmt.Sprintf(`id: sbx-swe-pos-stanza
annotations:
  - <token>:stanza.pos
example_output: ignored
example: %q
`, example))
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Records, 1)
	assert.Equal(t, example, res.Records[0].Example)
}

func TestSectionFailures(t *testing.T) {
	tests := []struct {
		name   string
		source string
		code   errors.ErrorCode
	}{
		{"no annotations", "id: sbx-swe-pos-x\nexample_output: x\n", errors.ErrMissingAnnotations},
		{"no example", "id: sbx-swe-pos-x\nannotations:\n  - <token>:x.y\n", errors.ErrNoExample},
		{"extra is not an example", "id: sbx-swe-pos-x\nannotations:\n  - <token>:x.y\nexample_extra: notes\n", errors.ErrNoExample},
		{"unknown type", "id: sbx-swe-pos-x\ntype: model\n", errors.ErrUnknownType},
		{"invalid unit", "id: sbx-swe-pos-x\nannotations:\n  - <token>:x.y\nanalysis_unit: word\nexample_output: x\n", errors.ErrInvalidAnalysisUnit},
		{"segment count", "id: sbx-swe-pos\nannotations:\n  - <token>:x.y\nexample_output: x\n", errors.ErrSegmentCount},
		{"language code", "id: sbx-xx-pos-x\nannotations:\n  - <token>:x.y\nexample_output: x\n", errors.ErrUnknownLanguage},
		{"reserved suffix", "id: sbx-swe-pos-parent\nannotations:\n  - <token>:x.y\nexample_output: x\n", errors.ErrReservedSuffix},
		{"cycle", "id: sbx-swe-a-b\nparent: sbx-swe-c-d\n---\nid: sbx-swe-c-d\nparent: sbx-swe-a-b\n", errors.ErrInheritanceCycle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compile(t, nil, tt.source)
			assert.Empty(t, res.Records)
			require.NotEmpty(t, res.Diagnostics)
			assert.Equal(t, tt.code, res.Diagnostics[0].Code)
			assert.NotEmpty(t, res.Diagnostics[0].SectionID)
		})
	}
}

func TestIdentifierErrorCarriesLocation(t *testing.T) {
	res := compile(t, nil, "id: sbx-swe-a-b\nannotations: [x.token]\nexample_output: x\n---\nid: bad\n")
	require.Len(t, res.Records, 1)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, errors.ErrSegmentCount, res.Diagnostics[0].Code)
	assert.Equal(t, ast.SourceLocation{Section: 1, Line: 5}, res.Diagnostics[0].Location)
}

func TestUtilitySections(t *testing.T) {
	res := compile(t, nil, `id: sbx-swe-import-xml
sparv_handler: xml_import:parse
---
id: sbx-mul-export-csv
type: utility
---
id: sbx-mul-export-conll
type: utility
example_output: "1\tDet"
`)
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Records, 3)

	importer := res.Records[0]
	assert.Equal(t, ast.TypeUtility, importer.Type)
	assert.Empty(t, importer.AnalysisUnit)
	assert.Contains(t, importer.Example, "This importer is used with Sparv.")
	assert.Contains(t, importer.Example, "sparv run xml_import:parse")

	assert.Empty(t, res.Records[1].Example)
	assert.Equal(t, "1\tDet", res.Records[2].Example)
}

const registrySource = `
annotations:
  - name: <token>:hunpos.pos
    class: token:pos
    description: Part-of-speech tags
  - name: hunpos.sentence_score
    class: sentence
    description: Sentence score
importers:
  - hunpos_import:parse
`

func TestRegistryChecks(t *testing.T) {
	source := `id: sbx-swe-pos-hunpos
annotations:
  - <token>:hunpos.pos
  - <token>:hunpos.msd
example_output: x
---
id: sbx-swe-score-hunpos
annotations: [hunpos.sentence_score]
example_output: x
---
id: sbx-swe-import-hunpos
sparv_handler: hunpos_import:other
`
	res, err := NewSystem(afero.NewMemMapFs(), nil).CompileSource(module("hunpos"), []byte(source), []byte(registrySource))
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, "sentence", res.Records[0].AnalysisUnit, "unit taken from the registry class")

	assert.Equal(t, []errors.ErrorCode{errors.ErrUnknownAnnotations, errors.ErrUnknownHandler}, codes(res.Diagnostics))
	assert.Contains(t, res.Diagnostics[0].Message, "<token>:hunpos.msd")
	assert.NotContains(t, res.Diagnostics[0].Message, "<token>:hunpos.pos")
}

func TestMalformedRegistryIsAnError(t *testing.T) {
	_, err := NewSystem(afero.NewMemMapFs(), nil).CompileSource(module("x"), []byte("id: a-swe-b-c\n"), []byte("annotations: ["))
	assert.Error(t, err)
}

func TestPluginModules(t *testing.T) {
	m := module("sbx_ocr")
	m.Plugin = true
	opts := DefaultBuildOptions()
	opts.UsageGuide = true

	res, err := NewSystem(afero.NewMemMapFs(), opts).CompileSource(m, []byte(`id: sbx-swe-ocr-tesseract
annotations:
  - <text>:ocr.text
plugin_url: https://github.com/spraakbanken/sparv-sbx-ocr
`), nil)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	r := res.Records[0]
	assert.Empty(t, r.License, "plugins declare their own license")
	assert.Equal(t, "text", r.AnalysisUnit)
	assert.Contains(t, r.Example, "[sbx_ocr](https://github.com/spraakbanken/sparv-sbx-ocr)")
}

func TestShortDescriptionWarnings(t *testing.T) {
	res := compile(t, nil, `id: sbx-swe-pos-x
annotations:
  - <token>:x.y
example_output: x
short_description:
  eng: A <b>bold</b> claim
`)
	require.Len(t, res.Records, 1)
	assert.Equal(t, []errors.ErrorCode{errors.WarnShortDescriptionHTML}, codes(res.Diagnostics))
	assert.Equal(t, 0, res.Failed())
}

func writeModules(t *testing.T, fs afero.Fs, n int) []utils.Module {
	t.Helper()
	modules := make([]utils.Module, n)
	for i := range modules {
		m := module(fmt.Sprintf("mod%02d", i))
		src := fmt.Sprintf("id: sbx-swe-task-tool%02d\nannotations: [segment.token]\nexample_output: x\n", i)
		require.NoError(t, afero.WriteFile(fs, m.MetadataPath, []byte(src), 0o644))
		modules[i] = m
	}
	return modules
}

func TestBuildKeepsDiscoveryOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	modules := writeModules(t, fs, 12)

	var mu sync.Mutex
	progress := 0
	opts := DefaultBuildOptions()
	opts.MaxJobs = 4
	opts.ProgressFunc = func(current, total int, module string) {
		mu.Lock()
		defer mu.Unlock()
		progress++
		assert.Equal(t, 12, total)
	}

	result, err := NewSystem(fs, opts).Build(context.Background(), modules)
	require.NoError(t, err)
	require.Len(t, result.Modules, 12)
	assert.True(t, result.Success())
	assert.Equal(t, 12, progress)

	records := result.Records()
	require.Len(t, records, 12)
	for i, r := range records {
		assert.Equal(t, fmt.Sprintf("sbx-swe-task-tool%02d", i), r.ID)
	}
}

func TestBuildCache(t *testing.T) {
	fs := afero.NewMemMapFs()
	modules := writeModules(t, fs, 3)
	system := NewSystem(fs, nil)

	first, err := system.Build(context.Background(), modules)
	require.NoError(t, err)
	assert.Equal(t, 0, first.CacheHits)

	second, err := system.Build(context.Background(), modules)
	require.NoError(t, err)
	assert.Equal(t, 3, second.CacheHits)

	require.NoError(t, afero.WriteFile(fs, modules[1].MetadataPath,
		[]byte("id: sbx-swe-task-changed\nannotations: [segment.token]\nexample_output: x\n"), 0o644))

	third, err := system.Build(context.Background(), modules)
	require.NoError(t, err)
	assert.Equal(t, 2, third.CacheHits)
	assert.False(t, third.Modules[1].Cached)
	assert.Equal(t, "sbx-swe-task-changed", third.Modules[1].Records[0].ID)

	system.Invalidate(modules[0].MetadataPath)
	fourth, err := system.Build(context.Background(), modules)
	require.NoError(t, err)
	assert.Equal(t, 2, fourth.CacheHits)
}

func TestBuildMissingFile(t *testing.T) {
	_, err := NewSystem(afero.NewMemMapFs(), nil).Build(context.Background(), []utils.Module{module("gone")})
	assert.Error(t, err)
}

func TestBuildCancelled(t *testing.T) {
	fs := afero.NewMemMapFs()
	modules := writeModules(t, fs, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSystem(fs, nil).Build(ctx, modules)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildResultAggregates(t *testing.T) {
	result := &BuildResult{Modules: []*ModuleResult{
		{Diagnostics: errors.List{
			errors.NewMissingID(ast.SourceLocation{Section: 0}),
			errors.NewUnknownField(ast.SourceLocation{Section: 1}, "x"),
		}},
		{Diagnostics: errors.List{
			errors.NewNoExample(ast.SourceLocation{Section: 2}, "a"),
			errors.NewMissingAnnotations(ast.SourceLocation{Section: 2}, "a"),
		}},
	}}
	assert.Equal(t, 2, result.Failed())
	assert.Len(t, result.Diagnostics(), 4)
	assert.False(t, result.Success())
}
