package docs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type descriptions map[string]string

func (d descriptions) Description(annotation string) string {
	return d[annotation]
}

func TestExplicitExampleIsVerbatim(t *testing.T) {
	explicit := "  Keep <b>this</b>\nexactly   \n"
	for _, guide := range []bool{false, true} {
		got, ok := NewExampleGenerator(guide).Generate(ExampleRequest{
			Type:          "analysis",
			Annotations:   []string{"<token>:x.y"},
			Example:       explicit,
			ExampleOutput: "<token>ignored</token>",
			ExampleExtra:  "ignored",
		})
		assert.True(t, ok)
		assert.Equal(t, explicit, got)
	}
}

func TestSampleOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
		extra  string
		want   string
		ok     bool
	}{
		{"sample only", "\n<token>Det</token>\n", "", "<token>Det</token>", true},
		{"sample with extra", "<token>Det</token>", "  Needs a model.\n", "<token>Det</token>\n\nNeeds a model.", true},
		{"extra only", "", "Needs a model.", "", false},
		{"nothing", "  \n", "", "", false},
	}

	g := NewExampleGenerator(false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := g.Generate(ExampleRequest{
				Type:          "analysis",
				Annotations:   []string{"segment.token"},
				ExampleOutput: tt.output,
				ExampleExtra:  tt.extra,
			})
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	req := ExampleRequest{
		Type:          "analysis",
		Annotations:   []string{"<token>:a.b", "<token>:a.c"},
		ExampleOutput: "<token>x</token>",
		ExampleExtra:  "extra",
	}
	g := NewExampleGenerator(true).WithDescriptions(descriptions{"<token>:a.b": "B"})
	first, _ := g.Generate(req)
	for i := 0; i < 10; i++ {
		got, _ := g.Generate(req)
		assert.Equal(t, first, got)
	}
}

func TestAnalysisUsageGuide(t *testing.T) {
	g := NewExampleGenerator(true).WithDescriptions(descriptions{
		"<token>:hunpos.pos": "Part-of-speech tags",
		"<token>:hunpos.msd": "Morphosyntactic descriptions",
	})

	got, ok := g.Generate(ExampleRequest{
		Type:          "analysis",
		Module:        "sbx_hunpos",
		Plugin:        true,
		PluginURL:     "https://github.com/spraakbanken/sparv-sbx-hunpos",
		Annotations:   []string{"<token>:hunpos.pos", "<token>:hunpos.msd"},
		ExampleOutput: "<token pos=\"PN\">Det</token>\n",
		ExampleExtra:  "The model is downloaded on first use.",
	})
	assert.True(t, ok)

	assert.True(t, strings.HasPrefix(got, "This analysis is used with Sparv."))
	assert.Contains(t, got, "add the following lines under `export.annotations`")
	assert.Contains(t, got, "```yaml\n- <token>:hunpos.pos  # Part-of-speech tags\n- <token>:hunpos.msd  # Morphosyntactic descriptions\n```\n\n")
	assert.Contains(t, got, "The model is downloaded on first use.\n\nYou also need to install")
	assert.Contains(t, got, "*[sbx_hunpos](https://github.com/spraakbanken/sparv-sbx-hunpos)*")
	assert.True(t, strings.HasSuffix(got, "(https://spraakbanken.gu.se/sparv).\n\nExample output:\n<token pos=\"PN\">Det</token>"))
}

func TestAnalysisUsageGuideWithoutSample(t *testing.T) {
	got, ok := NewExampleGenerator(true).Generate(ExampleRequest{
		Type:        "analysis",
		Annotations: []string{"segment.sentence"},
	})
	assert.True(t, ok)
	assert.Contains(t, got, "add the following line under")
	assert.Contains(t, got, "- segment.sentence  # \n")
	assert.NotContains(t, got, "Example output")
	assert.NotContains(t, got, "install the following plugin")
}

func TestUtilityGuide(t *testing.T) {
	got, ok := NewExampleGenerator(false).Generate(ExampleRequest{
		Type:        "utility",
		Handler:     "xml_import:parse",
		HandlerKind: "importer",
	})
	assert.True(t, ok)
	assert.Contains(t, got, "This importer is used with Sparv.")
	assert.Contains(t, got, "run Sparv with the argument 'xml_import:parse'")
	assert.Contains(t, got, "```sh\nsparv run xml_import:parse\n```")
}

func TestUtilityWithoutHandlerNeverFails(t *testing.T) {
	got, ok := NewExampleGenerator(false).Generate(ExampleRequest{Type: "utility"})
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestPluginInfoWithoutURL(t *testing.T) {
	assert.Contains(t, PluginInfo("sbx_ocr", ""), "*sbx_ocr*.")
}
