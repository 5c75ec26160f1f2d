// Package docs produces the human-readable parts of catalog records: the
// usage example attached to every analysis and utility, and the markdown
// index of an exported catalog.
package docs

import (
	"strings"
)

// Describer returns a short description of an annotation, or ""
type Describer interface {
	Description(annotation string) string
}

// ExampleRequest carries everything the example of one record can be built
// from. All fields are taken from the resolved section and its module.
type ExampleRequest struct {
	Type          string // "analysis" or "utility"
	Module        string
	Plugin        bool
	PluginURL     string
	Annotations   []string
	Handler       string // utilities: "module:function"
	HandlerKind   string // utilities: "importer" or "exporter"
	Example       string
	ExampleOutput string
	ExampleExtra  string
}

// ExampleGenerator builds record examples. Generation is pure: the same
// request always yields the same text.
type ExampleGenerator struct {
	usageGuide bool
	describer  Describer
}

// NewExampleGenerator creates a generator. With usageGuide set, examples
// for analyses start with Sparv usage instructions; otherwise they consist
// of the sample output and extra notes only.
func NewExampleGenerator(usageGuide bool) *ExampleGenerator {
	return &ExampleGenerator{usageGuide: usageGuide}
}

// WithDescriptions sets where annotation descriptions in the usage guide
// come from
func (g *ExampleGenerator) WithDescriptions(d Describer) *ExampleGenerator {
	g.describer = d
	return g
}

// Generate returns the example text. ok is false when no example can be
// obtained for an analysis; utilities never fail.
func (g *ExampleGenerator) Generate(req ExampleRequest) (example string, ok bool) {
	if req.Example != "" {
		return req.Example, true
	}

	sample := strings.TrimSpace(req.ExampleOutput)
	extra := strings.TrimSpace(req.ExampleExtra)

	if req.Type == "utility" {
		if req.Handler != "" {
			return UtilityGuide(req.HandlerKind, req.Handler, extra), true
		}
		return joinParagraphs(sample, extra), true
	}

	if g.usageGuide && len(req.Annotations) > 0 {
		guide := AnalysisGuide(req.Annotations, g.describer, extra, g.pluginInfo(req))
		if sample != "" {
			guide += "\nExample output:\n" + sample
		}
		return guide, true
	}

	if sample == "" {
		return "", false
	}
	return joinParagraphs(sample, extra), true
}

func (g *ExampleGenerator) pluginInfo(req ExampleRequest) string {
	if !req.Plugin {
		return ""
	}
	return PluginInfo(req.Module, req.PluginURL)
}

// joinParagraphs joins the non-empty parts with a blank line
func joinParagraphs(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
