package docs

import (
	"fmt"
	"strings"
)

const (
	quickStartURL    = "https://spraakbanken.gu.se/sparv/#/user-manual/quick-start"
	configFileURL    = "https://spraakbanken.gu.se/sparv/#/user-manual/quick-start?id=creating-the-config-file"
	pluginInstallURL = "https://spraakbanken.gu.se/sparv/#/user-manual/installation-and-setup?id=plugins"
	documentationURL = "https://spraakbanken.gu.se/sparv"
)

// AnalysisGuide renders the Sparv usage instructions for an analysis: the
// lines to add under export.annotations, followed by extra notes, plugin
// installation info and a pointer to the documentation. describer may be nil.
func AnalysisGuide(annotations []string, describer Describer, extra, pluginInfo string) string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "This analysis is used with Sparv. Check out [Sparv's quick start guide](%s) to get started!\n\n", quickStartURL)

	plural := ""
	if len(annotations) > 1 {
		plural = "s"
	}
	fmt.Fprintf(&buf, "To use this analysis, add the following line%s under `export.annotations` in the Sparv "+
		"[corpus configuration file](%s):\n\n", plural, configFileURL)

	buf.WriteString("```yaml\n")
	for _, a := range annotations {
		description := ""
		if describer != nil {
			description = describer.Description(a)
		}
		fmt.Fprintf(&buf, "- %s  # %s\n", a, description)
	}
	buf.WriteString("```\n\n")

	if extra != "" {
		buf.WriteString(extra + "\n\n")
	}
	buf.WriteString(pluginInfo)

	fmt.Fprintf(&buf, "For more info on how to use Sparv, check out the [Sparv documentation](%s).\n", documentationURL)
	return buf.String()
}

// UtilityGuide renders the Sparv usage instructions for an importer or
// exporter
func UtilityGuide(kind, handler, extra string) string {
	if kind == "" {
		kind = "utility"
	}

	var buf strings.Builder
	fmt.Fprintf(&buf, "This %s is used with Sparv. Check out [Sparv's quick start guide](%s) to get started!\n\n", kind, quickStartURL)
	fmt.Fprintf(&buf, "To use this %s, run Sparv with the argument '%s':\n\n", kind, handler)
	fmt.Fprintf(&buf, "```sh\nsparv run %s\n```\n\n", handler)

	if extra != "" {
		buf.WriteString(extra + "\n\n")
	}

	fmt.Fprintf(&buf, "For more info on how to use Sparv, check out the [Sparv documentation](%s).\n", documentationURL)
	return buf.String()
}

// PluginInfo tells the reader which plugin to install. The plugin name links
// to url when one is given.
func PluginInfo(plugin, url string) string {
	link := plugin
	if url != "" {
		link = fmt.Sprintf("[%s](%s)", plugin, url)
	}
	return fmt.Sprintf("You also need to install the following plugin: *%s*.\n\n"+
		"For general information on how to install plugins, see [here](%s).\n\n", link, pluginInstallURL)
}
