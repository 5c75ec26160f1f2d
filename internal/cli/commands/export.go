package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/spraakbanken/sbxmeta/internal/cli/ui"
	"github.com/spraakbanken/sbxmeta/internal/compiler/ast"
	"github.com/spraakbanken/sbxmeta/internal/compiler/codegen"
	"github.com/spraakbanken/sbxmeta/internal/compiler/errors"
	"github.com/spraakbanken/sbxmeta/internal/docs"
	"github.com/spraakbanken/sbxmeta/internal/export"
	"github.com/spraakbanken/sbxmeta/internal/tooling/build"
)

var (
	exportJSON       bool
	exportFormat     string
	exportDir        string
	exportUsageGuide bool
	exportIndex      bool
	exportPrune      bool
	exportWorkers    int
)

// exportReport is the machine-readable summary of an export run
type exportReport struct {
	Success     bool        `json:"success"`
	Modules     int         `json:"modules"`
	Records     int         `json:"records"`
	Written     int         `json:"written"`
	Unchanged   int         `json:"unchanged"`
	Removed     []string    `json:"removed,omitempty"`
	Failed      int         `json:"failed"`
	CacheHits   int         `json:"cache_hits"`
	Index       string      `json:"index,omitempty"`
	Diagnostics errors.List `json:"diagnostics"`
	DurationMS  int64       `json:"duration_ms"`
}

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [module|dir|file...]",
		Short: "Resolve description files and write catalog records",
		Long: `Resolve every metadata.yaml below the modules and plugins directories and
write one record per analysis or utility.

The export process:
  1. Discovery - find module and plugin directories
  2. Loading - split description files into sections
  3. Resolution - validate ids and apply parent sections
  4. Inference - determine type, analysis unit and example
  5. Writing - one file per record, unchanged files are kept

Sections that fail are reported and skipped; all other records are still
written and the command exits with a non-zero status.`,
		Example: `  # Export everything with the settings from sbxmeta.yaml
  sbxmeta export

  # Export a single module as JSON to another directory
  sbxmeta export stanza --format json --export-dir /tmp/catalog

  # Machine-readable summary, remove records of deleted sections
  sbxmeta export --json --prune

  # Also write a README.md index of all records
  sbxmeta export --index`,
		RunE: runExport,
	}

	cmd.Flags().BoolVar(&exportJSON, "json", false, "Output the summary and diagnostics as JSON")
	cmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Record format: yaml or json (default from config)")
	cmd.Flags().StringVarP(&exportDir, "export-dir", "o", "", "Export directory (default from config)")
	cmd.Flags().BoolVar(&exportUsageGuide, "usage-guide", false, "Generate Sparv usage guides as examples")
	cmd.Flags().BoolVar(&exportIndex, "index", false, "Write a README.md index of the records")
	cmd.Flags().BoolVar(&exportPrune, "prune", false, "Remove records whose sections no longer exist")
	cmd.Flags().IntVarP(&exportWorkers, "workers", "j", 0, "Number of description files resolved in parallel")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	start := time.Now()

	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	if err := applyExportFlags(cmd, env); err != nil {
		return err
	}

	modules, err := env.modulesFor(args)
	if err != nil {
		return err
	}
	if len(modules) == 0 {
		fmt.Fprint(env.out, ui.Warning(fmt.Sprintf("No modules found in %s or %s",
			env.cfg.Path(env.cfg.ModulesDir), env.cfg.Path(env.cfg.PluginsDir)), nil, globalNoColor))
		return nil
	}

	opts := env.buildOptions()
	var bar *ui.ProgressBar
	if !exportJSON && !globalVerbose && isTerminal(env.out) {
		bar = ui.NewProgressBar(env.out, ui.ProgressBarOptions{Total: len(modules), NoColor: globalNoColor})
		opts.ProgressFunc = func(current, total int, module string) {
			bar.Set(current, module)
		}
	}

	ctx := commandContext(cmd)
	system := build.NewSystem(env.fs, opts)
	result, err := system.Build(ctx, modules)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if bar != nil {
		bar.Finish()
	}

	format := env.cfg.OutputFormat()
	exportPath := env.cfg.Path(env.cfg.ExportDir)
	writer := export.NewWriter(env.fs, exportPath, format, env.logger)
	summary, err := writer.WriteAll(ctx, result.Records())
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	report := &exportReport{
		Success:     result.Success(),
		Modules:     len(modules),
		Records:     len(summary.Paths),
		Written:     summary.Written,
		Unchanged:   summary.Unchanged,
		Failed:      result.Failed(),
		CacheHits:   result.CacheHits,
		Diagnostics: result.Diagnostics(),
	}
	if report.Diagnostics == nil {
		report.Diagnostics = errors.List{}
	}

	if exportPrune {
		removed, err := writer.Prune([]string{ast.TypeAnalysis, ast.TypeUtility}, summary.Paths)
		if err != nil {
			return err
		}
		report.Removed = removed
	}

	if exportIndex || env.cfg.Index.Enabled {
		gen := docs.NewMarkdownGenerator(env.fs, exportPath, env.cfg.Index.Language)
		path, err := gen.Generate(result.Records(), format.Extension())
		if err != nil {
			return fmt.Errorf("failed to write index: %w", err)
		}
		report.Index = path
	}

	report.DurationMS = time.Since(start).Milliseconds()

	if exportJSON {
		if err := writeJSON(env.out, report); err != nil {
			return err
		}
	} else {
		printExportReport(env, report, exportPath)
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d section(s) failed", report.Failed)
	}
	return nil
}

// applyExportFlags lets command line flags override the configuration
func applyExportFlags(cmd *cobra.Command, env *environment) error {
	flags := cmd.Flags()
	if flags.Changed("format") {
		if _, err := codegen.ParseFormat(exportFormat); err != nil {
			return err
		}
		env.cfg.Format = exportFormat
	}
	if flags.Changed("export-dir") {
		env.cfg.ExportDir = exportDir
	}
	if flags.Changed("usage-guide") {
		env.cfg.UsageGuide = exportUsageGuide
	}
	if flags.Changed("workers") {
		if exportWorkers < 0 {
			return fmt.Errorf("--workers must not be negative")
		}
		env.cfg.Workers = exportWorkers
	}
	return nil
}

// printExportReport prints diagnostics followed by a summary
func printExportReport(env *environment, report *exportReport, exportPath string) {
	printDiagnostics(env, report.Diagnostics)

	info := color.New(color.FgCyan)
	info.Fprintf(env.out, "Resolved %d module(s) in %dms", report.Modules, report.DurationMS)
	if report.CacheHits > 0 {
		fmt.Fprintf(env.out, " (%d unchanged)", report.CacheHits)
	}
	fmt.Fprintln(env.out)

	if len(report.Removed) > 0 {
		info.Fprintf(env.out, "Removed %d stale record(s)\n", len(report.Removed))
	}
	if report.Index != "" {
		info.Fprintf(env.out, "Index written to %s\n", report.Index)
	}

	msg := fmt.Sprintf("Exported %d record(s) to %s (%d written, %d unchanged)",
		report.Records, exportPath, report.Written, report.Unchanged)
	if report.Failed > 0 {
		fmt.Fprint(env.out, ui.ExportError(msg, report.Failed, globalNoColor))
		return
	}
	ui.WriteSuccess(env.out, msg, globalNoColor)
}

// printDiagnostics prints every diagnostic, errors first
func printDiagnostics(env *environment, list errors.List) {
	for _, d := range append(list.Errors(), list.Warnings()...) {
		fmt.Fprintln(env.out, ui.FormatDiagnostic(d, globalNoColor))
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
