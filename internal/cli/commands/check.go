package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/spraakbanken/sbxmeta/internal/cli/ui"
	"github.com/spraakbanken/sbxmeta/internal/compiler/errors"
	"github.com/spraakbanken/sbxmeta/internal/tooling/build"
)

var (
	checkJSON     bool
	checkWarnings bool
	checkDetails  bool
)

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [module|dir|file...]",
		Short: "Resolve description files without writing records",
		Long: `Resolve description files and report every failed section with its id
(or section index), diagnostic code and rule. Nothing is written.

Without arguments every module and plugin is checked.`,
		Example: `  # Check all modules
  sbxmeta check

  # Check one file and show warnings too
  sbxmeta check modules/stanza/metadata.yaml --warnings

  # Diagnostics as JSON for editors and CI
  sbxmeta check --json`,
		RunE: runCheck,
	}

	cmd.Flags().BoolVar(&checkJSON, "json", false, "Output diagnostics as JSON")
	cmd.Flags().BoolVarP(&checkWarnings, "warnings", "w", false, "Include warnings")
	cmd.Flags().BoolVarP(&checkDetails, "details", "d", false, "Show full diagnostics instead of a table")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	modules, err := env.modulesFor(args)
	if err != nil {
		return err
	}

	opts := env.buildOptions()
	opts.UseCache = false
	result, err := build.NewSystem(env.fs, opts).Build(commandContext(cmd), modules)
	if err != nil {
		return err
	}

	list := result.Diagnostics().Errors()
	if checkWarnings {
		list = append(list, result.Diagnostics().Warnings()...)
	}

	if checkJSON {
		out, err := list.ToJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(env.out, out)
	} else {
		printCheckReport(env, result, list)
	}

	if failed := result.Failed(); failed > 0 {
		return fmt.Errorf("%d section(s) failed", failed)
	}
	return nil
}

// printCheckReport prints the diagnostics as a table or in full, followed
// by a summary line
func printCheckReport(env *environment, result *build.BuildResult, list errors.List) {
	if checkDetails {
		printDiagnostics(env, list)
	} else if len(list) > 0 {
		table := ui.NewTable(env.out, []string{"File", "Section", "Code", "Message"}, &ui.TableOptions{NoColor: globalNoColor})
		for _, d := range list {
			table.AddRow(d.File, sectionName(d), string(d.Code), d.Message)
		}
		table.Render()
		fmt.Fprintln(env.out)
	}

	sections, records := 0, 0
	for _, m := range result.Modules {
		sections += m.Sections
		records += len(m.Records)
	}

	msg := fmt.Sprintf("%d module(s), %d section(s), %d record(s)", len(result.Modules), sections, records)
	if failed := result.Failed(); failed > 0 {
		ui.WriteError(env.out, ui.ErrorOptions{
			Level:   ui.ErrorLevelError,
			Problem: fmt.Sprintf("%s, %d failed", msg, failed),
			NoColor: globalNoColor,
		})
		return
	}
	ui.WriteSuccess(env.out, msg, globalNoColor)
}

// sectionName names a section by id, or by index when it has none
func sectionName(d *errors.MetadataError) string {
	if d.SectionID != "" {
		return d.SectionID
	}
	return "#" + strconv.Itoa(d.Location.Section)
}
