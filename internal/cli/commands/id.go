package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spraakbanken/sbxmeta/internal/cli/ui"
	"github.com/spraakbanken/sbxmeta/internal/compiler/errors"
	"github.com/spraakbanken/sbxmeta/internal/compiler/identifier"
)

var idJSON bool

// idReport is the JSON form of one decomposed identifier
type idReport struct {
	ID           string                `json:"id"`
	Valid        bool                  `json:"valid"`
	ParentOnly   bool                  `json:"parent_only,omitempty"`
	Organization string                `json:"organization,omitempty"`
	Language     string                `json:"language,omitempty"`
	LanguageName string                `json:"language_name,omitempty"`
	Task         string                `json:"task,omitempty"`
	Tool         string                `json:"tool,omitempty"`
	Model        string                `json:"model,omitempty"`
	Error        *errors.MetadataError `json:"error,omitempty"`
}

// NewIDCommand creates the id command
func NewIDCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "id <id>...",
		Short: "Decompose and validate identifiers",
		Long: `Split identifiers into organization, language, task, tool and optional
model segments and validate them.

An identifier has four or five '-'-separated segments, e.g.
sbx-swe-tokenization-sparv-linebreaks. Identifiers ending in -parent name
abstract sections and are not checked.`,
		Example: `  sbxmeta id sbx-swe-pos-stanza sbx-eng-ner-spacy-lg`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    runID,
	}

	cmd.Flags().BoolVar(&idJSON, "json", false, "Output as JSON")

	return cmd
}

func runID(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	reports := make([]idReport, 0, len(args))
	invalid := 0
	for _, id := range args {
		r := describeID(id)
		if !r.Valid {
			invalid++
		}
		reports = append(reports, r)
	}

	if idJSON {
		if err := writeJSON(out, reports); err != nil {
			return err
		}
	} else {
		for i, r := range reports {
			if i > 0 {
				fmt.Fprintln(out)
			}
			printID(cmd, r)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d invalid identifier(s)", invalid)
	}
	return nil
}

// describeID decomposes one identifier
func describeID(id string) idReport {
	r := idReport{ID: id, ParentOnly: identifier.IsParentOnly(id)}
	if r.ParentOnly {
		r.Valid = true
		return r
	}

	ident, err := identifier.Parse(id)
	if err != nil {
		r.Error, _ = errors.As(err)
		return r
	}

	r.Valid = true
	r.Organization = ident.Organization
	r.Language = ident.Language
	r.LanguageName = ident.LanguageName()
	r.Task = ident.Task
	r.Tool = ident.Tool
	r.Model = ident.Model
	return r
}

func printID(cmd *cobra.Command, r idReport) {
	out := cmd.OutOrStdout()
	ui.Header(out, r.ID, globalNoColor)

	if r.Error != nil {
		ui.WriteError(out, ui.ErrorOptions{
			Level:   ui.ErrorLevelError,
			Context: string(r.Error.Code),
			Problem: r.Error.Message,
			NoColor: globalNoColor,
		})
		return
	}
	if r.ParentOnly {
		fmt.Fprint(out, ui.Info("Parent-only identifier; segment rules do not apply", globalNoColor))
		return
	}

	table := ui.NewKeyValueTable(out, globalNoColor)
	table.AddRow("organization", r.Organization)
	table.AddRow("language", fmt.Sprintf("%s (%s)", r.Language, r.LanguageName))
	table.AddRow("task", r.Task)
	table.AddRow("tool", r.Tool)
	if r.Model != "" {
		table.AddRow("model", r.Model)
	}
	table.Render()
}
