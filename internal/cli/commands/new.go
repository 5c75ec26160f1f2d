package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/spraakbanken/sbxmeta/internal/cli/ui"
	"github.com/spraakbanken/sbxmeta/internal/compiler/ast"
	"github.com/spraakbanken/sbxmeta/internal/compiler/codegen"
	"github.com/spraakbanken/sbxmeta/internal/compiler/identifier"
	"github.com/spraakbanken/sbxmeta/internal/compiler/lexer"
	"github.com/spraakbanken/sbxmeta/internal/compiler/parser"
	strutil "github.com/spraakbanken/sbxmeta/internal/util/strings"
	"github.com/spraakbanken/sbxmeta/internal/utils"
)

// DefaultOrganization is the organization segment of new identifiers
const DefaultOrganization = "sbx"

var (
	newInteractive bool
	newPlugin      bool
	newOptions     sectionOptions
)

// sectionOptions describes the section to scaffold
type sectionOptions struct {
	Organization string
	Language     string
	Task         string
	Tool         string
	Model        string
	Type         string
	Parent       string
	Description  string
	Handler      string
}

// sectionTemplate is the scaffolded section in field order
type sectionTemplate struct {
	ID               string            `yaml:"id"`
	Parent           string            `yaml:"parent,omitempty"`
	Type             string            `yaml:"type"`
	Name             map[string]string `yaml:"name"`
	ShortDescription map[string]string `yaml:"short_description"`
	Annotations      []string          `yaml:"annotations,omitempty"`
	SparvHandler     string            `yaml:"sparv_handler,omitempty"`
	ExampleOutput    string            `yaml:"example_output,omitempty"`
}

// NewNewCommand creates the new command
func NewNewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new <module>",
		Short: "Add a section to a module's description file",
		Long: `Add a new analysis or utility section to <modules_dir>/<module>/metadata.yaml,
creating the file if needed.

The identifier is built from the organization, language, task, tool and
optional model; free-form names are turned into identifier segments, so
"Part of speech" becomes part_of_speech. Missing values are asked for with
--interactive.`,
		Example: `  sbxmeta new stanza --language swe --task pos --tool stanza
  sbxmeta new xml_import --type utility --language mul --task import --tool xml --handler sparv.modules.xml_import:parse
  sbxmeta new stanza --interactive`,
		Args: cobra.ExactArgs(1),
		RunE: runNew,
	}

	flags := cmd.Flags()
	flags.BoolVarP(&newInteractive, "interactive", "i", false, "Ask for missing values")
	flags.BoolVar(&newPlugin, "plugin", false, "Create the section in the plugins directory")
	flags.StringVar(&newOptions.Organization, "organization", DefaultOrganization, "Organization segment")
	flags.StringVarP(&newOptions.Language, "language", "l", "", "ISO 639-3 language code, mul or zxx")
	flags.StringVarP(&newOptions.Task, "task", "t", "", "Task, e.g. pos or \"named entity recognition\"")
	flags.StringVar(&newOptions.Tool, "tool", "", "Tool name")
	flags.StringVarP(&newOptions.Model, "model", "m", "", "Optional model or tagset")
	flags.StringVar(&newOptions.Type, "type", ast.TypeAnalysis, "analysis or utility")
	flags.StringVarP(&newOptions.Parent, "parent", "p", "", "Parent section id")
	flags.StringVarP(&newOptions.Description, "description", "d", "", "English short description")
	flags.StringVar(&newOptions.Handler, "handler", "", "Sparv handler of a utility")

	return cmd
}

func runNew(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	opts := newOptions
	if newInteractive {
		if err := askSectionOptions(&opts); err != nil {
			return err
		}
	}

	root := env.cfg.Path(env.cfg.ModulesDir)
	if newPlugin {
		root = env.cfg.Path(env.cfg.PluginsDir)
	}
	path := filepath.Join(root, args[0], utils.MetadataFileName)

	id, err := scaffoldSection(env.fs, path, opts)
	if err != nil {
		return err
	}

	ui.WriteSuccess(env.out, fmt.Sprintf("Added %s to %s", id, path), globalNoColor)
	return nil
}

// askSectionOptions prompts for every value that is still missing
func askSectionOptions(opts *sectionOptions) error {
	questions := []*survey.Question{}
	if opts.Language == "" {
		questions = append(questions, &survey.Question{
			Name:   "Language",
			Prompt: &survey.Input{Message: "Language code (ISO 639-3):", Default: "swe"},
			Validate: func(ans interface{}) error {
				if s, _ := ans.(string); !identifier.ValidLanguage(s) {
					return fmt.Errorf("'%v' is not a known language code", ans)
				}
				return nil
			},
		})
	}
	if opts.Task == "" {
		questions = append(questions, &survey.Question{
			Name:     "Task",
			Prompt:   &survey.Input{Message: "Task:"},
			Validate: survey.Required,
		})
	}
	if opts.Tool == "" {
		questions = append(questions, &survey.Question{
			Name:     "Tool",
			Prompt:   &survey.Input{Message: "Tool:"},
			Validate: survey.Required,
		})
	}
	if opts.Description == "" {
		questions = append(questions, &survey.Question{
			Name:   "Description",
			Prompt: &survey.Input{Message: "Short description (English):"},
		})
	}
	if len(questions) > 0 {
		if err := survey.Ask(questions, opts); err != nil {
			return err
		}
	}

	if opts.Type == "" {
		if err := survey.AskOne(&survey.Select{
			Message: "Type:",
			Options: []string{ast.TypeAnalysis, ast.TypeUtility},
			Default: ast.TypeAnalysis,
		}, &opts.Type); err != nil {
			return err
		}
	}
	return nil
}

// sectionID builds the identifier of a new section
func sectionID(opts sectionOptions) string {
	segments := []string{
		opts.Organization,
		opts.Language,
		strutil.ToIDSegment(opts.Task),
		strutil.ToIDSegment(opts.Tool),
	}
	if opts.Model != "" {
		segments = append(segments, strutil.ToIDSegment(opts.Model))
	}
	return strings.Join(segments, identifier.Separator)
}

// scaffoldSection appends a new section to the description file at path
// and returns its id. The id must be valid and unused in the file.
func scaffoldSection(fs afero.Fs, path string, opts sectionOptions) (string, error) {
	if opts.Type != ast.TypeAnalysis && opts.Type != ast.TypeUtility {
		return "", fmt.Errorf("type must be %s or %s, got: %s", ast.TypeAnalysis, ast.TypeUtility, opts.Type)
	}

	id := sectionID(opts)
	if err := identifier.Validate(id); err != nil {
		return "", err
	}

	existing, err := afero.ReadFile(fs, path)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	sections, _ := parser.ParseSource(path, existing)
	for _, s := range sections {
		if s.ID == id {
			return "", fmt.Errorf("%s already has a section with the id '%s'", path, id)
		}
	}

	section := sectionTemplate{
		ID:               id,
		Parent:           opts.Parent,
		Type:             opts.Type,
		Name:             map[string]string{"eng": opts.Tool, "swe": opts.Tool},
		ShortDescription: map[string]string{"eng": opts.Description, "swe": ""},
	}
	if opts.Type == ast.TypeAnalysis {
		section.Annotations = []string{"<token>:" + filepath.Base(filepath.Dir(path)) + "." + strutil.ToIDSegment(opts.Task)}
		section.ExampleOutput = "<token>...</token>"
	} else {
		section.SparvHandler = opts.Handler
	}

	data, err := codegen.MarshalYAML(section)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.Write(existing)
	if len(bytes.TrimSpace(existing)) > 0 {
		if !bytes.HasSuffix(existing, []byte("\n")) {
			buf.WriteString("\n")
		}
		buf.WriteString(lexer.SectionSeparator + "\n")
	}
	buf.Write(data)

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return id, nil
}
