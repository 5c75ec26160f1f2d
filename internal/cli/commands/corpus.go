package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spraakbanken/sbxmeta/internal/cli/ui"
	"github.com/spraakbanken/sbxmeta/internal/corpus"
	"github.com/spraakbanken/sbxmeta/internal/export"
)

var (
	corpusExportDir string
	corpusTokens    int
	corpusSentences int
	corpusJSON      bool
)

// NewCorpusCommand creates the corpus command
func NewCorpusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus [config]",
		Short: "Write the catalog record of a corpus",
		Long: `Read the metadata and sbx_metadata sections of a corpus configuration and
write its catalog record to <export_dir>/corpus/<id>.yaml.

The record lists the standard XML and statistics downloads and the Korp
interface according to the configuration, followed by any configured
downloads and interfaces.`,
		Example: `  # Use the corpus configuration named in sbxmeta.yaml
  sbxmeta corpus

  # Explicit configuration and corpus size
  sbxmeta corpus corpora/attasidor/config.yaml --tokens 1200000 --sentences 80000`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCorpus,
	}

	cmd.Flags().StringVarP(&corpusExportDir, "export-dir", "o", "", "Export directory (default from config)")
	cmd.Flags().IntVar(&corpusTokens, "tokens", 0, "Number of tokens in the corpus")
	cmd.Flags().IntVar(&corpusSentences, "sentences", 0, "Number of sentences in the corpus")
	cmd.Flags().BoolVar(&corpusJSON, "json", false, "Print the record as JSON instead of writing it")

	return cmd
}

func runCorpus(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	path := env.cfg.Path(env.cfg.Corpus.Config)
	if len(args) == 1 {
		path = args[0]
	}

	cfg, err := corpus.LoadConfig(env.fs, path)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("tokens") {
		cfg.SBXMetadata.Size.Tokens = corpusTokens
	}
	if cmd.Flags().Changed("sentences") {
		cfg.SBXMetadata.Size.Sentences = corpusSentences
	}

	record, warnings, err := corpus.NewBuilder(env.logger).Build(cfg)
	if err != nil {
		return err
	}
	printDiagnostics(env, warnings)

	if corpusJSON {
		return writeJSON(env.out, record)
	}

	dir := env.cfg.Path(env.cfg.ExportDir)
	if cmd.Flags().Changed("export-dir") {
		dir = corpusExportDir
	}

	writer := export.NewWriter(env.fs, dir, env.cfg.OutputFormat(), env.logger)
	out, changed, err := writer.WriteValue(corpus.Type, record.ID, record)
	if err != nil {
		return err
	}
	env.logger.Debug("corpus record", zap.String("path", out), zap.Bool("changed", changed))

	msg := fmt.Sprintf("Exported %s", out)
	if !changed {
		msg = fmt.Sprintf("%s is up to date", out)
	}
	ui.WriteSuccess(env.out, msg, globalNoColor)
	return nil
}
