package commands

import (
	"context"
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

var (
	globalConfig  string
	globalVerbose bool
	globalNoColor bool
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sbxmeta",
		Short: "Resolve and export analysis and utility metadata",
		Long: color.CyanString(`sbxmeta - metadata catalog exporter

sbxmeta reads the metadata.yaml description files of annotation modules and
plugins, resolves inheritance between sections, infers analysis units,
generates usage examples and writes one catalog record per analysis or
utility.

Records are written to <export_dir>/analysis/<id>.yaml and
<export_dir>/utility/<id>.yaml.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if globalNoColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&globalConfig, "config", "", "Config file (default: sbxmeta.yaml in the working directory or a parent)")
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "Log every step")
	rootCmd.PersistentFlags().BoolVar(&globalNoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewIDCommand())
	rootCmd.AddCommand(NewCorpusCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewNewCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the sbxmeta version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			out := cmd.OutOrStdout()
			titleColor := color.New(color.FgCyan, color.Bold)

			titleColor.Fprint(out, "sbxmeta version: ")
			fmt.Fprintln(out, Version)
			titleColor.Fprint(out, "Git commit: ")
			fmt.Fprintln(out, GitCommit)
			titleColor.Fprint(out, "Build date: ")
			fmt.Fprintln(out, BuildDate)
			titleColor.Fprint(out, "Go version: ")
			fmt.Fprintln(out, goVer)
		},
	}
}

// Execute runs the root command. Cancelling ctx stops running exports and
// the watch loop.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
