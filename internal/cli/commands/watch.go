package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spraakbanken/sbxmeta/internal/cli/ui"
	"github.com/spraakbanken/sbxmeta/internal/export"
	"github.com/spraakbanken/sbxmeta/internal/tooling/build"
	"github.com/spraakbanken/sbxmeta/internal/utils"
	"github.com/spraakbanken/sbxmeta/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Export, then re-export whenever a description file changes",
		Long: `Run a full export and keep watching every module directory. When a
metadata.yaml or annotations.yaml changes, the affected modules are resolved
again and their records rewritten. Unchanged modules are served from memory.

Press Ctrl+C to stop.`,
		RunE: runWatch,
	}

	cmd.Flags().StringVarP(&exportDir, "export-dir", "o", "", "Export directory (default from config)")
	cmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Record format: yaml or json (default from config)")
	cmd.Flags().BoolVar(&exportUsageGuide, "usage-guide", false, "Generate Sparv usage guides as examples")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment(cmd)
	if err != nil {
		return err
	}
	defer env.close()

	if err := applyExportFlags(cmd, env); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	system := build.NewSystem(env.fs, env.buildOptions())
	writer := export.NewWriter(env.fs, env.cfg.Path(env.cfg.ExportDir), env.cfg.OutputFormat(), env.logger)
	rebuilder := watch.NewRebuilder(system, writer, func() ([]utils.Module, error) {
		return env.modules()
	}, env.logger)

	watcher, err := watch.NewFileWatcher(nil, env.logger)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	run := func(changed []string) error {
		result, err := rebuilder.Rebuild(ctx, changed)
		if err != nil {
			fmt.Fprint(env.out, ui.FormatError(ui.ErrorOptions{
				Level:   ui.ErrorLevelError,
				Context: "EXPORT FAILED",
				Problem: err.Error(),
				NoColor: globalNoColor,
			}))
			return err
		}
		printWatchResult(env, result)
		return watcher.Watch(rebuilder.Dirs()...)
	}
	watcher.OnChange(run)

	if err := run(nil); err != nil {
		return err
	}
	watcher.Start()

	banner := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(env.out)
	banner.Fprintf(env.out, "Watching %d module(s)\n", len(rebuilder.Modules()))
	color.New(color.FgYellow).Fprintln(env.out, "Press Ctrl+C to stop")

	<-ctx.Done()
	fmt.Fprintln(env.out, "\nShutting down...")
	env.logger.Debug("watch stopped", zap.Error(ctx.Err()))
	return nil
}

// printWatchResult prints one rebuild
func printWatchResult(env *environment, result *watch.Result) {
	printDiagnostics(env, result.Build.Diagnostics().Errors())

	stamp := time.Now().Format("15:04:05")
	msg := fmt.Sprintf("[%s] %d record(s), %d written in %dms",
		stamp, len(result.Export.Paths), result.Export.Written, result.Duration.Milliseconds())
	if failed := result.Build.Failed(); failed > 0 {
		fmt.Fprint(env.out, ui.Warning(fmt.Sprintf("%s, %d section(s) failed", msg, failed), nil, globalNoColor))
		return
	}
	ui.WriteSuccess(env.out, msg, globalNoColor)
}
