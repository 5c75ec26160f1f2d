package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spraakbanken/sbxmeta/internal/cli/config"
	"github.com/spraakbanken/sbxmeta/internal/cli/ui"
	"github.com/spraakbanken/sbxmeta/internal/tooling/build"
	strutil "github.com/spraakbanken/sbxmeta/internal/util/strings"
	"github.com/spraakbanken/sbxmeta/internal/utils"
)

// environment is what every command needs: configuration, logger and the
// file system to work on
type environment struct {
	cfg    *config.Config
	logger *zap.Logger
	fs     afero.Fs
	out    io.Writer
	errOut io.Writer
}

// loadEnvironment reads the configuration and builds the logger
func loadEnvironment(cmd *cobra.Command) (*environment, error) {
	cfg, err := config.Load(globalConfig)
	if err != nil {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError(err.Error(), nil, globalNoColor))
		return nil, err
	}

	logger, err := newLogger(globalVerbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &environment{
		cfg:    cfg,
		logger: logger,
		fs:     afero.NewOsFs(),
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
	}, nil
}

// newLogger returns a development logger when verbose, otherwise a JSON
// logger that only reports warnings and errors
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Sampling = nil
	return cfg.Build()
}

// close flushes the logger
func (e *environment) close() {
	_ = e.logger.Sync()
}

// modules discovers the modules and plugins of the project
func (e *environment) modules() ([]utils.Module, error) {
	return utils.FindModules(e.fs, e.cfg.Path(e.cfg.ModulesDir), e.cfg.Path(e.cfg.PluginsDir))
}

// modulesFor resolves command line arguments to modules. Arguments may name
// description files, module directories or module names; no arguments
// selects every module.
func (e *environment) modulesFor(args []string) ([]utils.Module, error) {
	all, err := e.modules()
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return all, nil
	}

	byName := make(map[string]utils.Module, len(all))
	names := make([]string, 0, len(all))
	for _, m := range all {
		byName[m.Name] = m
		names = append(names, m.Name)
	}

	var selected []utils.Module
	for _, arg := range args {
		if m, ok := byName[arg]; ok {
			selected = append(selected, m)
			continue
		}

		info, err := e.fs.Stat(arg)
		if err != nil {
			suggestions := strutil.FindSimilar(arg, names, nil)
			fmt.Fprint(e.errOut, ui.ModuleNotFoundError(arg, suggestions, globalNoColor))
			return nil, fmt.Errorf("module or file '%s' not found", arg)
		}
		if info.IsDir() {
			m, ok, err := utils.ModuleAt(e.fs, filepath.Clean(arg), e.isPlugin(arg))
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("%s has no %s", arg, utils.MetadataFileName)
			}
			selected = append(selected, m)
			continue
		}

		m, err := utils.ModuleForFile(e.fs, arg, e.isPlugin(arg))
		if err != nil {
			return nil, err
		}
		selected = append(selected, m)
	}
	return selected, nil
}

// isPlugin reports whether path lies below the plugins directory
func (e *environment) isPlugin(path string) bool {
	plugins, err := filepath.Abs(e.cfg.Path(e.cfg.PluginsDir))
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(plugins, abs)
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}

// buildOptions returns the build options for the configuration
func (e *environment) buildOptions() *build.BuildOptions {
	opts := build.DefaultBuildOptions()
	opts.Defaults = e.cfg.RecordDefaults()
	opts.UsageGuide = e.cfg.UsageGuide
	if e.cfg.Workers > 0 {
		opts.MaxJobs = e.cfg.Workers
	}
	opts.Logger = e.logger
	return opts
}

// commandContext returns the command's context. main cancels it on
// interrupt.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
