package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spraakbanken/sbxmeta/internal/export"
	"github.com/spraakbanken/sbxmeta/internal/tooling/build"
	"github.com/spraakbanken/sbxmeta/internal/utils"
)

// Result describes one export run
type Result struct {
	Build    *build.BuildResult
	Export   *export.Summary
	Changed  []string
	Duration time.Duration
}

// Rebuilder re-runs discovery, resolution and export. Modules whose
// description files did not change are served from the build cache.
type Rebuilder struct {
	system   *build.System
	writer   *export.Writer
	discover func() ([]utils.Module, error)
	logger   *zap.Logger

	mu      sync.Mutex
	modules []utils.Module
}

// NewRebuilder creates a rebuilder. discover is called on every run so new
// modules are picked up.
func NewRebuilder(system *build.System, writer *export.Writer, discover func() ([]utils.Module, error), logger *zap.Logger) *Rebuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rebuilder{system: system, writer: writer, discover: discover, logger: logger}
}

// Modules returns the modules found by the last run
func (r *Rebuilder) Modules() []utils.Module {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modules
}

// Dirs returns the directories of the modules found by the last run
func (r *Rebuilder) Dirs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	dirs := make([]string, 0, len(r.modules))
	for _, m := range r.modules {
		dirs = append(dirs, m.Dir)
	}
	return dirs
}

// Rebuild invalidates the modules owning the changed files and exports all
// records. Section failures are part of the result, not an error. Runs are
// serialized.
func (r *Rebuilder) Rebuild(ctx context.Context, changed []string) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()

	for _, path := range changed {
		r.system.Invalidate(MetadataPathFor(path))
	}

	modules, err := r.discover()
	if err != nil {
		return nil, fmt.Errorf("failed to discover modules: %w", err)
	}
	r.modules = modules

	res, err := r.system.Build(ctx, modules)
	if err != nil {
		return nil, err
	}

	summary, err := r.writer.WriteAll(ctx, res.Records())
	if err != nil {
		return nil, err
	}

	result := &Result{
		Build:    res,
		Export:   summary,
		Changed:  changed,
		Duration: time.Since(start),
	}

	r.logger.Info("export finished",
		zap.Int("modules", len(modules)),
		zap.Int("cache_hits", res.CacheHits),
		zap.Int("written", summary.Written),
		zap.Int("failed", res.Failed()),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// MetadataPathFor returns the description file of the module a changed file
// belongs to
func MetadataPathFor(path string) string {
	if filepath.Base(path) == utils.MetadataFileName {
		return path
	}
	return filepath.Join(filepath.Dir(path), utils.MetadataFileName)
}
