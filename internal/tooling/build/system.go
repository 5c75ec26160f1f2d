// Package build coordinates metadata resolution across modules. Each
// module's description file is loaded, resolved and turned into records
// independently; files are processed in parallel and results are kept in
// discovery order.
package build

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spraakbanken/sbxmeta/internal/compiler/codegen"
	"github.com/spraakbanken/sbxmeta/internal/compiler/errors"
	"github.com/spraakbanken/sbxmeta/internal/docs"
	"github.com/spraakbanken/sbxmeta/internal/utils"
)

// BuildOptions configures the build process
type BuildOptions struct {
	Defaults     codegen.Defaults
	UsageGuide   bool
	MaxJobs      int
	UseCache     bool
	Logger       *zap.Logger
	ProgressFunc func(current, total int, module string)
}

// DefaultBuildOptions returns sensible defaults
func DefaultBuildOptions() *BuildOptions {
	return &BuildOptions{
		Defaults: codegen.DefaultDefaults(),
		MaxJobs:  runtime.NumCPU(),
		UseCache: true,
		Logger:   zap.NewNop(),
	}
}

// ModuleResult is the outcome of one description file
type ModuleResult struct {
	Module      utils.Module
	Hash        string
	Sections    int
	Records     []*codegen.Record
	Diagnostics errors.List
	Cached      bool
}

// Failed returns the number of sections that produced an error
func (r *ModuleResult) Failed() int {
	seen := make(map[int]bool)
	for _, d := range r.Diagnostics {
		if d.IsError() {
			seen[d.Location.Section] = true
		}
	}
	return len(seen)
}

// BuildResult contains information about the build
type BuildResult struct {
	Modules   []*ModuleResult
	Duration  time.Duration
	CacheHits int
}

// Records returns all records in discovery order
func (r *BuildResult) Records() []*codegen.Record {
	var records []*codegen.Record
	for _, m := range r.Modules {
		records = append(records, m.Records...)
	}
	return records
}

// Diagnostics returns all diagnostics in discovery order
func (r *BuildResult) Diagnostics() errors.List {
	var all errors.List
	for _, m := range r.Modules {
		all = append(all, m.Diagnostics...)
	}
	return all
}

// Failed returns the number of failed sections across all modules
func (r *BuildResult) Failed() int {
	failed := 0
	for _, m := range r.Modules {
		failed += m.Failed()
	}
	return failed
}

// Success reports whether every section resolved
func (r *BuildResult) Success() bool {
	return !r.Diagnostics().HasErrors()
}

// System coordinates the build.
// Thread-safety: Build may not be called concurrently on the same System;
// the cache has its own synchronization.
type System struct {
	fs       afero.Fs
	options  *BuildOptions
	cache    *Cache
	examples *docs.ExampleGenerator
	emitter  *codegen.Emitter
}

// NewSystem creates a new build system reading from fs
func NewSystem(fs afero.Fs, opts *BuildOptions) *System {
	if opts == nil {
		opts = DefaultBuildOptions()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxJobs <= 0 {
		opts.MaxJobs = runtime.NumCPU()
	}

	return &System{
		fs:       fs,
		options:  opts,
		cache:    NewCache(),
		examples: docs.NewExampleGenerator(opts.UsageGuide),
		emitter:  codegen.NewEmitter(opts.Defaults),
	}
}

// Build resolves every module. The returned error is reserved for I/O
// failures and cancellation; section failures are reported in the result.
func (s *System) Build(ctx context.Context, modules []utils.Module) (*BuildResult, error) {
	start := time.Now()

	results := make([]*ModuleResult, len(modules))
	completed := make(chan string, len(modules))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.options.MaxJobs)

	for i, m := range modules {
		i, m := i, m
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := s.compileModule(m)
			if err != nil {
				return err
			}
			results[i] = res
			completed <- m.Name
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		n := 0
		for name := range completed {
			n++
			if s.options.ProgressFunc != nil {
				s.options.ProgressFunc(n, len(modules), name)
			}
		}
	}()

	err := g.Wait()
	close(completed)
	<-done
	if err != nil {
		return nil, err
	}

	result := &BuildResult{Modules: results, Duration: time.Since(start)}
	for _, r := range results {
		if r.Cached {
			result.CacheHits++
		}
	}

	s.options.Logger.Debug("build finished",
		zap.Int("modules", len(modules)),
		zap.Int("records", len(result.Records())),
		zap.Int("failed_sections", result.Failed()),
		zap.Int("cache_hits", result.CacheHits),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// compileModule reads and resolves one module, consulting the cache
func (s *System) compileModule(m utils.Module) (*ModuleResult, error) {
	source, err := afero.ReadFile(s.fs, m.MetadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", m.MetadataPath, err)
	}

	var registrySource []byte
	if m.RegistryPath != "" {
		registrySource, err = afero.ReadFile(s.fs, m.RegistryPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", m.RegistryPath, err)
		}
	}

	hash := HashSources(source, registrySource)
	if s.options.UseCache {
		if cached, ok := s.cache.Get(m.MetadataPath, hash); ok {
			s.options.Logger.Debug("module unchanged", zap.String("module", m.Name))
			hit := *cached
			hit.Cached = true
			return &hit, nil
		}
	}

	res, err := s.CompileSource(m, source, registrySource)
	if err != nil {
		return nil, err
	}
	res.Hash = hash

	if s.options.UseCache {
		s.cache.Put(m.MetadataPath, hash, res)
	}

	s.options.Logger.Debug("module resolved",
		zap.String("module", m.Name),
		zap.Int("sections", res.Sections),
		zap.Int("records", len(res.Records)),
		zap.Int("diagnostics", len(res.Diagnostics)),
	)
	return res, nil
}

// Invalidate drops cached results for the given description files
func (s *System) Invalidate(paths ...string) {
	for _, p := range paths {
		s.cache.Delete(p)
	}
}
