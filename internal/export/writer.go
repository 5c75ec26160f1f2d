// Package export writes catalog records to the export directory, one file
// per record at <dir>/<type>/<id>.<ext>.
package export

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spraakbanken/sbxmeta/internal/compiler/codegen"
)

// Header starts every exported YAML file
const Header = "# This file was automatically generated by sbxmeta. Do not make changes directly to this file as\n" +
	"# they will get overwritten.\n\n"

// Summary counts what a write pass did
type Summary struct {
	Written   int
	Unchanged int
	Removed   int
	Paths     []string
}

// Writer writes records to an export directory
type Writer struct {
	fs      afero.Fs
	dir     string
	format  codegen.Format
	logger  *zap.Logger
	maxJobs int
}

// NewWriter creates a writer. A nil logger disables logging.
func NewWriter(fs afero.Fs, dir string, format codegen.Format, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if format == "" {
		format = codegen.FormatYAML
	}
	return &Writer{fs: fs, dir: dir, format: format, logger: logger, maxJobs: 8}
}

// Path returns the destination of a record
func (w *Writer) Path(r *codegen.Record) string {
	return w.PathFor(r.Type, r.ID)
}

// PathFor returns the destination of a record of type typ
func (w *Writer) PathFor(typ, id string) string {
	return filepath.Join(w.dir, typ, id+w.format.Extension())
}

// Render returns the file contents for a record
func (w *Writer) Render(id string, v interface{}) ([]byte, error) {
	data, err := codegen.Marshal(v, w.format)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", id, err)
	}
	if w.format == codegen.FormatYAML {
		data = append([]byte(Header), data...)
	}
	return data, nil
}

// Write writes one record. Files whose contents would not change are left
// untouched; changed reports whether the file was written.
func (w *Writer) Write(r *codegen.Record) (path string, changed bool, err error) {
	return w.WriteValue(r.Type, r.ID, r)
}

// WriteValue serializes v to the path of a record of type typ
func (w *Writer) WriteValue(typ, id string, v interface{}) (path string, changed bool, err error) {
	if err := checkID(id); err != nil {
		return "", false, err
	}

	path = w.PathFor(typ, id)
	data, err := w.Render(id, v)
	if err != nil {
		return "", false, err
	}

	if existing, err := afero.ReadFile(w.fs, path); err == nil && bytes.Equal(existing, data) {
		return path, false, nil
	}

	if err := w.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", false, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := afero.WriteFile(w.fs, path, data, 0o644); err != nil {
		return "", false, fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.logger.Debug("record written", zap.String("path", path))
	return path, true, nil
}

// WriteAll writes records in parallel. Paths are disjoint by id, so writes
// never collide. The first error stops the pass.
func (w *Writer) WriteAll(ctx context.Context, records []*codegen.Record) (*Summary, error) {
	summary := &Summary{Paths: make([]string, len(records))}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.maxJobs)

	for i, r := range records {
		i, r := i, r
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, changed, err := w.Write(r)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			summary.Paths[i] = path
			if changed {
				summary.Written++
			} else {
				summary.Unchanged++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}

// Prune removes exported files in the given type directories that are not
// in keep. It returns the removed paths, sorted.
func (w *Writer) Prune(types []string, keep []string) ([]string, error) {
	kept := make(map[string]bool, len(keep))
	for _, p := range keep {
		kept[filepath.Clean(p)] = true
	}

	var removed []string
	for _, typ := range types {
		dir := filepath.Join(w.dir, typ)
		entries, err := afero.ReadDir(w.fs, dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != w.format.Extension() {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			if kept[path] {
				continue
			}
			if err := w.fs.Remove(path); err != nil {
				return removed, fmt.Errorf("failed to remove %s: %w", path, err)
			}
			w.logger.Debug("stale record removed", zap.String("path", path))
			removed = append(removed, path)
		}
	}

	sort.Strings(removed)
	return removed, nil
}

// checkID rejects ids that would escape their type directory
func checkID(id string) error {
	if id == "" {
		return fmt.Errorf("record has no id")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("record id %q is not a valid file name", id)
	}
	return nil
}
