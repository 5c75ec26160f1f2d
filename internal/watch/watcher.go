// Package watch re-runs the export when description files change.
package watch

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/spraakbanken/sbxmeta/internal/utils"
)

// DefaultDelay is how long the watcher waits for changes to settle
const DefaultDelay = 100 * time.Millisecond

// FileWatcher monitors module directories and reports changed description
// files
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	names     map[string]bool
	onChange  func([]string) error
	logger    *zap.Logger
	stopChan  chan struct{}
	wg        sync.WaitGroup

	mu      sync.Mutex
	watched map[string]bool
}

// NewFileWatcher creates a watcher for metadata.yaml and annotations.yaml
// files. onChange receives the changed paths, sorted; it may be nil and set
// later with OnChange.
func NewFileWatcher(onChange func([]string) error, logger *zap.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fw := &FileWatcher{
		watcher:   watcher,
		debouncer: NewDebouncer(DefaultDelay),
		names: map[string]bool{
			utils.MetadataFileName: true,
			utils.RegistryFileName: true,
		},
		onChange: onChange,
		logger:   logger,
		stopChan: make(chan struct{}),
		watched:  make(map[string]bool),
	}

	fw.debouncer.SetCallback(func(files []string) {
		fw.mu.Lock()
		onChange := fw.onChange
		fw.mu.Unlock()
		if onChange == nil {
			return
		}
		if err := onChange(files); err != nil {
			fw.logger.Error("error handling file changes", zap.Error(err))
		}
	})

	return fw, nil
}

// OnChange replaces the change handler
func (fw *FileWatcher) OnChange(onChange func([]string) error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.onChange = onChange
}

// Watch adds directories to the watch list. Directories already watched are
// skipped.
func (fw *FileWatcher) Watch(dirs ...string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, dir := range dirs {
		dir = filepath.Clean(dir)
		if fw.watched[dir] {
			continue
		}
		if err := fw.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		fw.watched[dir] = true
		fw.logger.Debug("watching directory", zap.String("dir", dir))
	}
	return nil
}

// Start begins watching in the background
func (fw *FileWatcher) Start() {
	fw.wg.Add(1)
	go fw.watch()
}

// Stop stops the file watcher
func (fw *FileWatcher) Stop() error {
	select {
	case <-fw.stopChan:
		return nil
	default:
		close(fw.stopChan)
	}

	fw.wg.Wait()
	fw.debouncer.Stop()
	return fw.watcher.Close()
}

// watch is the main event loop
func (fw *FileWatcher) watch() {
	defer fw.wg.Done()

	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.relevant(event) {
				continue
			}
			fw.logger.Debug("file changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			fw.debouncer.Add(event.Name)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("watch error", zap.Error(err))

		case <-fw.stopChan:
			return
		}
	}
}

// relevant reports whether an event concerns a description file. Removals
// count, so a deleted registry is noticed.
func (fw *FileWatcher) relevant(event fsnotify.Event) bool {
	if !fw.names[filepath.Base(event.Name)] {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// Debouncer collects file changes and triggers callbacks after a delay
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	files    map[string]struct{}
	mutex    sync.Mutex
	callback func([]string)
	stopped  bool

	// run serializes callbacks; Add never waits for it
	run sync.Mutex
}

// NewDebouncer creates a new debouncer instance
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
		files:    make(map[string]struct{}),
	}
}

// Add adds a file and restarts the delay
func (d *Debouncer) Add(file string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.stopped {
		return
	}

	d.files[file] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

// flush triggers the callback with accumulated files. Callbacks never
// overlap: a flush that fires while one is running waits for it.
func (d *Debouncer) flush() {
	d.run.Lock()
	defer d.run.Unlock()

	d.mutex.Lock()
	if len(d.files) == 0 || d.stopped {
		d.mutex.Unlock()
		return
	}

	files := make([]string, 0, len(d.files))
	for file := range d.files {
		files = append(files, file)
	}
	sort.Strings(files)
	d.files = make(map[string]struct{})
	callback := d.callback
	d.mutex.Unlock()

	if callback != nil {
		callback(files)
	}
}

// SetCallback sets the callback function
func (d *Debouncer) SetCallback(callback func([]string)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = callback
}

// Stop cancels a pending flush. Later additions are ignored.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.stopped = true
}
