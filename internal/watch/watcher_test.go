package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spraakbanken/sbxmeta/internal/compiler/codegen"
	"github.com/spraakbanken/sbxmeta/internal/export"
	"github.com/spraakbanken/sbxmeta/internal/tooling/build"
	"github.com/spraakbanken/sbxmeta/internal/utils"
)

func TestFileWatcherReportsDescriptionFiles(t *testing.T) {
	dir := t.TempDir()
	metadata := filepath.Join(dir, utils.MetadataFileName)
	require.NoError(t, os.WriteFile(metadata, []byte("id: a\n"), 0o644))

	var mu sync.Mutex
	var changes [][]string

	watcher, err := NewFileWatcher(func(files []string) error {
		mu.Lock()
		defer mu.Unlock()
		changes = append(changes, files)
		return nil
	}, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	require.NoError(t, watcher.Watch(dir))
	watcher.Start()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(metadata, []byte("id: b\n"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(changes) > 0
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, batch := range changes {
		for _, f := range batch {
			assert.Equal(t, utils.MetadataFileName, filepath.Base(f))
		}
	}
}

func TestWatchSkipsKnownDirs(t *testing.T) {
	dir := t.TempDir()
	watcher, err := NewFileWatcher(func([]string) error { return nil }, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	require.NoError(t, watcher.Watch(dir, dir+"/"))
	assert.Len(t, watcher.watched, 1)
	assert.Error(t, watcher.Watch(filepath.Join(dir, "missing")))
}

func TestRelevant(t *testing.T) {
	watcher, err := NewFileWatcher(func([]string) error { return nil }, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"metadata write", fsnotify.Event{Name: "/m/stanza/metadata.yaml", Op: fsnotify.Write}, true},
		{"registry create", fsnotify.Event{Name: "/m/stanza/annotations.yaml", Op: fsnotify.Create}, true},
		{"registry removed", fsnotify.Event{Name: "/m/stanza/annotations.yaml", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "/m/stanza/metadata.yaml", Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: "/m/stanza/stanza.py", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, watcher.relevant(tt.event))
		})
	}
}

func TestDebouncerBatchesFiles(t *testing.T) {
	var mu sync.Mutex
	var batches [][]string

	d := NewDebouncer(50 * time.Millisecond)
	d.SetCallback(func(files []string) {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, files)
	})

	d.Add("b.yaml")
	d.Add("a.yaml")
	d.Add("b.yaml")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(batches) == 1
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"a.yaml", "b.yaml"}, batches[0])
	mu.Unlock()
}

func TestDebouncerStop(t *testing.T) {
	called := make(chan struct{}, 1)
	d := NewDebouncer(30 * time.Millisecond)
	d.SetCallback(func([]string) { called <- struct{}{} })

	d.Add("a.yaml")
	d.Stop()
	d.Add("b.yaml")

	select {
	case <-called:
		t.Fatal("callback should not run after Stop")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncerSerializesSlowCallbacks(t *testing.T) {
	var mu sync.Mutex
	running, maxRunning, calls := 0, 0, 0

	d := NewDebouncer(10 * time.Millisecond)
	d.SetCallback(func([]string) {
		mu.Lock()
		running++
		calls++
		if running > maxRunning {
			maxRunning = running
		}
		mu.Unlock()

		time.Sleep(100 * time.Millisecond)

		mu.Lock()
		running--
		mu.Unlock()
	})

	d.Add("a.yaml")
	time.Sleep(30 * time.Millisecond)
	d.Add("b.yaml")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls == 2 && running == 0
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, maxRunning, "callbacks must not overlap")
}

func TestMetadataPathFor(t *testing.T) {
	assert.Equal(t, "/m/stanza/metadata.yaml", MetadataPathFor("/m/stanza/metadata.yaml"))
	assert.Equal(t, "/m/stanza/metadata.yaml", MetadataPathFor("/m/stanza/annotations.yaml"))
}

const stanzaMetadata = `id: sbx-swe-pos-stanza
annotations:
  - <token>:stanza.pos
example_output: <token pos="PN">Det</token>
`

func TestRebuild(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/modules/stanza/metadata.yaml", []byte(stanzaMetadata), 0o644))

	system := build.NewSystem(fs, build.DefaultBuildOptions())
	writer := export.NewWriter(fs, "/export", codegen.FormatYAML, nil)
	discover := func() ([]utils.Module, error) {
		return utils.FindModules(fs, "/modules", "/plugins")
	}
	r := NewRebuilder(system, writer, discover, nil)

	first, err := r.Rebuild(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Export.Written)
	assert.Equal(t, []string{"/modules/stanza"}, r.Dirs())

	exists, _ := afero.Exists(fs, "/export/analysis/sbx-swe-pos-stanza.yaml")
	assert.True(t, exists)

	second, err := r.Rebuild(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Build.CacheHits)
	assert.Equal(t, 0, second.Export.Written)

	updated := stanzaMetadata + "license: CC-BY\n"
	require.NoError(t, afero.WriteFile(fs, "/modules/stanza/metadata.yaml", []byte(updated), 0o644))

	third, err := r.Rebuild(context.Background(), []string{"/modules/stanza/metadata.yaml"})
	require.NoError(t, err)
	assert.Equal(t, 0, third.Build.CacheHits)
	assert.Equal(t, 1, third.Export.Written)
}

func TestOnChangeReplacesHandler(t *testing.T) {
	watcher, err := NewFileWatcher(nil, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	got := make(chan []string, 1)
	watcher.OnChange(func(files []string) error {
		got <- files
		return nil
	})
	watcher.debouncer.Add("/m/a/metadata.yaml")

	select {
	case files := <-got:
		assert.Equal(t, []string{"/m/a/metadata.yaml"}, files)
	case <-time.After(time.Second):
		t.Fatal("handler was not called")
	}
}

func TestRebuildSerializesRuns(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/modules/stanza/metadata.yaml", []byte(stanzaMetadata), 0o644))

	var mu sync.Mutex
	running, maxRunning := 0, 0
	discover := func() ([]utils.Module, error) {
		mu.Lock()
		running++
		if running > maxRunning {
			maxRunning = running
		}
		mu.Unlock()

		time.Sleep(50 * time.Millisecond)

		mu.Lock()
		running--
		mu.Unlock()
		return utils.FindModules(fs, "/modules", "/plugins")
	}

	system := build.NewSystem(fs, build.DefaultBuildOptions())
	writer := export.NewWriter(fs, "/export", codegen.FormatYAML, nil)
	r := NewRebuilder(system, writer, discover, nil)

	var wg sync.WaitGroup
	errs := make(chan error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Rebuild(context.Background(), []string{"/modules/stanza/metadata.yaml"})
			errs <- err
			_ = r.Dirs()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, maxRunning, "rebuilds must not overlap")
	assert.Len(t, r.Modules(), 1)
}
