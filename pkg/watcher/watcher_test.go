package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
		return ""
	}
}

func TestWatchFileDebounced(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	fw, err := NewFileWatcher(100 * time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	changes := make(chan string, 8)
	require.NoError(t, fw.Watch([]string{path}, func(p string) { changes <- p }))
	fw.Start()

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"geo":{}}`), 0o644))
	}

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	assert.Equal(t, abs, waitFor(t, changes))

	select {
	case p := <-changes:
		t.Fatalf("burst of writes reported twice: %s", p)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchDirFiltersExtension(t *testing.T) {
	dir := t.TempDir()

	fw, err := NewFileWatcher(20 * time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	changes := make(chan string, 8)
	require.NoError(t, fw.WatchDir(dir, ".cif", func(p string) { changes <- p }))
	fw.Start()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Si.CIF"), []byte("data_Si"), 0o644))

	assert.Equal(t, "Si.CIF", filepath.Base(waitFor(t, changes)))
}

func TestRemoveAll(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, fw.WatchDir(t.TempDir(), ".cif", func(string) {}))
	require.NoError(t, fw.RemoveAll())
	assert.Empty(t, fw.watched)
}
