// Package watcher reloads settings and crystal structure files when they
// change on disk.
package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/fgjorup/detgeo/internal/logging"
)

// FileWatcher watches files and directories and triggers debounced callbacks.
// Parent directories are watched rather than the files themselves so editors
// that save by rename are still noticed.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	files    map[string]func(string)
	dirs     map[string]dirWatch
	watched  map[string]bool
	debounce time.Duration
	timers   map[string]*time.Timer
	log      *logrus.Entry
}

type dirWatch struct {
	ext      string
	callback func(string)
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  w,
		files:    make(map[string]func(string)),
		dirs:     make(map[string]dirWatch),
		watched:  make(map[string]bool),
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
		log:      logging.NamedLogger("watcher"),
	}, nil
}

// Watch calls callback with the absolute path whenever one of files changes
func (fw *FileWatcher) Watch(files []string, callback func(string)) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		if err := fw.addDir(filepath.Dir(absPath)); err != nil {
			return err
		}
		fw.files[absPath] = callback
	}
	return nil
}

// WatchDir calls callback for every file with extension ext (e.g. ".cif")
// that is created or written in dir.
func (fw *FileWatcher) WatchDir(dir, ext string, callback func(string)) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve path %s: %w", dir, err)
	}
	if err := fw.addDir(absDir); err != nil {
		return err
	}
	fw.dirs[absDir] = dirWatch{ext: strings.ToLower(ext), callback: callback}
	return nil
}

func (fw *FileWatcher) addDir(dir string) error {
	if fw.watched[dir] {
		return nil
	}
	if err := fw.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	fw.watched[dir] = true
	return nil
}

// Start begins watching for file changes
func (fw *FileWatcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}

				// Only trigger on events that leave new content behind
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
					fw.handleFileChange(filepath.Clean(event.Name))
				}

			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				fw.log.Warnf("watcher error: %v", err)
			}
		}
	}()
}

// callbackFor resolves the callback for a changed path. Explicit file
// watches take precedence over directory watches.
func (fw *FileWatcher) callbackFor(path string) (func(string), bool) {
	if cb, ok := fw.files[path]; ok {
		return cb, true
	}
	if d, ok := fw.dirs[filepath.Dir(path)]; ok && strings.ToLower(filepath.Ext(path)) == d.ext {
		return d.callback, true
	}
	return nil, false
}

// handleFileChange handles a file change event with debouncing
func (fw *FileWatcher) handleFileChange(path string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	callback, ok := fw.callbackFor(path)
	if !ok {
		return
	}

	if timer, exists := fw.timers[path]; exists {
		timer.Stop()
	}
	fw.log.Debugf("change detected: %s", path)
	fw.timers[path] = time.AfterFunc(fw.debounce, func() {
		callback(path)
	})
}

// Close stops the watcher and any pending callbacks
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	for _, t := range fw.timers {
		t.Stop()
	}
	fw.mu.Unlock()
	return fw.watcher.Close()
}

// RemoveAll removes all watched files and directories
func (fw *FileWatcher) RemoveAll() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for dir := range fw.watched {
		if err := fw.watcher.Remove(dir); err != nil {
			return err
		}
	}
	for _, t := range fw.timers {
		t.Stop()
	}

	fw.files = make(map[string]func(string))
	fw.dirs = make(map[string]dirWatch)
	fw.watched = make(map[string]bool)
	fw.timers = make(map[string]*time.Timer)
	return nil
}
