package motemplate

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// LiveTemplate keeps a compiled template in sync with a file on disk,
// recompiling whenever the file changes. If a rewrite fails to compile, the
// last good compile keeps serving and the failure is logged.
type LiveTemplate struct {
	path    string
	name    string
	watcher *fsnotify.Watcher

	mu   sync.RWMutex
	tmpl *Template

	reloads   chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// WatchFile compiles the template at path and watches it for changes. The
// template's display name is the file's base name. Close must be called to
// release the watcher.
func WatchFile(path string) (*LiveTemplate, error) {
	path = filepath.Clean(path)

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	tmpl, err := NewNamed(string(source), filepath.Base(path))
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: editors that write via
	// rename-and-replace would otherwise drop the watch.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	lt := &LiveTemplate{
		path:    path,
		name:    filepath.Base(path),
		watcher: watcher,
		tmpl:    tmpl,
		reloads: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go lt.watch()
	return lt, nil
}

func (lt *LiveTemplate) watch() {
	for {
		select {
		case <-lt.done:
			return
		case event, ok := <-lt.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != lt.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			lt.reload()
		case err, ok := <-lt.watcher.Errors:
			if !ok {
				return
			}
			GetLogger().Warn("watch error for %s: %v", lt.path, err)
		}
	}
}

func (lt *LiveTemplate) reload() {
	source, err := os.ReadFile(lt.path)
	if err != nil {
		GetLogger().Warn("failed to re-read %s: %v", lt.path, err)
		return
	}
	tmpl, err := NewNamed(string(source), lt.name)
	if err != nil {
		GetLogger().Warn("keeping previous compile of %s: %v", lt.path, err)
		return
	}

	lt.mu.Lock()
	lt.tmpl = tmpl
	lt.mu.Unlock()
	GetLogger().Info("reloaded template %s", lt.path)

	select {
	case lt.reloads <- struct{}{}:
	default:
	}
}

// Template returns the current compile.
func (lt *LiveTemplate) Template() *Template {
	lt.mu.RLock()
	defer lt.mu.RUnlock()
	return lt.tmpl
}

// Render renders the current compile of the template.
func (lt *LiveTemplate) Render(contexts ...interface{}) *RenderResult {
	return lt.Template().Render(contexts...)
}

// Reloads signals each successful recompile. The channel is never closed and
// drops signals when nobody is receiving.
func (lt *LiveTemplate) Reloads() <-chan struct{} {
	return lt.reloads
}

// Close stops watching the file.
func (lt *LiveTemplate) Close() error {
	var err error
	lt.closeOnce.Do(func() {
		close(lt.done)
		err = lt.watcher.Close()
	})
	return err
}
