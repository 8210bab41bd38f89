package asset

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch starts a goroutine that marks loaded files dirty when they change
// on disk. Reloading happens in Update on the caller's goroutine.
func (m *Manager) Watch() error {
	if m.watcher != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("scion/asset: start watcher: %w", err)
	}
	m.watcher = w
	m.done = make(chan struct{})

	dirs := make(map[string]bool)
	for path := range m.sources {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		m.watchDir(dir)
	}

	go m.watchLoop(w, m.done)
	return nil
}

func (m *Manager) watchDir(dir string) {
	if err := m.watcher.Add(dir); err != nil {
		m.log.Error("asset watcher: watch directory", zap.String("dir", dir), zap.Error(err))
	}
}

func (m *Manager) watchLoop(w *fsnotify.Watcher, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				m.MarkDirty(ev.Name)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			m.log.Error("asset watcher", zap.Error(err))
		}
	}
}

// StopWatching stops the watcher goroutine.
func (m *Manager) StopWatching() error {
	if m.watcher == nil {
		return nil
	}
	close(m.done)
	err := m.watcher.Close()
	m.watcher = nil
	return err
}

// MarkDirty queues path for reload. Safe to call from any goroutine.
func (m *Manager) MarkDirty(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.dirty {
		if p == path {
			return
		}
	}
	m.dirty = append(m.dirty, path)
}

// Dirty returns the number of paths waiting for reload.
func (m *Manager) Dirty() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.dirty)
}

// Update reloads every dirty asset. It must run on the thread that owns
// the graphics context. Paths that belong to no asset are ignored.
func (m *Manager) Update() int {
	m.mu.Lock()
	dirty := m.dirty
	m.dirty = nil
	m.mu.Unlock()

	n := 0
	for _, path := range dirty {
		src, ok := m.sources[path]
		if !ok {
			continue
		}
		if err := m.reload(src); err != nil {
			m.log.Error("asset manager: reload failed",
				zap.String(src.kind.String(), src.name),
				zap.String("path", path),
				zap.Error(err))
			continue
		}
		m.log.Info("asset manager: reloaded",
			zap.String(src.kind.String(), src.name))
		n++
	}
	return n
}
