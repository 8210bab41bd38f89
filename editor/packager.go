package editor

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// ErrPackaging is returned by Start while an export is running.
var ErrPackaging = errors.New("scion/editor: packaging already in progress")

// ErrUnsafePath is returned for files that would land outside the archive
// root.
var ErrUnsafePath = errors.New("scion/editor: path escapes the project root")

// Progress is a snapshot of a running export.
type Progress struct {
	Done    int
	Total   int
	Current string
}

// Packager exports a project into a zip archive on a worker goroutine.
// The UI thread polls Running, Finished, Err and Progress.
type Packager struct {
	log *zap.Logger

	running  atomic.Bool
	finished atomic.Bool
	failed   atomic.Bool

	mu       sync.Mutex
	progress Progress
	err      error
	wg       sync.WaitGroup
}

func NewPackager(log *zap.Logger) *Packager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Packager{log: log}
}

// Start writes files, given relative to root, into the archive out. It
// returns immediately.
func (p *Packager) Start(root string, files []string, out string) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrPackaging
	}
	p.finished.Store(false)
	p.failed.Store(false)
	p.mu.Lock()
	p.progress = Progress{Total: len(files)}
	p.err = nil
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		err := p.export(root, files, out)
		p.mu.Lock()
		p.err = err
		p.mu.Unlock()
		if err != nil {
			p.failed.Store(true)
			p.log.Error("packaging failed", zap.String("archive", out), zap.Error(err))
		} else {
			p.log.Info("packaging finished", zap.String("archive", out), zap.Int("files", len(files)))
		}
		p.finished.Store(true)
		p.running.Store(false)
	}()
	return nil
}

func (p *Packager) export(root string, files []string, out string) (err error) {
	tmp := out + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("scion/editor: create archive: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()

	zw := zip.NewWriter(f)
	for i, name := range files {
		p.mu.Lock()
		p.progress.Current = name
		p.mu.Unlock()
		if err := addFile(zw, root, name); err != nil {
			zw.Close()
			f.Close()
			return err
		}
		p.mu.Lock()
		p.progress.Done = i + 1
		p.mu.Unlock()
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("scion/editor: finish archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("scion/editor: close archive: %w", err)
	}
	return os.Rename(tmp, out)
}

// entryName is the slash-separated archive name of a root-relative file.
func entryName(name string) (string, error) {
	clean := filepath.ToSlash(filepath.Clean(name))
	if filepath.IsAbs(name) || strings.HasPrefix(clean, "/") || clean == "." ||
		clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return clean, nil
}

func addFile(zw *zip.Writer, root, name string) error {
	entry, err := entryName(name)
	if err != nil {
		return err
	}
	src, err := os.Open(filepath.Join(root, entry))
	if err != nil {
		return fmt.Errorf("scion/editor: %w", err)
	}
	defer src.Close()
	w, err := zw.Create(entry)
	if err != nil {
		return fmt.Errorf("scion/editor: %s: %w", name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("scion/editor: %s: %w", name, err)
	}
	return nil
}

// Running reports whether an export is in progress.
func (p *Packager) Running() bool { return p.running.Load() }

// Finished reports whether the last export has completed, successfully or
// not.
func (p *Packager) Finished() bool { return p.finished.Load() }

// Failed reports whether the last export failed.
func (p *Packager) Failed() bool { return p.failed.Load() }

// Err returns the error of the last export.
func (p *Packager) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *Packager) Progress() Progress {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress
}

// Wait blocks until the running export ends.
func (p *Packager) Wait() {
	p.wg.Wait()
}
