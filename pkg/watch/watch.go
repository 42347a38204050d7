// Package watch reruns a handler whenever an OCR file lands in a directory.
//
// Editors and OCR tools often write a file in several chunks, so a path is
// handed over only once it has been quiet for the settle delay. Handlers
// run one at a time on the watching goroutine.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogLevel sets the logging level for the watch package
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// SetFormatter sets the log formatter for the watch package
func SetFormatter(formatter logrus.Formatter) {
	log.SetFormatter(formatter)
}

// DefaultSettle is how long a file must stay unchanged before it is handled
const DefaultSettle = 500 * time.Millisecond

// Watcher monitors one directory for created or written files
type Watcher struct {
	watcher    *fsnotify.Watcher
	extensions []string // lower-case, with dot; empty matches every file
	Settle     time.Duration
}

// New starts watching dir for files with one of extensions
func New(dir string, extensions []string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	exts := make([]string, 0, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return &Watcher{watcher: w, extensions: exts, Settle: DefaultSettle}, nil
}

// Close stops the watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Run calls fn for every settled file until ctx is done. An error from fn
// is logged and does not stop the watcher.
func (w *Watcher) Run(ctx context.Context, fn func(path string) error) error {
	tick := w.Settle / 4
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.matches(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("File watcher error")
		case now := <-ticker.C:
			for _, path := range settled(pending, now, w.Settle) {
				delete(pending, path)
				log.WithField("path", path).Info("Processing file")
				if err := fn(path); err != nil {
					log.WithField("path", path).WithError(err).Error("Failed to process file")
				}
			}
		}
	}
}

// settled returns the pending paths quiet for at least settle, sorted
func settled(pending map[string]time.Time, now time.Time, settle time.Duration) []string {
	var out []string
	for path, last := range pending {
		if now.Sub(last) >= settle {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

func (w *Watcher) matches(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Dir watches dir and calls fn for each settled file with a matching
// extension until ctx is done
func Dir(ctx context.Context, dir string, extensions []string, fn func(path string) error) error {
	w, err := New(dir, extensions)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Run(ctx, fn)
}
