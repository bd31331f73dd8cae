package token

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher reloads an AliasTable overlay file when it changes on disk. The
// alias table is versioned data rather than code, so deployments update it by
// rewriting the file; the watcher picks the change up without a restart.
type Watcher struct {
	table    *AliasTable
	path     string
	fw       *fsnotify.Watcher
	log      *logrus.Logger
	onReload func()
	done     chan struct{}
	stopped  chan struct{}
}

// NewWatcher loads the alias file into the table and starts watching its
// directory for changes. Watching the directory rather than the file itself
// survives the rename-over-replace pattern editors and config managers use.
// onReload, when non-nil, runs after every successful reload so callers can
// drop state derived from the previous table, such as memoized decisions; it
// does not run for reloads that fail validation.
func NewWatcher(table *AliasTable, path string, log *logrus.Logger, onReload func()) (*Watcher, error) {
	if log == nil {
		log = logrus.New()
	}

	if err := table.LoadFile(path); err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch alias file directory: %w", err)
	}

	w := &Watcher{
		table:    table,
		path:     path,
		fw:       fw,
		log:      log,
		onReload: onReload,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.stopped)
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := w.table.LoadFile(w.path); err != nil {
				// Keep serving the previous table on a bad reload.
				w.log.WithError(err).Warnf("Failed to reload alias table from %s", w.path)
				continue
			}
			w.log.Infof("Reloaded alias table from %s (%d entries)", w.path, w.table.Len())
			if w.onReload != nil {
				w.onReload()
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("Alias table watcher error")
		case <-w.done:
			return
		}
	}
}

// WatchAliasFile loads path into the table backing the package-level
// Normalize and Parse and hot-reloads it on change. onReload runs after each
// successful reload.
func WatchAliasFile(path string, log *logrus.Logger, onReload func()) (*Watcher, error) {
	return NewWatcher(defaultAliases, path, log, onReload)
}

// Close stops the watcher. The alias table keeps its last loaded contents.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fw.Close()
	<-w.stopped
	return err
}
