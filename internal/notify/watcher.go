// Package notify watches the persona bootstrap file and reports changes so a
// running simulation can pick up edited rosters without restarting.
package notify

import (
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// PersonaWatcher watches one persona file and dispatches a callback whenever
// its contents change. The parent directory is watched rather than the file
// itself: editors that save via rename-and-replace would otherwise detach the
// watch.
type PersonaWatcher struct {
	path     string
	callback func(path string)
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// NewPersonaWatcher creates a watcher for the given persona file.
func NewPersonaWatcher(path string, callback func(path string)) *PersonaWatcher {
	return &PersonaWatcher{
		path:     path,
		callback: callback,
		done:     make(chan struct{}),
	}
}

// Start begins watching. Call Stop() to clean up.
func (pw *PersonaWatcher) Start() error {
	if _, err := os.Stat(pw.path); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(pw.path)); err != nil {
		_ = w.Close()
		return err
	}
	pw.watcher = w

	go pw.loop()
	log.Printf("notify: watching %s for persona changes", pw.path)
	return nil
}

// Stop shuts down the watcher and waits for the dispatch loop to exit.
func (pw *PersonaWatcher) Stop() {
	if pw.watcher != nil {
		_ = pw.watcher.Close()
	}
	<-pw.done
}

func (pw *PersonaWatcher) loop() {
	defer close(pw.done)
	for {
		select {
		case evt, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			if !pw.matches(evt.Name) {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create) != 0 && pw.callback != nil {
				pw.callback(pw.path)
			}
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("notify: watcher error: %v", err)
		}
	}
}

func (pw *PersonaWatcher) matches(name string) bool {
	return filepath.Clean(name) == filepath.Clean(pw.path)
}
