package store

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Change reports that one of the state files was modified on disk
type Change struct {
	Name string // base name, e.g. PersonalityFile
}

// Watcher reports edits made to the state files, including those from an
// external editor. Changes are dropped while the consumer is behind.
type Watcher struct {
	fw      *fsnotify.Watcher
	changes chan Change
	done    chan struct{}
	once    sync.Once
}

// Watch starts watching the data directory
func (s *Store) Watch() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(s.dir); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		fw:      fw,
		changes: make(chan Change, 8),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Changes returns the channel of file changes. It is closed by Close.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Close stops the watcher
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.fw.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.changes)

	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
				continue
			}
			name := filepath.Base(ev.Name)
			if !isStateFile(name) {
				continue
			}
			select {
			case w.changes <- Change{Name: name}:
			default:
				storeLog.Debug("watcher: dropping change for %s, consumer is behind", name)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			storeLog.Warn("watcher: %v", err)
		}
	}
}

func isStateFile(name string) bool {
	switch name {
	case MemoryFile, HistoryFile, PersonalityFile:
		return true
	}
	return false
}
