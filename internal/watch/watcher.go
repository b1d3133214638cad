package watch

import (
	"fmt"
	"os"
	"sync"
	"time"

	"relocd/internal/log"

	"github.com/fsnotify/fsnotify"
)

// FileEvent represents a file change detected by the watcher
type FileEvent struct {
	Path      string
	Info      os.FileInfo
	Timestamp time.Time
	Op        fsnotify.Op
}

// Watcher monitors directories for new or changed files using fsnotify
type Watcher struct {
	// Directories being watched
	directories []string

	// Channel delivering file events
	eventChan chan FileEvent

	// Channel to signal stop
	stopChan chan struct{}

	// fsnotify watcher instance
	fsWatcher *fsnotify.Watcher

	// Lock for running state and the directories list
	mutex sync.RWMutex

	// Whether the watcher is running
	running bool
}

// New creates a new directory watcher
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		directories: []string{},
		eventChan:   make(chan FileEvent, 10),
		stopChan:    make(chan struct{}),
		fsWatcher:   fsWatcher,
	}, nil
}

// AddDirectory adds a directory to watch
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	w.mutex.Lock()
	found := false
	for _, existing := range w.directories {
		if existing == dir {
			found = true
			break
		}
	}
	if !found {
		w.directories = append(w.directories, dir)
	}
	w.mutex.Unlock()

	log.LogWithFields(log.F("directory", dir)).Info("watching directory")
	return nil
}

// Events returns the channel that delivers file events
func (w *Watcher) Events() <-chan FileEvent {
	return w.eventChan
}

// Start begins the file watching loop
func (w *Watcher) Start() error {
	w.mutex.Lock()
	if w.running {
		w.mutex.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.mutex.Unlock()

	go func() {
		for {
			select {
			case event, ok := <-w.fsWatcher.Events:
				if !ok {
					return
				}

				// Only files that were created or written to are of
				// interest; the event may be for something already gone.
				if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
					info, err := os.Stat(event.Name)
					if err != nil {
						if !os.IsNotExist(err) {
							log.LogWithFields(log.F("file", event.Name), log.F("error", err)).Error("error stating file")
						}
						continue
					}
					if info.IsDir() {
						continue
					}

					ev := FileEvent{
						Path:      event.Name,
						Info:      info,
						Timestamp: time.Now(),
						Op:        event.Op,
					}

					// Non-blocking send so the loop never wedges on a
					// slow consumer.
					select {
					case w.eventChan <- ev:
					default:
						log.LogWithFields(log.F("file", event.Name)).Warn("event channel full, dropped event")
					}
				}

			case err, ok := <-w.fsWatcher.Errors:
				if !ok {
					return
				}
				log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

			case <-w.stopChan:
				return
			}
		}
	}()

	log.Info("watcher started")
	return nil
}

// Stop halts the file watching loop
func (w *Watcher) Stop() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if !w.running {
		return
	}

	close(w.stopChan)

	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("error closing fsnotify watcher")
	}

	w.running = false
	close(w.eventChan)

	log.Info("watcher stopped")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// Directories returns the list of directories being watched
func (w *Watcher) Directories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirs := make([]string, len(w.directories))
	copy(dirs, w.directories)
	return dirs
}
