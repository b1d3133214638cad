// Package watch runs the background relocation service: an fsnotify
// watcher feeding a rule matcher, which hands matching files to the move
// engine one at a time.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"relocd/internal/config"
	"relocd/internal/errors"
	"relocd/internal/fsutil"
	"relocd/internal/log"
	"relocd/internal/move"

	"github.com/gobwas/glob"
)

// maxVersionIndex bounds the search for a free versioned destination name.
const maxVersionIndex = 1000

// DaemonStatus is a point-in-time snapshot of the daemon
type DaemonStatus struct {
	Running          bool      // Whether the daemon is currently active
	WatchDirectories []string  // Directories being watched
	LastActivity     time.Time // Time of last file activity
	FilesProcessed   int       // Files moved successfully
	FilesFailed      int       // Files that failed to move
}

// compiledRule pairs a pre-compiled glob with its target directory.
type compiledRule struct {
	matcher glob.Glob
	match   string
	target  string
}

// Daemon watches directories and relocates matching files as they appear
type Daemon struct {
	config  *config.Config
	watcher *Watcher
	rules   []compiledRule

	// Statistics
	processed    int
	failed       int
	lastActivity time.Time

	// Callback invoked after each relocation attempt (src, dest, error)
	callback func(string, string, error)

	mutex   sync.RWMutex
	running bool
}

// NewDaemon creates a daemon for the given configuration. Rule globs are
// compiled up front; an invalid pattern is a construction error.
func NewDaemon(cfg *config.Config) (*Daemon, error) {
	watcher, err := New()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher for daemon: %w", err)
	}

	rules := make([]compiledRule, 0, len(cfg.Watch.Rules))
	for _, rule := range cfg.Watch.Rules {
		matcher, err := glob.Compile(rule.Match)
		if err != nil {
			return nil, errors.NewConfigError("invalid rule pattern", rule.Match, errors.InvalidConfig, err)
		}
		rules = append(rules, compiledRule{matcher: matcher, match: rule.Match, target: rule.Target})
	}

	return &Daemon{
		config:       cfg,
		watcher:      watcher,
		rules:        rules,
		lastActivity: time.Now(),
	}, nil
}

// Start initiates the daemon
func (d *Daemon) Start() error {
	d.mutex.Lock()
	if d.running {
		d.mutex.Unlock()
		return fmt.Errorf("daemon is already running")
	}
	d.running = true
	d.mutex.Unlock()

	for _, dir := range d.config.Watch.Directories {
		if err := d.watcher.AddDirectory(dir); err != nil {
			return fmt.Errorf("error adding watch directory %s: %w", dir, err)
		}
	}

	if len(d.watcher.Directories()) == 0 {
		return fmt.Errorf("no directories to watch")
	}

	if err := d.watcher.Start(); err != nil {
		return fmt.Errorf("error starting watcher: %w", err)
	}

	go d.processEvents()

	return nil
}

// Stop halts the daemon
func (d *Daemon) Stop() {
	d.mutex.Lock()
	if !d.running {
		d.mutex.Unlock()
		return
	}
	d.running = false
	d.mutex.Unlock()

	d.watcher.Stop()
}

// AddWatchDirectory adds a directory to be watched
func (d *Daemon) AddWatchDirectory(dir string) error {
	return d.watcher.AddDirectory(dir)
}

// SetCallback sets a function invoked after each relocation attempt
func (d *Daemon) SetCallback(cb func(src, dest string, err error)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = cb
}

// Status returns a snapshot of the daemon's state
func (d *Daemon) Status() DaemonStatus {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	return DaemonStatus{
		Running:          d.running,
		WatchDirectories: d.watcher.Directories(),
		LastActivity:     d.lastActivity,
		FilesProcessed:   d.processed,
		FilesFailed:      d.failed,
	}
}

// processEvents drains the watcher channel, relocating one file at a time
func (d *Daemon) processEvents() {
	for event := range d.watcher.Events() {
		if event.Info.IsDir() {
			continue
		}

		d.mutex.Lock()
		d.lastActivity = event.Timestamp
		d.mutex.Unlock()

		d.Relocate(event.Path)
	}
}

// Relocate moves a single file according to the daemon's rules. It is
// exported so a CLI can push files through the same path the watcher uses.
func (d *Daemon) Relocate(path string) {
	target, matched := d.findTarget(path)
	if !matched {
		log.LogWithFields(log.F("file", path)).Debug("no rule matched")
		return
	}

	destDir := target
	if !filepath.IsAbs(destDir) {
		destDir = filepath.Join(filepath.Dir(path), destDir)
	}
	base, suffix := splitFilename(filepath.Base(path))
	intended := filepath.Join(destDir, base+suffix)

	if d.config.Settings.DryRun {
		log.Infof("would move %s -> %s", path, intended)
		d.notify(path, intended, nil)
		return
	}

	rec := move.NewRecord(path, destDir, base, suffix)
	mover := move.New(rec, d.config.Settings)
	if index, needed := d.versionFor(path, destDir, base, suffix); needed {
		log.LogWithFields(log.F("file", path), log.F("version", index)).Info("destination taken, using versioned name")
		mover.SetVersionIndex(index)
	}

	ok := mover.Run(context.Background())

	var err error
	dest := rec.Path()
	if !ok {
		err = errors.Newf("move failed: %s", mover.Status())
		dest = intended
	}

	d.mutex.Lock()
	if ok {
		d.processed++
	} else {
		d.failed++
	}
	d.mutex.Unlock()

	d.notify(path, dest, err)
}

// notify invokes the callback if one is registered
func (d *Daemon) notify(src, dest string, err error) {
	d.mutex.RLock()
	cb := d.callback
	d.mutex.RUnlock()

	if cb != nil {
		cb(src, dest, err)
	}
}

// findTarget returns the target directory of the first matching rule
func (d *Daemon) findTarget(path string) (string, bool) {
	name := filepath.Base(path)
	for _, rule := range d.rules {
		if rule.matcher.Match(name) {
			return rule.target, true
		}
	}
	return "", false
}

// versionFor decides whether the move needs a version index to avoid a
// collision, and picks the first free one. The mover itself never retries;
// this is the caller-side half of that contract.
func (d *Daemon) versionFor(src, destDir, base, suffix string) (int, bool) {
	plain := filepath.Join(destDir, base+suffix)
	if _, err := os.Lstat(plain); err != nil {
		return 0, false
	}
	if fsutil.IsSameFile(plain, src) {
		// Already in place; the mover will report that itself.
		return 0, false
	}

	versionedDir := destDir
	if d.config.Settings.MoveEnabled {
		versionedDir = filepath.Join(destDir, move.DuplicatesDirName)
	}
	for i := 1; i <= maxVersionIndex; i++ {
		candidate := filepath.Join(versionedDir, fmt.Sprintf("%s (%d)%s", base, i, suffix))
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return i, true
		}
	}

	log.LogWithFields(log.F("file", src)).Warn("no free versioned name found")
	return 0, false
}

// splitFilename splits a filename into basename and suffix (dot included)
func splitFilename(name string) (string, string) {
	suffix := filepath.Ext(name)
	return strings.TrimSuffix(name, suffix), suffix
}
