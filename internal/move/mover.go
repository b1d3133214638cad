// Package move implements single-file relocation: same-volume renames,
// cross-volume copy-and-delete with progress reporting, collision-avoiding
// versioned placement, and post-move bookkeeping.
package move

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"relocd/internal/config"
	"relocd/internal/fsutil"
	"relocd/internal/log"
)

// DuplicatesDirName is the subdirectory versioned duplicates are placed in
// when moving is enabled.
const DuplicatesDirName = "duplicates"

// Function seams so tests can force the copy path and simulate rename
// failures without a second filesystem.
var (
	renameFile = os.Rename
	sameDisk   = fsutil.SameDisk
	deleteFile = fsutil.DeleteFile
)

// Mover relocates a single file to its computed destination. A Mover is
// good for exactly one Run; it is single-threaded, holds no locks of its
// own, and reports its outcome as a boolean with detail in Status.
//
// Concurrent external mutation of the filesystem is an accepted race:
// checks are repeated immediately before acting (the destination is created
// exclusively, never overwritten) and any surprise fails the move safely.
type Mover struct {
	record       *Record
	cfg          config.Settings
	destRoot     string
	destBasename string
	destSuffix   string
	versionIndex *int
	observer     Observer
	status       Status
}

// New constructs a Mover for the given record. The destination directory,
// basename, and suffix are captured from the record at construction time.
func New(record *Record, cfg config.Settings) *Mover {
	return &Mover{
		record:       record,
		cfg:          cfg,
		destRoot:     record.MoveToPath(),
		destBasename: record.DestinationBasename(),
		destSuffix:   record.FilenameSuffix(),
		status:       Unchecked,
	}
}

// SetObserver attaches a progress sink. The mover invokes it but never
// owns it; nil (the default) disables progress reporting.
func (m *Mover) SetObserver(obs Observer) {
	m.observer = obs
}

// SetVersionIndex makes the destination filename embed a version marker,
// "base (N)suffix", used by callers to retry after a collision. When moving
// is enabled the file is also diverted into the duplicates subdirectory.
func (m *Mover) SetVersionIndex(index int) {
	m.versionIndex = &index
}

// CurrentPath returns the file's current location.
func (m *Mover) CurrentPath() string {
	return m.record.Path()
}

// FileSize returns the size of the file to be moved.
func (m *Mover) FileSize() int64 {
	return m.record.FileSize()
}

// DesiredDestName is the filename we want the file to end up with, before
// any collision versioning.
func (m *Mover) DesiredDestName() string {
	return m.destBasename + m.destSuffix
}

// MoveToDirectory returns the directory the file should be moved to, as a
// string, for pre-flight display.
func (m *Mover) MoveToDirectory() string {
	return m.destRoot
}

// Status returns the current move status. Terminal once Run returns.
func (m *Mover) Status() Status {
	return m.status
}

// Run executes the move. No error escapes: every failure is logged and
// converted into a terminal status. The record's lifecycle state is set
// exactly once, according to how the move ended.
func (m *Mover) Run(ctx context.Context) bool {
	m.tryToMove(ctx)

	switch {
	case m.status.Success():
		m.record.SetRenamed()
	case m.status == FileMissing:
		m.record.SetDoesNotExist()
	default:
		m.record.SetFailToMove()
	}
	return m.status.Success()
}

// tryToMove sanity-checks the move and, if everything is as it should be,
// executes it: the source must exist, the destination file must not, and
// the destination directory is created if needed. Each step is a potential
// early exit to a terminal status.
func (m *Mover) tryToMove(ctx context.Context) {
	srcPath := m.record.Path()
	if _, err := os.Lstat(srcPath); err != nil {
		log.LogWithFields(log.F("source", srcPath)).Info("path no longer exists")
		m.status = FileMissing
		return
	}

	realSrc, err := realPath(srcPath)
	if err != nil {
		log.LogWithFields(log.F("source", srcPath), log.F("error", err)).Warn("could not get real path of source")
		m.status = FailToMove
		return
	}
	m.status = Unmoved

	destDir := m.destRoot
	filename := m.destBasename + m.destSuffix
	if m.versionIndex != nil {
		if m.cfg.MoveEnabled {
			destDir = filepath.Join(destDir, DuplicatesDirName)
		}
		filename = m.versionedName()
	}

	if !m.cfg.CreateDirs {
		if _, err := os.Stat(destDir); err != nil {
			log.LogWithFields(log.F("destDir", destDir)).Warn("destination directory missing and directory creation is disabled")
			m.status = FailToMove
			return
		}
	}
	if err := fsutil.EnsureWritableDir(destDir); err != nil {
		log.LogWithFields(log.F("source", srcPath), log.F("destDir", destDir), log.F("error", err)).Warn("not attempting to move")
		m.status = FailToMove
		return
	}

	destDir, err = realPath(destDir)
	if err != nil {
		log.LogWithFields(log.F("destDir", destDir), log.F("error", err)).Warn("could not get real path of destination directory")
		m.status = FailToMove
		return
	}

	destPath := filepath.Join(destDir, filename)
	if _, err := os.Lstat(destPath); err == nil {
		if fsutil.IsSameFile(destPath, realSrc) {
			log.LogWithFields(log.F("source", srcPath)).Info("nothing to be done, file already in place")
			m.status = AlreadyInPlace
			return
		}
		log.LogWithFields(log.F("dest", destPath)).Warn("cannot move, destination exists")
		m.status = FailToMove
		return
	}

	m.moveRealPaths(ctx, realSrc, destPath, destDir)
}

// moveRealPaths executes the move using canonical paths and runs the
// post-success cleanup of emptied source directories.
func (m *Mover) moveRealPaths(ctx context.Context, realSrc, destPath, destDir string) {
	tryRename := sameDisk(realSrc, destDir)
	srcDir := filepath.Dir(realSrc)

	m.record.SetMoving()
	m.doMove(ctx, realSrc, destPath, tryRename)

	if m.status.Success() {
		log.LogWithFields(log.F("source", realSrc), log.F("dest", destPath)).Info("move successful")
		if m.cfg.RemoveEmptyDirs {
			fsutil.RemoveWhileEmpty(srcDir)
		}
	} else {
		log.LogWithFields(log.F("source", realSrc)).Info("failed to move")
	}
}

// doMove performs the physical move. It assumes all sanity checks have
// passed: source exists, destination doesn't, destination directory is
// writable. On success it updates the record's path and refreshes the
// file's modification time.
func (m *Mover) doMove(ctx context.Context, srcPath, destPath string, tryRename bool) {
	log.Debugf("going to move %q -> %q", srcPath, destPath)

	var actualDest string
	if tryRename {
		if err := renameFile(srcPath, destPath); err != nil {
			if fsutil.IsCrossDevice(err) {
				log.LogWithFields(log.F("source", srcPath), log.F("dest", destPath)).Warn("rename crossed volumes despite same-disk check")
			}
			log.LogWithFields(log.F("source", srcPath), log.F("dest", destPath), log.F("error", err)).Error("unable to move")
			if m.observer != nil {
				m.observer.FinishProgress(false)
			}
			m.status = FailToMove
			return
		}
		if m.observer != nil {
			m.observer.FinishProgress(true)
		}
		// The filesystem may have stored the name differently than asked
		// (case folding, unicode normalization). Compare what actually
		// landed on disk with what we requested.
		actualDest = destPath
		if resolved, err := realPath(destPath); err == nil && resolved != destPath {
			log.LogWithFields(log.F("intended", destPath), log.F("actual", resolved)).Warn("actual destination did not match intended")
			actualDest = resolved
			m.status = Misnamed
		} else {
			m.status = Renamed
		}
	} else {
		log.Infof("different disks: %s and %s", srcPath, destPath)
		m.copyAndDelete(ctx, srcPath, destPath)
		if m.status != Copied {
			return
		}
		actualDest = destPath
	}

	m.record.SetPath(actualDest)

	// The modification time is deliberately reset to now: downstream
	// consumers key freshness off it. TODO: make this configurable.
	now := time.Now()
	if err := os.Chtimes(actualDest, now, now); err != nil {
		log.LogWithFields(log.F("dest", actualDest), log.F("error", err)).Warn("unable to set modification time")
		// The file is in the right place, but true means *everything*
		// worked.
		m.status = FailToMove
	}
}

// versionedName embeds the version index in the destination filename.
func (m *Mover) versionedName() string {
	return fmt.Sprintf("%s (%d)%s", m.destBasename, *m.versionIndex, m.destSuffix)
}

// realPath resolves path to its canonical, symlink-free, absolute form.
func realPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
