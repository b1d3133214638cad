package move

import (
	"os"
	"sync"
)

// Lifecycle is the externally observable state of a tracked file. A UI may
// read it concurrently while the mover advances it.
type Lifecycle int

const (
	// StatePending means no move has been attempted yet.
	StatePending Lifecycle = iota
	// StateMoving is the transient state while a move is in flight.
	StateMoving
	// StateRenamed means the file reached its destination.
	StateRenamed
	// StateDoesNotExist means the source vanished before the move.
	StateDoesNotExist
	// StateFailToMove means the move failed.
	StateFailToMove
)

func (s Lifecycle) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateMoving:
		return "moving"
	case StateRenamed:
		return "renamed"
	case StateDoesNotExist:
		return "does not exist"
	case StateFailToMove:
		return "fail to move"
	}
	return "unknown"
}

// Record tracks a file through a relocation: where it currently is, where
// it should go, and how the attempt ended. The mover is the only writer;
// readers (a UI, the daemon status endpoint) may poll concurrently, so all
// fields are guarded.
type Record struct {
	mu       sync.RWMutex
	path     string
	size     int64
	destDir  string
	basename string
	suffix   string
	state    Lifecycle
}

// NewRecord builds a record for a file currently at path that should end
// up in destDir named basename+suffix. The size is captured up front so
// progress reporting has a stable total even while the file is in motion.
func NewRecord(path, destDir, basename, suffix string) *Record {
	r := &Record{
		path:     path,
		destDir:  destDir,
		basename: basename,
		suffix:   suffix,
		state:    StatePending,
	}
	if info, err := os.Stat(path); err == nil {
		r.size = info.Size()
	}
	return r
}

// Path returns the file's current location.
func (r *Record) Path() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.path
}

// SetPath records the file's new location after a physical move.
func (r *Record) SetPath(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.path = path
}

// FileSize returns the size captured when the record was created.
func (r *Record) FileSize() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

// MoveToPath returns the directory the file should be moved into.
func (r *Record) MoveToPath() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.destDir
}

// DestinationBasename returns the desired destination filename without
// its suffix.
func (r *Record) DestinationBasename() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.basename
}

// FilenameSuffix returns the destination filename suffix, dot included.
func (r *Record) FilenameSuffix() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.suffix
}

// State returns the current lifecycle state.
func (r *Record) State() Lifecycle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// SetMoving marks the record as in flight.
func (r *Record) SetMoving() {
	r.setState(StateMoving)
}

// SetRenamed marks the record as successfully relocated.
func (r *Record) SetRenamed() {
	r.setState(StateRenamed)
}

// SetDoesNotExist marks the record's source as gone.
func (r *Record) SetDoesNotExist() {
	r.setState(StateDoesNotExist)
}

// SetFailToMove marks the relocation as failed.
func (r *Record) SetFailToMove() {
	r.setState(StateFailToMove)
}

func (r *Record) setState(s Lifecycle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = s
}
