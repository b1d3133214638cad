package move

// Status tracks how far a single relocation got and how it ended.
// Every Run ends on exactly one terminal status; Unchecked and Unmoved
// are the only transient values.
type Status int

const (
	// Unchecked is the initial state before any validation has run.
	Unchecked Status = iota
	// FileMissing means the source disappeared before the move started.
	FileMissing
	// Unmoved means validation passed but the physical move hasn't happened.
	Unmoved
	// AlreadyInPlace means the file was already at its exact destination.
	AlreadyInPlace
	// Renamed means a same-volume rename succeeded at the requested path.
	Renamed
	// Misnamed means the rename succeeded but the filesystem stored the
	// file under a different path than requested (normalization, case
	// folding). Treated as success, surfaced distinctly for monitoring.
	Misnamed
	// Copied means the cross-volume copy-and-delete succeeded.
	Copied
	// FailToMove covers every failure after the initial existence check.
	FailToMove
)

func (s Status) String() string {
	switch s {
	case Unchecked:
		return "unchecked"
	case FileMissing:
		return "file missing"
	case Unmoved:
		return "unmoved"
	case AlreadyInPlace:
		return "already in place"
	case Renamed:
		return "renamed"
	case Misnamed:
		return "misnamed"
	case Copied:
		return "copied"
	case FailToMove:
		return "fail to move"
	}
	return "unknown"
}

// Success reports whether the status is one of the success terminals.
func (s Status) Success() bool {
	switch s {
	case AlreadyInPlace, Renamed, Misnamed, Copied:
		return true
	}
	return false
}
