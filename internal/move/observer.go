package move

// Observer receives progress callbacks while a file is being copied.
// A nil observer is valid and means "no progress reporting"; every call
// site guards for it. Callbacks run on the moving goroutine, so
// implementations should be cheap.
//
// FinishProgress is invoked exactly once per move that reaches the
// physical-move stage, whatever the outcome.
type Observer interface {
	// InitializeProgress announces the total number of bytes to copy.
	InitializeProgress(totalBytes int64)
	// SetProgressStatus reports a human-readable amount copied so far.
	SetProgressStatus(status string)
	// SetProgressValue reports the cumulative bytes copied so far.
	SetProgressValue(bytesCopied int64)
	// FinishProgress reports the final outcome.
	FinishProgress(succeeded bool)
}
