//go:build !unix

package fsutil

// IsCrossDevice cannot be determined portably here; callers only use it to
// improve diagnostics, so false is safe.
func IsCrossDevice(err error) bool {
	return false
}
