//go:build unix

package fsutil

import (
	"errors"
	"os"
	"syscall"
)

// IsCrossDevice reports whether err is a cross-volume rename failure (EXDEV).
func IsCrossDevice(err error) bool {
	if errors.Is(err, syscall.EXDEV) {
		return true
	}
	var le *os.LinkError
	if errors.As(err, &le) && errors.Is(le.Err, syscall.EXDEV) {
		return true
	}
	return false
}
