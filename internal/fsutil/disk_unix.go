//go:build unix

package fsutil

import (
	"os"
	"syscall"
)

// SameDisk reports whether the two paths live on the same storage volume,
// by device identity rather than path prefix (symlinks and mount points
// make prefix comparison unreliable). Any stat failure means "assume
// different", which forces the safer copy path.
func SameDisk(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	as, ok := ai.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}
	bs, ok := bi.Sys().(*syscall.Stat_t)
	if !ok {
		return false
	}
	return as.Dev == bs.Dev
}
