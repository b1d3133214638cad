// Package fsutil provides the filesystem primitives the move engine is
// built on: writability-checked directory creation, safe file deletion,
// empty-directory cleanup, and volume identity checks.
package fsutil

import (
	"os"
	"path/filepath"

	"relocd/internal/errors"
	"relocd/internal/log"
)

// EnsureWritableDir makes sure dir exists, is a directory, and is writable,
// creating it (and missing ancestors) if needed.
func EnsureWritableDir(dir string) error {
	info, err := os.Stat(dir)
	switch {
	case err != nil && os.IsNotExist(err):
		if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
			return errors.NewFileError("could not create directory", dir, errors.FileCreateFailed, mkErr)
		}
	case err != nil:
		return errors.NewFileError("could not access directory", dir, errors.FileAccessDenied, err)
	case !info.IsDir():
		return errors.NewFileError("path exists but is not a directory", dir, errors.InvalidPath, nil)
	}

	// Probe writability by actually creating a file; permission bits alone
	// don't account for read-only mounts or ACLs.
	probe, err := os.CreateTemp(dir, ".relocd-probe-*")
	if err != nil {
		return errors.NewFileError("directory is not writable", dir, errors.FileAccessDenied, err)
	}
	name := probe.Name()
	probe.Close()
	if err := os.Remove(name); err != nil {
		log.LogWithFields(log.F("file", name), log.F("error", err)).Warn("could not remove writability probe")
	}
	return nil
}

// DeleteFile removes a regular file. Directories are refused.
func DeleteFile(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return errors.NewFileError("file not found", path, errors.FileNotFound, err)
	}
	if info.IsDir() {
		return errors.NewFileError("refusing to delete a directory", path, errors.InvalidPath, nil)
	}
	if err := os.Remove(path); err != nil {
		return errors.NewFileError("could not delete file", path, errors.FileOperationFailed, err)
	}
	return nil
}

// RemoveWhileEmpty removes dir if it is empty, then walks upward removing
// each newly emptied ancestor. It stops at the first non-empty directory or
// the first removal failure. Cleanup is best-effort; failures are logged
// at debug level only.
func RemoveWhileEmpty(dir string) {
	for {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := os.Remove(dir); err != nil {
			log.LogWithFields(log.F("dir", dir), log.F("error", err)).Debug("could not remove empty directory")
			return
		}
		log.LogWithFields(log.F("dir", dir)).Debug("removed empty directory")

		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// IsSameFile reports whether the two paths resolve to the same underlying
// file. Either path not existing counts as "not the same".
func IsSameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
