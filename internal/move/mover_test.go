package move

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"relocd/internal/config"
	"relocd/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() config.Settings {
	return config.Settings{
		MoveEnabled:     true,
		RemoveEmptyDirs: false,
		CreateDirs:      true,
		LogLevel:        "info",
	}
}

func TestRenameOnSameVolume(t *testing.T) {
	tmpDir := t.TempDir()
	srcDir := filepath.Join(tmpDir, "a")
	require.NoError(t, os.Mkdir(srcDir, 0755))
	src := testutils.CreateTestFile(t, srcDir, "show.mkv", "fifty megabytes, in spirit")

	destDir := filepath.Join(tmpDir, "b")
	rec := NewRecord(src, destDir, "Show S01E01", ".mkv")
	m := New(rec, testSettings())

	before := time.Now().Add(-time.Second)
	ok := m.Run(context.Background())
	require.True(t, ok, "move should succeed")
	assert.Equal(t, Renamed, m.Status())

	dest := filepath.Join(destDir, "Show S01E01.mkv")
	_, err := os.Stat(src)
	assert.ErrorIs(t, err, os.ErrNotExist, "source should be gone after rename")

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "fifty megabytes, in spirit", string(content))

	assert.Equal(t, dest, rec.Path(), "record should point at the new location")
	assert.Equal(t, StateRenamed, rec.State())

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.True(t, info.ModTime().After(before), "modification time should be refreshed to now")
}

func TestAlreadyInPlace(t *testing.T) {
	destDir := t.TempDir()
	dest := testutils.CreateTestFile(t, destDir, "report.pdf", "already here")

	rec := NewRecord(dest, destDir, "report", ".pdf")
	m := New(rec, testSettings())

	ok := m.Run(context.Background())
	require.True(t, ok, "re-invoking on a correctly placed file is a no-op success")
	assert.Equal(t, AlreadyInPlace, m.Status())
	assert.Equal(t, StateRenamed, rec.State())

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "already here", string(content), "file should be untouched")

	entries, err := os.ReadDir(destDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no extra files should appear")
}

func TestMissingSource(t *testing.T) {
	tmpDir := t.TempDir()
	src := filepath.Join(tmpDir, "vanished.txt")
	destDir := filepath.Join(tmpDir, "dest")

	rec := NewRecord(src, destDir, "vanished", ".txt")
	m := New(rec, testSettings())

	ok := m.Run(context.Background())
	assert.False(t, ok)
	assert.Equal(t, FileMissing, m.Status())
	assert.Equal(t, StateDoesNotExist, rec.State())

	_, err := os.Stat(destDir)
	assert.ErrorIs(t, err, os.ErrNotExist, "no destination should be created from nothing")
}

func TestSourceVanishesAfterCheck(t *testing.T) {
	// Delete the source between construction and Run to simulate external
	// mutation; the result must never be a false success.
	tmpDir := t.TempDir()
	src := testutils.CreateTestFile(t, tmpDir, "fleeting.txt", "x")
	rec := NewRecord(src, filepath.Join(tmpDir, "dest"), "fleeting", ".txt")
	m := New(rec, testSettings())

	require.NoError(t, os.Remove(src))

	ok := m.Run(context.Background())
	assert.False(t, ok)
	assert.Equal(t, FileMissing, m.Status())
}

func TestDestinationCollision(t *testing.T) {
	tmpDir := t.TempDir()
	src := testutils.CreateTestFile(t, tmpDir, "new.txt", "new content")
	destDir := filepath.Join(tmpDir, "dest")
	require.NoError(t, os.Mkdir(destDir, 0755))
	existing := testutils.CreateTestFile(t, destDir, "new.txt", "pre-existing content")

	rec := NewRecord(src, destDir, "new", ".txt")
	m := New(rec, testSettings())

	ok := m.Run(context.Background())
	assert.False(t, ok, "colliding with a different file must fail")
	assert.Equal(t, FailToMove, m.Status())
	assert.Equal(t, StateFailToMove, rec.State())

	content, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "pre-existing content", string(content), "pre-existing destination must be byte-for-byte unmodified")

	_, err = os.Stat(src)
	assert.NoError(t, err, "source should be left alone on collision")
}

func TestVersionedDuplicate(t *testing.T) {
	t.Run("moving enabled places under duplicates subdirectory", func(t *testing.T) {
		tmpDir := t.TempDir()
		src := testutils.CreateTestFile(t, tmpDir, "track.mp3", "v2")
		destDir := filepath.Join(tmpDir, "music")

		rec := NewRecord(src, destDir, "track", ".mp3")
		m := New(rec, testSettings())
		m.SetVersionIndex(2)

		require.True(t, m.Run(context.Background()))
		expected := filepath.Join(destDir, DuplicatesDirName, "track (2).mp3")
		assert.FileExists(t, expected)
		assert.Equal(t, expected, rec.Path())
	})

	t.Run("moving disabled keeps nominal directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		src := testutils.CreateTestFile(t, tmpDir, "track.mp3", "v3")
		destDir := filepath.Join(tmpDir, "music")

		cfg := testSettings()
		cfg.MoveEnabled = false
		rec := NewRecord(src, destDir, "track", ".mp3")
		m := New(rec, cfg)
		m.SetVersionIndex(3)

		require.True(t, m.Run(context.Background()))
		assert.FileExists(t, filepath.Join(destDir, "track (3).mp3"))
	})
}

func TestDestinationDirectoryIsFile(t *testing.T) {
	tmpDir := t.TempDir()
	src := testutils.CreateTestFile(t, tmpDir, "doc.txt", "content")
	blocker := testutils.CreateTestFile(t, tmpDir, "not-a-dir", "blocker")

	rec := NewRecord(src, blocker, "doc", ".txt")
	m := New(rec, testSettings())

	ok := m.Run(context.Background())
	assert.False(t, ok)
	assert.Equal(t, FailToMove, m.Status())

	_, err := os.Stat(src)
	assert.NoError(t, err, "source untouched when destination cannot be created")
}

func TestCreateDirsDisabled(t *testing.T) {
	tmpDir := t.TempDir()
	src := testutils.CreateTestFile(t, tmpDir, "doc.txt", "content")
	destDir := filepath.Join(tmpDir, "missing")

	cfg := testSettings()
	cfg.CreateDirs = false

	rec := NewRecord(src, destDir, "doc", ".txt")
	m := New(rec, cfg)

	ok := m.Run(context.Background())
	assert.False(t, ok)
	assert.Equal(t, FailToMove, m.Status())
	_, err := os.Stat(destDir)
	assert.ErrorIs(t, err, os.ErrNotExist, "directory must not be created")

	// An existing directory is still usable.
	require.NoError(t, os.Mkdir(destDir, 0755))
	rec = NewRecord(src, destDir, "doc", ".txt")
	m = New(rec, cfg)
	assert.True(t, m.Run(context.Background()))
	assert.Equal(t, Renamed, m.Status())
}

func TestRemoveEmptiedSourceDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	srcDir := filepath.Join(tmpDir, "x", "y")
	require.NoError(t, os.MkdirAll(srcDir, 0755))
	src := testutils.CreateTestFile(t, srcDir, "only.txt", "lonely")
	destDir := filepath.Join(tmpDir, "dest")

	cfg := testSettings()
	cfg.RemoveEmptyDirs = true
	rec := NewRecord(src, destDir, "only", ".txt")
	m := New(rec, cfg)

	require.True(t, m.Run(context.Background()))

	_, err := os.Stat(filepath.Join(tmpDir, "x"))
	assert.ErrorIs(t, err, os.ErrNotExist, "emptied source directories should be removed upward")
	assert.FileExists(t, filepath.Join(destDir, "only.txt"))
}

func TestCleanupDisabledByDefault(t *testing.T) {
	tmpDir := t.TempDir()
	srcDir := filepath.Join(tmpDir, "keepme")
	require.NoError(t, os.Mkdir(srcDir, 0755))
	src := testutils.CreateTestFile(t, srcDir, "f.txt", "x")

	rec := NewRecord(src, filepath.Join(tmpDir, "dest"), "f", ".txt")
	m := New(rec, testSettings())

	require.True(t, m.Run(context.Background()))
	_, err := os.Stat(srcDir)
	assert.NoError(t, err, "emptied source directory stays when cleanup is disabled")
}

func TestRenameFailure(t *testing.T) {
	defer func() { renameFile = os.Rename }()
	renameFile = func(src, dst string) error {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: os.ErrPermission}
	}

	tmpDir := t.TempDir()
	src := testutils.CreateTestFile(t, tmpDir, "stuck.txt", "content")

	rec := NewRecord(src, filepath.Join(tmpDir, "dest"), "stuck", ".txt")
	m := New(rec, testSettings())

	ok := m.Run(context.Background())
	assert.False(t, ok)
	assert.Equal(t, FailToMove, m.Status())
	assert.Equal(t, StateFailToMove, rec.State())

	_, err := os.Stat(src)
	assert.NoError(t, err, "source should survive a failed rename")
}

func TestRenameFinishesObserver(t *testing.T) {
	tmpDir := t.TempDir()
	src := testutils.CreateTestFile(t, tmpDir, "f.txt", "x")

	rec := NewRecord(src, filepath.Join(tmpDir, "dest"), "f", ".txt")
	m := New(rec, testSettings())
	obs := &recordingObserver{}
	m.SetObserver(obs)

	require.True(t, m.Run(context.Background()))
	assert.Equal(t, []bool{true}, obs.finishes, "rename should finish progress exactly once")
}

func TestAccessors(t *testing.T) {
	tmpDir := t.TempDir()
	src := testutils.CreateTestFile(t, tmpDir, "video.avi", "0123456789")
	destDir := filepath.Join(tmpDir, "sorted")

	rec := NewRecord(src, destDir, "Video Title", ".avi")
	m := New(rec, testSettings())

	assert.Equal(t, src, m.CurrentPath())
	assert.Equal(t, int64(10), m.FileSize())
	assert.Equal(t, "Video Title.avi", m.DesiredDestName())
	assert.Equal(t, destDir, m.MoveToDirectory())
	assert.Equal(t, Unchecked, m.Status())
}

func TestStatusSuccess(t *testing.T) {
	assert.True(t, AlreadyInPlace.Success())
	assert.True(t, Renamed.Success())
	assert.True(t, Misnamed.Success(), "misnamed is success-like for record purposes")
	assert.True(t, Copied.Success())

	assert.False(t, Unchecked.Success())
	assert.False(t, FileMissing.Success())
	assert.False(t, Unmoved.Success())
	assert.False(t, FailToMove.Success())
}
