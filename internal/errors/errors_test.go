package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileError(t *testing.T) {
	t.Run("message includes path", func(t *testing.T) {
		err := NewFileError("file not found", "/tmp/missing.txt", FileNotFound, nil)
		assert.Contains(t, err.Error(), "file not found")
		assert.Contains(t, err.Error(), "/tmp/missing.txt")
		assert.Equal(t, "/tmp/missing.txt", err.Path())
		assert.Equal(t, FileNotFound, err.Kind())
	})

	t.Run("message includes wrapped error", func(t *testing.T) {
		inner := fmt.Errorf("permission denied")
		err := NewFileError("file access denied", "/etc/secret", FileAccessDenied, inner)
		assert.Contains(t, err.Error(), "permission denied")
		assert.ErrorIs(t, err, inner)
	})

	t.Run("kind checks", func(t *testing.T) {
		err := NewFileError("file not found", "/tmp/x", FileNotFound, nil)
		assert.True(t, IsFileNotFound(err))
		assert.False(t, IsFileAccessDenied(err))

		wrapped := Wrap(err, "while moving")
		assert.True(t, IsFileNotFound(wrapped), "kind check should see through wrapping")
	})
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("invalid configuration", "watch.rules", InvalidConfig, nil)
	assert.Contains(t, err.Error(), "watch.rules")
	assert.Equal(t, "watch.rules", err.Param())
	assert.True(t, IsInvalidConfig(err))
}

func TestWrap(t *testing.T) {
	t.Run("nil passthrough", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "context"))
		assert.NoError(t, Wrapf(nil, "context %d", 1))
	})

	t.Run("wrapping preserves chain", func(t *testing.T) {
		base := New("base failure")
		wrapped := Wrapf(base, "step %s", "rename")
		assert.Contains(t, wrapped.Error(), "step rename")
		assert.ErrorIs(t, wrapped, base)
	})
}
