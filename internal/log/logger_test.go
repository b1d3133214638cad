package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasicLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.Info("info message")
	assert.Contains(t, buf.String(), "info")
	assert.Contains(t, buf.String(), "info message")
	buf.Reset()

	l.Warn("warn message")
	assert.Contains(t, buf.String(), "warn message")
	buf.Reset()

	l.Error("error message")
	assert.Contains(t, buf.String(), "error message")
	buf.Reset()

	l.Infof("formatted %s", "message")
	assert.Contains(t, buf.String(), "formatted message")
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetDebug(false)

	SetDebug(false)
	Debug("debug message")
	assert.Empty(t, buf.String(), "debug output should be suppressed at info level")

	SetDebug(true)
	Debug("debug message")
	assert.Contains(t, buf.String(), "debug message")
}

func TestLogWithFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	LogWithFields(F("source", "/a/b.txt"), F("dest", "/c/b.txt")).Info("moving file")

	out := buf.String()
	assert.Contains(t, out, "moving file")
	assert.Contains(t, out, "/a/b.txt")
	assert.Contains(t, out, "/c/b.txt")
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetLevel("info")

	SetLevel("error")
	Warnf("warning %d", 1)
	assert.Empty(t, buf.String(), "warn output should be suppressed at error level")

	SetLevel("not-a-level")
	Infof("back to info")
	assert.Contains(t, buf.String(), "back to info")
}
