package progress

import (
	"bytes"
	"testing"

	"relocd/pkg/testutils"

	"github.com/stretchr/testify/assert"
)

func TestConsoleProgress(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, "Show S01E01.mkv")

	c.InitializeProgress(100)
	out := testutils.StripANSI(buf.String())
	assert.Contains(t, out, "Show S01E01.mkv")
	assert.Contains(t, out, "100 B")

	c.SetProgressStatus("50 B")
	c.SetProgressValue(50)
	out = testutils.StripANSI(buf.String())
	assert.Contains(t, out, "50 B")

	c.FinishProgress(true)
	out = testutils.StripANSI(buf.String())
	assert.Contains(t, out, "done")
}

func TestConsoleFailure(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, "f.bin")

	c.InitializeProgress(10)
	c.FinishProgress(false)
	assert.Contains(t, testutils.StripANSI(buf.String()), "failed")
}

func TestConsoleZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, "empty.bin")

	c.InitializeProgress(0)
	c.SetProgressValue(0) // must not divide by zero
	c.FinishProgress(true)
	assert.Contains(t, testutils.StripANSI(buf.String()), "done")
}
