// Package progress provides terminal implementations of the move
// package's Observer interface.
package progress

import (
	"fmt"
	"io"

	"relocd/internal/move"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	labelStyle = lipgloss.NewStyle().Bold(true)
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Console renders copy progress as a single redrawn line: a bar, plus the
// human-readable byte count reported by the mover. It is not safe for
// concurrent use; bind one Console per move.
type Console struct {
	w      io.Writer
	bar    progress.Model
	label  string
	total  int64
	status string
}

var _ move.Observer = (*Console)(nil)

// NewConsole creates a console progress sink writing to w, prefixed with
// label (typically the destination filename).
func NewConsole(w io.Writer, label string) *Console {
	return &Console{
		w:     w,
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		label: label,
	}
}

// InitializeProgress announces the total copy size.
func (c *Console) InitializeProgress(totalBytes int64) {
	c.total = totalBytes
	fmt.Fprintf(c.w, "%s copying %s\n", labelStyle.Render(c.label), humanize.Bytes(uint64(totalBytes)))
}

// SetProgressStatus remembers the human-readable amount copied; it is
// drawn next to the bar on the next value update.
func (c *Console) SetProgressStatus(status string) {
	c.status = status
}

// SetProgressValue redraws the bar at the current position.
func (c *Console) SetProgressValue(bytesCopied int64) {
	pct := 1.0
	if c.total > 0 {
		pct = float64(bytesCopied) / float64(c.total)
	}
	fmt.Fprintf(c.w, "\r%s %s", c.bar.ViewAs(pct), c.status)
}

// FinishProgress ends the progress line with the outcome.
func (c *Console) FinishProgress(succeeded bool) {
	if succeeded {
		fmt.Fprintf(c.w, "\r%s\n", doneStyle.Render("done"))
	} else {
		fmt.Fprintf(c.w, "\r%s\n", failStyle.Render("failed"))
	}
}
