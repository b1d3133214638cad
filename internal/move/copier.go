package move

import (
	"context"
	"io"
	"os"

	"relocd/internal/log"

	"github.com/dustin/go-humanize"
)

// copyBufferSize is the chunk size for cross-volume copies. Progress and
// cancellation are both handled at chunk granularity.
const copyBufferSize = 32768

// copyAndDelete copies source to dest in bounded chunks, then deletes the
// original. It is the fallback when a same-volume rename isn't possible.
//
// The destination is created exclusively; a file appearing there between
// the collision check and now fails the copy rather than being overwritten.
// Cancellation is checked after every chunk and counts as failure: the
// partial destination is left behind but never reported as success, and the
// source is only deleted after a fully successful copy. A delete failure
// after a good copy still fails the move, since "copied but original still
// present" is not an acceptable end state.
//
// Sets status to Copied or FailToMove.
func (m *Mover) copyAndDelete(ctx context.Context, source, dest string) {
	if m.observer != nil {
		m.observer.InitializeProgress(m.record.FileSize())
	}

	err := m.streamCopy(ctx, source, dest)
	ok := err == nil
	if ok {
		m.status = Copied
	} else {
		log.LogWithFields(
			log.F("source", source),
			log.F("dest", dest),
			log.F("error", err),
		).Warn("error copying file")
		m.status = FailToMove
	}

	if ok {
		// The copy does not carry over ownership or other attributes of
		// the original; for now only the bytes move.
		if delErr := deleteFile(source); delErr != nil {
			log.LogWithFields(
				log.F("source", source),
				log.F("error", delErr),
			).Warn("copy succeeded but failed to delete original")
			ok = false
			m.status = FailToMove
		}
	}

	if m.observer != nil {
		m.observer.FinishProgress(ok)
	}
}

// streamCopy moves the bytes, reporting cumulative progress per chunk.
// Both handles are released on every exit path.
func (m *Mover) streamCopy(ctx context.Context, source, dest string) error {
	in, err := os.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	buf := make([]byte, copyBufferSize)
	var copied int64
	for {
		n, readErr := in.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
			copied += int64(n)
			if m.observer != nil {
				m.observer.SetProgressStatus(humanize.Bytes(uint64(copied)))
				m.observer.SetProgressValue(copied)
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return readErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}
