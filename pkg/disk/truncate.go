package disk

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/downfa11-org/boundlog/pkg/metrics"
	"github.com/downfa11-org/boundlog/util"
	"github.com/google/uuid"
)

const (
	triggerLines = "lines"
	triggerBytes = "bytes"
)

// maybeTruncate cuts the oldest quarter once a cap is reached. The line cap
// is checked first. Caller holds ioMu.
func (l *LogFile) maybeTruncate() error {
	lines := len(l.newlineOffsets)
	switch {
	case lines >= l.maxLines:
		idx := l.maxLines / 4
		return l.truncate(l.newlineOffsets[idx]+1, idx, triggerLines)
	case l.size >= l.maxBytes:
		threshold := l.maxBytes / 4
		idx := sort.Search(lines, func(i int) bool {
			return l.newlineOffsets[i] > threshold
		})
		if idx == lines {
			return l.truncate(l.size, -1, triggerBytes)
		}
		return l.truncate(l.newlineOffsets[idx]+1, idx, triggerBytes)
	}
	return nil
}

// truncate drops every byte before cut, which is the position just past the
// newline at cutLine. cutLine -1 means nothing is kept.
//
// The tail is copied to a sibling temp file which is then renamed over the
// log, so the previous content survives until the rename. Counters are only
// rebased once the rename has happened.
func (l *LogFile) truncate(cut int64, cutLine int, trigger string) error {
	tmp := fmt.Sprintf("%s.%s.tmp", l.path, uuid.NewString())
	if err := copyTail(l.path, tmp, cut); err != nil {
		_ = os.Remove(tmp)
		return classify(KindTruncate, "copy", l.path, err)
	}

	if closeBeforeRename && l.file != nil {
		if err := l.file.Close(); err != nil {
			_ = os.Remove(tmp)
			return classify(KindTruncate, "close", l.path, err)
		}
		l.file = nil
	}

	if err := os.Rename(tmp, l.path); err != nil {
		_ = os.Remove(tmp)
		return classify(KindTruncate, "rename", l.path, err)
	}

	l.truncations++
	if l.metricsEnabled {
		metrics.PushTruncation(l.label, trigger)
	}
	util.Debug("log file %s truncated by %s: cut %d bytes", l.path, trigger, cut)

	if cutLine == -1 {
		l.size = 0
		l.newlineOffsets = nil
		if l.file != nil {
			err := l.file.Close()
			l.file = nil
			if err != nil {
				return classify(KindTruncate, "close", l.path, err)
			}
		}
		if err := l.recoverState(); err != nil {
			return classify(KindTruncate, "reopen", l.path, err)
		}
		return nil
	}

	kept := l.newlineOffsets[cutLine+1:]
	rebased := make([]int64, len(kept))
	for i, off := range kept {
		rebased[i] = off - cut
	}
	l.newlineOffsets = rebased
	l.size -= cut

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		if err != nil {
			return classify(KindTruncate, "close", l.path, err)
		}
	}
	f, err := l.openFile(l.path)
	if err != nil {
		return classify(KindTruncate, "reopen", l.path, err)
	}
	l.file = f
	return nil
}

// copyTail writes src[offset:] into a new file at dst and syncs it.
func copyTail(src, dst string, offset int64) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if err := copyRange(out, in, offset); err != nil {
		out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copyRangeGeneric(dst, src *os.File, offset int64) error {
	if _, err := src.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	_, err := io.Copy(dst, src)
	return err
}
