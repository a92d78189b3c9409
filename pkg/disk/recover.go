package disk

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/exp/mmap"
)

const scanChunkSize = 64 * 1024

// recoverState rebuilds size and newline offsets from whatever is on disk
// and acquires the append descriptor. Caller holds ioMu.
func (l *LogFile) recoverState() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return classify(KindOpen, "mkdir", l.path, err)
	}

	size, offsets, err := scanNewlines(l.path)
	if err != nil {
		return classify(KindOpen, "read", l.path, err)
	}

	f, err := l.openFile(l.path)
	if err != nil {
		return classify(KindOpen, "open", l.path, err)
	}

	l.file = f
	l.size = size
	l.newlineOffsets = offsets
	l.publishState()
	return nil
}

// scanNewlines maps the file and records the offset of every '\n'.
// A missing file is an empty log.
func scanNewlines(path string) (int64, []int64, error) {
	r, err := mmap.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil, nil
		}
		return 0, nil, err
	}
	defer r.Close()

	size := int64(r.Len())
	var offsets []int64
	buf := make([]byte, scanChunkSize)
	for pos := int64(0); pos < size; {
		n, err := r.ReadAt(buf, pos)
		if n == 0 && err != nil && !errors.Is(err, io.EOF) {
			return 0, nil, err
		}
		chunk := buf[:n]
		for base := 0; ; {
			i := bytes.IndexByte(chunk[base:], '\n')
			if i < 0 {
				break
			}
			offsets = append(offsets, pos+int64(base+i))
			base += i + 1
		}
		pos += int64(n)
		if n == 0 {
			break
		}
	}
	return size, offsets, nil
}

// Scan reports the byte size and newline count of a log file without
// opening it for writing. A missing file scans as empty.
func Scan(path string) (size int64, lines int, err error) {
	size, offsets, err := scanNewlines(path)
	if err != nil {
		return 0, 0, err
	}
	return size, len(offsets), nil
}
