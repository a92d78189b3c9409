// Package logtail reads the newest lines of a log file without loading the
// whole file.
package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/downfa11-org/boundlog/pkg/types"
)

// maxLineBytes bounds a single scanned line; writers cap lines far below it.
const maxLineBytes = 1024 * 1024

// Read returns at most maxLines from the end of the file at path. A missing
// file has no lines.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()
	return ReadFrom(file, maxLines)
}

// ReadFrom is Read over an arbitrary reader.
func ReadFrom(r io.Reader, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Format renders a stored line as "time level msg", followed by the
// truncation prefix or fields when present. Lines that are not log records
// are returned unchanged.
func Format(raw string) string {
	var line types.LogLine
	if err := json.Unmarshal([]byte(raw), &line); err != nil || line.V == 0 {
		return raw
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s %s", line.Time, strings.ToUpper(line.Level), line.Msg)
	if line.Truncated != "" {
		fmt.Fprintf(&b, " [truncated %d bytes]", len(line.Truncated))
		return b.String()
	}
	if len(line.Fields) > 0 {
		if fields, err := json.Marshal(line.Fields); err == nil {
			b.WriteByte(' ')
			b.Write(fields)
		}
	}
	return b.String()
}
