// Package encoder turns log calls into single newline-free JSON records.
//
// Lines whose encoding exceeds the per-line cap are replaced by a compact
// record carrying a prefix of the original encoding in "truncated", so a
// single oversized payload can never blow through the file's size budget.
package encoder

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/downfa11-org/boundlog/pkg/types"
)

const (
	DefaultMaxLineBytes = 32 * 1024 // 32 KiB
	TimeLayout          = "2006-01-02T15:04:05.000Z07:00"

	ellipsis = "..."
)

// Encoder holds the per-process values stamped onto every line.
type Encoder struct {
	Name         string
	Hostname     string
	PID          int
	MaxLineBytes int
}

// New resolves hostname and pid once. An unresolvable hostname is recorded
// as an empty string.
func New(productName string, maxLineBytes int) *Encoder {
	if maxLineBytes <= len(ellipsis) {
		maxLineBytes = DefaultMaxLineBytes
	}
	host, err := os.Hostname()
	if err != nil {
		host = ""
	}
	return &Encoder{
		Name:         productName,
		Hostname:     host,
		PID:          os.Getpid(),
		MaxLineBytes: maxLineBytes,
	}
}

// FormatTime renders ts the way the "time" field stores it.
func FormatTime(ts time.Time) string {
	return ts.UTC().Format(TimeLayout)
}

// Encode serializes one record. Marshal failures (cyclic maps, channels,
// NaN, ...) are returned and nothing is produced.
func (e *Encoder) Encode(level types.Level, msg string, fields types.Fields, ts time.Time) (string, error) {
	if fields == nil {
		fields = types.Fields{}
	}
	line := types.LogLine{
		Name:     e.Name,
		Hostname: e.Hostname,
		PID:      e.PID,
		Level:    level,
		Msg:      msg,
		Time:     FormatTime(ts),
		V:        types.LogLineVersion,
		Fields:   fields,
	}

	raw, err := json.Marshal(line)
	if err != nil {
		return "", fmt.Errorf("encode log line: %w", err)
	}
	if len(raw) <= e.MaxLineBytes {
		return string(raw), nil
	}

	if line.Level == types.LevelInfo {
		line.Level = types.LevelWarn
	}
	line.Fields = types.Fields{"isTruncated": true}
	line.Truncated = truncatePrefix(string(raw), e.MaxLineBytes)

	raw, err = json.Marshal(line)
	if err != nil {
		return "", fmt.Errorf("encode truncated log line: %w", err)
	}
	return string(raw), nil
}

// truncatePrefix cuts s to limit-3 bytes and appends "...". The cut backs off
// to a rune boundary so the result stays valid UTF-8.
func truncatePrefix(s string, limit int) string {
	cut := limit - len(ellipsis)
	if cut > len(s) {
		cut = len(s)
	}
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + ellipsis
}
