package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/downfa11-org/boundlog/pkg/disk"
	"github.com/downfa11-org/boundlog/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	level  types.Level
	msg    string
	fields types.Fields
	ts     time.Time
}

type fakeWriter struct {
	calls []call
}

func (f *fakeWriter) WriteLog(level types.Level, msg string, fields types.Fields, ts time.Time) {
	f.calls = append(f.calls, call{level, msg, fields, ts})
}

func TestLevels(t *testing.T) {
	w := &fakeWriter{}
	l := New(w)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	l.Info("i", nil)
	l.Warn("w", types.Fields{"a": 1})
	l.Error("e", nil)
	l.Log("debug", "d", nil)

	require.Len(t, w.calls, 4)
	assert.Equal(t, []types.Level{"info", "warn", "error", "debug"},
		[]types.Level{w.calls[0].level, w.calls[1].level, w.calls[2].level, w.calls[3].level})
	assert.Equal(t, types.Fields{"a": 1}, w.calls[1].fields)
	assert.Nil(t, w.calls[0].fields)
	assert.Equal(t, fixed, w.calls[2].ts)
}

func TestWithMergesFields(t *testing.T) {
	w := &fakeWriter{}
	base := New(w).With(types.Fields{"svc": "api", "zone": "a"})
	child := base.With(types.Fields{"zone": "b"})

	child.Info("hello", types.Fields{"req": 9})
	base.Info("plain", nil)

	require.Len(t, w.calls, 2)
	assert.Equal(t, types.Fields{"svc": "api", "zone": "b", "req": 9}, w.calls[0].fields)
	assert.Equal(t, types.Fields{"svc": "api", "zone": "a"}, w.calls[1].fields)
}

func TestLoggerWritesThroughLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	lf := disk.New(path, func(err error) { t.Errorf("unexpected error: %v", err) }, disk.WithMetrics(false))
	require.NoError(t, lf.Open())
	defer lf.Close()

	New(lf).With(types.Fields{"svc": "api"}).Warn("disk almost full", nil)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(raw))
	assert.Contains(t, line, `"level":"warn"`)
	assert.Contains(t, line, `"msg":"disk almost full"`)
	assert.Contains(t, line, `"fields":{"svc":"api"}`)
}
