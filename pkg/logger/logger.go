// Package logger is the leveled front end applications call instead of
// building WriteLog arguments by hand.
package logger

import (
	"time"

	"github.com/downfa11-org/boundlog/pkg/types"
)

// Writer is the subset of *disk.LogFile the logger drives.
type Writer interface {
	WriteLog(level types.Level, msg string, fields types.Fields, ts time.Time)
}

type Logger struct {
	w      Writer
	fields types.Fields
	now    func() time.Time
}

func New(w Writer) *Logger {
	return &Logger{w: w, now: time.Now}
}

// With returns a Logger that adds fields to every line. Per-call fields win
// on key collisions.
func (l *Logger) With(fields types.Fields) *Logger {
	merged := make(types.Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{w: l.w, fields: merged, now: l.now}
}

func (l *Logger) Info(msg string, fields types.Fields) {
	l.Log(types.LevelInfo, msg, fields)
}

func (l *Logger) Warn(msg string, fields types.Fields) {
	l.Log(types.LevelWarn, msg, fields)
}

func (l *Logger) Error(msg string, fields types.Fields) {
	l.Log(types.LevelError, msg, fields)
}

// Log writes one line at an arbitrary level.
func (l *Logger) Log(level types.Level, msg string, fields types.Fields) {
	if len(l.fields) > 0 {
		merged := make(types.Fields, len(l.fields)+len(fields))
		for k, v := range l.fields {
			merged[k] = v
		}
		for k, v := range fields {
			merged[k] = v
		}
		fields = merged
	}
	l.w.WriteLog(level, msg, fields, l.now())
}
