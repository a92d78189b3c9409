// Package disk implements a single size-bounded, append-only JSON log file.
//
// A LogFile owns one file path. Lines are encoded, queued, and written in
// coalesced rounds: every line queued while a round is in flight lands in the
// next round's single write call, in the order WriteLog (or Enqueue) was
// called. Enqueue queues without waiting, so a batch of Enqueue calls followed
// by one Flush costs a single write. After each round the file is checked
// against its line and byte caps; when a cap is hit the oldest quarter is cut
// by copying the tail to a temp file and renaming it over the original, so
// the file never has to be read into memory.
//
// Usage:
//
//	lf := disk.New("/home/me/.app/logs/app.log", func(err error) {
//		log.Printf("log file: %v", err)
//	}, disk.WithProductName("app"))
//	if err := lf.Open(); err != nil {
//		if disk.IsShouldBail(err) {
//			// read-only disk or permissions; stop retrying
//		}
//		return err
//	}
//	defer lf.Close()
//	lf.WriteLog(types.LevelInfo, "started", types.Fields{"version": "1.2.0"}, time.Now())
//
// Only one LogFile should write a given path at a time; see Manager.
package disk

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/downfa11-org/boundlog/pkg/config"
	"github.com/downfa11-org/boundlog/pkg/encoder"
	"github.com/downfa11-org/boundlog/pkg/metrics"
	"github.com/downfa11-org/boundlog/pkg/types"
	"github.com/downfa11-org/boundlog/util"
)

// fileHandle is the part of *os.File a flush round needs.
type fileHandle interface {
	Write(p []byte) (int, error)
	Close() error
}

// flushRound is the single-flight token for the write currently on disk.
type flushRound struct {
	done  chan struct{}
	lines int
}

type LogFile struct {
	path    string
	label   string
	onError func(error)
	enc     *encoder.Encoder

	maxBytes        int64
	maxLines        int
	maxPendingLines int
	metricsEnabled  bool

	mu        sync.Mutex // pending, state, round, hasOpened, closed
	pending   []string
	state     flushState
	round     *flushRound
	hasOpened bool
	closed    bool

	ioMu              sync.Mutex // file handle and on-disk bookkeeping
	file              fileHandle
	size              int64
	newlineOffsets    []int64
	bytesWrittenTotal int64
	writeOps          uint64
	truncations       uint64

	openFile func(path string) (fileHandle, error)
}

// Option configures a LogFile.
type Option func(*LogFile)

func WithProductName(name string) Option {
	return func(l *LogFile) {
		l.enc = encoder.New(name, l.enc.MaxLineBytes)
	}
}

// WithMaxBytes sets the byte size at which the oldest quarter is cut.
func WithMaxBytes(n int64) Option {
	return func(l *LogFile) {
		if n > 0 {
			l.maxBytes = n
		}
	}
}

// WithMaxLines sets the line count at which the oldest quarter is cut.
func WithMaxLines(n int) Option {
	return func(l *LogFile) {
		if n >= 4 {
			l.maxLines = n
		}
	}
}

// WithMaxLineBytes sets the per-line encoding cap.
func WithMaxLineBytes(n int) Option {
	return func(l *LogFile) {
		l.enc.MaxLineBytes = n
		if n <= 3 {
			l.enc.MaxLineBytes = encoder.DefaultMaxLineBytes
		}
	}
}

// WithMaxPendingLines bounds the queue; writers arriving at a full queue
// wait for the in-flight round before queueing.
func WithMaxPendingLines(n int) Option {
	return func(l *LogFile) {
		l.maxPendingLines = n
	}
}

// WithMetrics toggles prometheus publishing for this file.
func WithMetrics(enabled bool) Option {
	return func(l *LogFile) {
		l.metricsEnabled = enabled
	}
}

// WithConfig applies the retention settings of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(l *LogFile) {
		WithMaxBytes(cfg.MaxBytes)(l)
		WithMaxLines(cfg.MaxLines)(l)
		WithMaxPendingLines(cfg.MaxPendingLines)(l)
		name := cfg.ProductName
		if name == "" {
			name = l.enc.Name
		}
		l.enc = encoder.New(name, cfg.MaxLineBytes)
	}
}

// New creates an unopened LogFile for an absolute path. onError receives every
// asynchronous failure (write, truncate, encode); it must not be nil.
//
// New panics on a relative path or a nil onError.
func New(path string, onError func(error), opts ...Option) *LogFile {
	if !filepath.IsAbs(path) {
		panic(fmt.Sprintf("disk: log file path must be absolute, got %q", path))
	}
	if onError == nil {
		panic("disk: onError callback is required")
	}
	l := &LogFile{
		path:            filepath.Clean(path),
		label:           filepath.Clean(path),
		onError:         onError,
		enc:             encoder.New(config.DefaultProductName, encoder.DefaultMaxLineBytes),
		maxBytes:        config.DefaultMaxBytes,
		maxLines:        config.DefaultMaxLines,
		maxPendingLines: config.DefaultMaxPendingLines,
		metricsEnabled:  true,
		openFile:        openAppend,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the file this LogFile writes.
func (l *LogFile) Path() string {
	return l.path
}

// Open recovers byte and line accounting from any existing file and acquires
// the descriptor. It may only succeed once per LogFile.
func (l *LogFile) Open() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.hasOpened {
		return ErrAlreadyOpened
	}

	l.ioMu.Lock()
	defer l.ioMu.Unlock()

	if err := l.recoverState(); err != nil {
		return err
	}
	l.hasOpened = true
	util.Debug("log file %s opened (size=%d lines=%d)", l.path, l.size, len(l.newlineOffsets))
	return nil
}

// WriteLog encodes one line, queues it and returns once the round carrying
// it has finished. I/O and encoding failures go to onError only.
//
// WriteLog panics with ErrNotOpened before a successful Open or after
// Close/Destroy.
func (l *LogFile) WriteLog(level types.Level, msg string, fields types.Fields, ts time.Time) {
	l.Enqueue(level, msg, fields, ts)
	l.Flush()
}

// Enqueue encodes one line and queues it without waiting for a write. Lines
// queued by successive Enqueue calls share the single write of the next
// Flush:
//
//	for _, ev := range batch {
//		lf.Enqueue(ev.Level, ev.Msg, ev.Fields, ev.Time)
//	}
//	lf.Flush() // one write call for the whole batch
//
// When the queue reaches its cap Enqueue flushes it before returning.
// Enqueue panics like WriteLog.
func (l *LogFile) Enqueue(level types.Level, msg string, fields types.Fields, ts time.Time) {
	l.mu.Lock()
	ready := l.hasOpened && !l.closed
	l.mu.Unlock()
	if !ready {
		panic(fmt.Errorf("%w: %s", ErrNotOpened, l.path))
	}

	line, err := l.enc.Encode(level, msg, fields, ts)
	if err != nil {
		l.report(classify(KindEncode, "encode", l.path, err))
		return
	}
	if l.queueLine(line) {
		l.Flush()
	}
}

// Close flushes queued lines and releases the descriptor, keeping the file.
func (l *LogFile) Close() error {
	for {
		l.Flush()
		l.mu.Lock()
		l.waitRound()
		if l.closed || len(l.pending) == 0 {
			break
		}
		l.mu.Unlock()
	}
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	l.ioMu.Lock()
	defer l.ioMu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	if err != nil {
		return classify(KindDestroy, "close", l.path, err)
	}
	return nil
}

// Destroy closes the descriptor and removes the file. Queued lines are
// discarded. Calling Destroy twice is not supported.
func (l *LogFile) Destroy() error {
	l.mu.Lock()
	l.waitRound()
	l.closed = true
	l.pending = nil
	l.mu.Unlock()

	l.ioMu.Lock()
	defer l.ioMu.Unlock()

	var errs []error
	if l.file != nil {
		if err := l.file.Close(); err != nil {
			errs = append(errs, classify(KindDestroy, "close", l.path, err))
		}
		l.file = nil
	}
	if err := os.Remove(l.path); err != nil {
		errs = append(errs, classify(KindDestroy, "unlink", l.path, err))
	}
	l.size = 0
	l.newlineOffsets = nil
	if l.metricsEnabled {
		metrics.SetFileState(l.label, 0, 0)
	}
	return errors.Join(errs...)
}

// Stats returns a snapshot of the file's bookkeeping.
func (l *LogFile) Stats() types.Stats {
	l.mu.Lock()
	pending := len(l.pending)
	opened := l.hasOpened && !l.closed
	l.mu.Unlock()

	l.ioMu.Lock()
	defer l.ioMu.Unlock()
	return types.Stats{
		Path:              l.path,
		Size:              l.size,
		Lines:             len(l.newlineOffsets),
		BytesWrittenTotal: l.bytesWrittenTotal,
		WriteOps:          l.writeOps,
		Truncations:       l.truncations,
		Pending:           pending,
		Opened:            opened,
	}
}

// waitRound blocks until no round is in flight. Caller holds mu; it is
// released while waiting.
func (l *LogFile) waitRound() {
	for l.state == stateFlushing {
		r := l.round
		l.mu.Unlock()
		<-r.done
		l.mu.Lock()
	}
}

func (l *LogFile) report(err error) {
	kind := KindOf(err)
	if l.metricsEnabled {
		metrics.PushError(l.label, kind.String())
	}
	util.Debug("log file %s: %v", l.path, err)
	l.onError(err)
}

func (l *LogFile) publishState() {
	if l.metricsEnabled {
		metrics.SetFileState(l.label, l.size, len(l.newlineOffsets))
	}
}
