package disk

import (
	"bytes"
	"strings"
	"time"

	"github.com/downfa11-org/boundlog/pkg/metrics"
)

// flushState is the coordinator's state. Transitions, all under mu:
//
//	Idle     -> Flushing  Flush snapshots a non-empty queue
//	Flushing -> Idle      the round's write (and truncation) returned
//
// Every other caller of Flush waits on the round's done channel while the
// state is Flushing.
type flushState int

const (
	stateIdle flushState = iota
	stateFlushing
)

func (s flushState) String() string {
	if s == stateFlushing {
		return "flushing"
	}
	return "idle"
}

// queueLine appends an encoded line to the pending queue. When the queue is at
// its cap the caller waits for the in-flight round, so overload turns into
// latency for writers instead of unbounded memory. full reports that the
// queue is at its cap after the append.
func (l *LogFile) queueLine(line string) (full bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for l.maxPendingLines > 0 && len(l.pending) >= l.maxPendingLines && l.state == stateFlushing {
		r := l.round
		l.mu.Unlock()
		<-r.done
		l.mu.Lock()
	}
	if l.closed {
		return false
	}
	l.pending = append(l.pending, line)
	if l.metricsEnabled {
		metrics.SetPending(l.label, len(l.pending))
	}
	return l.maxPendingLines > 0 && len(l.pending) >= l.maxPendingLines
}

// Flush writes everything queued so far. If a round is in flight it waits
// for it first; with nothing queued afterwards it returns without touching
// the file, so repeated calls cost no writes.
func (l *LogFile) Flush() {
	l.mu.Lock()
	l.waitRound()
	if l.closed {
		l.pending = nil
		l.mu.Unlock()
		return
	}
	if len(l.pending) == 0 {
		l.mu.Unlock()
		return
	}

	lines := l.pending
	l.pending = nil
	r := &flushRound{done: make(chan struct{}), lines: len(lines)}
	l.round = r
	l.state = stateFlushing
	if l.metricsEnabled {
		metrics.SetPending(l.label, 0)
	}
	l.mu.Unlock()

	resync, err := l.runRound(lines)

	l.mu.Lock()
	if resync {
		// A bare marker at the head ends the torn line before anything
		// queued during this round is written.
		l.pending = append([]string{""}, l.pending...)
	}
	l.round = nil
	l.state = stateIdle
	close(r.done)
	l.mu.Unlock()

	if err != nil {
		l.report(err)
	}
}

// runRound performs one coalesced write and the truncation check that
// follows it. It holds ioMu only; taking mu here would invert lock order.
// resync reports a partial write that stopped inside a line.
func (l *LogFile) runRound(lines []string) (resync bool, err error) {
	l.ioMu.Lock()
	defer l.ioMu.Unlock()

	if l.file == nil {
		f, err := l.openFile(l.path)
		if err != nil {
			return false, classify(KindWrite, "reopen", l.path, err)
		}
		l.file = f
	}

	buf := []byte(strings.Join(lines, "\n") + "\n")
	start := time.Now()
	n, werr := l.file.Write(buf)
	l.account(buf[:n])
	l.writeOps++

	if l.metricsEnabled {
		metrics.PushFlush(l.label, completedLines(lines, buf[:n]), n, time.Since(start).Seconds())
	}

	if werr != nil {
		l.publishState()
		return n > 0 && buf[n-1] != '\n', classify(KindWrite, "write", l.path, werr)
	}

	if err := l.maybeTruncate(); err != nil {
		l.publishState()
		return false, err
	}
	l.publishState()
	return false, nil
}

// completedLines counts the lines of a round whose newline reached the file.
// A leading resync marker ends an earlier torn line and is not counted.
func completedLines(lines []string, written []byte) int {
	n := bytes.Count(written, []byte{'\n'})
	if n > 0 && len(lines) > 0 && lines[0] == "" {
		n--
	}
	return n
}

// account records the bytes that actually reached the file.
func (l *LogFile) account(written []byte) {
	base := l.size
	for i, b := range written {
		if b == '\n' {
			l.newlineOffsets = append(l.newlineOffsets, base+int64(i))
		}
	}
	l.size += int64(len(written))
	l.bytesWrittenTotal += int64(len(written))
}
