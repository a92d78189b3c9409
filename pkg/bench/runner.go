package bench

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/downfa11-org/boundlog/pkg/disk"
	"github.com/downfa11-org/boundlog/pkg/logger"
	"github.com/downfa11-org/boundlog/pkg/types"
	"github.com/downfa11-org/boundlog/util"
)

type BenchmarkRunner struct {
	Path           string
	NumWriters     int
	LinesPerWriter int
	PayloadBytes   int
	MaxBytes       int64
	MaxLines       int
}

// Result summarises one run.
type Result struct {
	Lines       int
	Duration    time.Duration
	WriteOps    uint64
	Truncations uint64
	Errors      int64
	FinalSize   int64
	FinalLines  int
}

// Throughput is lines per second.
func (r Result) Throughput() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.Lines) / r.Duration.Seconds()
}

// LinesPerWrite is the average number of lines coalesced into one write call.
func (r Result) LinesPerWrite() float64 {
	if r.WriteOps == 0 {
		return 0
	}
	return float64(r.Lines) / float64(r.WriteOps)
}

func NewBenchmarkRunner(path string, writers, lines, payload int, maxBytes int64, maxLines int) *BenchmarkRunner {
	return &BenchmarkRunner{
		Path:           path,
		NumWriters:     writers,
		LinesPerWriter: lines,
		PayloadBytes:   payload,
		MaxBytes:       maxBytes,
		MaxLines:       maxLines,
	}
}

// Run drives NumWriters goroutines against one LogFile and reports the
// write coalescing it achieved.
func (b *BenchmarkRunner) Run() (Result, error) {
	path, err := filepath.Abs(b.Path)
	if err != nil {
		return Result{}, fmt.Errorf("resolve bench path: %w", err)
	}

	var errCount atomic.Int64
	lf := disk.New(path, func(err error) {
		errCount.Add(1)
		util.Debug("bench write error: %v", err)
	}, disk.WithProductName("bench"), disk.WithMaxBytes(b.MaxBytes), disk.WithMaxLines(b.MaxLines), disk.WithMetrics(false))
	if err := lf.Open(); err != nil {
		return Result{}, err
	}

	payload := strings.Repeat("x", b.PayloadBytes)
	log := logger.New(lf)
	start := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < b.NumWriters; i++ {
		wg.Add(1)
		go func(wid int) {
			defer wg.Done()
			for n := 0; n < b.LinesPerWriter; n++ {
				log.Info(payload, types.Fields{"writer": wid, "seq": n})
			}
		}(i)
	}
	wg.Wait()
	duration := time.Since(start)

	st := lf.Stats()
	if err := lf.Close(); err != nil {
		return Result{}, err
	}

	return Result{
		Lines:       b.NumWriters * b.LinesPerWriter,
		Duration:    duration,
		WriteOps:    st.WriteOps,
		Truncations: st.Truncations,
		Errors:      errCount.Load(),
		FinalSize:   st.Size,
		FinalLines:  st.Lines,
	}, nil
}

func (b *BenchmarkRunner) Print(r Result) {
	fmt.Printf("\n🧪 BENCHMARK RESULT [logfile] 🧪\n")
	fmt.Printf("-------------------------------------\n")
	fmt.Printf(" Writers        : %d\n", b.NumWriters)
	fmt.Printf(" Total Lines    : %d\n", r.Lines)
	fmt.Printf(" Duration       : %v\n", r.Duration)
	fmt.Printf(" Throughput     : %.2f lines/sec\n", r.Throughput())
	fmt.Printf(" Write Calls    : %d (%.1f lines/write)\n", r.WriteOps, r.LinesPerWrite())
	fmt.Printf(" Truncations    : %d\n", r.Truncations)
	fmt.Printf(" Errors         : %d\n", r.Errors)
	fmt.Printf(" Final File     : %d bytes / %d lines\n", r.FinalSize, r.FinalLines)
	fmt.Printf("-------------------------------------\n")
}
