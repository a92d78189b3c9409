package metrics

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/downfa11-org/boundlog/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func init() {
	prometheus.MustRegister(LinesWritten, BytesWritten, WriteOps, Truncations, Errors)
	prometheus.MustRegister(FileSize, FileLines, PendingLines, FlushLatency)
}

// StartMetricsServer serves /metrics on port in the background and returns
// the server so callers can shut it down.
func StartMetricsServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go func() {
		util.Info("[METRICS] Prometheus exporter listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			util.Error("[METRICS] Failed to start metrics server: %v", err)
		}
	}()
	return srv
}

// PushFlush records one completed flush round.
func PushFlush(log string, lines, bytes int, elapsedSeconds float64) {
	WriteOps.WithLabelValues(log).Inc()
	LinesWritten.WithLabelValues(log).Add(float64(lines))
	BytesWritten.WithLabelValues(log).Add(float64(bytes))
	FlushLatency.WithLabelValues(log).Observe(elapsedSeconds)
}

// SetFileState publishes the current on-disk bookkeeping.
func SetFileState(log string, size int64, lines int) {
	FileSize.WithLabelValues(log).Set(float64(size))
	FileLines.WithLabelValues(log).Set(float64(lines))
}

func PushTruncation(log, trigger string) {
	Truncations.WithLabelValues(log, trigger).Inc()
}

func PushError(log, kind string) {
	Errors.WithLabelValues(log, kind).Inc()
}

func SetPending(log string, n int) {
	PendingLines.WithLabelValues(log).Set(float64(n))
}
