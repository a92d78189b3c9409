package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	LinesWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boundlog_lines_written_total",
			Help: "Total number of log lines appended to disk",
		},
		[]string{"log"},
	)

	BytesWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boundlog_bytes_written_total",
			Help: "Total number of bytes appended to disk",
		},
		[]string{"log"},
	)

	WriteOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boundlog_write_ops_total",
			Help: "Total number of coalesced write calls issued",
		},
		[]string{"log"},
	)

	Truncations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boundlog_truncations_total",
			Help: "Total number of head truncations",
		},
		[]string{"log", "trigger"}, // lines, bytes
	)

	Errors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "boundlog_errors_total",
			Help: "Total number of classified log file errors",
		},
		[]string{"log", "kind"},
	)

	FileSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "boundlog_file_size_bytes",
			Help: "Current size of the log file",
		},
		[]string{"log"},
	)

	FileLines = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "boundlog_file_lines",
			Help: "Current number of lines in the log file",
		},
		[]string{"log"},
	)

	PendingLines = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "boundlog_pending_lines",
			Help: "Lines queued for the next flush round",
		},
		[]string{"log"},
	)

	FlushLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "boundlog_flush_latency_seconds",
			Help:    "Duration of a flush round including truncation",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"log"},
	)
)
