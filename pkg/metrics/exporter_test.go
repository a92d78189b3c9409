package metrics_test

import (
	"testing"

	"github.com/downfa11-org/boundlog/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func getCounterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	_ = c.Write(m)
	return m.GetCounter().GetValue()
}

func getGaugeValue(g prometheus.Gauge) float64 {
	m := &dto.Metric{}
	_ = g.Write(m)
	return m.GetGauge().GetValue()
}

func getHistogramCount(o prometheus.Observer) uint64 {
	h, ok := o.(prometheus.Histogram)
	if !ok {
		return 0
	}
	m := &dto.Metric{}
	_ = h.Write(m)
	return m.GetHistogram().GetSampleCount()
}

func TestPushFlush(t *testing.T) {
	const log = "push-flush.log"
	initialOps := getCounterValue(metrics.WriteOps.WithLabelValues(log))
	initialLines := getCounterValue(metrics.LinesWritten.WithLabelValues(log))
	initialBytes := getCounterValue(metrics.BytesWritten.WithLabelValues(log))
	initialLatency := getHistogramCount(metrics.FlushLatency.WithLabelValues(log))

	metrics.PushFlush(log, 3, 120, 0.01)
	metrics.PushFlush(log, 1, 40, 0.02)

	if got := getCounterValue(metrics.WriteOps.WithLabelValues(log)); got != initialOps+2 {
		t.Fatalf("WriteOps expected %v, got %v", initialOps+2, got)
	}
	if got := getCounterValue(metrics.LinesWritten.WithLabelValues(log)); got != initialLines+4 {
		t.Fatalf("LinesWritten expected %v, got %v", initialLines+4, got)
	}
	if got := getCounterValue(metrics.BytesWritten.WithLabelValues(log)); got != initialBytes+160 {
		t.Fatalf("BytesWritten expected %v, got %v", initialBytes+160, got)
	}
	if got := getHistogramCount(metrics.FlushLatency.WithLabelValues(log)); got != initialLatency+2 {
		t.Fatalf("FlushLatency count expected %v, got %v", initialLatency+2, got)
	}
}

func TestSetFileState(t *testing.T) {
	const log = "file-state.log"
	metrics.SetFileState(log, 2048, 17)

	if got := getGaugeValue(metrics.FileSize.WithLabelValues(log)); got != 2048 {
		t.Fatalf("FileSize expected 2048, got %v", got)
	}
	if got := getGaugeValue(metrics.FileLines.WithLabelValues(log)); got != 17 {
		t.Fatalf("FileLines expected 17, got %v", got)
	}
}

func TestPushTruncationAndError(t *testing.T) {
	const log = "trunc.log"
	before := getCounterValue(metrics.Truncations.WithLabelValues(log, "lines"))
	errBefore := getCounterValue(metrics.Errors.WithLabelValues(log, "write"))

	metrics.PushTruncation(log, "lines")
	metrics.PushError(log, "write")

	if got := getCounterValue(metrics.Truncations.WithLabelValues(log, "lines")); got != before+1 {
		t.Fatalf("Truncations expected %v, got %v", before+1, got)
	}
	if got := getCounterValue(metrics.Errors.WithLabelValues(log, "write")); got != errBefore+1 {
		t.Fatalf("Errors expected %v, got %v", errBefore+1, got)
	}
}
