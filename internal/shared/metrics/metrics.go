package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	uploadsAcceptedTotal  atomic.Uint64
	uploadsRejectedTotal  atomic.Uint64
	uploadOverwritesTotal atomic.Uint64

	exportsMu    sync.Mutex
	exportsTotal = map[string]uint64{}

	uploadDuration = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000})
)

// IncUploadAccepted counts an upload that produced a record.
func IncUploadAccepted() {
	uploadsAcceptedTotal.Add(1)
}

// IncUploadRejected counts an upload refused before anything was stored.
func IncUploadRejected() {
	uploadsRejectedTotal.Add(1)
}

// IncUploadOverwrite counts an upload that replaced a file of the same name.
func IncUploadOverwrite() {
	uploadOverwritesTotal.Add(1)
}

// IncExport counts one export in the given format.
func IncExport(format string) {
	exportsMu.Lock()
	exportsTotal[format]++
	exportsMu.Unlock()
}

// ObserveUploadDurationMs records an upload handling duration in milliseconds.
func ObserveUploadDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	uploadDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "uploads_accepted_total", "Uploads that produced a record", uploadsAcceptedTotal.Load())
	writeCounter(&buf, "uploads_rejected_total", "Uploads rejected by validation", uploadsRejectedTotal.Load())
	writeCounter(&buf, "upload_overwrites_total", "Uploads that overwrote an existing file", uploadOverwritesTotal.Load())
	writeLabeledCounter(&buf, "exports_total", "Exports served", "format", exportsSnapshot())
	writeHistogram(&buf, "upload_duration_ms", "Upload handling duration in milliseconds", uploadDuration.Snapshot())
	return buf.String()
}

func exportsSnapshot() map[string]uint64 {
	exportsMu.Lock()
	defer exportsMu.Unlock()
	out := make(map[string]uint64, len(exportsTotal))
	for k, v := range exportsTotal {
		out[k] = v
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeLabeledCounter(buf *bytes.Buffer, name, help, label string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s=%q} %d\n", name, label, k, values[k])
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
