package cloudmetrics

import (
	"strings"
	"sync"
)

type Recorder interface {
	RecordRatingRun(productType, status string)
	RecordEngineError(operation string)
	SetRateTableCount(count int64)
	SetMemoryUsage(bytes uint64)
}

type recorder struct {
	metrics *metrics
}

type noopRecorder struct{}

func (noopRecorder) RecordRatingRun(string, string) {}
func (noopRecorder) RecordEngineError(string)       {}
func (noopRecorder) SetRateTableCount(int64)        {}
func (noopRecorder) SetMemoryUsage(uint64)          {}

var (
	activeRecorder Recorder = noopRecorder{}
	recorderMu     sync.RWMutex
)

func setRecorder(rec Recorder) {
	if rec == nil {
		return
	}
	recorderMu.Lock()
	activeRecorder = rec
	recorderMu.Unlock()
}

// RecordRatingRun is safe to call whether or not cloud metrics are enabled.
func RecordRatingRun(productType, status string) {
	recorderMu.RLock()
	rec := activeRecorder
	recorderMu.RUnlock()
	rec.RecordRatingRun(productType, status)
}

func RecordEngineError(operation string) {
	recorderMu.RLock()
	rec := activeRecorder
	recorderMu.RUnlock()
	rec.RecordEngineError(operation)
}

func (r *recorder) RecordRatingRun(productType, status string) {
	if r == nil || r.metrics == nil {
		return
	}
	r.metrics.ratingRuns.WithLabelValues(normalizeLabel(productType), normalizeLabel(status)).Inc()
}

func (r *recorder) RecordEngineError(operation string) {
	if r == nil || r.metrics == nil {
		return
	}
	r.metrics.engineErrors.WithLabelValues(normalizeLabel(operation)).Inc()
}

func (r *recorder) SetRateTableCount(count int64) {
	if r == nil || r.metrics == nil {
		return
	}
	if count < 0 {
		count = 0
	}
	r.metrics.rateTables.Set(float64(count))
}

func (r *recorder) SetMemoryUsage(bytes uint64) {
	if r == nil || r.metrics == nil {
		return
	}
	r.metrics.memoryBytes.Set(float64(bytes))
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return value
}
