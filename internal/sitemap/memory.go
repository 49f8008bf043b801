package sitemap

import (
	"context"
	"runtime"

	"github.com/conneroisu/sitemapgen/internal/logging"
)

// Memory monitoring thresholds, in MB. Advisory only: crossing a threshold
// logs a warning and never throttles or aborts a run.
const (
	memoryWarnThresholdMB = 512
	batchSizeHintDeltaMB  = 100
)

// MemorySample is one snapshot of process memory, in MB.
type MemorySample struct {
	RSS       float64
	HeapUsed  float64
	HeapTotal float64
	External  float64
}

// MemorySampler produces memory samples. The production sampler reads
// runtime memory statistics; tests inject synthetic readings.
type MemorySampler interface {
	Sample() MemorySample
}

// SamplerFunc adapts a function to the MemorySampler interface.
type SamplerFunc func() MemorySample

// Sample implements MemorySampler.
func (f SamplerFunc) Sample() MemorySample { return f() }

// RuntimeSampler samples the Go runtime's memory statistics.
type RuntimeSampler struct{}

// Sample implements MemorySampler.
func (RuntimeSampler) Sample() MemorySample {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return MemorySample{
		RSS:       toMB(m.Sys),
		HeapUsed:  toMB(m.HeapAlloc),
		HeapTotal: toMB(m.HeapSys),
		External:  toMB(m.Sys - m.HeapSys),
	}
}

func toMB(bytes uint64) float64 {
	return float64(bytes) / (1024 * 1024)
}

// MemoryMonitor samples memory at batch boundaries and logs advisory
// warnings when heap usage crosses the configured threshold. One monitor
// belongs to one generation run; nothing is retained afterwards.
type MemoryMonitor struct {
	sampler     MemorySampler
	logger      logging.Logger
	thresholdMB float64
	hintDeltaMB float64

	// every controls the checkpoint cadence: only every Nth checkpoint
	// actually samples.
	every int

	calls   int
	started bool
	start   MemorySample
	peak    MemorySample
}

// NewMemoryMonitor creates a monitor with the default thresholds. A nil
// sampler selects the runtime sampler.
func NewMemoryMonitor(sampler MemorySampler, logger logging.Logger) *MemoryMonitor {
	if sampler == nil {
		sampler = RuntimeSampler{}
	}

	return &MemoryMonitor{
		sampler:     sampler,
		logger:      logger.WithComponent("memory"),
		thresholdMB: memoryWarnThresholdMB,
		hintDeltaMB: batchSizeHintDeltaMB,
		every:       1,
	}
}

// SetCadence makes only every nth checkpoint take a sample. Values below 1
// are treated as 1.
func (m *MemoryMonitor) SetCadence(n int) {
	if n < 1 {
		n = 1
	}
	m.every = n
}

// Start records the baseline sample for the run.
func (m *MemoryMonitor) Start() {
	m.start = m.sampler.Sample()
	m.peak = m.start
	m.started = true
}

// Checkpoint samples memory at a batch or chunk boundary, respecting the
// cadence, and warns when heap usage crosses the threshold.
func (m *MemoryMonitor) Checkpoint(ctx context.Context, label string) {
	if !m.started {
		return
	}

	m.calls++
	if (m.calls-1)%m.every != 0 {
		return
	}

	sample := m.sampler.Sample()
	if sample.HeapUsed > m.peak.HeapUsed {
		m.peak = sample
	}

	if sample.HeapUsed > m.thresholdMB {
		m.logger.Warn(ctx, nil, "high memory usage during sitemap generation",
			"checkpoint", label,
			"heap_used_mb", sample.HeapUsed,
			"threshold_mb", m.thresholdMB,
			"increase_mb", sample.HeapUsed-m.start.HeapUsed,
		)
	}
}

// Summary logs the run's memory profile: start, peak, increase, and the
// per-page average, plus a batch-size hint when the increase is large.
func (m *MemoryMonitor) Summary(ctx context.Context, pageCount int) {
	if !m.started {
		return
	}

	final := m.sampler.Sample()
	if final.HeapUsed > m.peak.HeapUsed {
		m.peak = final
	}

	increase := m.peak.HeapUsed - m.start.HeapUsed

	perPageKB := 0.0
	if pageCount > 0 {
		perPageKB = increase * 1024 / float64(pageCount)
	}

	m.logger.Info(ctx, "memory summary",
		"start_heap_mb", m.start.HeapUsed,
		"peak_heap_mb", m.peak.HeapUsed,
		"increase_mb", increase,
		"per_page_kb", perPageKB,
		"pages", pageCount,
	)

	if increase > m.hintDeltaMB {
		m.logger.Warn(ctx, nil, "memory increase is large, consider reducing batch size",
			"increase_mb", increase,
			"hint_delta_mb", m.hintDeltaMB,
		)
	}
}
