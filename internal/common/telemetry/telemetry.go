// File path: internal/common/telemetry/telemetry.go
package telemetry

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/houdini-kb/hipcore/internal/common"
	"github.com/prometheus/client_golang/prometheus"
)

type spanKey struct{}

type span struct {
	name  string
	start time.Time
}

// MemoryLimitError reports that a pipeline stage's resident memory exceeded
// the configured budget.
type MemoryLimitError struct {
	Component string
	Usage     uint64
	Limit     uint64
}

func (e MemoryLimitError) Error() string {
	return fmt.Sprintf("memory limit exceeded for %s: %d > %d", e.Component, e.Usage, e.Limit)
}

var (
	initOnce sync.Once

	acquireTotal     prometheus.Counter
	acquireCacheHits prometheus.Counter
	acquireMisses    prometheus.Counter

	parseTotal      prometheus.Counter
	parseFailures   prometheus.Counter
	nodesParsed     prometheus.Counter
	parametersTotal prometheus.Counter

	extractTotal    prometheus.Counter
	extractFailures prometheus.Counter
	extractSkipped  prometheus.Counter

	evictionsTotal prometheus.Counter

	acquireDuration prometheus.Histogram
	parseDuration   prometheus.Histogram
	extractDuration prometheus.Histogram

	memoryLimitBytes uint64
	memoryUsageGauge prometheus.Gauge
)

func ensureInit() {
	initOnce.Do(func() {
		acquireTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "hipcore_acquire_total", Help: "Cache acquisitions attempted"})
		acquireCacheHits = prometheus.NewCounter(prometheus.CounterOpts{Name: "hipcore_acquire_cache_hits_total", Help: "Acquisitions served from an existing cache entry"})
		acquireMisses = prometheus.NewCounter(prometheus.CounterOpts{Name: "hipcore_acquire_misses_total", Help: "Acquisitions that returned a non-2xx response"})

		parseTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "hipcore_parse_total", Help: "Archives parsed"})
		parseFailures = prometheus.NewCounter(prometheus.CounterOpts{Name: "hipcore_parse_failures_total", Help: "Archives that failed to parse"})
		nodesParsed = prometheus.NewCounter(prometheus.CounterOpts{Name: "hipcore_nodes_parsed_total", Help: "Nodes extracted from parsed scenes"})
		parametersTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "hipcore_parameters_parsed_total", Help: "Parameters extracted from parsed scenes"})

		extractTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "hipcore_extract_total", Help: "Extract operations run against the catalog"})
		extractFailures = prometheus.NewCounter(prometheus.CounterOpts{Name: "hipcore_extract_failures_total", Help: "Extract operations that recorded a parse error"})
		extractSkipped = prometheus.NewCounter(prometheus.CounterOpts{Name: "hipcore_extract_skipped_total", Help: "Extract operations skipped by the idempotence check"})

		evictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{Name: "hipcore_cache_evictions_total", Help: "Cache entries evicted for exceeding the byte budget"})

		buckets := []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}
		acquireDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "hipcore_acquire_seconds", Help: "Duration of cache acquisitions", Buckets: buckets})
		parseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "hipcore_parse_seconds", Help: "Duration of archive parsing", Buckets: buckets})
		extractDuration = prometheus.NewHistogram(prometheus.HistogramOpts{Name: "hipcore_extract_seconds", Help: "Duration of catalog extraction", Buckets: buckets})

		memoryUsageGauge = prometheus.NewGauge(prometheus.GaugeOpts{Name: "hipcore_memory_usage_bytes", Help: "Resident heap allocation observed at the last memory guard check"})

		prometheus.MustRegister(
			acquireTotal, acquireCacheHits, acquireMisses,
			parseTotal, parseFailures, nodesParsed, parametersTotal,
			extractTotal, extractFailures, extractSkipped,
			evictionsTotal,
			acquireDuration, parseDuration, extractDuration,
			memoryUsageGauge,
		)

		memoryLimitBytes = loadMemoryLimit()
	})
}

func loadMemoryLimit() uint64 {
	limit := strings.TrimSpace(os.Getenv("HIPCORE_MEMORY_LIMIT_BYTES"))
	if limit != "" {
		if value, err := strconv.ParseUint(limit, 10, 64); err == nil {
			return value
		}
	}
	if limitMB := strings.TrimSpace(os.Getenv("HIPCORE_MEMORY_LIMIT_MB")); limitMB != "" {
		if value, err := strconv.ParseUint(limitMB, 10, 64); err == nil {
			return value * 1024 * 1024
		}
	}
	return 0
}

// StartSpan begins a debug-logged timing span, returning a context carrying
// it and a function that closes it out with any extra log attributes.
func StartSpan(ctx context.Context, name string) (context.Context, func(attrs ...interface{})) {
	ensureInit()
	sp := &span{name: name, start: time.Now()}
	ctx = context.WithValue(ctx, spanKey{}, sp)
	logger := common.Logger()
	logger.Debug("trace: start", "span", name)
	return ctx, func(attrs ...interface{}) {
		if sp == nil {
			return
		}
		duration := time.Since(sp.start)
		logger.Debug("trace: end", append([]interface{}{"span", name, "dur", duration}, attrs...)...)
	}
}

// RecordAcquire records the outcome and duration of one cache acquisition.
func RecordAcquire(cacheHit bool, miss bool, duration time.Duration) {
	ensureInit()
	acquireTotal.Inc()
	if cacheHit {
		acquireCacheHits.Inc()
	}
	if miss {
		acquireMisses.Inc()
	}
	if duration > 0 {
		acquireDuration.Observe(duration.Seconds())
	}
}

// RecordParse records the outcome of parsing one archive.
func RecordParse(nodes, parameters int, failed bool, duration time.Duration) {
	ensureInit()
	parseTotal.Inc()
	if failed {
		parseFailures.Inc()
	}
	if nodes > 0 {
		nodesParsed.Add(float64(nodes))
	}
	if parameters > 0 {
		parametersTotal.Add(float64(parameters))
	}
	if duration > 0 {
		parseDuration.Observe(duration.Seconds())
	}
}

// RecordExtract records the outcome of one Extract/ExtractFailure call.
func RecordExtract(failed, skipped bool, duration time.Duration) {
	ensureInit()
	extractTotal.Inc()
	if failed {
		extractFailures.Inc()
	}
	if skipped {
		extractSkipped.Inc()
	}
	if duration > 0 {
		extractDuration.Observe(duration.Seconds())
	}
}

// RecordEviction records that the cache manager evicted an entry.
func RecordEviction() {
	ensureInit()
	evictionsTotal.Inc()
}

// CheckMemoryBudget reports whether resident heap allocation has exceeded
// the configured limit (HIPCORE_MEMORY_LIMIT_BYTES/_MB). A limit of zero
// disables the guard.
func CheckMemoryBudget(component string) error {
	ensureInit()
	if memoryLimitBytes == 0 {
		updateMemoryUsage()
		return nil
	}
	usage := updateMemoryUsage()
	if usage > memoryLimitBytes {
		err := MemoryLimitError{Component: component, Usage: usage, Limit: memoryLimitBytes}
		common.Logger().Warn("telemetry: memory guard tripped", "component", component, "usage", usage, "limit", memoryLimitBytes)
		return err
	}
	return nil
}

func updateMemoryUsage() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	usage := stats.Alloc
	memoryUsageGauge.Set(float64(usage))
	return usage
}

// SpanDuration returns the elapsed time since ctx's span started, or zero
// if ctx carries no span.
func SpanDuration(ctx context.Context) time.Duration {
	sp, _ := ctx.Value(spanKey{}).(*span)
	if sp == nil {
		return 0
	}
	return time.Since(sp.start)
}
