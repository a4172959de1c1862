// Package telemetry is the ambient "client-wide metrics" concern every
// embeddable HTTP client ships alongside its core request path: a
// rolling summary of latency and outcome counts a caller can poll
// without threading its own accounting through every Fetch call.
//
// Adapted from internal/stats.Monitor, scoped down from "per-second
// load-test bucket" to "per-Client rolling summary" — there is no
// fixed test duration to bucket by seconds, so the per-second
// time-series half of Monitor is dropped; the atomic-counter +
// HdrHistogram core survives unchanged.
package telemetry

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Aggregator accumulates latency and outcome counters across every
// attempt a Client drives, safe for concurrent use by many in-flight
// Fetch calls.
type Aggregator struct {
	requests int64
	success  int64
	fail     int64

	totalBytes int64

	mu        sync.Mutex
	histogram *hdrhistogram.Histogram

	statusCodes sync.Map // map[int]int64
	errors      sync.Map // map[string]int64

	startTime time.Time
}

// NewAggregator builds an Aggregator with a histogram sized for
// sub-millisecond to 30s latencies at 3 significant figures, matching
// the precision the teacher's load-test monitor uses for the same
// reason: enough resolution to tell a 1ms response from a 2ms one
// without the memory cost of tracking every observed value.
func NewAggregator() *Aggregator {
	return &Aggregator{
		startTime: time.Now(),
		histogram: hdrhistogram.New(1, 30_000_000, 3),
	}
}

// Record folds one completed attempt's outcome into the aggregate.
// latency is skipped when err is non-nil, the same call the teacher's
// Monitor.Add makes: a transport error's elapsed time isn't a
// meaningful server response time and would skew percentile reads low.
func (a *Aggregator) Record(status int, latency time.Duration, bytes int64, err error) {
	atomic.AddInt64(&a.requests, 1)
	atomic.AddInt64(&a.totalBytes, bytes)

	if err == nil && status > 0 && status < 400 {
		atomic.AddInt64(&a.success, 1)
	} else {
		atomic.AddInt64(&a.fail, 1)
	}

	if status != 0 {
		count, _ := a.statusCodes.LoadOrStore(status, int64(0))
		a.statusCodes.Store(status, count.(int64)+1)
	}

	if err != nil {
		key := err.Error()
		count, _ := a.errors.LoadOrStore(key, int64(0))
		a.errors.Store(key, count.(int64)+1)
		return
	}

	a.mu.Lock()
	_ = a.histogram.RecordValue(latency.Microseconds())
	a.mu.Unlock()
}

// Summary is a point-in-time snapshot of the aggregator's counters.
type Summary struct {
	TotalRequests int64
	SuccessCount  int64
	FailureCount  int64
	SuccessRate   float64 // percentage, 0 when TotalRequests is 0
	TotalBytes    int64
	Throughput    float64 // MB/s over the aggregator's lifetime
	RPS           float64

	P50, P75, P90, P95, P99 time.Duration
	Min, Max                time.Duration

	StatusCodes map[int]int64
	Errors      map[string]int64
}

// Snapshot computes a Summary from the aggregator's current state.
func (a *Aggregator) Snapshot() Summary {
	reqs := atomic.LoadInt64(&a.requests)
	succ := atomic.LoadInt64(&a.success)
	fail := atomic.LoadInt64(&a.fail)
	totalBytes := atomic.LoadInt64(&a.totalBytes)

	duration := time.Since(a.startTime).Seconds()
	var rps, throughput float64
	if duration > 0 {
		rps = float64(reqs) / duration
		throughput = float64(totalBytes) / duration / 1024 / 1024
	}

	var successRate float64
	if reqs > 0 {
		successRate = float64(succ) / float64(reqs) * 100
	}

	a.mu.Lock()
	h := a.histogram
	p50 := time.Duration(h.ValueAtQuantile(50)) * time.Microsecond
	p75 := time.Duration(h.ValueAtQuantile(75)) * time.Microsecond
	p90 := time.Duration(h.ValueAtQuantile(90)) * time.Microsecond
	p95 := time.Duration(h.ValueAtQuantile(95)) * time.Microsecond
	p99 := time.Duration(h.ValueAtQuantile(99)) * time.Microsecond
	min := time.Duration(h.Min()) * time.Microsecond
	max := time.Duration(h.Max()) * time.Microsecond
	a.mu.Unlock()

	statusMap := make(map[int]int64)
	a.statusCodes.Range(func(key, value any) bool {
		statusMap[key.(int)] = value.(int64)
		return true
	})

	errorMap := make(map[string]int64)
	a.errors.Range(func(key, value any) bool {
		errorMap[key.(string)] = value.(int64)
		return true
	})

	return Summary{
		TotalRequests: reqs,
		SuccessCount:  succ,
		FailureCount:  fail,
		SuccessRate:   successRate,
		TotalBytes:    totalBytes,
		Throughput:    throughput,
		RPS:           rps,
		P50:           p50,
		P75:           p75,
		P90:           p90,
		P95:           p95,
		P99:           p99,
		Min:           min,
		Max:           max,
		StatusCodes:   statusMap,
		Errors:        errorMap,
	}
}

// Reset discards all accumulated counters and restarts the lifetime
// clock, letting a long-lived Client start a fresh reporting window
// (e.g. between scenario runs in cmd/gofetchctl) without rebuilding the
// Aggregator and losing whatever is holding a reference to it.
func (a *Aggregator) Reset() {
	atomic.StoreInt64(&a.requests, 0)
	atomic.StoreInt64(&a.success, 0)
	atomic.StoreInt64(&a.fail, 0)
	atomic.StoreInt64(&a.totalBytes, 0)
	a.statusCodes = sync.Map{}
	a.errors = sync.Map{}

	a.mu.Lock()
	a.histogram = hdrhistogram.New(1, 30_000_000, 3)
	a.mu.Unlock()

	a.startTime = time.Now()
}
