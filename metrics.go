package qinfo

import (
	"sort"
	"sync"
	"time"
)

type Metrics struct {
	mu                 sync.RWMutex
	WorkerCount        int
	JobQueueSize       int
	JobCount           int64
	FailureCount       int64
	SchedulingFailures int64
	TotalJobTime       time.Duration
	TotalIterations    int64

	AverageJobLatency time.Duration
	P95JobLatency     time.Duration
	P99JobLatency     time.Duration
	JobSuccessRate    float64

	// sliding window of recent latencies for the percentiles
	latencyWindow []time.Duration
	windowSize    int
}

// MetricsSnapshot is a point-in-time copy of the pool metrics.
type MetricsSnapshot struct {
	WorkerCount        int
	JobQueueSize       int
	JobCount           int64
	FailureCount       int64
	SchedulingFailures int64
	AverageIterations  float64
	AverageJobLatency  time.Duration
	P95JobLatency      time.Duration
	P99JobLatency      time.Duration
	JobSuccessRate     float64
}

func newMetrics() *Metrics {
	return &Metrics{
		latencyWindow: make([]time.Duration, 0, 1000),
		windowSize:    1000,
	}
}

func (m *Metrics) recordJobExecution(startTime time.Time, iterations int, success bool) {
	duration := time.Since(startTime)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalJobTime += duration
	m.JobCount++
	m.TotalIterations += int64(iterations)
	if !success {
		m.FailureCount++
	}
	m.JobSuccessRate = float64(m.JobCount-m.FailureCount) / float64(m.JobCount)

	m.updateLatencyPercentiles(duration)
}

func (m *Metrics) recordSchedulingFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SchedulingFailures++
}

func (m *Metrics) updateLatencyPercentiles(duration time.Duration) {
	m.AverageJobLatency = m.TotalJobTime / time.Duration(m.JobCount)

	m.latencyWindow = append(m.latencyWindow, duration)
	if len(m.latencyWindow) > m.windowSize {
		m.latencyWindow = m.latencyWindow[1:]
	}

	sorted := make([]time.Duration, len(m.latencyWindow))
	copy(sorted, m.latencyWindow)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	m.P95JobLatency = sorted[percentileIndex(len(sorted), 0.95)]
	m.P99JobLatency = sorted[percentileIndex(len(sorted), 0.99)]
}

func percentileIndex(n int, q float64) int {
	return min(int(float64(n)*q), n-1)
}

func (m *Metrics) snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		WorkerCount:        m.WorkerCount,
		JobQueueSize:       m.JobQueueSize,
		JobCount:           m.JobCount,
		FailureCount:       m.FailureCount,
		SchedulingFailures: m.SchedulingFailures,
		AverageJobLatency:  m.AverageJobLatency,
		P95JobLatency:      m.P95JobLatency,
		P99JobLatency:      m.P99JobLatency,
		JobSuccessRate:     m.JobSuccessRate,
	}
	if m.JobCount > 0 {
		snap.AverageIterations = float64(m.TotalIterations) / float64(m.JobCount)
	}
	return snap
}
