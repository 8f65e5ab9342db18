package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds application counters. Per-role fallback counts are the
// operationally interesting ones: a climbing fallback rate means a risk
// model is failing in production while requests still succeed.
type Metrics struct {
	RequestCount    int64
	ErrorCount      int64
	PredictionCount int64
	TrainingRuns    int64
	CacheHits       int64
	CacheMisses     int64

	AssessmentCount map[string]int64
	FallbackCount   map[string]int64
	assessmentMutex sync.RWMutex

	RequestCountByStatus map[int]int64
	statusMutex          sync.RWMutex

	ResponseTimes      []time.Duration
	responseTimesMutex sync.RWMutex

	RateLimitIPBlocks      int64
	RateLimitRedisErrors   int64
	RateLimitFallbackCount int64

	StartTime time.Time
}

// NewMetrics creates a new metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{
		AssessmentCount:      make(map[string]int64),
		FallbackCount:        make(map[string]int64),
		RequestCountByStatus: make(map[int]int64),
		ResponseTimes:        make([]time.Duration, 0, 1000),
		StartTime:            time.Now(),
	}
}

func (m *Metrics) IncrementRequest() {
	atomic.AddInt64(&m.RequestCount, 1)
}

func (m *Metrics) IncrementError() {
	atomic.AddInt64(&m.ErrorCount, 1)
}

func (m *Metrics) IncrementPrediction() {
	atomic.AddInt64(&m.PredictionCount, 1)
}

func (m *Metrics) IncrementTrainingRun() {
	atomic.AddInt64(&m.TrainingRuns, 1)
}

func (m *Metrics) IncrementCacheHit() {
	atomic.AddInt64(&m.CacheHits, 1)
}

func (m *Metrics) IncrementCacheMiss() {
	atomic.AddInt64(&m.CacheMisses, 1)
}

// RecordAssessment records a per-role assessment outcome. It satisfies
// the orchestrator's Observer interface.
func (m *Metrics) RecordAssessment(role string, fallback bool) {
	m.assessmentMutex.Lock()
	defer m.assessmentMutex.Unlock()
	m.AssessmentCount[role]++
	if fallback {
		m.FallbackCount[role]++
	}
}

// RecordRequestByStatus records request count by HTTP status code.
func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.statusMutex.Lock()
	defer m.statusMutex.Unlock()
	m.RequestCountByStatus[statusCode]++
}

// RecordResponseTime stores a response time sample, keeping the last 1000.
func (m *Metrics) RecordResponseTime(duration time.Duration) {
	m.responseTimesMutex.Lock()
	defer m.responseTimesMutex.Unlock()
	m.ResponseTimes = append(m.ResponseTimes, duration)
	if len(m.ResponseTimes) > 1000 {
		m.ResponseTimes = m.ResponseTimes[1:]
	}
}

func (m *Metrics) IncrementRateLimitIPBlock() {
	atomic.AddInt64(&m.RateLimitIPBlocks, 1)
}

func (m *Metrics) IncrementRateLimitRedisError() {
	atomic.AddInt64(&m.RateLimitRedisErrors, 1)
}

func (m *Metrics) IncrementRateLimitFallback() {
	atomic.AddInt64(&m.RateLimitFallbackCount, 1)
}

// GetPercentileResponseTime calculates a percentile over recorded samples.
func (m *Metrics) GetPercentileResponseTime(percentile float64) time.Duration {
	m.responseTimesMutex.RLock()
	defer m.responseTimesMutex.RUnlock()

	if len(m.ResponseTimes) == 0 {
		return 0
	}

	times := make([]time.Duration, len(m.ResponseTimes))
	copy(times, m.ResponseTimes)
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	index := int(float64(len(times)-1) * percentile / 100.0)
	if index >= len(times) {
		index = len(times) - 1
	}
	return times[index]
}

// GetStats returns a snapshot of all counters for the /metrics endpoint.
func (m *Metrics) GetStats() map[string]interface{} {
	requests := atomic.LoadInt64(&m.RequestCount)
	errors := atomic.LoadInt64(&m.ErrorCount)
	cacheHits := atomic.LoadInt64(&m.CacheHits)
	cacheMisses := atomic.LoadInt64(&m.CacheMisses)

	errorRate := float64(0)
	if requests > 0 {
		errorRate = float64(errors) / float64(requests) * 100
	}

	cacheHitRate := float64(0)
	if total := cacheHits + cacheMisses; total > 0 {
		cacheHitRate = float64(cacheHits) / float64(total) * 100
	}

	m.assessmentMutex.RLock()
	assessments := make(map[string]int64, len(m.AssessmentCount))
	for role, n := range m.AssessmentCount {
		assessments[role] = n
	}
	fallbacks := make(map[string]int64, len(m.FallbackCount))
	for role, n := range m.FallbackCount {
		fallbacks[role] = n
	}
	m.assessmentMutex.RUnlock()

	m.statusMutex.RLock()
	statusDist := make(map[int]int64, len(m.RequestCountByStatus))
	for code, n := range m.RequestCountByStatus {
		statusDist[code] = n
	}
	m.statusMutex.RUnlock()

	return map[string]interface{}{
		"uptime_seconds":           time.Since(m.StartTime).Seconds(),
		"total_requests":           requests,
		"error_count":              errors,
		"error_rate_percent":       errorRate,
		"prediction_count":         atomic.LoadInt64(&m.PredictionCount),
		"training_runs":            atomic.LoadInt64(&m.TrainingRuns),
		"cache_hits":               cacheHits,
		"cache_misses":             cacheMisses,
		"cache_hit_rate_percent":   cacheHitRate,
		"assessments_by_role":      assessments,
		"fallbacks_by_role":        fallbacks,
		"status_code_distribution": statusDist,
		"p50_response_time_ms":     float64(m.GetPercentileResponseTime(50)) / 1e6,
		"p95_response_time_ms":     float64(m.GetPercentileResponseTime(95)) / 1e6,
		"p99_response_time_ms":     float64(m.GetPercentileResponseTime(99)) / 1e6,
		"rate_limit_ip_blocks":     atomic.LoadInt64(&m.RateLimitIPBlocks),
		"rate_limit_redis_errors":  atomic.LoadInt64(&m.RateLimitRedisErrors),
		"rate_limit_fallbacks":     atomic.LoadInt64(&m.RateLimitFallbackCount),
		"start_time":               m.StartTime.Format(time.RFC3339),
	}
}

// Reset clears all counters. Useful for tests.
func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.RequestCount, 0)
	atomic.StoreInt64(&m.ErrorCount, 0)
	atomic.StoreInt64(&m.PredictionCount, 0)
	atomic.StoreInt64(&m.TrainingRuns, 0)
	atomic.StoreInt64(&m.CacheHits, 0)
	atomic.StoreInt64(&m.CacheMisses, 0)
	atomic.StoreInt64(&m.RateLimitIPBlocks, 0)
	atomic.StoreInt64(&m.RateLimitRedisErrors, 0)
	atomic.StoreInt64(&m.RateLimitFallbackCount, 0)

	m.assessmentMutex.Lock()
	m.AssessmentCount = make(map[string]int64)
	m.FallbackCount = make(map[string]int64)
	m.assessmentMutex.Unlock()

	m.statusMutex.Lock()
	m.RequestCountByStatus = make(map[int]int64)
	m.statusMutex.Unlock()

	m.responseTimesMutex.Lock()
	m.ResponseTimes = m.ResponseTimes[:0]
	m.responseTimesMutex.Unlock()

	m.StartTime = time.Now()
}
