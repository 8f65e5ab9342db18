package monitoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAssessment(t *testing.T) {
	m := NewMetrics()

	m.RecordAssessment("wearout", false)
	m.RecordAssessment("wearout", true)
	m.RecordAssessment("thermal", false)

	assert.Equal(t, int64(2), m.AssessmentCount["wearout"])
	assert.Equal(t, int64(1), m.FallbackCount["wearout"])
	assert.Equal(t, int64(1), m.AssessmentCount["thermal"])
	assert.Equal(t, int64(0), m.FallbackCount["thermal"])
}

func TestGetStatsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.IncrementRequest()
	m.IncrementRequest()
	m.IncrementError()
	m.IncrementPrediction()
	m.IncrementTrainingRun()
	m.RecordAssessment("power", true)
	m.RecordRequestByStatus(200)
	m.RecordRequestByStatus(500)
	m.RecordResponseTime(10 * time.Millisecond)

	stats := m.GetStats()

	assert.Equal(t, int64(2), stats["total_requests"])
	assert.Equal(t, int64(1), stats["error_count"])
	assert.Equal(t, 50.0, stats["error_rate_percent"])
	assert.Equal(t, int64(1), stats["prediction_count"])
	assert.Equal(t, int64(1), stats["training_runs"])

	fallbacks, ok := stats["fallbacks_by_role"].(map[string]int64)
	require.True(t, ok)
	assert.Equal(t, int64(1), fallbacks["power"])

	statusDist, ok := stats["status_code_distribution"].(map[int]int64)
	require.True(t, ok)
	assert.Equal(t, int64(1), statusDist[200])
	assert.Equal(t, int64(1), statusDist[500])
}

func TestCacheHitRate(t *testing.T) {
	m := NewMetrics()
	m.IncrementCacheHit()
	m.IncrementCacheHit()
	m.IncrementCacheHit()
	m.IncrementCacheMiss()

	stats := m.GetStats()

	assert.Equal(t, 75.0, stats["cache_hit_rate_percent"])
}

func TestGetPercentileResponseTime(t *testing.T) {
	m := NewMetrics()
	for i := 1; i <= 100; i++ {
		m.RecordResponseTime(time.Duration(i) * time.Millisecond)
	}

	assert.Equal(t, 50*time.Millisecond, m.GetPercentileResponseTime(50))
	assert.Equal(t, 95*time.Millisecond, m.GetPercentileResponseTime(95))
}

func TestGetPercentileResponseTimeEmpty(t *testing.T) {
	m := NewMetrics()

	assert.Equal(t, time.Duration(0), m.GetPercentileResponseTime(99))
}

func TestReset(t *testing.T) {
	m := NewMetrics()
	m.IncrementRequest()
	m.RecordAssessment("wearout", true)
	m.RecordResponseTime(time.Millisecond)

	m.Reset()

	assert.Equal(t, int64(0), m.RequestCount)
	assert.Empty(t, m.AssessmentCount)
	assert.Empty(t, m.ResponseTimes)
}
