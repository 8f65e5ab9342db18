package cache

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type countingMetrics struct {
	hits   int
	misses int
}

func (m *countingMetrics) IncrementCacheHit()  { m.hits++ }
func (m *countingMetrics) IncrementCacheMiss() { m.misses++ }

func TestCacheSetGet(t *testing.T) {
	c := NewCache(time.Minute)

	c.Set("key", []byte("payload"))

	got, found := c.Get("key")
	require.True(t, found)
	assert.Equal(t, []byte("payload"), got)
}

func TestCacheMissOnUnknownKey(t *testing.T) {
	c := NewCache(time.Minute)

	_, found := c.Get("absent")

	assert.False(t, found)
}

func TestCacheExpiration(t *testing.T) {
	c := NewCache(10 * time.Millisecond)

	c.Set("key", []byte("payload"))
	time.Sleep(30 * time.Millisecond)

	_, found := c.Get("key")
	assert.False(t, found)
}

func TestCacheStats(t *testing.T) {
	c := NewCache(time.Minute)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	stats := c.Stats()

	assert.Equal(t, 2, stats["total_items"])
	assert.Equal(t, 2, c.Size())
}

func predictRouter(c *Cache, metrics Metrics, calls *int) *gin.Engine {
	r := gin.New()
	r.Use(c.Middleware(metrics))
	r.POST("/api/predict", func(ctx *gin.Context) {
		*calls++
		ctx.JSON(http.StatusOK, gin.H{"success": true, "call": *calls})
	})
	r.GET("/api/features", func(ctx *gin.Context) {
		*calls++
		ctx.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func TestMiddlewareReplaysIdenticalPredictBodies(t *testing.T) {
	cache := NewCache(time.Minute)
	metrics := &countingMetrics{}
	calls := 0
	r := predictRouter(cache, metrics, &calls)

	body := `{"Temperature_C": 42}`
	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/predict", bytes.NewBufferString(body)))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/predict", bytes.NewBufferString(body)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestMiddlewareDistinguishesBodies(t *testing.T) {
	cache := NewCache(time.Minute)
	calls := 0
	r := predictRouter(cache, nil, &calls)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/predict", bytes.NewBufferString(`{"Temperature_C": 42}`)))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/predict", bytes.NewBufferString(`{"Temperature_C": 43}`)))

	assert.Equal(t, 2, calls)
}

func TestMiddlewareIgnoresOtherRoutes(t *testing.T) {
	cache := NewCache(time.Minute)
	calls := 0
	r := predictRouter(cache, nil, &calls)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/features", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/features", nil))

	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, cache.Size())
}
