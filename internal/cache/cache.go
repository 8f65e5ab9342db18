package cache

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Item is a cached response body with expiration.
type Item struct {
	Data      []byte
	ExpiresAt time.Time
}

// IsExpired checks if the cache item has expired.
func (i *Item) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// Metrics is the narrow slice of the metrics type the cache needs.
type Metrics interface {
	IncrementCacheHit()
	IncrementCacheMiss()
}

// Cache is a thread-safe TTL cache for prediction responses. Identical
// telemetry bodies produce identical assessments, so replaying the
// serialized response is safe within the TTL.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*Item
	ttl   time.Duration
}

// NewCache creates a cache with the given TTL and starts the sweeper.
func NewCache(ttl time.Duration) *Cache {
	c := &Cache{
		items: make(map[string]*Item),
		ttl:   ttl,
	}
	go c.cleanup()
	return c
}

func (c *Cache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		for key, item := range c.items {
			if item.IsExpired() {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}

func (c *Cache) key(body []byte) string {
	return fmt.Sprintf("%x", md5.Sum(body))
}

// Get retrieves an item from the cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists || item.IsExpired() {
		return nil, false
	}
	return item.Data, true
}

// Set stores an item in the cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = &Item{
		Data:      data,
		ExpiresAt: time.Now().Add(c.ttl),
	}
}

// Size returns the number of items in the cache.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stats returns cache statistics.
func (c *Cache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	expired := 0
	for _, item := range c.items {
		if item.IsExpired() {
			expired++
		}
	}
	return map[string]interface{}{
		"total_items":   len(c.items),
		"expired_items": expired,
		"active_items":  len(c.items) - expired,
		"ttl_seconds":   c.ttl.Seconds(),
	}
}

// Middleware caches successful responses of the prediction endpoint,
// keyed by the request body.
func (c *Cache) Middleware(metrics Metrics) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodPost || ctx.Request.URL.Path != "/api/predict" {
			ctx.Next()
			return
		}

		body, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			ctx.Next()
			return
		}
		ctx.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		cacheKey := c.key(body)
		if cached, found := c.Get(cacheKey); found {
			slog.Debug("Prediction cache hit", "key", cacheKey[:8]+"...")
			if metrics != nil {
				metrics.IncrementCacheHit()
			}
			ctx.Data(http.StatusOK, "application/json", cached)
			ctx.Abort()
			return
		}

		if metrics != nil {
			metrics.IncrementCacheMiss()
		}

		wrapper := &responseWriter{ResponseWriter: ctx.Writer, body: &bytes.Buffer{}}
		ctx.Writer = wrapper
		ctx.Next()

		if ctx.Writer.Status() == http.StatusOK {
			c.Set(cacheKey, wrapper.body.Bytes())
		}
	}
}

type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
