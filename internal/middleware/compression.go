// Package middleware holds transport-level middleware that is not tied
// to any one domain package.
package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// minCompressSize is the response size floor below which compression
// costs more than it saves. History listings blow past this quickly;
// single assessments usually do not.
const minCompressSize = 1024

// Compressor gzips large responses for clients that accept it. It must
// sit ahead of the response cache in the middleware chain so cached
// entries stay uncompressed.
type Compressor struct {
	pool sync.Pool

	totalResponses      int64
	compressedResponses int64
	bytesIn             int64
	bytesOut            int64
}

func NewCompressor() *Compressor {
	return &Compressor{
		pool: sync.Pool{
			New: func() interface{} {
				gz, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
				return gz
			},
		},
	}
}

// Handler buffers the response and decides per request whether the body
// is worth compressing.
func (c *Compressor) Handler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !strings.Contains(ctx.GetHeader("Accept-Encoding"), "gzip") {
			ctx.Next()
			return
		}

		buf := &bufferingWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = buf
		ctx.Next()
		ctx.Writer = buf.ResponseWriter

		c.finish(ctx, buf)
	}
}

func (c *Compressor) finish(ctx *gin.Context, buf *bufferingWriter) {
	data := buf.body.Bytes()
	atomic.AddInt64(&c.totalResponses, 1)
	atomic.AddInt64(&c.bytesIn, int64(len(data)))

	w := buf.ResponseWriter
	if len(data) < minCompressSize || !compressible(w.Header().Get("Content-Type")) {
		atomic.AddInt64(&c.bytesOut, int64(len(data)))
		_, _ = w.Write(data)
		return
	}

	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Set("Vary", "Accept-Encoding")
	w.Header().Del("Content-Length")

	var out countingWriter
	out.w = w
	gz := c.pool.Get().(*gzip.Writer)
	gz.Reset(&out)
	_, _ = gz.Write(data)
	_ = gz.Close()
	c.pool.Put(gz)

	atomic.AddInt64(&c.compressedResponses, 1)
	atomic.AddInt64(&c.bytesOut, out.n)
}

func compressible(contentType string) bool {
	return strings.Contains(contentType, "application/json") ||
		strings.Contains(contentType, "text/")
}

// Stats reports compression effectiveness counters.
func (c *Compressor) Stats() map[string]interface{} {
	in := atomic.LoadInt64(&c.bytesIn)
	out := atomic.LoadInt64(&c.bytesOut)

	ratio := 1.0
	if in > 0 {
		ratio = float64(out) / float64(in)
	}

	return map[string]interface{}{
		"total_responses":      atomic.LoadInt64(&c.totalResponses),
		"compressed_responses": atomic.LoadInt64(&c.compressedResponses),
		"bytes_in":             in,
		"bytes_out":            out,
		"compression_ratio":    ratio,
	}
}

// bufferingWriter captures the handler's output so the compressor can
// inspect the whole body before committing to an encoding.
type bufferingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bufferingWriter) Write(data []byte) (int, error) {
	return w.body.Write(data)
}

func (w *bufferingWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

func (w *bufferingWriter) WriteHeader(statusCode int) {
	w.ResponseWriter.WriteHeader(statusCode)
}

type countingWriter struct {
	w http.ResponseWriter
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
