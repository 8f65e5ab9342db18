package security

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
}

func TestValidateContentType(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		wantStatus  int
	}{
		{"json post passes", http.MethodPost, "application/json", http.StatusOK},
		{"json with charset passes", http.MethodPost, "application/json; charset=utf-8", http.StatusOK},
		{"plain text post rejected", http.MethodPost, "text/plain", http.StatusBadRequest},
		{"missing content type rejected", http.MethodPost, "", http.StatusBadRequest},
		{"get is exempt", http.MethodGet, "", http.StatusOK},
	}

	r := gin.New()
	r.Use(ValidateContentType())
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/x", bytes.NewBufferString("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusBadRequest {
				assert.JSONEq(t, `{"success": false, "error": "JSON required"}`, w.Body.String())
			}
		})
	}
}

func TestAdminAuth(t *testing.T) {
	const secret = "test-secret"

	tests := []struct {
		name       string
		secret     string
		authHeader string
		wantStatus int
	}{
		{"open when no secret configured", "", "", http.StatusOK},
		{"missing header rejected", secret, "", http.StatusUnauthorized},
		{"malformed header rejected", secret, "Token abc", http.StatusUnauthorized},
		{"garbage token rejected", secret, "Bearer not.a.token", http.StatusUnauthorized},
		{"wrong key rejected", secret, "Bearer " + mustSign("other-secret"), http.StatusUnauthorized},
		{"valid token accepted", secret, "Bearer " + mustSign(secret), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(AdminAuth(tt.secret))
			r.POST("/train", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodPost, "/train", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func mustSign(secret string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "operator",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	return signed
}

func TestAdminAuthExpiredToken(t *testing.T) {
	const secret = "test-secret"
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "operator",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte(secret))
	require.NoError(t, err)

	r := gin.New()
	r.Use(AdminAuth(secret))
	r.POST("/train", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/train", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
