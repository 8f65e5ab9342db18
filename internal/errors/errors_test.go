package errors

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("invalid telemetry payload")

	assert.Equal(t, CategoryValidation, err.Category)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.Equal(t, "invalid telemetry payload", err.Error())
}

func TestNewTrainingErrorCarriesCauseVerbatim(t *testing.T) {
	cause := fmt.Errorf("wearout: insufficient training samples: have 3, need 8")
	err := NewTrainingError(cause)

	assert.Equal(t, CategoryTraining, err.Category)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.Equal(t, cause.Error(), err.Error())
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name       string
		input      error
		wantStatus int
		wantCat    ErrorCategory
	}{
		{"passes through app errors", NewValidationError("bad"), http.StatusBadRequest, CategoryValidation},
		{"wraps plain errors as internal", fmt.Errorf("boom"), http.StatusInternalServerError, CategoryInternal},
		{"maps deadline exceeded", context.DeadlineExceeded, http.StatusGatewayTimeout, CategoryInternal},
		{"maps cancellation", context.Canceled, http.StatusGatewayTimeout, CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToAppError(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
			assert.Equal(t, tt.wantCat, got.Category)
		})
	}
}

func TestToAppErrorNil(t *testing.T) {
	assert.Nil(t, ToAppError(nil))
}

func TestRespondWritesFailureEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/predict", nil)

	Respond(c, NewValidationError("invalid telemetry payload"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success": false, "error": "invalid telemetry payload"}`, w.Body.String())
}

func TestRecoveryHandlerConvertsPanics(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryHandler())
	r.GET("/boom", func(c *gin.Context) {
		panic("handler exploded")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), "panic recovered")
}

func TestErrorHandlerRendersContextErrors(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(NewValidationError("bad request shape"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "bad request shape")
}
