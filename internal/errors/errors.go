package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
)

// ErrorCategory classifies an error for logging and response policy.
// Prediction-path failures (model, threshold) never reach this package
// at request level - they degrade to fallbacks inside the orchestrator.
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryTraining   ErrorCategory = "training"
	CategoryStorage    ErrorCategory = "storage"
	CategoryInternal   ErrorCategory = "internal"
)

// AppError wraps an errbuilder error with HTTP context.
type AppError struct {
	*errbuilder.ErrBuilder
	Category   ErrorCategory `json:"category"`
	HTTPStatus int           `json:"http_status"`
	Timestamp  time.Time     `json:"timestamp"`
	StackTrace string        `json:"stack_trace,omitempty"`
}

func (e *AppError) Error() string {
	return e.ErrBuilder.Msg
}

func (e *AppError) Unwrap() error {
	return e.ErrBuilder.Unwrap()
}

func newAppError(builder *errbuilder.ErrBuilder, category ErrorCategory, httpStatus int) *AppError {
	return &AppError{
		ErrBuilder: builder,
		Category:   category,
		HTTPStatus: httpStatus,
		Timestamp:  time.Now(),
	}
}

// NewValidationError flags a structurally invalid request.
func NewValidationError(message string) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(message)
	return newAppError(builder, CategoryValidation, http.StatusBadRequest)
}

// NewTrainingError surfaces a training capability failure verbatim.
// Training has no fallback policy: the caller is always told it failed.
func NewTrainingError(cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(cause.Error()).
		WithCause(cause)
	return newAppError(builder, CategoryTraining, http.StatusInternalServerError)
}

// NewStorageError wraps an assessment-history persistence failure.
func NewStorageError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeUnavailable).
		WithMsg(message)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return newAppError(builder, CategoryStorage, http.StatusInternalServerError)
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(message string, cause error) *AppError {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(message)
	if cause != nil {
		builder = builder.WithCause(cause)
	}

	appErr := newAppError(builder, CategoryInternal, http.StatusInternalServerError)
	if gin.Mode() == gin.DebugMode || gin.Mode() == gin.TestMode {
		appErr.StackTrace = captureStackTrace()
	}
	return appErr
}

func captureStackTrace() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}

// ToAppError converts any error to an AppError.
func ToAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		builder := errbuilder.New().
			WithCode(errbuilder.CodeDeadlineExceeded).
			WithMsg("request deadline exceeded").
			WithCause(err)
		return newAppError(builder, CategoryInternal, http.StatusGatewayTimeout)
	}
	return NewInternalError(err.Error(), err)
}

// Respond writes the failure envelope the API promises on any
// request-level error: {"success": false, "error": "..."}.
func Respond(c *gin.Context, err *AppError) {
	LogError(c, err)
	c.JSON(err.HTTPStatus, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

// ErrorHandler renders errors attached to the gin context after the
// handler chain ran.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			appErr := ToAppError(c.Errors.Last().Err)
			Respond(c, appErr)
		}
	}
}

// RecoveryHandler converts panics into the standard failure envelope.
func RecoveryHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		appErr := NewInternalError(
			fmt.Sprintf("panic recovered: %v", recovered),
			fmt.Errorf("%v", recovered),
		)
		appErr.StackTrace = captureStackTrace()
		Respond(c, appErr)
		c.Abort()
	})
}

// LogError logs an error with request context, level keyed by category.
func LogError(c *gin.Context, err *AppError) {
	logEntry := slog.With(
		"error_category", err.Category,
		"error_code", err.ErrBuilder.ErrCode(),
		"http_status", err.HTTPStatus,
		"ip", c.ClientIP(),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)

	switch err.Category {
	case CategoryValidation:
		logEntry.Warn(err.ErrBuilder.Msg)
	case CategoryTraining, CategoryStorage:
		if cause := err.Unwrap(); cause != nil {
			logEntry.Error(err.ErrBuilder.Msg, "cause", cause)
		} else {
			logEntry.Error(err.ErrBuilder.Msg)
		}
	default:
		if cause := err.Unwrap(); cause != nil {
			logEntry.Error(err.ErrBuilder.Msg, "cause", cause)
		} else {
			logEntry.Error(err.ErrBuilder.Msg)
		}
	}

	if err.StackTrace != "" && (gin.Mode() == gin.DebugMode || gin.Mode() == gin.TestMode) {
		logEntry.Debug("stack_trace", "trace", err.StackTrace)
	}
}
