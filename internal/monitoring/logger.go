package monitoring

import (
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog with helpers for the domain events worth indexing.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a JSON structured logger.
func NewLogger() *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})
	return &Logger{Logger: slog.New(handler)}
}

// RequestLogger logs one HTTP request.
func (l *Logger) RequestLogger(method, path, ip string, statusCode int, duration time.Duration) {
	l.Info("HTTP Request",
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// PredictionLogger logs a completed risk assessment.
func (l *Logger) PredictionLogger(status string, overallRisk float64, highestRisk string, fallbacks int, duration time.Duration) {
	l.Info("Prediction Completed",
		"status", status,
		"overall_risk", overallRisk,
		"highest_risk", highestRisk,
		"fallback_roles", fallbacks,
		"duration_ms", duration.Milliseconds(),
	)
}

// TrainingLogger logs a training run outcome.
func (l *Logger) TrainingLogger(model string, samples int, err error, duration time.Duration) {
	if err != nil {
		l.Error("Training Failed",
			"model", model,
			"error", err.Error(),
			"duration_ms", duration.Milliseconds(),
		)
		return
	}
	l.Info("Training Completed",
		"model", model,
		"samples", samples,
		"duration_ms", duration.Milliseconds(),
	)
}

// SystemLogger logs system-level events.
func (l *Logger) SystemLogger(event, details string) {
	l.Info("System Event",
		"event", event,
		"details", details,
		"uptime", time.Since(startTime).String(),
	)
}

var startTime = time.Now()
