package prediction

import (
	"context"
	"time"

	"github.com/drivesentinel/drive-sentinel/internal/types"
)

// RiskAssessment is the per-role output of a risk model or its fallback.
// Values are constructed fresh per request and never mutated afterwards.
// RiskPercentage is conventionally 0-100 but deliberately not clamped.
type RiskAssessment struct {
	RiskPercentage float64            `json:"risk_percentage"`
	Contributions  map[string]float64 `json:"contributions"`
	Status         string             `json:"status"`
}

// RiskModel is the capability every role's predictor exposes.
type RiskModel interface {
	Predict(t types.Telemetry) (RiskAssessment, error)
}

// ThresholdAwareRiskModel is the capability shape of the thermal slot:
// prediction against a device-specific temperature threshold.
type ThresholdAwareRiskModel interface {
	RiskModel
	PredictWithThreshold(t types.Telemetry, threshold float64) (RiskAssessment, error)
}

// TrainingResult is the opaque outcome of an out-of-band training run.
type TrainingResult struct {
	Samples   int                `json:"samples"`
	Baselines map[string]float64 `json:"baselines"`
	TrainedAt time.Time          `json:"trained_at"`
}

// TrainableModel is exposed by the wearout and controller slots only.
// Training failures are surfaced to the caller as-is; there is no
// fallback policy on the training path.
type TrainableModel interface {
	Train(ctx context.Context) (TrainingResult, error)
}

// ThresholdResolver supplies the device thermal threshold. Failure is
// silent-degrade only: the orchestrator substitutes DefaultTempThreshold.
type ThresholdResolver interface {
	TempThreshold(ctx context.Context) (float64, error)
}
