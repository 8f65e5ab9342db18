package models

import (
	"fmt"

	"github.com/drivesentinel/drive-sentinel/internal/prediction"
	"github.com/drivesentinel/drive-sentinel/internal/types"
)

// ThermalModel scores temperature risk against a device threshold with a
// piecewise ramp: negligible below 60% of the threshold, climbing to 70
// at the threshold itself, then 3 points per degree of excursion above
// it, saturating at 100.
type ThermalModel struct{}

func NewThermalModel() *ThermalModel {
	return &ThermalModel{}
}

// Predict scores against the static default threshold.
func (m *ThermalModel) Predict(t types.Telemetry) (prediction.RiskAssessment, error) {
	return m.PredictWithThreshold(t, prediction.DefaultTempThreshold)
}

// PredictWithThreshold scores against a resolved device threshold.
func (m *ThermalModel) PredictWithThreshold(t types.Telemetry, threshold float64) (prediction.RiskAssessment, error) {
	if t == nil {
		return prediction.RiskAssessment{}, fmt.Errorf("thermal: nil telemetry")
	}
	if threshold <= 0 {
		threshold = prediction.DefaultTempThreshold
	}

	temp := t["Temperature_C"]
	risk := thermalRisk(temp, threshold)

	status := "Normal"
	switch {
	case temp > threshold:
		status = "Over threshold"
	case risk >= 40:
		status = "Running hot"
	}

	return prediction.RiskAssessment{
		RiskPercentage: round2(risk),
		Contributions:  map[string]float64{"Temperature_C": 100},
		Status:         status,
	}, nil
}

func thermalRisk(temp, threshold float64) float64 {
	if temp <= 0 {
		return 0
	}
	knee := 0.6 * threshold
	switch {
	case temp <= knee:
		return temp / knee * 15
	case temp <= threshold:
		return 15 + (temp-knee)/(threshold-knee)*55
	default:
		return clamp(70+(temp-threshold)*3, 70, 100)
	}
}
