package models

import (
	"context"

	"github.com/drivesentinel/drive-sentinel/internal/prediction"
)

// ControllerModel scores controller and interface health: media errors,
// link CRC errors, and the read error rate.
type ControllerModel struct {
	weightedModel
}

// NewControllerModel builds the controller predictor. samples may be nil;
// the model then predicts with shipped baselines and refuses to train.
func NewControllerModel(samples SampleSource) *ControllerModel {
	return &ControllerModel{weightedModel{
		name:    "controller",
		samples: samples,
		factors: []factorDef{
			{feature: "Media_Errors", weight: 0.40, baseline: 100},
			{feature: "CRC_Errors", weight: 0.40, baseline: 100},
			{feature: "Read_Error_Rate", weight: 0.20, baseline: 100},
		},
	}}
}

// Train recalibrates the controller baselines from stored history.
func (m *ControllerModel) Train(ctx context.Context) (prediction.TrainingResult, error) {
	return m.train(ctx)
}
