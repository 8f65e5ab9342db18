package models

import (
	"context"

	"github.com/drivesentinel/drive-sentinel/internal/prediction"
)

// WearoutModel scores NAND wear: consumed life, accumulated power-on
// hours, and total bytes written against a consumer-class TBW rating.
type WearoutModel struct {
	weightedModel
}

// NewWearoutModel builds the wearout predictor. samples may be nil; the
// model then predicts with shipped baselines and refuses to train.
func NewWearoutModel(samples SampleSource) *WearoutModel {
	return &WearoutModel{weightedModel{
		name:    "wearout",
		samples: samples,
		factors: []factorDef{
			// Percent_Life_Used is the manufacturer's own wear gauge.
			{feature: "Percent_Life_Used", weight: 0.50, baseline: 100},
			// ~5 years of continuous operation.
			{feature: "Power_On_Hours", weight: 0.30, baseline: 43800},
			// Consumer TBW rating for a ~1TB class drive.
			{feature: "Total_TBW_TB", weight: 0.20, baseline: 600},
		},
	}}
}

// Train recalibrates the wearout baselines from stored history.
func (m *WearoutModel) Train(ctx context.Context) (prediction.TrainingResult, error) {
	return m.train(ctx)
}
