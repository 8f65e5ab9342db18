// Package models holds the concrete per-role risk predictors. Each model
// scores a normalized telemetry reading with a small set of weighted
// factors; factor baselines can be recalibrated from stored history for
// the trainable roles.
package models

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/drivesentinel/drive-sentinel/internal/prediction"
	"github.com/drivesentinel/drive-sentinel/internal/types"
)

// factorDef describes one weighted risk factor. A reading equal to the
// baseline counts as fully consumed (normalized value 1.0); readings
// beyond the baseline saturate at overshoot.
type factorDef struct {
	feature  string
	weight   float64
	baseline float64
}

// overshoot caps a factor's normalized value so one runaway counter
// cannot dominate the weighted sum beyond its share.
const overshoot = 1.5

// SampleSource supplies stored telemetry readings for retraining.
type SampleSource interface {
	TrainingSamples(ctx context.Context, limit int) ([]types.Telemetry, error)
}

const minTrainingSamples = 8

// weightedModel is the shared predictor core: risk is the weighted sum of
// normalized factors, scaled to a percentage. Baselines are guarded by a
// mutex because training rewrites them while predictions may be in flight.
type weightedModel struct {
	name    string
	mu      sync.RWMutex
	factors []factorDef
	samples SampleSource
}

func (m *weightedModel) Predict(t types.Telemetry) (prediction.RiskAssessment, error) {
	if t == nil {
		return prediction.RiskAssessment{}, fmt.Errorf("%s: nil telemetry", m.name)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	risk := 0.0
	weighted := make(map[string]float64, len(m.factors))
	for _, f := range m.factors {
		v := clamp(t[f.feature]/f.baseline, 0, overshoot)
		part := f.weight * v * 100
		weighted[f.feature] = part
		risk += part
	}

	return prediction.RiskAssessment{
		RiskPercentage: round2(risk),
		Contributions:  contributions(weighted, m.factors),
		Status:         statusLabel(risk),
	}, nil
}

// train recalibrates factor baselines from stored samples: the new
// baseline is the observed per-feature maximum with 25% headroom, so a
// fleet running hotter than the shipped defaults stops pinning every
// factor at overshoot. Failures surface to the caller unmasked.
func (m *weightedModel) train(ctx context.Context) (prediction.TrainingResult, error) {
	if m.samples == nil {
		return prediction.TrainingResult{}, fmt.Errorf("%s: no training sample source configured", m.name)
	}

	samples, err := m.samples.TrainingSamples(ctx, 1000)
	if err != nil {
		return prediction.TrainingResult{}, fmt.Errorf("%s: loading training samples: %w", m.name, err)
	}
	if len(samples) < minTrainingSamples {
		return prediction.TrainingResult{}, fmt.Errorf("%s: insufficient training samples: have %d, need %d", m.name, len(samples), minTrainingSamples)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	baselines := make(map[string]float64, len(m.factors))
	for i, f := range m.factors {
		peak := 0.0
		for _, s := range samples {
			if v := s[f.feature]; v > peak {
				peak = v
			}
		}
		if peak > 0 {
			m.factors[i].baseline = peak * 1.25
		}
		baselines[f.feature] = m.factors[i].baseline
	}

	return prediction.TrainingResult{
		Samples:   len(samples),
		Baselines: baselines,
		TrainedAt: time.Now(),
	}, nil
}

// contributions converts per-factor weighted parts into relative shares.
// With an all-zero reading the static factor weights are reported instead,
// matching the shape of the fallback table.
func contributions(weighted map[string]float64, factors []factorDef) map[string]float64 {
	total := 0.0
	for _, part := range weighted {
		total += part
	}

	out := make(map[string]float64, len(factors))
	if total <= 0 {
		for _, f := range factors {
			out[f.feature] = round2(f.weight * 100)
		}
		return out
	}
	for feature, part := range weighted {
		out[feature] = round2(part / total * 100)
	}
	return out
}

func statusLabel(risk float64) string {
	switch {
	case risk >= 70:
		return "High risk"
	case risk >= 40:
		return "Elevated"
	default:
		return "Normal"
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
