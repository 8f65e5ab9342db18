package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/drivesentinel/drive-sentinel/internal/prediction"
	"github.com/drivesentinel/drive-sentinel/internal/types"
	"github.com/google/uuid"
)

// AssessmentRecord is one persisted prediction, kept both for the
// history endpoint and as the training corpus.
type AssessmentRecord struct {
	ID             string          `json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	Status         string          `json:"status"`
	OverallRisk    float64         `json:"overall_risk"`
	HighestRisk    string          `json:"highest_risk"`
	WearoutRisk    float64         `json:"wearout_risk"`
	ThermalRisk    float64         `json:"thermal_risk"`
	PowerRisk      float64         `json:"power_risk"`
	ControllerRisk float64         `json:"controller_risk"`
	Telemetry      types.Telemetry `json:"telemetry"`
}

// Repository persists assessments and serves training samples.
type Repository struct {
	db *DB
}

// NewRepository creates a repository over the given database.
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// SaveAssessment stores one completed assessment with its telemetry.
func (r *Repository) SaveAssessment(ctx context.Context, t types.Telemetry, assessments map[prediction.Role]prediction.RiskAssessment, summary prediction.Summary) (string, error) {
	telemetryJSON, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("encoding telemetry: %w", err)
	}

	id := uuid.New().String()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO assessments
			(id, created_at, status, overall_risk, highest_risk,
			 wearout_risk, thermal_risk, power_risk, controller_risk, telemetry)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC(), summary.Status, summary.OverallRisk, summary.HighestRisk,
		assessments[prediction.RoleWearout].RiskPercentage,
		assessments[prediction.RoleThermal].RiskPercentage,
		assessments[prediction.RolePower].RiskPercentage,
		assessments[prediction.RoleController].RiskPercentage,
		string(telemetryJSON),
	)
	if err != nil {
		return "", fmt.Errorf("inserting assessment: %w", err)
	}
	return id, nil
}

// RecentAssessments returns the newest records, newest first.
func (r *Repository) RecentAssessments(ctx context.Context, limit int) ([]AssessmentRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, status, overall_risk, highest_risk,
		        wearout_risk, thermal_risk, power_risk, controller_risk, telemetry
		 FROM assessments ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying assessments: %w", err)
	}
	defer rows.Close()

	records := make([]AssessmentRecord, 0, limit)
	for rows.Next() {
		var rec AssessmentRecord
		var telemetryJSON string
		if err := rows.Scan(
			&rec.ID, &rec.CreatedAt, &rec.Status, &rec.OverallRisk, &rec.HighestRisk,
			&rec.WearoutRisk, &rec.ThermalRisk, &rec.PowerRisk, &rec.ControllerRisk,
			&telemetryJSON,
		); err != nil {
			return nil, fmt.Errorf("scanning assessment row: %w", err)
		}
		if err := json.Unmarshal([]byte(telemetryJSON), &rec.Telemetry); err != nil {
			return nil, fmt.Errorf("decoding telemetry for %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// TrainingSamples returns stored telemetry readings for model
// recalibration. It satisfies the models.SampleSource interface.
func (r *Repository) TrainingSamples(ctx context.Context, limit int) ([]types.Telemetry, error) {
	if limit <= 0 || limit > 10000 {
		limit = 1000
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT telemetry FROM assessments ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying training samples: %w", err)
	}
	defer rows.Close()

	samples := make([]types.Telemetry, 0, limit)
	for rows.Next() {
		var telemetryJSON string
		if err := rows.Scan(&telemetryJSON); err != nil {
			return nil, fmt.Errorf("scanning training sample: %w", err)
		}
		var t types.Telemetry
		if err := json.Unmarshal([]byte(telemetryJSON), &t); err != nil {
			return nil, fmt.Errorf("decoding training sample: %w", err)
		}
		samples = append(samples, t)
	}
	return samples, rows.Err()
}
