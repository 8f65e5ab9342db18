package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivesentinel/drive-sentinel/internal/prediction"
	"github.com/drivesentinel/drive-sentinel/internal/types"
)

func testRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db)
}

func sampleAssessments(risk float64) map[prediction.Role]prediction.RiskAssessment {
	out := make(map[prediction.Role]prediction.RiskAssessment, len(prediction.Roles))
	for _, role := range prediction.Roles {
		out[role] = prediction.RiskAssessment{
			RiskPercentage: risk,
			Contributions:  map[string]float64{"Temperature_C": 100},
			Status:         "Normal",
		}
	}
	return out
}

func TestSaveAndLoadAssessment(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	telemetry := types.Telemetry{"Temperature_C": 42, "Media_Errors": 3}.Normalize()
	summary := prediction.Reduce(sampleAssessments(12))

	id, err := repo.SaveAssessment(ctx, telemetry, sampleAssessments(12), summary)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	records, err := repo.RecentAssessments(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, prediction.StatusHealthy, rec.Status)
	assert.Equal(t, 12.0, rec.OverallRisk)
	assert.Equal(t, "Wear-Out", rec.HighestRisk)
	assert.Equal(t, 12.0, rec.WearoutRisk)
	assert.Equal(t, 42.0, rec.Telemetry["Temperature_C"])
	assert.Equal(t, 3.0, rec.Telemetry["Media_Errors"])
}

func TestRecentAssessmentsNewestFirst(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		telemetry := types.Telemetry{"Temperature_C": float64(30 + i)}.Normalize()
		_, err := repo.SaveAssessment(ctx, telemetry, sampleAssessments(float64(i)), prediction.Reduce(sampleAssessments(float64(i))))
		require.NoError(t, err)
	}

	records, err := repo.RecentAssessments(ctx, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i := 1; i < len(records); i++ {
		assert.False(t, records[i].CreatedAt.After(records[i-1].CreatedAt))
	}
}

func TestRecentAssessmentsEmptyStore(t *testing.T) {
	repo := testRepository(t)

	records, err := repo.RecentAssessments(context.Background(), 10)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestTrainingSamplesRoundTrip(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		telemetry := types.Telemetry{"Media_Errors": float64(i * 10)}.Normalize()
		_, err := repo.SaveAssessment(ctx, telemetry, sampleAssessments(5), prediction.Reduce(sampleAssessments(5)))
		require.NoError(t, err)
	}

	samples, err := repo.TrainingSamples(ctx, 100)
	require.NoError(t, err)
	require.Len(t, samples, 10)
	for _, s := range samples {
		assert.Contains(t, s, "Media_Errors")
	}
}

func TestTrainingSamplesFeedModelTraining(t *testing.T) {
	repo := testRepository(t)
	ctx := context.Background()

	// Enough stored history to clear the training floor.
	for i := 0; i < 12; i++ {
		telemetry := types.Telemetry{"Media_Errors": 40, "CRC_Errors": 8}.Normalize()
		_, err := repo.SaveAssessment(ctx, telemetry, sampleAssessments(5), prediction.Reduce(sampleAssessments(5)))
		require.NoError(t, err)
	}

	samples, err := repo.TrainingSamples(ctx, 1000)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(samples), 8)
}

func TestNewDBCreatesDataDir(t *testing.T) {
	dir := fmt.Sprintf("%s/nested/data", t.TempDir())

	db, err := NewDB(dir)

	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestGetPoolStats(t *testing.T) {
	db, err := NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	stats := db.GetPoolStats()

	assert.Contains(t, stats, "open_connections")
	assert.Contains(t, stats, "in_use")
	assert.Contains(t, stats, "idle")
}
