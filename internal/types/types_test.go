package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFillsMissingFeatures(t *testing.T) {
	got := Telemetry{"Temperature_C": 42}.Normalize()

	require.Len(t, got, len(Features))
	assert.Equal(t, 42.0, got["Temperature_C"])
	for _, f := range Features {
		assert.Contains(t, got, f)
	}
	assert.Equal(t, 0.0, got["Media_Errors"])
}

func TestNormalizePreservesUnknownKeys(t *testing.T) {
	got := Telemetry{"Vendor_Specific_17": 3.14}.Normalize()

	assert.Equal(t, 3.14, got["Vendor_Specific_17"])
	assert.Len(t, got, len(Features)+1)
}

func TestNormalizeDoesNotMutateReceiver(t *testing.T) {
	original := Telemetry{"Temperature_C": 42}

	got := original.Normalize()
	got["Temperature_C"] = 99

	assert.Equal(t, 42.0, original["Temperature_C"])
	assert.Len(t, original, 1)
}

func TestNormalizeNilTelemetry(t *testing.T) {
	var nilTelemetry Telemetry

	got := nilTelemetry.Normalize()

	require.Len(t, got, len(Features))
}

func TestFeatureDefaultsCoverEveryFeature(t *testing.T) {
	for _, f := range Features {
		assert.Contains(t, FeatureDefaults, f)
	}
	assert.Len(t, FeatureDefaults, len(Features))
}
