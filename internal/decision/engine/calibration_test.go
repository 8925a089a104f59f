package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainsight/internal/decision/models"
)

func TestLevelForScore(t *testing.T) {
	cases := []struct {
		score float64
		want  models.ConfidenceLevel
	}{
		{0.0, models.ConfidenceLow},
		{0.59, models.ConfidenceLow},
		{0.6, models.ConfidenceMedium},
		{0.79, models.ConfidenceMedium},
		{0.8, models.ConfidenceHigh},
		{1.0, models.ConfidenceHigh},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, LevelForScore(tc.score), "score %v", tc.score)
	}
}

func TestBandForScore(t *testing.T) {
	cases := []struct {
		score             float64
		wantLow, wantHigh int
	}{
		{0.82, 80, 85},
		{0.799999, 75, 80},
		{0.8, 80, 85},
		{0.0, 0, 5},
		{1.0, 100, 105},
		{0.55, 55, 60},
	}

	for _, tc := range cases {
		low, high := BandForScore(tc.score)
		assert.Equal(t, tc.wantLow, low, "score %v", tc.score)
		assert.Equal(t, tc.wantHigh, high, "score %v", tc.score)
	}
}

func TestBarPercentClampAndScale(t *testing.T) {
	assert.Equal(t, 30.0, BarPercent(0.1))
	assert.Equal(t, 30.0, BarPercent(-0.1))
	assert.Equal(t, 100.0, BarPercent(0.5))
	assert.Equal(t, 100.0, BarPercent(-1))
	assert.Equal(t, 0.0, BarPercent(0))
}

func TestPartitionFactors(t *testing.T) {
	factors := []models.ConfidenceFactor{
		{Factor: "ais_coverage", Weight: 0.3, Contribution: models.ContributionPositive},
		{Factor: "single_source", Weight: -0.2, Contribution: models.ContributionNegative},
		{Factor: "seasonality", Weight: 0, Contribution: models.ContributionNeutral},
		{Factor: "carrier_confirmed", Weight: 0.15, Contribution: models.ContributionPositive},
	}

	breakdown := PartitionFactors(factors)

	require.Len(t, breakdown.Positive, 2)
	require.Len(t, breakdown.Negative, 1)
	require.Len(t, breakdown.Neutral, 1)

	// Input order preserved within groups.
	assert.Equal(t, "ais_coverage", breakdown.Positive[0].Factor)
	assert.Equal(t, "carrier_confirmed", breakdown.Positive[1].Factor)
	assert.Equal(t, 90.0, breakdown.Positive[0].BarPercent)
	assert.Equal(t, 60.0, breakdown.Negative[0].BarPercent)
}

func TestBuildCalibrationOmittedWithoutHistory(t *testing.T) {
	assert.Nil(t, BuildCalibration(0.9, nil))
}

func TestBuildCalibration(t *testing.T) {
	cal := &models.Calibration{
		HistoricalAccuracy:  0.78,
		SampleSize:          41,
		RelativePerformance: models.PerformanceAboveAverage,
		Factors: []models.CalibrationFactor{
			{Description: "chokepoint closures resolve faster than predicted", Direction: models.DirectionNegative, Strength: models.StrengthModerate},
		},
	}

	view := BuildCalibration(0.82, cal)

	require.NotNil(t, view)
	assert.Equal(t, models.ConfidenceHigh, view.Level)
	assert.Equal(t, 80, view.BandLow)
	assert.Equal(t, 85, view.BandHigh)
	assert.Equal(t, 0.78, view.HistoricalAccuracy)
	assert.Equal(t, 41, view.SampleSize)
	assert.Len(t, view.Factors, 1)
}
