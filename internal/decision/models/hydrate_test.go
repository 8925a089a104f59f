package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHydrateEmptyRecordGetsSafeDefaults(t *testing.T) {
	now := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)

	hydrated, signals := Hydrate(Decision{ID: uuid.New()}, now)

	assert.Equal(t, 1, hydrated.Version)
	assert.Equal(t, now, hydrated.CreatedAt)
	assert.Equal(t, now, hydrated.UpdatedAt)
	assert.Equal(t, UnknownLabel, hydrated.Q1.EventSummary)
	assert.Equal(t, UnknownLabel, hydrated.Q1.EventType)
	assert.Equal(t, now, hydrated.Q1.DetectedAt)
	assert.Equal(t, UnknownLabel, hydrated.Q5.RecommendedAction)
	assert.NotNil(t, hydrated.Q3.Shipments)
	assert.Zero(t, hydrated.Q3.TotalExposureUSD)
	assert.Empty(t, signals)
}

func TestHydratePreservesPopulatedFields(t *testing.T) {
	now := time.Now().UTC()
	created := now.Add(-2 * time.Hour)
	d := Decision{
		ID:        uuid.New(),
		Version:   3,
		CreatedAt: created,
		UpdatedAt: created,
		Q1:        EventBlock{EventSummary: "Panama draft restrictions", EventType: "capacity_reduction", DetectedAt: created},
		Q3: ExposureBlock{
			TotalExposureUSD: 90_000,
			Shipments:        []ShipmentExposure{{ShipmentID: "SHP-1", ExposureUSD: 90_000, CargoValue: 120_000}},
		},
		Q5: ActionBlock{RecommendedAction: "Book air freight for priority SKUs", EstimatedCostUSD: 20_000},
	}

	hydrated, signals := Hydrate(d, now)

	assert.Equal(t, 3, hydrated.Version)
	assert.Equal(t, created, hydrated.CreatedAt)
	assert.Equal(t, "Panama draft restrictions", hydrated.Q1.EventSummary)
	assert.Equal(t, float64(90_000), hydrated.Q3.TotalExposureUSD)
	assert.Empty(t, signals)
}

func TestHydrateZeroesContradictoryExposure(t *testing.T) {
	d := Decision{
		ID: uuid.New(),
		Q3: ExposureBlock{
			Shipments: []ShipmentExposure{
				{ShipmentID: "SHP-1", ExposureUSD: 200_000, CargoValue: 50_000},
				{ShipmentID: "SHP-2", ExposureUSD: 30_000, CargoValue: 80_000},
			},
		},
	}

	hydrated, signals := Hydrate(d, time.Now())

	assert.Zero(t, hydrated.Q3.Shipments[0].ExposureUSD)
	assert.Equal(t, float64(30_000), hydrated.Q3.Shipments[1].ExposureUSD)
	// Total is recomputed from the corrected shipments.
	assert.Equal(t, float64(30_000), hydrated.Q3.TotalExposureUSD)

	require.Len(t, signals, 1)
	assert.Equal(t, QualityExposureExceedsCargo, signals[0].Code)
	assert.Equal(t, "q3.shipments[0]", signals[0].Field)
}

func TestHydrateLeavesCallerRecordUntouched(t *testing.T) {
	shipments := []ShipmentExposure{
		{ShipmentID: "SHP-1", ExposureUSD: 200_000, CargoValue: 50_000},
		{ShipmentID: "SHP-2", ExposureUSD: -100, CargoValue: 80_000},
	}
	raw := Decision{ID: uuid.New(), Q3: ExposureBlock{Shipments: shipments}}

	hydrated, _ := Hydrate(raw, time.Now())

	// The corrected rows live on the hydrated copy only.
	assert.Zero(t, hydrated.Q3.Shipments[0].ExposureUSD)
	assert.Zero(t, hydrated.Q3.Shipments[1].ExposureUSD)
	assert.Equal(t, float64(200_000), raw.Q3.Shipments[0].ExposureUSD)
	assert.Equal(t, float64(-100), raw.Q3.Shipments[1].ExposureUSD)
	assert.Equal(t, float64(200_000), shipments[0].ExposureUSD)
}

func TestHydrateClampsNegativesAndScore(t *testing.T) {
	d := Decision{
		ID: uuid.New(),
		Q2: TimingBlock{ExpectedDelayDays: -3},
		Q5: ActionBlock{RecommendedAction: "Hold", EstimatedCostUSD: -500},
		Q6: ConfidenceBlock{ConfidenceScore: 1.4},
		Q7: InactionBlock{InactionCostUSD: -1},
	}

	hydrated, _ := Hydrate(d, time.Now())

	assert.Zero(t, hydrated.Q2.ExpectedDelayDays)
	assert.Zero(t, hydrated.Q5.EstimatedCostUSD)
	assert.Equal(t, 1.0, hydrated.Q6.ConfidenceScore)
	assert.Zero(t, hydrated.Q7.InactionCostUSD)
}

func TestHydrateFlagsFactorSignMismatch(t *testing.T) {
	d := Decision{
		ID: uuid.New(),
		Q6: ConfidenceBlock{
			ConfidenceScore: 0.7,
			Factors: []ConfidenceFactor{
				{Factor: "historical precedent", Weight: 0.4, Contribution: ContributionPositive},
				{Factor: "sparse AIS coverage", Weight: 0.2, Contribution: ContributionNegative},
			},
		},
	}

	_, signals := Hydrate(d, time.Now())

	require.Len(t, signals, 1)
	assert.Equal(t, QualityFactorSignMismatch, signals[0].Code)
	assert.Equal(t, "q6.factors[1]", signals[0].Field)
}
