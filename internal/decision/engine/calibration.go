package engine

import (
	"math"

	"chainsight/internal/decision/models"
)

// Confidence level thresholds. Three tiers, not to be conflated with the
// four-tier severity scale.
const (
	confidenceHighThreshold   = 0.8
	confidenceMediumThreshold = 0.6
)

// barScaleFactor and barMaxPercent implement the factor bar-length rule
// min(|weight|*300, 100). This is a display parity convention inherited from
// the product, not a normalized confidence decomposition.
const (
	barScaleFactor = 300
	barMaxPercent  = 100
)

// LevelForScore maps a confidence score in [0,1] onto the three-tier level.
func LevelForScore(score float64) models.ConfidenceLevel {
	switch {
	case score >= confidenceHighThreshold:
		return models.ConfidenceHigh
	case score >= confidenceMediumThreshold:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// BandForScore buckets a score into the 5-point band used to phrase
// "historical accuracy at X-Y% confidence" lookups.
func BandForScore(score float64) (low, high int) {
	low = int(math.Floor(score*100/5)) * 5
	return low, low + 5
}

// BarPercent converts a factor weight into its visual bar length.
func BarPercent(weight float64) float64 {
	return math.Min(math.Abs(weight)*barScaleFactor, barMaxPercent)
}

// WeightedFactor is a confidence factor annotated with its bar length.
type WeightedFactor struct {
	models.ConfidenceFactor
	BarPercent float64 `json:"bar_percent"`
}

// FactorBreakdown partitions confidence factors for display. Neutral factors
// carry no directional claim and are listed separately.
type FactorBreakdown struct {
	Positive []WeightedFactor `json:"positive,omitempty"`
	Negative []WeightedFactor `json:"negative,omitempty"`
	Neutral  []WeightedFactor `json:"neutral,omitempty"`
}

// PartitionFactors splits factors by their declared contribution, preserving
// input order within each group.
func PartitionFactors(factors []models.ConfidenceFactor) FactorBreakdown {
	var out FactorBreakdown
	for _, f := range factors {
		wf := WeightedFactor{ConfidenceFactor: f, BarPercent: BarPercent(f.Weight)}
		switch f.Contribution {
		case models.ContributionPositive:
			out.Positive = append(out.Positive, wf)
		case models.ContributionNegative:
			out.Negative = append(out.Negative, wf)
		default:
			out.Neutral = append(out.Neutral, wf)
		}
	}
	return out
}

// CalibrationView is the derived calibration section. It only exists when
// the decision carries real historical data.
type CalibrationView struct {
	Level               models.ConfidenceLevel     `json:"level"`
	BandLow             int                        `json:"band_low"`
	BandHigh            int                        `json:"band_high"`
	HistoricalAccuracy  float64                    `json:"historical_accuracy"`
	SampleSize          int                        `json:"sample_size"`
	RelativePerformance models.RelativePerformance `json:"relative_performance"`
	Factors             []models.CalibrationFactor `json:"factors,omitempty"`
}

// BuildCalibration derives the calibration section for a declared score.
// Returns nil when calibration is nil: the section is omitted entirely
// rather than synthesized, since calibration requires observed history.
func BuildCalibration(score float64, cal *models.Calibration) *CalibrationView {
	if cal == nil {
		return nil
	}
	low, high := BandForScore(score)
	return &CalibrationView{
		Level:               LevelForScore(score),
		BandLow:             low,
		BandHigh:            high,
		HistoricalAccuracy:  cal.HistoricalAccuracy,
		SampleSize:          cal.SampleSize,
		RelativePerformance: cal.RelativePerformance,
		Factors:             cal.Factors,
	}
}
