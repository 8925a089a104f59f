package models

// Contribution labels which way a confidence factor pushes the score.
type Contribution string

const (
	ContributionPositive Contribution = "POSITIVE"
	ContributionNegative Contribution = "NEGATIVE"
	ContributionNeutral  Contribution = "NEUTRAL"
)

// ConfidenceFactor is one weighted input to the declared confidence score.
// Weight lives in [-1,1] and its sign must agree with Contribution; hydration
// flags disagreement as a quality signal rather than re-deriving either side.
type ConfidenceFactor struct {
	Factor       string       `json:"factor"`
	Weight       float64      `json:"weight"`
	Contribution Contribution `json:"contribution"`
	Explanation  string       `json:"explanation,omitempty"`
}

// ConfidenceLevel is the three-tier mapping of the confidence score.
// Distinct from the four-tier Severity scale.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "HIGH"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceLow    ConfidenceLevel = "LOW"
)

// FactorDirection labels a calibration factor's direction.
type FactorDirection string

const (
	DirectionPositive FactorDirection = "positive"
	DirectionNegative FactorDirection = "negative"
)

// FactorStrength grades a calibration factor.
type FactorStrength string

const (
	StrengthStrong   FactorStrength = "strong"
	StrengthModerate FactorStrength = "moderate"
	StrengthWeak     FactorStrength = "weak"
)

// CalibrationFactor explains one driver of historical accuracy.
type CalibrationFactor struct {
	Description string          `json:"description"`
	Direction   FactorDirection `json:"direction"`
	Strength    FactorStrength  `json:"strength"`
}

// Calibration pairs the declared confidence with observed historical
// correctness. It is only present when real historical data exists; the
// service never fabricates one.
type Calibration struct {
	HistoricalAccuracy  float64             `json:"historical_accuracy"`
	SampleSize          int                 `json:"sample_size"`
	RelativePerformance RelativePerformance `json:"relative_performance"`
	Factors             []CalibrationFactor `json:"factors,omitempty"`
}

// RelativePerformance compares this decision class against the book average.
type RelativePerformance string

const (
	PerformanceAboveAverage RelativePerformance = "above_average"
	PerformanceAverage      RelativePerformance = "average"
	PerformanceBelowAverage RelativePerformance = "below_average"
)
