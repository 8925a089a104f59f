package models

// QualityCode identifies a class of data-quality anomaly. Anomalies are
// recorded and surfaced, never auto-corrected and never fatal.
type QualityCode string

const (
	// QualityProbabilitySum: scenario probabilities deviate from 1.
	QualityProbabilitySum QualityCode = "scenario_probability_sum"
	// QualityNonMonotonicCost: an escalation checkpoint costs less than its
	// predecessor.
	QualityNonMonotonicCost QualityCode = "non_monotonic_escalation"
	// QualityExposureExceedsCargo: a shipment declared more exposure than
	// cargo value; the row was zeroed during hydration.
	QualityExposureExceedsCargo QualityCode = "exposure_exceeds_cargo_value"
	// QualityFactorSignMismatch: a confidence factor's weight sign disagrees
	// with its declared contribution.
	QualityFactorSignMismatch QualityCode = "factor_sign_mismatch"
)

// QualitySignal is one recorded anomaly with enough context to locate the
// offending input.
type QualitySignal struct {
	Code    QualityCode `json:"code"`
	Message string      `json:"message"`
	Field   string      `json:"field,omitempty"`
}
