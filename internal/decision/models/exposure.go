package models

// ShipmentExposure is one shipment's dollar value at risk on a disrupted
// route. ExposureUSD <= CargoValueUSD is expected of upstream data but not
// enforced here; hydration zeroes contradictory rows and records a quality
// signal instead of rejecting the record.
type ShipmentExposure struct {
	ShipmentID  string  `json:"shipment_id"`
	Route       string  `json:"route"`
	ExposureUSD float64 `json:"exposure_usd"`
	CargoValue  float64 `json:"cargo_value_usd"`
}

// Severity is the four-tier product severity applied to total exposure.
// Distinct from ConfidenceLevel's three-tier scale; the two are never
// interchangeable.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// ShipmentBand is the per-shipment visual categorization band. It uses its
// own boundaries (75k/50k/25k) and exists only to color individual shipment
// rows; it must not be used for top-level severity.
type ShipmentBand string

const (
	ShipmentBandCritical ShipmentBand = "critical"
	ShipmentBandHigh     ShipmentBand = "high"
	ShipmentBandMedium   ShipmentBand = "medium"
	ShipmentBandLow      ShipmentBand = "low"
)
