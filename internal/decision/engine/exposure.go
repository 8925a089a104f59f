// Package engine holds the deterministic decision computations: exposure
// aggregation, scenario derivation, confidence calibration, and the
// escalation timeline. Everything here is pure domain logic - no I/O, no
// side effects, no hidden clock. Functions receive all data they need as
// arguments and return derived values.
package engine

import "chainsight/internal/decision/models"

// Severity band boundaries applied to total exposure, in USD.
const (
	totalCriticalUSD = 200_000
	totalHighUSD     = 100_000
	totalMediumUSD   = 50_000
)

// Per-shipment band boundaries, in USD. These color individual shipment rows
// and are deliberately different from the total-severity bands above.
const (
	shipmentCriticalUSD = 75_000
	shipmentHighUSD     = 50_000
	shipmentMediumUSD   = 25_000
)

// ExposureSummary is the aggregate view over a decision's shipments.
type ExposureSummary struct {
	TotalUSD   float64         `json:"total_exposure_usd"`
	AverageUSD float64         `json:"average_exposure_usd"`
	Count      int             `json:"shipment_count"`
	Severity   models.Severity `json:"severity"`
}

// AggregateExposure sums shipment exposure and classifies the total into the
// four-tier product severity. An empty list yields total 0, severity LOW,
// and average 0 (no division by zero).
func AggregateExposure(shipments []models.ShipmentExposure) ExposureSummary {
	total := 0.0
	for _, sh := range shipments {
		total += sh.ExposureUSD
	}

	avg := 0.0
	if len(shipments) > 0 {
		avg = total / float64(len(shipments))
	}

	return ExposureSummary{
		TotalUSD:   total,
		AverageUSD: avg,
		Count:      len(shipments),
		Severity:   SeverityForTotal(total),
	}
}

// SeverityForTotal maps total exposure onto the four-tier severity scale.
// Boundaries are inclusive on the higher tier.
func SeverityForTotal(totalUSD float64) models.Severity {
	switch {
	case totalUSD >= totalCriticalUSD:
		return models.SeverityCritical
	case totalUSD >= totalHighUSD:
		return models.SeverityHigh
	case totalUSD >= totalMediumUSD:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// BandForShipment maps a single shipment's exposure onto the per-shipment
// visual band. Not interchangeable with SeverityForTotal: the boundaries
// differ and the boundaries here are exclusive.
func BandForShipment(exposureUSD float64) models.ShipmentBand {
	switch {
	case exposureUSD > shipmentCriticalUSD:
		return models.ShipmentBandCritical
	case exposureUSD > shipmentHighUSD:
		return models.ShipmentBandHigh
	case exposureUSD > shipmentMediumUSD:
		return models.ShipmentBandMedium
	default:
		return models.ShipmentBandLow
	}
}
