package models

import (
	"fmt"
	"time"
)

// UnknownLabel is the defensive fallback for required text fields the
// upstream record left empty.
const UnknownLabel = "Unknown"

// Hydrate fills a partially-populated upstream record with safe defaults and
// returns the quality signals encountered while doing so. It runs exactly
// once at ingestion so every later derivation can assume a complete record
// instead of scattering nil checks through the computations.
//
// Hydration never fails: malformed blocks degrade to zeroed exposure, LOW
// severity inputs, and "Unknown" labels.
func Hydrate(d Decision, now time.Time) (Decision, []QualitySignal) {
	var signals []QualitySignal

	if d.Version < 1 {
		d.Version = 1
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = d.CreatedAt
	}

	if d.Q1.EventSummary == "" {
		d.Q1.EventSummary = UnknownLabel
	}
	if d.Q1.EventType == "" {
		d.Q1.EventType = UnknownLabel
	}
	if d.Q1.DetectedAt.IsZero() {
		d.Q1.DetectedAt = d.CreatedAt
	}

	if d.Q2.ExpectedDelayDays < 0 {
		d.Q2.ExpectedDelayDays = 0
	}

	// Corrections must not write through to the caller's record; the slice
	// header was copied with the struct but still aliases the same rows.
	d.Q3.Shipments = append([]ShipmentExposure(nil), d.Q3.Shipments...)
	if d.Q3.Shipments == nil {
		d.Q3.Shipments = []ShipmentExposure{}
	}
	for i, sh := range d.Q3.Shipments {
		if sh.ExposureUSD < 0 {
			d.Q3.Shipments[i].ExposureUSD = 0
		}
		if sh.CargoValue > 0 && sh.ExposureUSD > sh.CargoValue {
			signals = append(signals, QualitySignal{
				Code: QualityExposureExceedsCargo,
				Message: fmt.Sprintf("shipment %s declares exposure %.2f above cargo value %.2f; exposure zeroed",
					sh.ShipmentID, sh.ExposureUSD, sh.CargoValue),
				Field: fmt.Sprintf("q3.shipments[%d]", i),
			})
			d.Q3.Shipments[i].ExposureUSD = 0
		}
	}
	if d.Q3.TotalExposureUSD <= 0 {
		d.Q3.TotalExposureUSD = sumExposure(d.Q3.Shipments)
	}

	if d.Q5.RecommendedAction == "" {
		d.Q5.RecommendedAction = UnknownLabel
	}
	if d.Q5.EstimatedCostUSD < 0 {
		d.Q5.EstimatedCostUSD = 0
	}

	if d.Q6.ConfidenceScore < 0 {
		d.Q6.ConfidenceScore = 0
	}
	if d.Q6.ConfidenceScore > 1 {
		d.Q6.ConfidenceScore = 1
	}
	for i, f := range d.Q6.Factors {
		if mismatch(f) {
			signals = append(signals, QualitySignal{
				Code: QualityFactorSignMismatch,
				Message: fmt.Sprintf("factor %q weight %.3f disagrees with contribution %s",
					f.Factor, f.Weight, f.Contribution),
				Field: fmt.Sprintf("q6.factors[%d]", i),
			})
		}
	}

	if d.Q7.InactionCostUSD < 0 {
		d.Q7.InactionCostUSD = 0
	}

	return d, signals
}

func sumExposure(shipments []ShipmentExposure) float64 {
	total := 0.0
	for _, sh := range shipments {
		total += sh.ExposureUSD
	}
	return total
}

func mismatch(f ConfidenceFactor) bool {
	switch f.Contribution {
	case ContributionPositive:
		return f.Weight < 0
	case ContributionNegative:
		return f.Weight > 0
	case ContributionNeutral:
		return f.Weight != 0
	}
	return false
}
