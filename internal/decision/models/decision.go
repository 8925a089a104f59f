package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "chainsight/pkg/domain-errors"
)

// Decision is the aggregate emitted by the upstream authoring process once a
// disruption has been analyzed. The seven question blocks follow the analyst
// workflow: what happened (q1), when (q2), how much is at risk (q3), why (q4),
// what to do (q5), how sure we are (q6), and what inaction costs (q7).
//
// Invariants:
//   - ID is non-nil and Version >= 1 after hydration
//   - The record is immutable from this service's perspective; every derived
//     value (severity, scenarios, confidence level, timeline state, hash) is
//     computed on read and never written back
//   - Hydration runs exactly once at ingestion so downstream computations can
//     assume a fully-populated record and skip nil checks
type Decision struct {
	ID        uuid.UUID `json:"id"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Q1 EventBlock      `json:"q1"`
	Q2 TimingBlock     `json:"q2"`
	Q3 ExposureBlock   `json:"q3"`
	Q4 CausalBlock     `json:"q4"`
	Q5 ActionBlock     `json:"q5"`
	Q6 ConfidenceBlock `json:"q6"`
	Q7 InactionBlock   `json:"q7"`
}

// EventBlock describes the disruption event itself.
type EventBlock struct {
	EventSummary string    `json:"event_summary"`
	EventType    string    `json:"event_type"`
	Chokepoint   string    `json:"chokepoint,omitempty"`
	DetectedAt   time.Time `json:"detected_at"`
}

// TimingBlock captures the expected disruption window.
type TimingBlock struct {
	ExpectedDelayDays int        `json:"expected_delay_days"`
	WindowStart       *time.Time `json:"window_start,omitempty"`
	WindowEnd         *time.Time `json:"window_end,omitempty"`
}

// ExposureBlock enumerates the shipments at risk. TotalExposureUSD is declared
// by the upstream process and is part of the audit projection; the aggregator
// recomputes its own total from the shipment rows as a cross-check.
type ExposureBlock struct {
	TotalExposureUSD float64            `json:"total_exposure_usd"`
	Shipments        []ShipmentExposure `json:"shipments"`
	// Scenarios optionally carries analyst-authored outcomes. When absent the
	// scenario engine generates the default best/base/worst set.
	Scenarios []Scenario `json:"scenarios,omitempty"`
}

// CausalBlock explains why the disruption leads to the projected exposure.
// A decision without causal context simply omits the chain.
type CausalBlock struct {
	Summary string       `json:"summary,omitempty"`
	Chain   []CausalLink `json:"chain,omitempty"`
}

// CausalLink is one step in the causal explanation.
type CausalLink struct {
	Cause  string `json:"cause"`
	Effect string `json:"effect"`
}

// ActionBlock is the recommendation: what to do, what it costs, and by when.
type ActionBlock struct {
	RecommendedAction string    `json:"recommended_action"`
	EstimatedCostUSD  float64   `json:"estimated_cost_usd"`
	ActBy             time.Time `json:"act_by"`
}

// ConfidenceBlock carries the declared confidence and its decomposition.
// Calibration is nil when no historical data exists; that section is then
// omitted from derived views rather than synthesized.
type ConfidenceBlock struct {
	ConfidenceScore float64            `json:"confidence_score"`
	Factors         []ConfidenceFactor `json:"factors,omitempty"`
	Calibration     *Calibration       `json:"calibration,omitempty"`
}

// InactionBlock quantifies the cost of doing nothing, including the
// escalation checkpoints toward the point of no return.
type InactionBlock struct {
	InactionCostUSD float64               `json:"inaction_cost_usd"`
	Escalation      []CostEscalationPoint `json:"escalation,omitempty"`
	PointOfNoReturn *time.Time            `json:"point_of_no_return,omitempty"`
}

// Validate checks the minimal identity invariants an ingested record must
// satisfy before hydration fills in the rest.
func (d *Decision) Validate() error {
	if d.ID == uuid.Nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "decision id is required")
	}
	if d.Version < 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "decision version cannot be negative")
	}
	return nil
}
