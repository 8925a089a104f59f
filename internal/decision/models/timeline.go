package models

import "time"

// CostEscalationPoint is one checkpoint on the cost-of-inaction curve.
// Points are ordered by time and cost must be non-decreasing toward the
// point of no return; violations are quality signals, never corrected.
type CostEscalationPoint struct {
	Timestamp   time.Time `json:"timestamp"`
	CostUSD     float64   `json:"cost_usd"`
	Description string    `json:"description,omitempty"`
}

// UrgencyState is the remaining-time state relative to the point of no
// return. Transitions only move forward as time advances; EXPIRED is
// terminal for a given decision.
type UrgencyState string

const (
	UrgencyNormal   UrgencyState = "NORMAL"
	UrgencyUrgent   UrgencyState = "URGENT"
	UrgencyCritical UrgencyState = "CRITICAL"
	UrgencyExpired  UrgencyState = "EXPIRED"
)
