package engine

import (
	"fmt"
	"sort"
	"time"

	"chainsight/internal/decision/models"
)

// ReferenceWindow is the fixed normalization window for remaining-time
// gauges. It is a product constant, not derived from the data.
const ReferenceWindow = 7 * 24 * time.Hour

// Urgency thresholds relative to the point of no return. The CRITICAL
// boundary is inclusive: exactly one hour remaining is CRITICAL.
const (
	urgentWithin   = 24 * time.Hour
	criticalWithin = time.Hour
)

// TimelineState is the derived remaining-time view at an explicit instant.
// Time is the only external input; deriving twice with the same arguments
// yields identical results.
type TimelineState struct {
	State            models.UrgencyState         `json:"state"`
	Remaining        time.Duration               `json:"-"`
	RemainingMS      int64                       `json:"remaining_ms"`
	PercentRemaining float64                     `json:"percent_remaining"`
	CurrentCostUSD   float64                     `json:"current_cost_usd"`
	NextCheckpoint   *models.CostEscalationPoint `json:"next_checkpoint,omitempty"`
	Signals          []models.QualitySignal      `json:"signals,omitempty"`
}

// DeriveTimelineState evaluates the urgency state machine against the point
// of no return. Hosts re-invoke it on their own tick; the engine holds no
// timer.
//
// States only advance as now advances: NORMAL -> URGENT (<=24h) -> CRITICAL
// (<=1h) -> EXPIRED (PONR passed). EXPIRED is terminal; only a new decision
// with a later PONR leaves it.
func DeriveTimelineState(now time.Time, points []models.CostEscalationPoint, ponr time.Time) TimelineState {
	remaining := ponr.Sub(now)

	state := models.UrgencyNormal
	switch {
	case remaining <= 0:
		state = models.UrgencyExpired
	case remaining <= criticalWithin:
		state = models.UrgencyCritical
	case remaining <= urgentWithin:
		state = models.UrgencyUrgent
	}

	percent := 0.0
	if remaining > 0 {
		percent = clamp(float64(remaining)/float64(ReferenceWindow), 0, 1)
	}

	ts := TimelineState{
		State:            state,
		Remaining:        remaining,
		RemainingMS:      remaining.Milliseconds(),
		PercentRemaining: percent,
		Signals:          EscalationSignals(points),
	}
	if ts.RemainingMS < 0 {
		ts.RemainingMS = 0
	}

	chronological := sortedByTime(points)
	for i := range chronological {
		p := chronological[i]
		if p.Timestamp.After(now) {
			ts.NextCheckpoint = &p
			break
		}
		ts.CurrentCostUSD = p.CostUSD
	}

	return ts
}

// EscalationSignals checks the cost-monotonicity invariant: cost at point
// i+1 must be >= cost at point i in chronological order. Violations are
// reported as quality signals and left uncorrected.
func EscalationSignals(points []models.CostEscalationPoint) []models.QualitySignal {
	chronological := sortedByTime(points)

	var signals []models.QualitySignal
	for i := 1; i < len(chronological); i++ {
		prev, cur := chronological[i-1], chronological[i]
		if cur.CostUSD < prev.CostUSD {
			signals = append(signals, models.QualitySignal{
				Code: models.QualityNonMonotonicCost,
				Message: fmt.Sprintf("escalation cost drops from %.2f to %.2f at %s",
					prev.CostUSD, cur.CostUSD, cur.Timestamp.Format(time.RFC3339)),
				Field: fmt.Sprintf("q7.escalation[%d]", i),
			})
		}
	}
	return signals
}

func sortedByTime(points []models.CostEscalationPoint) []models.CostEscalationPoint {
	out := make([]models.CostEscalationPoint, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
