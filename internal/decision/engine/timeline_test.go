package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chainsight/internal/decision/models"
)

var t0 = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func TestUrgencyStateBoundaries(t *testing.T) {
	cases := []struct {
		name      string
		remaining time.Duration
		want      models.UrgencyState
	}{
		{"five days out", 5 * 24 * time.Hour, models.UrgencyNormal},
		{"just above urgent boundary", 24*time.Hour + time.Millisecond, models.UrgencyNormal},
		{"urgent boundary inclusive", 24 * time.Hour, models.UrgencyUrgent},
		{"one ms above critical boundary", 3_600_001 * time.Millisecond, models.UrgencyUrgent},
		{"critical boundary inclusive", 3_600_000 * time.Millisecond, models.UrgencyCritical},
		{"one second left", time.Second, models.UrgencyCritical},
		{"exactly at ponr", 0, models.UrgencyExpired},
		{"past ponr", -time.Hour, models.UrgencyExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			state := DeriveTimelineState(t0, nil, t0.Add(tc.remaining))
			assert.Equal(t, tc.want, state.State)
		})
	}
}

func TestPercentRemainingNormalizedAgainstSevenDays(t *testing.T) {
	// Half the reference window remaining.
	state := DeriveTimelineState(t0, nil, t0.Add(3*24*time.Hour+12*time.Hour))
	assert.InDelta(t, 0.5, state.PercentRemaining, 1e-9)

	// More than seven days clamps to 1.
	state = DeriveTimelineState(t0, nil, t0.Add(30*24*time.Hour))
	assert.Equal(t, 1.0, state.PercentRemaining)

	// Expired clamps to 0 and never reports negative remaining.
	state = DeriveTimelineState(t0, nil, t0.Add(-time.Minute))
	assert.Equal(t, 0.0, state.PercentRemaining)
	assert.Equal(t, int64(0), state.RemainingMS)
}

func TestCurrentCostAndNextCheckpoint(t *testing.T) {
	points := []models.CostEscalationPoint{
		{Timestamp: t0.Add(-2 * time.Hour), CostUSD: 10_000, Description: "reroute premium"},
		{Timestamp: t0.Add(-1 * time.Hour), CostUSD: 25_000, Description: "expedite fees"},
		{Timestamp: t0.Add(3 * time.Hour), CostUSD: 80_000, Description: "air freight only"},
	}

	state := DeriveTimelineState(t0, points, t0.Add(6*time.Hour))

	assert.Equal(t, 25_000.0, state.CurrentCostUSD)
	require.NotNil(t, state.NextCheckpoint)
	assert.Equal(t, 80_000.0, state.NextCheckpoint.CostUSD)
	assert.Empty(t, state.Signals)
}

func TestNonMonotonicCostFlaggedNotCorrected(t *testing.T) {
	points := []models.CostEscalationPoint{
		{Timestamp: t0.Add(1 * time.Hour), CostUSD: 50_000},
		{Timestamp: t0.Add(2 * time.Hour), CostUSD: 30_000},
		{Timestamp: t0.Add(3 * time.Hour), CostUSD: 90_000},
	}

	signals := EscalationSignals(points)

	require.Len(t, signals, 1)
	assert.Equal(t, models.QualityNonMonotonicCost, signals[0].Code)
	// Input untouched.
	assert.Equal(t, 30_000.0, points[1].CostUSD)
}

func TestEscalationSignalsSortChronologically(t *testing.T) {
	// Out-of-order input that is monotonic once sorted by time.
	points := []models.CostEscalationPoint{
		{Timestamp: t0.Add(3 * time.Hour), CostUSD: 90_000},
		{Timestamp: t0.Add(1 * time.Hour), CostUSD: 10_000},
		{Timestamp: t0.Add(2 * time.Hour), CostUSD: 40_000},
	}

	assert.Empty(t, EscalationSignals(points))
}

// States may only advance as time advances toward a fixed PONR.
func TestStateMonotonicForwardOnly(t *testing.T) {
	ponr := t0.Add(48 * time.Hour)
	order := map[models.UrgencyState]int{
		models.UrgencyNormal:   0,
		models.UrgencyUrgent:   1,
		models.UrgencyCritical: 2,
		models.UrgencyExpired:  3,
	}

	prev := -1
	for now := t0; now.Before(ponr.Add(2 * time.Hour)); now = now.Add(10 * time.Minute) {
		state := DeriveTimelineState(now, nil, ponr)
		rank := order[state.State]
		require.GreaterOrEqual(t, rank, prev, "state regressed at %s", now)
		prev = rank
	}
}

func TestDeriveTimelineStateDeterministic(t *testing.T) {
	points := []models.CostEscalationPoint{
		{Timestamp: t0.Add(time.Hour), CostUSD: 10_000},
	}
	ponr := t0.Add(36 * time.Hour)

	first := DeriveTimelineState(t0, points, ponr)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, DeriveTimelineState(t0, points, ponr))
	}
}
