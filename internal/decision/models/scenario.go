package models

// ScenarioType identifies one of the three outcome branches.
type ScenarioType string

const (
	ScenarioBest  ScenarioType = "best"
	ScenarioBase  ScenarioType = "base"
	ScenarioWorst ScenarioType = "worst"
)

// IsValid checks if the scenario type is one of the supported enum values.
func (t ScenarioType) IsValid() bool {
	switch t {
	case ScenarioBest, ScenarioBase, ScenarioWorst:
		return true
	}
	return false
}

// Scenario is one probabilistic outcome branch.
//
// Invariants (expected, surfaced as quality signals when violated):
//   - Probability in [0,1]
//   - CostUSD >= 0, DelayDays >= 0
//   - The three probabilities of a set sum to 1 within floating tolerance
type Scenario struct {
	Type        ScenarioType `json:"type"`
	Probability float64      `json:"probability"`
	CostUSD     float64      `json:"cost_usd"`
	DelayDays   int          `json:"delay_days"`
}
