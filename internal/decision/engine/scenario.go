package engine

import (
	"fmt"
	"math"

	"chainsight/internal/decision/models"
)

// Default scenario coefficients. These are product constants shared with the
// rest of the platform; changing any of them breaks hash/audit compatibility
// with previously rendered decisions.
const (
	bestProbability  = 0.15
	baseProbability  = 0.60
	worstProbability = 0.25

	bestCostFactor  = 0.3
	worstCostFactor = 2.5

	bestDelayReductionDays = 5
	worstDelayExtraDays    = 14
)

// probabilityTolerance bounds acceptable floating drift when checking that a
// scenario set's probabilities sum to 1.
const probabilityTolerance = 1e-6

// ScenarioSet is the ordered best/base/worst derivation with its expected
// value. TotalProbability is reported as a data-quality signal input; a set
// whose probabilities do not sum to 1 is flagged, never rescaled.
type ScenarioSet struct {
	Scenarios        []models.Scenario      `json:"scenarios"`
	ExpectedValue    float64                `json:"expected_value"`
	TotalProbability float64                `json:"total_probability"`
	Signals          []models.QualitySignal `json:"signals,omitempty"`
}

// BuildScenarios derives the scenario set for a decision. The exposure
// summary parameter makes the pipeline dependency explicit: scenarios cannot
// be built without aggregating exposure first, because the default costs
// scale off the total.
//
// Explicit scenarios are selected by type regardless of input order; any
// missing type falls back deterministically to the default scenario of that
// type. Output order is always best, base, worst.
func BuildScenarios(exposure ExposureSummary, baseDelayDays int, explicit []models.Scenario) ScenarioSet {
	byType := make(map[models.ScenarioType]models.Scenario, len(explicit))
	for _, sc := range explicit {
		if !sc.Type.IsValid() {
			continue
		}
		if _, dup := byType[sc.Type]; dup {
			continue
		}
		byType[sc.Type] = sc
	}

	ordered := make([]models.Scenario, 0, 3)
	for _, t := range []models.ScenarioType{models.ScenarioBest, models.ScenarioBase, models.ScenarioWorst} {
		sc, ok := byType[t]
		if !ok {
			sc = defaultScenario(t, exposure.TotalUSD, baseDelayDays)
		}
		ordered = append(ordered, sc)
	}

	ev := 0.0
	totalProbability := 0.0
	for _, sc := range ordered {
		ev += sc.Probability * sc.CostUSD
		totalProbability += sc.Probability
	}

	set := ScenarioSet{
		Scenarios:        ordered,
		ExpectedValue:    ev,
		TotalProbability: totalProbability,
	}
	if math.Abs(totalProbability-1) > probabilityTolerance {
		set.Signals = append(set.Signals, models.QualitySignal{
			Code:    models.QualityProbabilitySum,
			Message: fmt.Sprintf("scenario probabilities sum to %.6f, expected 1", totalProbability),
			Field:   "q3.scenarios",
		})
	}
	return set
}

func defaultScenario(t models.ScenarioType, baseExposureUSD float64, baseDelayDays int) models.Scenario {
	switch t {
	case models.ScenarioBest:
		delay := baseDelayDays - bestDelayReductionDays
		if delay < 0 {
			delay = 0
		}
		return models.Scenario{
			Type:        models.ScenarioBest,
			Probability: bestProbability,
			CostUSD:     bestCostFactor * baseExposureUSD,
			DelayDays:   delay,
		}
	case models.ScenarioWorst:
		return models.Scenario{
			Type:        models.ScenarioWorst,
			Probability: worstProbability,
			CostUSD:     worstCostFactor * baseExposureUSD,
			DelayDays:   baseDelayDays + worstDelayExtraDays,
		}
	default:
		return models.Scenario{
			Type:        models.ScenarioBase,
			Probability: baseProbability,
			CostUSD:     baseExposureUSD,
			DelayDays:   baseDelayDays,
		}
	}
}
