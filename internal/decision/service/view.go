package service

import (
	"time"

	"github.com/google/uuid"

	"chainsight/internal/audit"
	"chainsight/internal/decision/engine"
	"chainsight/internal/decision/models"
)

// ShipmentView is a shipment row annotated with its visual band.
type ShipmentView struct {
	models.ShipmentExposure
	Band models.ShipmentBand `json:"band"`
}

// ConfidenceView is the derived confidence section.
type ConfidenceView struct {
	Score     float64                `json:"score"`
	Level     models.ConfidenceLevel `json:"level"`
	Breakdown engine.FactorBreakdown `json:"breakdown"`
}

// View is the full derived rendering of one decision at one instant.
// Optional sections are nil when their source data is absent; they are
// omitted rather than synthesized. Everything except Timeline is a pure
// function of the immutable record, so repeated derivations are
// bit-identical; Timeline additionally depends on the explicit now.
type View struct {
	DecisionID  uuid.UUID              `json:"decision_id"`
	Version     int                    `json:"version"`
	GeneratedAt time.Time              `json:"generated_at"`
	Exposure    engine.ExposureSummary `json:"exposure"`
	Shipments   []ShipmentView         `json:"shipments"`
	Scenarios   engine.ScenarioSet     `json:"scenarios"`
	Confidence  ConfidenceView         `json:"confidence"`
	Calibration *engine.CalibrationView `json:"calibration,omitempty"`
	Causal      *models.CausalBlock    `json:"causal,omitempty"`
	Timeline    *engine.TimelineState  `json:"timeline,omitempty"`
	Audit       audit.Record           `json:"audit"`
	Signals     []models.QualitySignal `json:"signals,omitempty"`
}

// derive runs the computation pipeline over a hydrated record. Exposure
// aggregation feeds the scenario engine through its parameter type, so the
// ordering dependency is enforced by construction rather than call order.
func derive(d models.Decision, now time.Time, rec audit.Record) *View {
	exposure := engine.AggregateExposure(d.Q3.Shipments)
	scenarios := engine.BuildScenarios(exposure, d.Q2.ExpectedDelayDays, d.Q3.Scenarios)

	shipments := make([]ShipmentView, 0, len(d.Q3.Shipments))
	for _, sh := range d.Q3.Shipments {
		shipments = append(shipments, ShipmentView{
			ShipmentExposure: sh,
			Band:             engine.BandForShipment(sh.ExposureUSD),
		})
	}

	view := &View{
		DecisionID:  d.ID,
		Version:     d.Version,
		GeneratedAt: now,
		Exposure:    exposure,
		Shipments:   shipments,
		Scenarios:   scenarios,
		Confidence: ConfidenceView{
			Score:     d.Q6.ConfidenceScore,
			Level:     engine.LevelForScore(d.Q6.ConfidenceScore),
			Breakdown: engine.PartitionFactors(d.Q6.Factors),
		},
		Calibration: engine.BuildCalibration(d.Q6.ConfidenceScore, d.Q6.Calibration),
		Audit:       rec,
	}

	if d.Q4.Summary != "" || len(d.Q4.Chain) > 0 {
		causal := d.Q4
		view.Causal = &causal
	}

	if d.Q7.PointOfNoReturn != nil {
		ts := engine.DeriveTimelineState(now, d.Q7.Escalation, *d.Q7.PointOfNoReturn)
		view.Timeline = &ts
		view.Signals = append(view.Signals, ts.Signals...)
	}

	view.Signals = append(view.Signals, scenarios.Signals...)
	return view
}
