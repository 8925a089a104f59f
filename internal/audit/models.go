package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp  time.Time
	DecisionID uuid.UUID
	Action     string
	Outcome    string
	Reason     string
	RequestID  string
	// ValueUSD carries the dollar amount the action was about, when it has
	// one: the expected value for derivations, zero otherwise.
	ValueUSD float64
}

// AuditEvent names the actions this service records.
type AuditEvent string

const (
	EventDecisionIngested   AuditEvent = "decision_ingested"
	EventDecisionViewed     AuditEvent = "decision_viewed"
	EventHashVerified       AuditEvent = "hash_verified"
	EventHashVerifyFailed   AuditEvent = "hash_verification_failed"
	EventPreferencesUpdated AuditEvent = "notification_preferences_updated"
	EventCompanyCreated     AuditEvent = "company_created"
)
