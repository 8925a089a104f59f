package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is an onboarded customer: who they are, what they ship, and which
// severities they want to hear about.
type Company struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Industry   string     `json:"industry,omitempty"`
	Routes     []Route    `json:"routes,omitempty"`
	CargoTypes []string   `json:"cargo_types,omitempty"`
	AlertPrefs AlertPrefs `json:"alert_preferences"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Route is an origin/destination lane a company ships on, with an optional
// monthly volume in TEU.
type Route struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	MonthlyTEU  float64 `json:"monthly_teu,omitempty"`
}

// AlertPrefs seeds the company's notification preferences at onboarding.
type AlertPrefs struct {
	NotifyCritical bool `json:"notify_critical"`
	NotifyHigh     bool `json:"notify_high"`
	NotifyWarning  bool `json:"notify_warning"`
}
