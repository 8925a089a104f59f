package models

import "github.com/google/uuid"

// Preferences controls which decision severities a company is alerted on and
// where the alert goes. Delivery itself happens out of process; this service
// only stores and validates the settings.
type Preferences struct {
	CompanyID         uuid.UUID `json:"company_id"`
	DiscordWebhookURL string    `json:"discord_webhook_url,omitempty"`
	DiscordEnabled    bool      `json:"discord_enabled"`
	NotifyCritical    bool      `json:"notify_critical"`
	NotifyHigh        bool      `json:"notify_high"`
	NotifyWarning     bool      `json:"notify_warning"`
}

// DefaultPreferences is what a company gets before it has saved anything:
// critical and high alerts on, nothing wired to Discord yet.
func DefaultPreferences(companyID uuid.UUID) Preferences {
	return Preferences{
		CompanyID:      companyID,
		NotifyCritical: true,
		NotifyHigh:     true,
	}
}
