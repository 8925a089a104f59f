package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"chainsight/internal/audit"
	"chainsight/internal/notification/models"
	"chainsight/internal/notification/store"
	"chainsight/internal/platform/middleware"
	dErrors "chainsight/pkg/domain-errors"
)

// AuditPublisher records preference changes alongside decision audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service stores and validates notification preferences. Delivery transport
// is out of scope; the test endpoint only validates configuration.
type Service struct {
	prefs     store.Store
	logger    *slog.Logger
	publisher AuditPublisher
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

func New(prefs store.Store, opts ...Option) *Service {
	s := &Service{prefs: prefs}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the company's saved preferences, or defaults if it has never
// saved any. Not having saved preferences is not an error state.
func (s *Service) Get(ctx context.Context, companyID uuid.UUID) (models.Preferences, error) {
	prefs, err := s.prefs.Get(ctx, companyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.DefaultPreferences(companyID), nil
		}
		return models.Preferences{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load preferences")
	}
	return prefs, nil
}

// Update validates and replaces the company's preferences.
func (s *Service) Update(ctx context.Context, companyID uuid.UUID, prefs models.Preferences) (models.Preferences, error) {
	prefs.CompanyID = companyID
	if err := validate(prefs); err != nil {
		return models.Preferences{}, err
	}

	if err := s.prefs.Put(ctx, prefs); err != nil {
		return models.Preferences{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store preferences")
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "notification preferences updated",
			"company_id", companyID,
			"discord_enabled", prefs.DiscordEnabled,
			"request_id", middleware.GetRequestID(ctx))
	}
	if s.publisher != nil {
		_ = s.publisher.Emit(ctx, audit.Event{
			Action:    string(audit.EventPreferencesUpdated),
			Outcome:   "updated",
			Reason:    companyID.String(),
			RequestID: middleware.GetRequestID(ctx),
		})
	}
	return prefs, nil
}

// TestResult is the outcome of a configuration dry run.
type TestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Test checks whether the saved configuration could deliver an alert. No
// request leaves the process.
func (s *Service) Test(ctx context.Context, companyID uuid.UUID) (TestResult, error) {
	prefs, err := s.Get(ctx, companyID)
	if err != nil {
		return TestResult{}, err
	}

	switch {
	case !prefs.DiscordEnabled:
		return TestResult{Message: "discord notifications are disabled"}, nil
	case prefs.DiscordWebhookURL == "":
		return TestResult{Message: "no webhook url configured"}, nil
	default:
		return TestResult{Success: true, Message: "webhook configuration is valid"}, nil
	}
}

func validate(prefs models.Preferences) error {
	if prefs.DiscordEnabled && prefs.DiscordWebhookURL == "" {
		return dErrors.New(dErrors.CodeValidation, "discord_webhook_url is required when discord is enabled")
	}
	if prefs.DiscordWebhookURL == "" {
		return nil
	}
	if !strings.HasPrefix(prefs.DiscordWebhookURL, "https://") {
		return dErrors.New(dErrors.CodeValidation, "discord_webhook_url must use https")
	}
	if !govalidator.IsURL(prefs.DiscordWebhookURL) {
		return dErrors.New(dErrors.CodeValidation, "discord_webhook_url is not a valid url")
	}
	return nil
}
