package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"chainsight/internal/audit"
	companymodels "chainsight/internal/company/models"
	"chainsight/internal/company/store"
	notifmodels "chainsight/internal/notification/models"
	notifstore "chainsight/internal/notification/store"
	"chainsight/internal/platform/middleware"
	dErrors "chainsight/pkg/domain-errors"
)

// AuditPublisher records onboarding events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service onboards customer companies. Validation is deliberately minimal:
// the intake payload is accepted mostly as-is and richer profiling happens
// upstream.
type Service struct {
	companies store.Store
	prefs     notifstore.Store
	logger    *slog.Logger
	publisher AuditPublisher
	now       func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.publisher = publisher }
}

// WithPreferenceStore seeds notification preferences from the intake's alert
// flags so a freshly onboarded company does not start from defaults.
func WithPreferenceStore(prefs notifstore.Store) Option {
	return func(s *Service) { s.prefs = prefs }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(companies store.Store, opts ...Option) *Service {
	s := &Service{companies: companies, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a company and returns it with identity and timestamps
// assigned.
func (s *Service) Create(ctx context.Context, c companymodels.Company) (companymodels.Company, error) {
	if strings.TrimSpace(c.Name) == "" {
		return companymodels.Company{}, dErrors.New(dErrors.CodeValidation, "company name is required")
	}
	for _, route := range c.Routes {
		if strings.TrimSpace(route.Origin) == "" || strings.TrimSpace(route.Destination) == "" {
			return companymodels.Company{}, dErrors.New(dErrors.CodeValidation, "routes require origin and destination")
		}
	}

	c.ID = uuid.New()
	c.CreatedAt = s.now().UTC()

	if err := s.companies.Create(ctx, c); err != nil {
		return companymodels.Company{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store company")
	}

	if s.prefs != nil {
		_ = s.prefs.Put(ctx, notifmodels.Preferences{
			CompanyID:      c.ID,
			NotifyCritical: c.AlertPrefs.NotifyCritical,
			NotifyHigh:     c.AlertPrefs.NotifyHigh,
			NotifyWarning:  c.AlertPrefs.NotifyWarning,
		})
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "company onboarded",
			"company_id", c.ID,
			"routes", len(c.Routes),
			"request_id", middleware.GetRequestID(ctx))
	}
	if s.publisher != nil {
		_ = s.publisher.Emit(ctx, audit.Event{
			Action:    string(audit.EventCompanyCreated),
			Outcome:   "created",
			Reason:    c.ID.String(),
			RequestID: middleware.GetRequestID(ctx),
		})
	}
	return c, nil
}

// Get returns an onboarded company.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (companymodels.Company, error) {
	c, err := s.companies.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return companymodels.Company{}, dErrors.New(dErrors.CodeNotFound, "company not found")
		}
		return companymodels.Company{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load company")
	}
	return c, nil
}
