package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"chainsight/internal/audit"
	"chainsight/internal/decision/engine"
	"chainsight/internal/decision/metrics"
	"chainsight/internal/decision/models"
	"chainsight/internal/decision/store"
	"chainsight/internal/platform/middleware"
	"chainsight/pkg/attrs"
	dErrors "chainsight/pkg/domain-errors"
)

// DecisionStore is the repository seam for ingested decisions.
type DecisionStore interface {
	Create(ctx context.Context, d *models.Decision) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Decision, error)
	FindVersion(ctx context.Context, id uuid.UUID, version int) (*models.Decision, error)
	Count(ctx context.Context) (int, error)
}

// AuditPublisher records structured audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
	List(ctx context.Context, decisionID uuid.UUID) ([]audit.Event, error)
}

// DeadlineSubscriber tracks decisions whose urgency state should be watched
// over time.
type DeadlineSubscriber interface {
	Subscribe(ctx context.Context, id uuid.UUID) error
}

// Service orchestrates decision ingestion, derivation, and verification.
type Service struct {
	decisions DecisionStore
	hasher    *audit.Hasher
	logger    *slog.Logger
	publisher AuditPublisher
	metrics   *metrics.Metrics
	cache     ViewCache
	cacheTTL  time.Duration
	deadlines DeadlineSubscriber
	now       func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithViewCache enables short-lived caching of derived views. Derivations
// are deterministic, so cached entries can never serve stale math; the
// timeline section is recomputed on every read regardless.
func WithViewCache(cache ViewCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithDeadlineSubscriber registers ingested decisions that carry a point of
// no return with a timeline watcher.
func WithDeadlineSubscriber(deadlines DeadlineSubscriber) Option {
	return func(s *Service) {
		s.deadlines = deadlines
	}
}

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New constructs a Service.
func New(decisions DecisionStore, opts ...Option) *Service {
	s := &Service{
		decisions: decisions,
		hasher:    audit.NewHasher(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest hydrates and stores an upstream-authored decision, returning the
// hydrated record, its content hash, and any quality signals raised during
// hydration. The record is immutable from here on.
func (s *Service) Ingest(ctx context.Context, raw models.Decision) (*models.Decision, string, []models.QualitySignal, error) {
	if raw.ID == uuid.Nil {
		return nil, "", nil, dErrors.New(dErrors.CodeValidation, "decision id is required")
	}
	if err := raw.Validate(); err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, "", nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, "", nil, err
	}

	hydrated, signals := models.Hydrate(raw, s.now())
	s.countSignals(signals)

	hashStart := time.Now()
	hash, err := s.hasher.Compute(ctx, hydrated)
	if err != nil {
		return nil, "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute content hash")
	}
	s.observeHash(hashStart)

	if err := s.decisions.Create(ctx, &hydrated); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, "", nil, dErrors.New(dErrors.CodeConflict, "decision version already ingested")
		}
		return nil, "", nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store decision")
	}

	s.logAudit(ctx, hydrated.ID, string(audit.EventDecisionIngested), "", hash,
		"version", hydrated.Version,
		"severity_input_usd", hydrated.Q3.TotalExposureUSD,
		"quality_signals", len(signals))
	if s.metrics != nil {
		s.metrics.DecisionsIngested.Inc()
	}

	if s.deadlines != nil && hydrated.Q7.PointOfNoReturn != nil {
		if err := s.deadlines.Subscribe(ctx, hydrated.ID); err != nil && s.logger != nil {
			s.logger.WarnContext(ctx, "failed to watch decision deadline", "decision_id", hydrated.ID, "error", err)
		}
	}

	return &hydrated, hash, signals, nil
}

// Get returns the hydrated record as stored.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Decision, error) {
	d, err := s.decisions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "decision not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load decision")
	}
	return d, nil
}

// GetVersion returns a specific ingested version of the record. Earlier
// versions stay addressable so a displayed hash can always be re-verified
// against the exact record that produced it.
func (s *Service) GetVersion(ctx context.Context, id uuid.UUID, version int) (*models.Decision, error) {
	d, err := s.decisions.FindVersion(ctx, id, version)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "decision version not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load decision")
	}
	return d, nil
}

// Count reports how many distinct decisions have been ingested.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.decisions.Count(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count decisions")
	}
	return n, nil
}

// DeriveView computes the full derived rendering at now. Non-timeline
// sections may be served from cache when configured; the timeline is always
// recomputed because it depends on the explicit instant.
func (s *Service) DeriveView(ctx context.Context, id uuid.UUID, now time.Time) (*View, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	if view, ok := s.cachedView(ctx, d); ok {
		s.refreshTimeline(view, *d, now)
		view.GeneratedAt = now
		return view, nil
	}

	hashStart := time.Now()
	rec, err := s.hasher.BuildRecord(ctx, *d)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute content hash")
	}
	s.observeHash(hashStart)

	view := derive(*d, now, rec)
	s.countSignals(view.Signals)
	s.storeView(ctx, d, view)

	if s.metrics != nil {
		s.metrics.ViewsDerived.Inc()
		s.metrics.ObserveDerive(start)
	}
	s.logAudit(ctx, d.ID, string(audit.EventDecisionViewed), "", rec.Hash,
		"severity", string(view.Exposure.Severity),
		"expected_value_usd", view.Scenarios.ExpectedValue)

	return view, nil
}

// TimelineState derives only the remaining-time state at now. Poll target
// for hosts ticking once per second. Decisions without a point of no return
// have no timeline; that absence is reported as not found rather than a
// synthesized state.
func (s *Service) TimelineState(ctx context.Context, id uuid.UUID, now time.Time) (*engine.TimelineState, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Q7.PointOfNoReturn == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "decision has no point of no return")
	}
	ts := engine.DeriveTimelineState(now, d.Q7.Escalation, *d.Q7.PointOfNoReturn)
	return &ts, nil
}

// Verify recomputes the content hash and compares it with the hash the
// caller previously displayed. A mismatch is a first-class "failed" outcome;
// errors occur only when the record cannot be loaded or digested.
func (s *Service) Verify(ctx context.Context, id uuid.UUID, expected string) (audit.VerificationResult, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return audit.VerificationResult{Status: audit.VerificationUnverified, Expected: expected}, err
	}

	result, err := s.hasher.Verify(ctx, *d, expected)
	if err != nil {
		return result, dErrors.Wrap(err, dErrors.CodeInternal, "failed to recompute content hash")
	}

	action := audit.EventHashVerified
	if result.Status == audit.VerificationFailed {
		action = audit.EventHashVerifyFailed
	}
	s.logAudit(ctx, d.ID, string(action), string(result.Status), result.Computed,
		"expected_hash", expected)
	if s.metrics != nil {
		s.metrics.IncrementVerification(string(result.Status))
	}

	return result, nil
}

// AuditTrail returns the content-hash record plus every audit event recorded
// for the decision.
func (s *Service) AuditTrail(ctx context.Context, id uuid.UUID) (audit.Record, []audit.Event, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return audit.Record{}, nil, err
	}

	rec, err := s.hasher.BuildRecord(ctx, *d)
	if err != nil {
		return audit.Record{}, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute content hash")
	}

	var events []audit.Event
	if s.publisher != nil {
		events, err = s.publisher.List(ctx, id)
		if err != nil {
			return audit.Record{}, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit events")
		}
	}
	return rec, events, nil
}

func (s *Service) refreshTimeline(view *View, d models.Decision, now time.Time) {
	if d.Q7.PointOfNoReturn == nil {
		view.Timeline = nil
		return
	}
	ts := engine.DeriveTimelineState(now, d.Q7.Escalation, *d.Q7.PointOfNoReturn)
	view.Timeline = &ts
}

func (s *Service) logAudit(ctx context.Context, decisionID uuid.UUID, action, outcome, hash string, attributes ...any) {
	if outcome == "" {
		// Derivation events carry their severity as the recorded outcome.
		outcome = attrs.ExtractString(attributes, "severity")
	}
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", action, "decision_id", decisionID, "hash", hash, "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, action, args...)
	}
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Emit(ctx, audit.Event{
		DecisionID: decisionID,
		Action:     action,
		Outcome:    outcome,
		Reason:     hash,
		RequestID:  middleware.GetRequestID(ctx),
		ValueUSD:   attrs.ExtractFloat(attributes, "expected_value_usd"),
	})
}

func (s *Service) countSignals(signals []models.QualitySignal) {
	if s.metrics == nil || len(signals) == 0 {
		return
	}
	s.metrics.QualitySignals.Add(float64(len(signals)))
}

func (s *Service) observeHash(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveHash(start)
	}
}
