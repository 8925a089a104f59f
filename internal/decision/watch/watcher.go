// Package watch polls the urgency timeline of subscribed decisions and
// publishes a transition every time a decision crosses into a new state.
// Polling keeps the evaluation on the same deterministic derivation used by
// the read path; nothing is inferred from wall-clock arithmetic done twice.
package watch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"chainsight/internal/decision/engine"
	"chainsight/internal/decision/models"
)

// TimelineSource derives the current timeline state for a decision.
type TimelineSource interface {
	TimelineState(ctx context.Context, id uuid.UUID, now time.Time) (*engine.TimelineState, error)
}

// SourceFunc adapts a function to TimelineSource.
type SourceFunc func(ctx context.Context, id uuid.UUID, now time.Time) (*engine.TimelineState, error)

func (f SourceFunc) TimelineState(ctx context.Context, id uuid.UUID, now time.Time) (*engine.TimelineState, error) {
	return f(ctx, id, now)
}

// Transition reports a decision crossing from one urgency state to another.
type Transition struct {
	DecisionID uuid.UUID           `json:"decision_id"`
	From       models.UrgencyState `json:"from"`
	To         models.UrgencyState `json:"to"`
	At         time.Time           `json:"at"`
}

// Watcher re-derives timeline states on a fixed interval. States only move
// forward, so a transition fires at most three times per decision and the
// watcher stops tracking a decision once it expires.
type Watcher struct {
	source   TimelineSource
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	tracked map[uuid.UUID]models.UrgencyState
	out     chan Transition
}

type Option func(*Watcher)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

func WithInterval(interval time.Duration) Option {
	return func(w *Watcher) {
		if interval > 0 {
			w.interval = interval
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *Watcher) { w.now = now }
}

func New(source TimelineSource, opts ...Option) *Watcher {
	w := &Watcher{
		source:   source,
		logger:   slog.Default(),
		interval: time.Second,
		now:      time.Now,
		tracked:  make(map[uuid.UUID]models.UrgencyState),
		out:      make(chan Transition, 64),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Subscribe starts tracking a decision. The initial state is recorded without
// emitting a transition so subscribers only hear about changes.
func (w *Watcher) Subscribe(ctx context.Context, id uuid.UUID) error {
	state, err := w.source.TimelineState(ctx, id, w.now())
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.tracked[id] = state.State
	return nil
}

// Unsubscribe stops tracking a decision. Unknown ids are a no-op.
func (w *Watcher) Unsubscribe(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.tracked, id)
}

// Transitions is the stream of state changes. The channel is never closed by
// the watcher; readers should select against their own context.
func (w *Watcher) Transitions() <-chan Transition {
	return w.out
}

// Run polls until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.poll(ctx)
		}
	}
}

func (w *Watcher) poll(ctx context.Context) {
	now := w.now()
	for _, id := range w.trackedIDs() {
		state, err := w.source.TimelineState(ctx, id, now)
		if err != nil {
			w.logger.WarnContext(ctx, "timeline poll failed", "decision_id", id, "error", err)
			continue
		}
		w.advance(ctx, id, state.State, now)
	}
}

func (w *Watcher) trackedIDs() []uuid.UUID {
	w.mu.Lock()
	defer w.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(w.tracked))
	for id := range w.tracked {
		ids = append(ids, id)
	}
	return ids
}

func (w *Watcher) advance(ctx context.Context, id uuid.UUID, current models.UrgencyState, now time.Time) {
	w.mu.Lock()
	previous, ok := w.tracked[id]
	if !ok || previous == current {
		w.mu.Unlock()
		return
	}
	w.tracked[id] = current
	if current == models.UrgencyExpired {
		delete(w.tracked, id)
	}
	w.mu.Unlock()

	transition := Transition{DecisionID: id, From: previous, To: current, At: now}
	select {
	case w.out <- transition:
	default:
		// A slow consumer must not stall polling.
		w.logger.WarnContext(ctx, "transition dropped, subscriber not draining",
			"decision_id", id, "to", current)
	}
}
