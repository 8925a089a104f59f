package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the decision module. Tracks ingestion
// and derivation counts, verification outcomes, and critical path durations.
type Metrics struct {
	DecisionsIngested   prometheus.Counter
	ViewsDerived        prometheus.Counter
	QualitySignals      prometheus.Counter
	VerificationResults *prometheus.CounterVec
	ViewCacheHits       prometheus.Counter
	ViewCacheMisses     prometheus.Counter
	DeriveDuration      prometheus.Histogram
	HashDuration        prometheus.Histogram
}

// New creates a new Metrics instance with all decision module metrics registered.
func New() *Metrics {
	return &Metrics{
		DecisionsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chainsight_decisions_ingested_total",
			Help: "Total number of decisions ingested",
		}),
		ViewsDerived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chainsight_decision_views_derived_total",
			Help: "Total number of derived decision views computed",
		}),
		QualitySignals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chainsight_quality_signals_total",
			Help: "Total number of data-quality anomalies surfaced",
		}),
		VerificationResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "chainsight_hash_verifications_total",
			Help: "Hash verification outcomes by result",
		}, []string{"result"}),
		ViewCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chainsight_view_cache_hits_total",
			Help: "Derived view cache hits",
		}),
		ViewCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "chainsight_view_cache_misses_total",
			Help: "Derived view cache misses",
		}),
		DeriveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chainsight_view_derive_duration_seconds",
			Help:    "Duration of full decision view derivations",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		HashDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "chainsight_hash_compute_duration_seconds",
			Help:    "Duration of audit hash computations",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
		}),
	}
}

// ObserveDerive records the duration of a view derivation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveDerive(start time.Time) {
	m.DeriveDuration.Observe(time.Since(start).Seconds())
}

// ObserveHash records the duration of a hash computation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveHash(start time.Time) {
	m.HashDuration.Observe(time.Since(start).Seconds())
}

// IncrementVerification records a verification outcome by result label.
func (m *Metrics) IncrementVerification(result string) {
	m.VerificationResults.WithLabelValues(result).Inc()
}
