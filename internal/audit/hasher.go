package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"chainsight/internal/decision/models"
)

// HashPrefix is the wire-format prefix for decision content hashes. Anything
// not matching "sha256:" + 64 lowercase hex must be treated as invalid
// without attempting to parse it as a digest.
const HashPrefix = "sha256:"

const hexDigestLength = 64

// Projection is the canonical subset of a decision covered by the content
// hash. Field order is the serialization order; adding, removing, or
// reordering fields invalidates every previously issued hash.
type Projection struct {
	ID                string  `json:"id"`
	Version           int     `json:"version"`
	CreatedAt         string  `json:"created_at"`
	EventSummary      string  `json:"q1.event_summary"`
	TotalExposureUSD  float64 `json:"q3.total_exposure_usd"`
	RecommendedAction string  `json:"q5.recommended_action"`
	EstimatedCostUSD  float64 `json:"q5.estimated_cost_usd"`
	InactionCostUSD   float64 `json:"q7.inaction_cost_usd"`
}

// Project extracts the hash-covered fields from a decision. Timestamps are
// normalized to UTC RFC3339Nano so the projection is independent of the
// zone the record was parsed in.
func Project(d models.Decision) Projection {
	return Projection{
		ID:                d.ID.String(),
		Version:           d.Version,
		CreatedAt:         d.CreatedAt.UTC().Format(time.RFC3339Nano),
		EventSummary:      d.Q1.EventSummary,
		TotalExposureUSD:  d.Q3.TotalExposureUSD,
		RecommendedAction: d.Q5.RecommendedAction,
		EstimatedCostUSD:  d.Q5.EstimatedCostUSD,
		InactionCostUSD:   d.Q7.InactionCostUSD,
	}
}

// VerificationStatus is the three-valued outcome of hash verification.
// "failed" is a first-class business outcome distinct from "unverified";
// mismatches never surface as errors.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationVerified   VerificationStatus = "verified"
	VerificationFailed     VerificationStatus = "failed"
)

// VerificationResult reports a verify operation with both sides of the
// comparison so callers can display what was recomputed.
type VerificationResult struct {
	Status   VerificationStatus `json:"status"`
	Computed string             `json:"computed_hash"`
	Expected string             `json:"expected_hash"`
}

// Record is the derived audit view of a decision: the content hash plus the
// projected inputs it covers. Never persisted as authoritative state; it is
// recomputed on demand.
type Record struct {
	Hash   string     `json:"hash"`
	Inputs Projection `json:"inputs"`
}

// Hasher computes and verifies content hashes over decision projections.
// Computation is idempotent and side-effect-free; concurrent calls with the
// same input are safe and converge to the same digest.
type Hasher struct{}

func NewHasher() *Hasher {
	return &Hasher{}
}

// Compute serializes the canonical projection and digests it. The context
// lets callers bound the operation alongside the rest of a request; the
// digest itself is synchronous and cheap.
func (h *Hasher) Compute(ctx context.Context, d models.Decision) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	payload, err := json.Marshal(Project(d))
	if err != nil {
		return "", fmt.Errorf("marshal hash projection: %w", err)
	}

	digest := sha256.Sum256(payload)
	return HashPrefix + hex.EncodeToString(digest[:]), nil
}

// Verify recomputes the hash and compares for exact string equality. A
// mismatch returns VerificationFailed, not an error: tampering detection is
// an expected user-facing outcome. Errors are reserved for the digest not
// being computable at all.
func (h *Hasher) Verify(ctx context.Context, d models.Decision, expected string) (VerificationResult, error) {
	computed, err := h.Compute(ctx, d)
	if err != nil {
		return VerificationResult{Status: VerificationUnverified, Expected: expected}, err
	}

	result := VerificationResult{
		Status:   VerificationFailed,
		Computed: computed,
		Expected: expected,
	}
	if ValidHashFormat(expected) && computed == expected {
		result.Status = VerificationVerified
	}
	return result, nil
}

// BuildRecord assembles the audit record for a decision.
func (h *Hasher) BuildRecord(ctx context.Context, d models.Decision) (Record, error) {
	hash, err := h.Compute(ctx, d)
	if err != nil {
		return Record{}, err
	}
	return Record{Hash: hash, Inputs: Project(d)}, nil
}

// ValidHashFormat reports whether s is a well-formed content hash:
// "sha256:" followed by exactly 64 lowercase hex characters.
func ValidHashFormat(s string) bool {
	if len(s) != len(HashPrefix)+hexDigestLength {
		return false
	}
	if s[:len(HashPrefix)] != HashPrefix {
		return false
	}
	for _, c := range s[len(HashPrefix):] {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
