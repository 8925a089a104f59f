package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"chainsight/internal/decision/models"
)

// ErrNotFound is returned when a decision does not exist. Services translate
// it to a domain not-found error at the boundary.
var ErrNotFound = errors.New("decision not found")

// ErrDuplicate is returned when a decision with the same id and version has
// already been ingested.
var ErrDuplicate = errors.New("decision version already ingested")

// Store is the read-side repository for upstream-authored decisions. The
// service only ever writes at ingestion; decisions are immutable afterwards,
// so there is no update path.
type Store interface {
	Create(ctx context.Context, d *models.Decision) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Decision, error)
	FindVersion(ctx context.Context, id uuid.UUID, version int) (*models.Decision, error)
	Count(ctx context.Context) (int, error)
}
