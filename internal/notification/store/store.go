package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"chainsight/internal/notification/models"
)

// ErrNotFound indicates no preferences have been saved for the company yet.
var ErrNotFound = errors.New("preferences not found")

// Store persists notification preferences keyed by company.
type Store interface {
	Get(ctx context.Context, companyID uuid.UUID) (models.Preferences, error)
	Put(ctx context.Context, prefs models.Preferences) error
}
