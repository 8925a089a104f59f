package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"chainsight/internal/decision/models"
)

// PostgresStore persists decisions as JSONB payloads keyed by (id, version).
// Decisions are immutable after ingestion so the schema carries no update
// machinery; reads always resolve the highest ingested version.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is applied by migrations in deployments; tests apply it directly.
const Schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id UUID NOT NULL,
	version INT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	payload JSONB NOT NULL,
	PRIMARY KEY (id, version)
)`

func (s *PostgresStore) Create(ctx context.Context, d *models.Decision) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal decision payload: %w", err)
	}

	query := `
		INSERT INTO decisions (id, version, created_at, updated_at, payload)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = s.db.ExecContext(ctx, query, d.ID, d.Version, d.CreatedAt, d.UpdatedAt, payload)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Decision, error) {
	query := `
		SELECT payload FROM decisions
		WHERE id = $1
		ORDER BY version DESC
		LIMIT 1
	`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id))
}

// FindVersion returns one specific ingested version.
func (s *PostgresStore) FindVersion(ctx context.Context, id uuid.UUID, version int) (*models.Decision, error) {
	query := `SELECT payload FROM decisions WHERE id = $1 AND version = $2`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id, version))
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT id) FROM decisions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count decisions: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) scanOne(row *sql.Row) (*models.Decision, error) {
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan decision: %w", err)
	}

	var d models.Decision
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, fmt.Errorf("unmarshal decision payload: %w", err)
	}
	return &d, nil
}
