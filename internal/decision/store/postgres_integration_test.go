//go:build integration

package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"chainsight/internal/decision/models"
)

type PostgresStoreSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *sql.DB
	store     *PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("chainsight"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sql.Open("postgres", dsn)
	s.Require().NoError(err)
	s.Require().NoError(db.PingContext(ctx))
	s.db = db

	_, err = db.ExecContext(ctx, Schema)
	s.Require().NoError(err)

	s.store = NewPostgres(db)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.db.ExecContext(context.Background(), `TRUNCATE TABLE decisions`)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) testDecision(version int) *models.Decision {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Decision{
		ID:        uuid.New(),
		Version:   version,
		CreatedAt: now,
		UpdatedAt: now,
		Q1:        models.EventBlock{EventSummary: "Suez convoy suspended", EventType: "chokepoint_closure", DetectedAt: now},
		Q3: models.ExposureBlock{
			TotalExposureUSD: 130_000,
			Shipments: []models.ShipmentExposure{
				{ShipmentID: "SHP-9", Route: "Jeddah-Genoa", ExposureUSD: 130_000, CargoValue: 200_000},
			},
		},
		Q5: models.ActionBlock{RecommendedAction: "Hold cargo at origin", EstimatedCostUSD: 15_000},
		Q7: models.InactionBlock{InactionCostUSD: 325_000},
	}
}

func (s *PostgresStoreSuite) TestCreateAndFindRoundTrip() {
	ctx := context.Background()
	d := s.testDecision(1)

	s.Require().NoError(s.store.Create(ctx, d))

	found, err := s.store.FindByID(ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(d.ID, found.ID)
	s.Equal(d.Q3.TotalExposureUSD, found.Q3.TotalExposureUSD)
	s.Require().Len(found.Q3.Shipments, 1)
	s.Equal("SHP-9", found.Q3.Shipments[0].ShipmentID)
}

func (s *PostgresStoreSuite) TestDuplicateVersionRejected() {
	ctx := context.Background()
	d := s.testDecision(1)

	s.Require().NoError(s.store.Create(ctx, d))
	s.Require().ErrorIs(s.store.Create(ctx, d), ErrDuplicate)
}

func (s *PostgresStoreSuite) TestLatestVersionWins() {
	ctx := context.Background()
	d := s.testDecision(1)
	s.Require().NoError(s.store.Create(ctx, d))

	v2 := *d
	v2.Version = 2
	v2.Q5.RecommendedAction = "Reroute via Cape"
	s.Require().NoError(s.store.Create(ctx, &v2))

	found, err := s.store.FindByID(ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(2, found.Version)
	s.Equal("Reroute via Cape", found.Q5.RecommendedAction)

	v1, err := s.store.FindVersion(ctx, d.ID, 1)
	s.Require().NoError(err)
	s.Equal("Hold cargo at origin", v1.Q5.RecommendedAction)
}

func (s *PostgresStoreSuite) TestFindMissing() {
	_, err := s.store.FindByID(context.Background(), uuid.New())
	s.Require().ErrorIs(err, ErrNotFound)
}
