//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"chainsight/internal/notification/models"
)

type RedisStoreSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *goredis.Client
	store     *RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.container = container

	url, err := container.ConnectionString(ctx)
	s.Require().NoError(err)

	opts, err := goredis.ParseURL(url)
	s.Require().NoError(err)
	s.client = goredis.NewClient(opts)
	s.Require().NoError(s.client.Ping(ctx).Err())

	s.store = NewRedisStore(s.client)
}

func (s *RedisStoreSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.client.FlushAll(context.Background()).Err())
}

func (s *RedisStoreSuite) TestPutGetRoundTrip() {
	ctx := context.Background()
	prefs := models.Preferences{
		CompanyID:         uuid.New(),
		DiscordWebhookURL: "https://discord.com/api/webhooks/123/token",
		DiscordEnabled:    true,
		NotifyCritical:    true,
	}

	s.Require().NoError(s.store.Put(ctx, prefs))

	loaded, err := s.store.Get(ctx, prefs.CompanyID)
	s.Require().NoError(err)
	s.Equal(prefs, loaded)
}

func (s *RedisStoreSuite) TestGetMissing() {
	_, err := s.store.Get(context.Background(), uuid.New())
	s.Require().ErrorIs(err, ErrNotFound)
}

func (s *RedisStoreSuite) TestPutOverwrites() {
	ctx := context.Background()
	companyID := uuid.New()

	s.Require().NoError(s.store.Put(ctx, models.Preferences{CompanyID: companyID, NotifyHigh: true}))
	s.Require().NoError(s.store.Put(ctx, models.Preferences{CompanyID: companyID, NotifyHigh: false, NotifyWarning: true}))

	loaded, err := s.store.Get(ctx, companyID)
	s.Require().NoError(err)
	s.False(loaded.NotifyHigh)
	s.True(loaded.NotifyWarning)
}
