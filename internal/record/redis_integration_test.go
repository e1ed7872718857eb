//go:build integration

package record_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rirekisho/internal/record"
	"rirekisho/internal/resume"
	"rirekisho/pkg/domain"
	"rirekisho/pkg/platform/sentinel"
	"rirekisho/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *record.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = record.NewRedis(s.redis.Client, 0)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestSaveFindDelete() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	app := &record.Application{
		ID:        domain.NewApplicationID(),
		Revision:  1,
		CreatedAt: now,
		UpdatedAt: now,
		Record:    resume.Default(),
	}
	app.Record.PersonalInfo.FullName = "Nguyen Van An"

	s.Require().NoError(s.store.Save(ctx, app))

	found, err := s.store.Find(ctx, app.ID)
	s.Require().NoError(err)
	s.Equal(app.Revision, found.Revision)
	s.Equal("Nguyen Van An", found.Record.PersonalInfo.FullName)

	s.Require().NoError(s.store.Delete(ctx, app.ID))
	_, err = s.store.Find(ctx, app.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisStoreSuite) TestUnknownIDIsNotFound() {
	_, err := s.store.Find(context.Background(), domain.NewApplicationID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}
