//go:build integration

package snapshot_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"caseflow/internal/casefile"
	"caseflow/internal/domain"
	"caseflow/internal/eventstore/snapshot"
	"caseflow/pkg/platform/sentinel"
	"caseflow/pkg/testutil/containers"
)

type RedisSnapshotSuite struct {
	suite.Suite

	redis *containers.RedisContainer
	store *snapshot.RedisStore
	ctx   context.Context
}

func TestRedisSnapshotSuite(t *testing.T) {
	suite.Run(t, new(RedisSnapshotSuite))
}

func (s *RedisSnapshotSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.ctx = context.Background()
	s.store = snapshot.NewRedisStore(s.redis.Client, time.Minute)
}

func (s *RedisSnapshotSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(s.ctx))
}

func (s *RedisSnapshotSuite) TestPutAndGetRoundTrip() {
	c := &casefile.Case{
		ID:             "case-1",
		Channel:        domain.ChannelSPI,
		InitiationCode: "C",
		Status:         casefile.StatusReceived,
		Defendants: []domain.Defendant{
			{ID: "d-1", FirstName: "Ann", Surname: "Smith"},
		},
		Version: 4,
	}
	s.Require().NoError(s.store.Put(s.ctx, c))

	got, err := s.store.Get(s.ctx, "case-1")
	s.Require().NoError(err)
	s.Equal(c, got)
}

func (s *RedisSnapshotSuite) TestMissReturnsNotFound() {
	_, err := s.store.Get(s.ctx, "missing")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisSnapshotSuite) TestCorruptEntryIsAMiss() {
	s.Require().NoError(s.redis.Client.Set(s.ctx, "casefile:snapshot:case-1", "not json", time.Minute).Err())

	_, err := s.store.Get(s.ctx, "case-1")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisSnapshotSuite) TestEntriesExpire() {
	short := snapshot.NewRedisStore(s.redis.Client, time.Second)
	s.Require().NoError(short.Put(s.ctx, &casefile.Case{ID: "case-1", Version: 1}))

	s.Require().Eventually(func() bool {
		_, err := short.Get(s.ctx, "case-1")
		return err != nil
	}, 5*time.Second, 200*time.Millisecond)
}

func (s *RedisSnapshotSuite) TestNewerPutReplacesOlder() {
	s.Require().NoError(s.store.Put(s.ctx, &casefile.Case{ID: "case-1", Status: casefile.StatusReceived, Version: 2}))
	s.Require().NoError(s.store.Put(s.ctx, &casefile.Case{ID: "case-1", Status: casefile.StatusEjected, Version: 3}))

	got, err := s.store.Get(s.ctx, "case-1")
	s.Require().NoError(err)
	s.Equal(int64(3), got.Version)
	s.Equal(casefile.StatusEjected, got.Status)
}
