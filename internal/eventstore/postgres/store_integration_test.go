//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"caseflow/internal/eventstore"
	"caseflow/internal/eventstore/postgres"
	"caseflow/pkg/platform/sentinel"
	"caseflow/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite

	pg    *containers.PostgresContainer
	store *postgres.Store
	ctx   context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.ctx = context.Background()

	_, err := s.pg.DB.ExecContext(s.ctx, postgres.Schema)
	s.Require().NoError(err)

	s.store = postgres.New(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.pg.DB.ExecContext(s.ctx, "TRUNCATE case_events RESTART IDENTITY")
	s.Require().NoError(err)
}

func envelope(caseID string, version int64, eventType string) eventstore.Envelope {
	return eventstore.Envelope{
		ID:         uuid.New(),
		CaseID:     caseID,
		Version:    version,
		Type:       eventType,
		Payload:    []byte(`{"caseId":"` + caseID + `"}`),
		RecordedAt: time.Now().UTC(),
	}
}

func (s *PostgresStoreSuite) TestAppendAndLoad() {
	envs := []eventstore.Envelope{
		envelope("case-1", 1, "case-received"),
		envelope("case-1", 2, "validation-completed"),
	}
	s.Require().NoError(s.store.Append(s.ctx, "case-1", 0, envs))

	loaded, err := s.store.Load(s.ctx, "case-1", 0)
	s.Require().NoError(err)
	s.Require().Len(loaded, 2)
	s.Equal(envs[0].ID, loaded[0].ID)
	s.Equal("case-received", loaded[0].Type)
	s.Equal(int64(1), loaded[0].Version)
	s.Equal("validation-completed", loaded[1].Type)
	s.JSONEq(`{"caseId":"case-1"}`, string(loaded[0].Payload))
}

func (s *PostgresStoreSuite) TestLoadFromVersion() {
	s.Require().NoError(s.store.Append(s.ctx, "case-1", 0, []eventstore.Envelope{
		envelope("case-1", 1, "case-received"),
		envelope("case-1", 2, "defendants-added"),
		envelope("case-1", 3, "case-accepted"),
	}))

	tail, err := s.store.Load(s.ctx, "case-1", 2)
	s.Require().NoError(err)
	s.Require().Len(tail, 1)
	s.Equal("case-accepted", tail[0].Type)
}

func (s *PostgresStoreSuite) TestLoadMissingStreamIsEmpty() {
	loaded, err := s.store.Load(s.ctx, "missing", 0)
	s.Require().NoError(err)
	s.Empty(loaded)
}

func (s *PostgresStoreSuite) TestConcurrentAppendConflicts() {
	s.Require().NoError(s.store.Append(s.ctx, "case-1", 0, []eventstore.Envelope{
		envelope("case-1", 1, "case-received"),
	}))

	err := s.store.Append(s.ctx, "case-1", 0, []eventstore.Envelope{
		envelope("case-1", 1, "case-accepted"),
	})
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	// The losing write must leave no trace.
	loaded, err := s.store.Load(s.ctx, "case-1", 0)
	s.Require().NoError(err)
	s.Require().Len(loaded, 1)
	s.Equal("case-received", loaded[0].Type)
}

func (s *PostgresStoreSuite) TestStreamsAreIsolated() {
	s.Require().NoError(s.store.Append(s.ctx, "case-1", 0, []eventstore.Envelope{
		envelope("case-1", 1, "case-received"),
	}))
	s.Require().NoError(s.store.Append(s.ctx, "case-2", 0, []eventstore.Envelope{
		envelope("case-2", 1, "case-received"),
	}))

	loaded, err := s.store.Load(s.ctx, "case-2", 0)
	s.Require().NoError(err)
	s.Require().Len(loaded, 1)
	s.Equal("case-2", loaded[0].CaseID)
}

func (s *PostgresStoreSuite) TestOutboxFetchAndMark() {
	first := envelope("case-1", 1, "case-received")
	second := envelope("case-2", 1, "case-received")
	third := envelope("case-1", 2, "case-accepted")
	s.Require().NoError(s.store.Append(s.ctx, "case-1", 0, []eventstore.Envelope{first}))
	s.Require().NoError(s.store.Append(s.ctx, "case-2", 0, []eventstore.Envelope{second}))
	s.Require().NoError(s.store.Append(s.ctx, "case-1", 1, []eventstore.Envelope{third}))

	pending, err := s.store.FetchUnpublished(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(pending, 3)
	// Insertion order across streams, not per-stream order.
	s.Equal(first.ID, pending[0].ID)
	s.Equal(second.ID, pending[1].ID)
	s.Equal(third.ID, pending[2].ID)

	s.Require().NoError(s.store.MarkPublished(s.ctx, []uuid.UUID{first.ID, second.ID}))

	pending, err = s.store.FetchUnpublished(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(third.ID, pending[0].ID)
}

func (s *PostgresStoreSuite) TestFetchUnpublishedHonoursLimit() {
	s.Require().NoError(s.store.Append(s.ctx, "case-1", 0, []eventstore.Envelope{
		envelope("case-1", 1, "case-received"),
		envelope("case-1", 2, "defendants-added"),
		envelope("case-1", 3, "case-accepted"),
	}))

	pending, err := s.store.FetchUnpublished(s.ctx, 2)
	s.Require().NoError(err)
	s.Len(pending, 2)
}
