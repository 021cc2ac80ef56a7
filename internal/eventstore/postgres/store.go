// Package postgres implements the event store on PostgreSQL. The case_events
// table is both the event log and the transactional outbox: the published
// flag tracks what the relay has shipped downstream.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"caseflow/internal/eventstore"
	"caseflow/pkg/platform/sentinel"
)

// Store persists case event streams in the case_events table.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL event store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Schema creates the case_events table. Intended for tests and local runs;
// deployments manage migrations externally.
const Schema = `
CREATE TABLE IF NOT EXISTS case_events (
	id          UUID PRIMARY KEY,
	case_id     TEXT NOT NULL,
	version     BIGINT NOT NULL,
	event_type  TEXT NOT NULL,
	payload     JSONB NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL,
	seq         BIGSERIAL,
	published   BOOLEAN NOT NULL DEFAULT FALSE,
	UNIQUE (case_id, version)
);
CREATE INDEX IF NOT EXISTS case_events_unpublished_idx ON case_events (seq) WHERE NOT published;
`

// Append implements eventstore.Store. All envelopes commit in one
// transaction; the unique (case_id, version) constraint turns a lost race
// into sentinel.ErrConflict.
func (s *Store) Append(ctx context.Context, caseID string, expectedVersion int64, envelopes []eventstore.Envelope) error {
	if len(envelopes) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	query := `
		INSERT INTO case_events (id, case_id, version, event_type, payload, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i, env := range envelopes {
		id := env.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		recordedAt := env.RecordedAt
		if recordedAt.IsZero() {
			recordedAt = time.Now().UTC()
		}
		version := expectedVersion + int64(i) + 1
		if _, err := tx.ExecContext(ctx, query, id, caseID, version, env.Type, env.Payload, recordedAt); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
				return sentinel.ErrConflict
			}
			return fmt.Errorf("insert event %s v%d: %w", env.Type, version, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append tx: %w", err)
	}
	return nil
}

// Load implements eventstore.Store.
func (s *Store) Load(ctx context.Context, caseID string, fromVersion int64) ([]eventstore.Envelope, error) {
	query := `
		SELECT id, case_id, version, event_type, payload, recorded_at
		FROM case_events
		WHERE case_id = $1 AND version > $2
		ORDER BY version
	`
	rows, err := s.db.QueryContext(ctx, query, caseID, fromVersion)
	if err != nil {
		return nil, fmt.Errorf("load stream %s: %w", caseID, err)
	}
	defer rows.Close()

	var out []eventstore.Envelope
	for rows.Next() {
		var env eventstore.Envelope
		if err := rows.Scan(&env.ID, &env.CaseID, &env.Version, &env.Type, &env.Payload, &env.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan event row: %w", err)
		}
		out = append(out, env)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stream %s: %w", caseID, err)
	}
	return out, nil
}

// FetchUnpublished implements eventstore.Outbox, returning events in global
// append order.
func (s *Store) FetchUnpublished(ctx context.Context, limit int) ([]eventstore.Envelope, error) {
	query := `
		SELECT id, case_id, version, event_type, payload, recorded_at
		FROM case_events
		WHERE NOT published
		ORDER BY seq
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch unpublished: %w", err)
	}
	defer rows.Close()

	var out []eventstore.Envelope
	for rows.Next() {
		var env eventstore.Envelope
		if err := rows.Scan(&env.ID, &env.CaseID, &env.Version, &env.Type, &env.Payload, &env.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		out = append(out, env)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unpublished: %w", err)
	}
	return out, nil
}

// MarkPublished implements eventstore.Outbox.
func (s *Store) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	query := `UPDATE case_events SET published = TRUE WHERE id = ANY($1)`
	if _, err := s.db.ExecContext(ctx, query, pq.Array(strs)); err != nil {
		return fmt.Errorf("mark published: %w", err)
	}
	return nil
}
