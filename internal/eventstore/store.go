// Package eventstore persists per-case event streams. Streams are append-only
// and versioned; appends carry the expected stream version so concurrent
// writers conflict instead of interleaving.
package eventstore

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks Store,Outbox

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Envelope wraps one serialized event in its stream position and metadata.
// Payload is opaque to the store; the casefile codec owns its shape.
type Envelope struct {
	ID         uuid.UUID `json:"id"`
	CaseID     string    `json:"caseId"`
	Version    int64     `json:"version"`
	Type       string    `json:"type"`
	Payload    []byte    `json:"payload"`
	RecordedAt time.Time `json:"recordedAt"`
}

// Store is the append-only event log.
//
// Append writes the envelopes as versions expectedVersion+1..+n in one
// atomic operation; it returns sentinel.ErrConflict when the stream has moved
// past expectedVersion. Load returns the stream from fromVersion (exclusive)
// in version order; a missing stream yields an empty slice, not an error.
type Store interface {
	Append(ctx context.Context, caseID string, expectedVersion int64, envelopes []Envelope) error
	Load(ctx context.Context, caseID string, fromVersion int64) ([]Envelope, error)
}

// Outbox exposes the unpublished tail of the log for the relay. The event
// log doubles as the transactional outbox: an event is on its way downstream
// the moment it commits.
type Outbox interface {
	FetchUnpublished(ctx context.Context, limit int) ([]Envelope, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}
