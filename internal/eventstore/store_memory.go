package eventstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"caseflow/pkg/platform/sentinel"
)

// MemoryStore is an in-memory Store and Outbox for tests and local runs.
type MemoryStore struct {
	mu        sync.RWMutex
	streams   map[string][]Envelope
	published map[uuid.UUID]bool
	order     []Envelope
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		streams:   make(map[string][]Envelope),
		published: make(map[uuid.UUID]bool),
	}
}

// Append implements Store.
func (s *MemoryStore) Append(_ context.Context, caseID string, expectedVersion int64, envelopes []Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream := s.streams[caseID]
	if int64(len(stream)) != expectedVersion {
		return sentinel.ErrConflict
	}
	for i := range envelopes {
		env := envelopes[i]
		if env.ID == uuid.Nil {
			env.ID = uuid.New()
		}
		if env.RecordedAt.IsZero() {
			env.RecordedAt = time.Now().UTC()
		}
		env.CaseID = caseID
		env.Version = expectedVersion + int64(i) + 1
		stream = append(stream, env)
		s.order = append(s.order, env)
	}
	s.streams[caseID] = stream
	return nil
}

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context, caseID string, fromVersion int64) ([]Envelope, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[caseID]
	var out []Envelope
	for _, env := range stream {
		if env.Version > fromVersion {
			out = append(out, env)
		}
	}
	return out, nil
}

// FetchUnpublished implements Outbox, returning envelopes in global append
// order.
func (s *MemoryStore) FetchUnpublished(_ context.Context, limit int) ([]Envelope, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Envelope
	for _, env := range s.order {
		if s.published[env.ID] {
			continue
		}
		out = append(out, env)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// MarkPublished implements Outbox.
func (s *MemoryStore) MarkPublished(_ context.Context, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.published[id] = true
	}
	return nil
}
