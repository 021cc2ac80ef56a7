// Package relay ships committed case events from the store's outbox tail to
// Kafka. Delivery is at-least-once: an event published but not marked is
// republished on the next poll, and downstream consumers deduplicate by
// event id.
package relay

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"caseflow/internal/eventstore"
	"caseflow/internal/platform/kafka/producer"
)

// Relay polls the outbox and publishes events keyed by case id, preserving
// per-case ordering within a partition.
type Relay struct {
	outbox       eventstore.Outbox
	publisher    producer.Publisher
	topic        string
	batchSize    int
	pollInterval time.Duration
	logger       *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures the Relay.
type Option func(*Relay)

// WithTopic sets the Kafka topic for publishing.
func WithTopic(topic string) Option {
	return func(r *Relay) { r.topic = topic }
}

// WithBatchSize sets the maximum number of events fetched per poll.
func WithBatchSize(size int) Option {
	return func(r *Relay) { r.batchSize = size }
}

// WithPollInterval sets the interval between polls.
func WithPollInterval(interval time.Duration) Option {
	return func(r *Relay) { r.pollInterval = interval }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) { r.logger = logger }
}

// New creates a relay over the store's outbox tail.
func New(outbox eventstore.Outbox, pub producer.Publisher, opts ...Option) *Relay {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Relay{
		outbox:       outbox,
		publisher:    pub,
		topic:        "caseflow.case.events",
		batchSize:    100,
		pollInterval: 100 * time.Millisecond,
		ctx:          ctx,
		cancel:       cancel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins the polling loop in a background goroutine.
func (r *Relay) Start() {
	r.wg.Add(1)
	go r.run()
}

// Stop halts polling, drains what it can, and waits for the loop to exit.
func (r *Relay) Stop() {
	r.cancel()
	r.wg.Wait()
}

func (r *Relay) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			r.drain()
			return
		case <-ticker.C:
			r.poll(r.ctx)
		}
	}
}

// poll publishes one batch. Events that fail to publish stay unmarked and
// retry next poll. Other streams in the batch are still attempted so one
// poisoned stream cannot stall the rest, but once an event of a stream
// fails its later events are skipped: per-case ordering holds only if
// version n never ships before version n-1.
func (r *Relay) poll(ctx context.Context) {
	events, err := r.outbox.FetchUnpublished(ctx, r.batchSize)
	if err != nil {
		if r.logger != nil {
			r.logger.Error("fetch unpublished events", "error", err)
		}
		return
	}
	if len(events) == 0 {
		return
	}

	var shipped []uuid.UUID
	failed := make(map[string]bool)
	for _, env := range events {
		if failed[env.CaseID] {
			continue
		}
		if err := r.publish(ctx, env); err != nil {
			failed[env.CaseID] = true
			if r.logger != nil {
				r.logger.Error("publish case event",
					"event_id", env.ID,
					"case_id", env.CaseID,
					"type", env.Type,
					"error", err,
				)
			}
			continue
		}
		shipped = append(shipped, env.ID)
	}
	if len(shipped) == 0 {
		return
	}
	if err := r.outbox.MarkPublished(ctx, shipped); err != nil && r.logger != nil {
		// Published but unmarked; duplicates surface downstream where the
		// event id deduplicates them.
		r.logger.Error("mark events published", "count", len(shipped), "error", err)
	}
}

func (r *Relay) publish(ctx context.Context, env eventstore.Envelope) error {
	return r.publisher.Produce(ctx, &producer.Message{
		Topic: r.topic,
		Key:   []byte(env.CaseID),
		Value: env.Payload,
		Headers: map[string]string{
			"event_id":   env.ID.String(),
			"event_type": env.Type,
			"case_id":    env.CaseID,
			"version":    strconv.FormatInt(env.Version, 10),
		},
	})
}

// drain makes a final bounded pass so a clean shutdown leaves as little
// unpublished as possible.
func (r *Relay) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for ctx.Err() == nil {
		events, err := r.outbox.FetchUnpublished(ctx, 1)
		if err != nil || len(events) == 0 {
			return
		}
		env := events[0]
		if err := r.publish(ctx, env); err != nil {
			return
		}
		if err := r.outbox.MarkPublished(ctx, []uuid.UUID{env.ID}); err != nil {
			return
		}
	}
}
