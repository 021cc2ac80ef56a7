//go:build integration

package relay_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"caseflow/internal/eventstore"
	"caseflow/internal/eventstore/relay"
	"caseflow/internal/platform/kafka/producer"
	"caseflow/pkg/testutil/containers"
)

const testTopic = "caseflow.case.events.test"

type RelayIntegrationSuite struct {
	suite.Suite

	kafka *containers.KafkaContainer
	ctx   context.Context
}

func TestRelayIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RelayIntegrationSuite))
}

func (s *RelayIntegrationSuite) SetupSuite() {
	s.kafka = containers.NewKafkaContainer(s.T())
	s.ctx = context.Background()
	s.Require().NoError(s.kafka.CreateTopic(s.ctx, testTopic, 1))
}

func (s *RelayIntegrationSuite) newProducer() *producer.Producer {
	pub, err := producer.New(producer.Config{
		Brokers: s.kafka.Brokers,
		Acks:    "all",
		Retries: 3,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = pub.Close() })
	return pub
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

func header(rec *kgo.Record, key string) string {
	for _, h := range rec.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (s *RelayIntegrationSuite) TestRelayShipsOutboxToKafka() {
	store := eventstore.NewMemoryStore()
	first := envelope("case-1", 1, "case-received")
	second := envelope("case-1", 2, "case-accepted")
	s.Require().NoError(store.Append(s.ctx, "case-1", 0, []eventstore.Envelope{first, second}))

	r := relay.New(store, s.newProducer(),
		relay.WithTopic(testTopic),
		relay.WithPollInterval(50*time.Millisecond),
	)
	r.Start()
	defer r.Stop()

	consumer, err := s.kafka.NewConsumer("relay-it", testTopic)
	s.Require().NoError(err)
	defer consumer.Close()

	records := s.consume(consumer, 2)
	s.Require().Len(records, 2)

	s.Equal("case-1", string(records[0].Key))
	s.Equal(first.ID.String(), header(records[0], "event_id"))
	s.Equal("case-received", header(records[0], "event_type"))
	s.Equal("1", header(records[0], "version"))
	s.JSONEq(`{"caseId":"case-1"}`, string(records[0].Value))

	s.Equal(second.ID.String(), header(records[1], "event_id"))
	s.Equal("case-accepted", header(records[1], "event_type"))

	// Everything shipped is marked, so the outbox tail is empty.
	s.Require().Eventually(func() bool {
		pending, err := store.FetchUnpublished(s.ctx, 10)
		return err == nil && len(pending) == 0
	}, 5*time.Second, 100*time.Millisecond)
}

func (s *RelayIntegrationSuite) TestStopDrainsPendingEvents() {
	store := eventstore.NewMemoryStore()
	r := relay.New(store, s.newProducer(),
		relay.WithTopic(testTopic),
		// Long enough that only the shutdown drain can ship the event.
		relay.WithPollInterval(time.Hour),
	)
	r.Start()

	env := envelope("case-2", 1, "case-received")
	s.Require().NoError(store.Append(s.ctx, "case-2", 0, []eventstore.Envelope{env}))
	r.Stop()

	pending, err := store.FetchUnpublished(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(pending)

	consumer, err := s.kafka.NewConsumer("relay-it-drain", testTopic)
	s.Require().NoError(err)
	defer consumer.Close()

	// The topic also carries records from other tests in this suite; hunt
	// for this event by id.
	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(s.ctx, time.Second)
		fetches := consumer.PollFetches(ctx)
		cancel()
		var found bool
		fetches.EachRecord(func(rec *kgo.Record) {
			if header(rec, "event_id") == env.ID.String() {
				found = true
			}
		})
		if found {
			return
		}
	}
	s.Fail("drained event never reached the topic")
}

// consume polls until at least n records for this suite's topic arrive or the
// deadline passes.
func (s *RelayIntegrationSuite) consume(client *kgo.Client, n int) []*kgo.Record {
	deadline := time.Now().Add(15 * time.Second)
	var out []*kgo.Record
	for len(out) < n && time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(s.ctx, time.Second)
		fetches := client.PollFetches(ctx)
		cancel()
		fetches.EachRecord(func(rec *kgo.Record) {
			out = append(out, rec)
		})
	}
	return out
}
