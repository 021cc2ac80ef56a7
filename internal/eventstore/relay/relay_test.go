package relay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"caseflow/internal/eventstore"
	"caseflow/internal/platform/kafka/producer"
)

// capturePublisher records produced messages and can be told to fail.
type capturePublisher struct {
	mu       sync.Mutex
	messages []*producer.Message
	failFor  map[string]bool
	failOnce map[string]bool
}

func newCapturePublisher() *capturePublisher {
	return &capturePublisher{
		failFor:  make(map[string]bool),
		failOnce: make(map[string]bool),
	}
}

func (p *capturePublisher) Produce(_ context.Context, msg *producer.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failFor[string(msg.Key)] {
		return errors.New("broker unavailable")
	}
	if p.failOnce[string(msg.Key)] {
		delete(p.failOnce, string(msg.Key))
		return errors.New("broker unavailable")
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *capturePublisher) captured() []*producer.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*producer.Message(nil), p.messages...)
}

type RelaySuite struct {
	suite.Suite
	store     *eventstore.MemoryStore
	publisher *capturePublisher
	relay     *Relay
	ctx       context.Context
}

func TestRelaySuite(t *testing.T) {
	suite.Run(t, new(RelaySuite))
}

func (s *RelaySuite) SetupTest() {
	s.store = eventstore.NewMemoryStore()
	s.publisher = newCapturePublisher()
	s.relay = New(s.store, s.publisher, WithTopic("test.events"), WithBatchSize(10))
	s.ctx = context.Background()
}

func (s *RelaySuite) append(caseID string, version int64, types ...string) {
	envs := make([]eventstore.Envelope, len(types))
	for i, t := range types {
		envs[i] = eventstore.Envelope{Type: t, Payload: []byte(`{"k":"` + t + `"}`)}
	}
	s.Require().NoError(s.store.Append(s.ctx, caseID, version, envs))
}

func (s *RelaySuite) TestPublishesAndMarksBatch() {
	s.append("case-1", 0, "case-received", "case-accepted")

	s.relay.poll(s.ctx)

	msgs := s.publisher.captured()
	s.Require().Len(msgs, 2)
	s.Equal("test.events", msgs[0].Topic)
	s.Equal("case-1", string(msgs[0].Key))
	s.Equal("case-received", msgs[0].Headers["event_type"])
	s.Equal("1", msgs[0].Headers["version"])

	pending, err := s.store.FetchUnpublished(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(pending)
}

func (s *RelaySuite) TestFailedPublishRetriesNextPoll() {
	s.append("case-1", 0, "case-received")
	s.append("case-2", 0, "case-received")
	s.publisher.failFor["case-1"] = true

	s.relay.poll(s.ctx)

	// case-2 shipped despite case-1 failing.
	s.Require().Len(s.publisher.captured(), 1)
	pending, err := s.store.FetchUnpublished(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal("case-1", pending[0].CaseID)

	s.publisher.failFor["case-1"] = false
	s.relay.poll(s.ctx)

	s.Len(s.publisher.captured(), 2)
	pending, err = s.store.FetchUnpublished(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(pending)
}

func (s *RelaySuite) TestFailedPublishHoldsBackLaterEventsOfSameStream() {
	s.append("case-1", 0, "case-received", "case-accepted")
	s.append("case-2", 0, "case-received")
	s.publisher.failOnce["case-1"] = true

	s.relay.poll(s.ctx)

	// case-1's second event must not overtake its failed first; case-2 is
	// unaffected.
	msgs := s.publisher.captured()
	s.Require().Len(msgs, 1)
	s.Equal("case-2", string(msgs[0].Key))

	pending, err := s.store.FetchUnpublished(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(pending, 2)
	s.Equal("case-1", pending[0].CaseID)
	s.Equal("case-1", pending[1].CaseID)

	s.relay.poll(s.ctx)

	msgs = s.publisher.captured()
	s.Require().Len(msgs, 3)
	s.Equal("1", msgs[1].Headers["version"])
	s.Equal("2", msgs[2].Headers["version"])

	pending, err = s.store.FetchUnpublished(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(pending)
}

func (s *RelaySuite) TestStartStopDrainsOutbox() {
	s.append("case-1", 0, "case-received")

	relay := New(s.store, s.publisher, WithPollInterval(5*time.Millisecond))
	relay.Start()

	s.Require().Eventually(func() bool {
		return len(s.publisher.captured()) == 1
	}, time.Second, 5*time.Millisecond)

	s.append("case-2", 0, "case-received")
	relay.Stop()

	// Stop drains what it can before returning.
	s.Len(s.publisher.captured(), 2)
}
