// Package service orchestrates casefile commands: load and replay the
// stream, run the decider, append the new events with optimistic
// concurrency, and refresh the snapshot.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"caseflow/internal/casefile"
	"caseflow/internal/casefile/metrics"
	"caseflow/internal/domain"
	"caseflow/internal/eventstore"
	"caseflow/internal/eventstore/snapshot"
	"caseflow/internal/refdata"
	"caseflow/internal/validation"
	domainerrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/platform/sentinel"
)

// maxAppendAttempts bounds the reload-and-retry loop on append conflicts.
const maxAppendAttempts = 3

// Result is the outcome of one successfully handled command.
type Result struct {
	Case   *casefile.Case
	Events []casefile.Event
}

// Service handles casefile commands against the event store.
type Service struct {
	store           eventstore.Store
	gateway         refdata.Gateway
	engine          *validation.Engine
	snapshots       snapshot.Store
	metrics         *metrics.Metrics
	logger          *slog.Logger
	tracer          trace.Tracer
	now             func() time.Time
	materialTimeout time.Duration
}

// Option configures the Service.
type Option func(*Service)

// WithSnapshots enables snapshot-accelerated loads.
func WithSnapshots(s snapshot.Store) Option {
	return func(svc *Service) { svc.snapshots = s }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(svc *Service) { svc.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(svc *Service) { svc.logger = l }
}

// WithClock overrides the service clock.
func WithClock(now func() time.Time) Option {
	return func(svc *Service) { svc.now = now }
}

// WithPendingMaterialTimeout overrides how long queued materials wait for
// acceptance before expiry.
func WithPendingMaterialTimeout(d time.Duration) Option {
	return func(svc *Service) { svc.materialTimeout = d }
}

// New creates the command service.
func New(store eventstore.Store, gateway refdata.Gateway, engine *validation.Engine, opts ...Option) *Service {
	svc := &Service{
		store:           store,
		gateway:         gateway,
		engine:          engine,
		logger:          slog.Default(),
		tracer:          otel.Tracer("caseflow/casefile"),
		now:             time.Now,
		materialTimeout: casefile.DefaultPendingMaterialTimeout,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// SubmitCase validates, enriches, and routes one submission.
func (s *Service) SubmitCase(ctx context.Context, sub domain.Submission) (*Result, error) {
	enriched, problems, err := s.engine.Validate(ctx, sub)
	if err != nil {
		return nil, err
	}
	return s.execute(ctx, "submit_case", sub.CaseID, func(c *casefile.Case) ([]casefile.Event, error) {
		events, err := c.DecideReceive(enriched, problems)
		if err != nil {
			return nil, err
		}
		return s.revalidateMerged(ctx, enriched, events)
	})
}

// revalidateMerged re-checks defendants whose identity fields changed during
// a merge. The merged record can carry offences and hearing details recorded
// under the old identity, so it goes back through the engine; blocking
// findings surface as per-defendant events rather than unwinding a merge
// that already happened.
func (s *Service) revalidateMerged(ctx context.Context, sub domain.Submission, events []casefile.Event) ([]casefile.Event, error) {
	for _, e := range events {
		added, ok := e.(casefile.DefendantsAdded)
		if !ok || len(added.IdentityChanged) == 0 {
			continue
		}
		changed := make(map[string]bool, len(added.IdentityChanged))
		for _, id := range added.IdentityChanged {
			changed[id] = true
		}
		recheck := domain.Submission{
			CaseID:         sub.CaseID,
			Channel:        sub.Channel,
			InitiationCode: sub.InitiationCode,
			CPSOrgCode:     sub.CPSOrgCode,
		}
		for _, d := range added.Defendants {
			if changed[d.ID] {
				recheck.Defendants = append(recheck.Defendants, d)
			}
		}
		_, problems, err := s.engine.Validate(ctx, recheck)
		if err != nil {
			return nil, err
		}
		for _, d := range recheck.Defendants {
			var blocking []domain.Problem
			for _, p := range domain.Errors(problems) {
				if p.DefendantID == d.ID {
					blocking = append(blocking, p)
				}
			}
			if len(blocking) > 0 {
				events = append(events, casefile.DefendantValidationFailed{
					CaseID:      sub.CaseID,
					DefendantID: d.ID,
					Problems:    blocking,
				})
			}
		}
	}
	return events, nil
}

// CorrectCase applies a correction set to the held submission. The corrected
// submission is re-validated in full; only findings at corrected fields
// supersede the recorded ones.
func (s *Service) CorrectCase(ctx context.Context, set domain.CorrectionSet) (*Result, error) {
	return s.execute(ctx, "correct_case", set.CaseID, func(c *casefile.Case) ([]casefile.Event, error) {
		corrected, err := c.CorrectedSubmission(set)
		if err != nil {
			return nil, err
		}
		revalidated, fresh, err := s.engine.Validate(ctx, corrected)
		if err != nil {
			return nil, err
		}
		events, err := c.DecideCorrections(revalidated, fresh, set)
		if err != nil {
			return nil, err
		}
		return s.revalidateMerged(ctx, revalidated, events)
	})
}

// AcceptCase flips the acceptance flag and resolves the pending material
// queue.
func (s *Service) AcceptCase(ctx context.Context, caseID string, details casefile.AcceptanceDetails) (*Result, error) {
	return s.execute(ctx, "accept_case", caseID, func(c *casefile.Case) ([]casefile.Event, error) {
		return c.DecideAccept(ctx, s.gateway, details)
	})
}

// EjectCase removes the case from further processing.
func (s *Service) EjectCase(ctx context.Context, caseID string) (*Result, error) {
	return s.execute(ctx, "eject_case", caseID, func(c *casefile.Case) ([]casefile.Event, error) {
		return c.DecideEject()
	})
}

// FilterCase prunes the case's materials.
func (s *Service) FilterCase(ctx context.Context, caseID string) (*Result, error) {
	return s.execute(ctx, "filter_case", caseID, func(c *casefile.Case) ([]casefile.Event, error) {
		return c.DecideFilter()
	})
}

// AddMaterials attaches or queues a batch of materials in order.
func (s *Service) AddMaterials(ctx context.Context, caseID string, ms []domain.Material) (*Result, error) {
	return s.execute(ctx, "add_materials", caseID, func(c *casefile.Case) ([]casefile.Event, error) {
		return c.DecideAddMaterials(ctx, s.gateway, ms, s.now().UTC())
	})
}

// ExpirePendingMaterial rejects a material still pending past the configured
// timeout. Unknown or resolved materials are a no-op.
func (s *Service) ExpirePendingMaterial(ctx context.Context, caseID, materialID string) (*Result, error) {
	return s.execute(ctx, "expire_pending_material", caseID, func(c *casefile.Case) ([]casefile.Event, error) {
		return c.DecideExpirePendingMaterial(materialID, s.now().UTC(), s.materialTimeout)
	})
}

// ApproveSummons approves a parked application, creating the case first if
// it only ever existed via parked submissions.
func (s *Service) ApproveSummons(ctx context.Context, caseID, applicationID string, details casefile.ApprovalDetails) (*Result, error) {
	return s.execute(ctx, "approve_summons", caseID, func(c *casefile.Case) ([]casefile.Event, error) {
		return c.DecideApproveSummons(applicationID, details)
	})
}

// RejectSummons rejects a parked application, discarding only its batch.
func (s *Service) RejectSummons(ctx context.Context, caseID, applicationID string, reasons []string) (*Result, error) {
	return s.execute(ctx, "reject_summons", caseID, func(c *casefile.Case) ([]casefile.Event, error) {
		return c.DecideRejectSummons(applicationID, reasons)
	})
}

// GetCase replays and returns the current aggregate state.
func (s *Service) GetCase(ctx context.Context, caseID string) (*casefile.Case, error) {
	c, err := s.load(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c.Status == casefile.StatusUninitialized {
		return nil, domainerrors.New(domainerrors.CodeNotFound, "case does not exist")
	}
	return c, nil
}

// execute runs one command attempt loop: load, decide, append. A version
// conflict reloads and re-decides, so a command raced by another writer is
// decided against the state that actually won.
func (s *Service) execute(ctx context.Context, command, caseID string, decide func(*casefile.Case) ([]casefile.Event, error)) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "casefile."+command,
		trace.WithAttributes(attribute.String("case.id", caseID)))
	defer span.End()
	start := time.Now()
	defer s.metrics.ObserveCommandLatency(command, start)

	var lastErr error
	for attempt := 0; attempt < maxAppendAttempts; attempt++ {
		c, err := s.load(ctx, caseID)
		if err != nil {
			s.fail(span, command, "error", err)
			return nil, err
		}

		events, err := decide(c)
		if err != nil {
			result := "rejected"
			if domainerrors.HasCode(err, domainerrors.CodeUnavailable) || domainerrors.HasCode(err, domainerrors.CodeInternal) {
				result = "error"
			}
			s.fail(span, command, result, err)
			return nil, err
		}
		if len(events) == 0 {
			s.metrics.IncrementCommandOutcome(command, "ok")
			return &Result{Case: c}, nil
		}

		envelopes, err := s.wrap(caseID, events)
		if err != nil {
			s.fail(span, command, "error", err)
			return nil, err
		}
		if err := s.store.Append(ctx, caseID, c.Version, envelopes); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				lastErr = err
				s.metrics.IncrementCommandOutcome(command, "conflict")
				continue
			}
			s.fail(span, command, "error", err)
			return nil, err
		}

		for _, e := range events {
			c.Apply(e)
			s.metrics.IncrementEventAppended(string(e.EventType()))
		}
		s.refreshSnapshot(ctx, c)
		s.metrics.IncrementCommandOutcome(command, "ok")
		s.logger.InfoContext(ctx, "command handled",
			"command", command,
			"case_id", caseID,
			"events", len(events),
			"version", c.Version,
		)
		return &Result{Case: c, Events: events}, nil
	}
	err := domainerrors.Wrap(lastErr, domainerrors.CodeConflict, "case stream contended")
	s.fail(span, command, "conflict", err)
	return nil, err
}

func (s *Service) fail(span trace.Span, command, result string, err error) {
	s.metrics.IncrementCommandOutcome(command, result)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// load restores the aggregate, from snapshot when available, replaying the
// stream tail on top.
func (s *Service) load(ctx context.Context, caseID string) (*casefile.Case, error) {
	c := casefile.NewCase(caseID)
	if s.snapshots != nil {
		snap, err := s.snapshots.Get(ctx, caseID)
		switch {
		case err == nil:
			c = snap
			s.metrics.IncrementSnapshotLookup("hit")
		case errors.Is(err, sentinel.ErrNotFound):
			s.metrics.IncrementSnapshotLookup("miss")
		default:
			s.metrics.IncrementSnapshotLookup("error")
			s.logger.WarnContext(ctx, "snapshot lookup failed", "case_id", caseID, "error", err)
		}
	}

	envelopes, err := s.store.Load(ctx, caseID, c.Version)
	if err != nil {
		return nil, err
	}
	for _, env := range envelopes {
		e, err := casefile.Decode(casefile.EventType(env.Type), env.Payload)
		if err != nil {
			return nil, err
		}
		c.Apply(e)
	}
	s.metrics.ObserveReplayDepth(len(envelopes))
	return c, nil
}

func (s *Service) wrap(caseID string, events []casefile.Event) ([]eventstore.Envelope, error) {
	now := s.now().UTC()
	envelopes := make([]eventstore.Envelope, 0, len(events))
	for _, e := range events {
		t, payload, err := casefile.Encode(e)
		if err != nil {
			return nil, err
		}
		envelopes = append(envelopes, eventstore.Envelope{
			ID:         uuid.New(),
			CaseID:     caseID,
			Type:       string(t),
			Payload:    payload,
			RecordedAt: now,
		})
	}
	return envelopes, nil
}

// refreshSnapshot is best-effort; failures only cost
// replay time on the next load.
func (s *Service) refreshSnapshot(ctx context.Context, c *casefile.Case) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Put(ctx, c); err != nil {
		s.logger.WarnContext(ctx, "snapshot write failed", "case_id", c.ID, "error", err)
	}
}
