// Package validation implements the validation and enrichment engine. Given
// a raw submission and its channel it produces an enriched submission plus a
// structured list of case-level and defendant-level problems. It is a pure
// function of its inputs and the reference data snapshot; severity routing is
// channel-dependent and lives in the Policy table.
package validation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"caseflow/internal/domain"
	"caseflow/internal/refdata"
	"caseflow/pkg/platform/sentinel"
)

// Engine validates and enriches submissions against reference data.
type Engine struct {
	gateway refdata.Gateway
	policy  *Policy
	now     func() time.Time
}

// Option configures the Engine.
type Option func(*Engine)

// WithPolicy overrides the default severity routing table.
func WithPolicy(p *Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithClock overrides the engine's notion of "now" for date checks.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a validation engine backed by the given reference data
// gateway.
func NewEngine(gateway refdata.Gateway, opts ...Option) *Engine {
	e := &Engine{
		gateway: gateway,
		policy:  DefaultPolicy(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// stage is one enrichment/check step. Stages run in a fixed order because
// later stages depend on earlier enrichment (offence windows require the
// offence register; the in-effect check requires the windows).
type stage func(ctx context.Context, sub *domain.Submission, problems *[]domain.Problem) error

// Validate runs the enrichment pipeline and all checks, returning the
// enriched submission and the full problem list with channel-routed
// severities. A non-nil error means reference data was unreachable; no
// partial result is returned in that case.
func (e *Engine) Validate(ctx context.Context, sub domain.Submission) (domain.Submission, []domain.Problem, error) {
	var problems []domain.Problem

	stages := []stage{
		e.enrichInitiationCode,
		e.enrichCaseMarkers,
		e.enrichOrganisation,
		e.enrichOffenceWindows,
		e.enrichProsecutor,
		e.checkCustodyStatus,
		e.checkDefendantDates,
	}
	for _, st := range stages {
		if err := st(ctx, &sub, &problems); err != nil {
			return domain.Submission{}, nil, err
		}
	}

	for i := range problems {
		problems[i].Severity = e.policy.Severity(sub.Channel, problems[i].Code)
	}
	return sub, problems, nil
}

func (e *Engine) enrichInitiationCode(ctx context.Context, sub *domain.Submission, problems *[]domain.Problem) error {
	ic, err := e.gateway.InitiationCode(ctx, sub.InitiationCode)
	if errors.Is(err, sentinel.ErrNotFound) {
		*problems = append(*problems, caseProblem(domain.ProblemInitiationCodeInvalid, domain.PathInitiationCode, sub.InitiationCode))
		return nil
	}
	if err != nil {
		return fmt.Errorf("initiation code lookup: %w", err)
	}
	if !ic.ValidFor(sub.Channel) {
		*problems = append(*problems, caseProblem(domain.ProblemInitiationCodeInvalid, domain.PathInitiationCode, sub.InitiationCode))
		return nil
	}
	sub.SJP = ic.SJP
	sub.SummonsRequired = ic.SummonsRequired
	return nil
}

func (e *Engine) enrichCaseMarkers(ctx context.Context, sub *domain.Submission, problems *[]domain.Problem) error {
	for _, marker := range sub.CaseMarkers {
		_, err := e.gateway.CaseMarker(ctx, marker)
		if errors.Is(err, sentinel.ErrNotFound) {
			*problems = append(*problems, caseProblem(domain.ProblemCaseMarkerUnknown, domain.PathCaseMarker, marker))
			continue
		}
		if err != nil {
			return fmt.Errorf("case marker lookup: %w", err)
		}
	}
	return nil
}

func (e *Engine) enrichOrganisation(ctx context.Context, sub *domain.Submission, problems *[]domain.Problem) error {
	if sub.CPSOrgCode == "" {
		return nil
	}
	_, err := e.gateway.OrganisationalUnit(ctx, sub.CPSOrgCode)
	if errors.Is(err, sentinel.ErrNotFound) {
		*problems = append(*problems, caseProblem(domain.ProblemCPSOrganisationUnknown, domain.PathCPSOrgCode, sub.CPSOrgCode))
		return nil
	}
	if err != nil {
		return fmt.Errorf("organisational unit lookup: %w", err)
	}
	return nil
}

func (e *Engine) enrichOffenceWindows(ctx context.Context, sub *domain.Submission, problems *[]domain.Problem) error {
	for di := range sub.Defendants {
		def := &sub.Defendants[di]
		for oi := range def.Offences {
			off := &def.Offences[oi]
			definition, err := e.gateway.Offence(ctx, off.Code)
			if errors.Is(err, sentinel.ErrNotFound) {
				*problems = append(*problems, domain.Problem{
					Code:         domain.ProblemOffenceCodeUnknown,
					Path:         domain.PathOffenceCode,
					Value:        off.Code,
					DefendantID:  def.ID,
					OffenceIndex: oi,
				})
				continue
			}
			if err != nil {
				return fmt.Errorf("offence lookup: %w", err)
			}
			from := definition.EffectiveFrom
			off.EffectiveFrom = &from
			off.EffectiveTo = definition.EffectiveTo
		}
	}
	return nil
}

// enrichProsecutor resolves the prosecuting authority from the register and
// backfills the CPS organisation routing code when the submission left it
// blank. An explicit CPSOrgCode always wins over the register's.
func (e *Engine) enrichProsecutor(ctx context.Context, sub *domain.Submission, problems *[]domain.Problem) error {
	if sub.ProsecutorCode == "" {
		return nil
	}
	p, err := e.gateway.ProsecutorByCode(ctx, sub.ProsecutorCode)
	if errors.Is(err, sentinel.ErrNotFound) {
		*problems = append(*problems, caseProblem(domain.ProblemProsecutorUnknown, domain.PathProsecutor, sub.ProsecutorCode))
		return nil
	}
	if err != nil {
		return fmt.Errorf("prosecutor lookup: %w", err)
	}
	if sub.CPSOrgCode == "" {
		sub.CPSOrgCode = p.CPSOrgCode
	}
	return nil
}

func (e *Engine) checkCustodyStatus(ctx context.Context, sub *domain.Submission, problems *[]domain.Problem) error {
	for di := range sub.Defendants {
		def := &sub.Defendants[di]
		if def.CustodyStatus == "" {
			continue
		}
		_, err := e.gateway.CustodyStatus(ctx, def.CustodyStatus)
		if errors.Is(err, sentinel.ErrNotFound) {
			*problems = append(*problems, domain.Problem{
				Code:         domain.ProblemCustodyStatusUnknown,
				Path:         domain.PathCustodyStatus,
				Value:        def.CustodyStatus,
				DefendantID:  def.ID,
				OffenceIndex: -1,
			})
			continue
		}
		if err != nil {
			return fmt.Errorf("custody status lookup: %w", err)
		}
	}
	return nil
}

func (e *Engine) checkDefendantDates(_ context.Context, sub *domain.Submission, problems *[]domain.Problem) error {
	now := e.now()
	for di := range sub.Defendants {
		def := &sub.Defendants[di]

		if def.Hearing != nil && !def.Hearing.Date.IsZero() {
			if def.Hearing.Date.Before(now) {
				*problems = append(*problems, defendantProblem(def.ID, domain.ProblemHearingDateInPast, domain.PathHearingDate, def.Hearing.Date))
			}
			if earliest := def.EarliestCommittedDate(); !earliest.IsZero() && def.Hearing.Date.Before(earliest) {
				*problems = append(*problems, defendantProblem(def.ID, domain.ProblemHearingBeforeOffence, domain.PathHearingDate, def.Hearing.Date))
			}
		}

		for oi := range def.Offences {
			off := &def.Offences[oi]
			if !off.ChargeDate.IsZero() && off.ChargeDate.After(now) {
				*problems = append(*problems, offenceProblem(def.ID, oi, domain.ProblemChargeDateInFuture, domain.PathChargeDate, off.ChargeDate))
			}
			if !off.ArrestDate.IsZero() && off.ArrestDate.After(now) {
				*problems = append(*problems, offenceProblem(def.ID, oi, domain.ProblemArrestDateInFuture, domain.PathArrestDate, off.ArrestDate))
			}
			if off.EffectiveFrom != nil && !off.CommittedDate.IsZero() {
				window := refdata.OffenceDefinition{Code: off.Code, EffectiveFrom: *off.EffectiveFrom, EffectiveTo: off.EffectiveTo}
				if !window.InEffectOn(off.CommittedDate) {
					*problems = append(*problems, offenceProblem(def.ID, oi, domain.ProblemOffenceNotInEffect, domain.PathCommittedDate, off.CommittedDate))
				}
			}
		}
	}
	return nil
}

func caseProblem(code domain.ProblemCode, path domain.FieldPath, value string) domain.Problem {
	return domain.Problem{Code: code, Path: path, Value: value, OffenceIndex: -1}
}

func defendantProblem(defendantID string, code domain.ProblemCode, path domain.FieldPath, value time.Time) domain.Problem {
	return domain.Problem{
		Code:         code,
		Path:         path,
		Value:        value.Format(time.RFC3339),
		DefendantID:  defendantID,
		OffenceIndex: -1,
	}
}

func offenceProblem(defendantID string, offenceIndex int, code domain.ProblemCode, path domain.FieldPath, value time.Time) domain.Problem {
	return domain.Problem{
		Code:         code,
		Path:         path,
		Value:        value.Format(time.RFC3339),
		DefendantID:  defendantID,
		OffenceIndex: offenceIndex,
	}
}
