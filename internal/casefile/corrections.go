package casefile

import (
	"fmt"
	"time"

	"caseflow/internal/domain"
	domainerrors "caseflow/pkg/domain-errors"
)

// CorrectedSubmission returns a copy of the held submission with a correction
// set applied. Date values accept "2006-01-02" or RFC 3339.
func (c *Case) CorrectedSubmission(set domain.CorrectionSet) (domain.Submission, error) {
	if c.Held == nil {
		return domain.Submission{}, domainerrors.New(domainerrors.CodeInvalidState, "no submission awaiting corrections")
	}
	sub := cloneSubmission(c.Held.Submission)
	for _, corr := range set.Corrections {
		if err := applyCorrection(&sub, c.Held.Problems, corr); err != nil {
			return domain.Submission{}, err
		}
	}
	return sub, nil
}

// cloneSubmission deep-copies the held submission so corrections never
// mutate recorded state outside an event.
func cloneSubmission(sub domain.Submission) domain.Submission {
	out := sub
	out.CaseMarkers = append([]string(nil), sub.CaseMarkers...)
	out.Defendants = make([]domain.Defendant, len(sub.Defendants))
	for i, d := range sub.Defendants {
		cd := d
		cd.Offences = append([]domain.Offence(nil), d.Offences...)
		if d.Hearing != nil {
			h := *d.Hearing
			cd.Hearing = &h
		}
		if d.DateOfBirth != nil {
			dob := *d.DateOfBirth
			cd.DateOfBirth = &dob
		}
		out.Defendants[i] = cd
	}
	return out
}

func applyCorrection(sub *domain.Submission, held []domain.Problem, corr domain.Correction) error {
	if corr.DefendantID == "" {
		return applyCaseCorrection(sub, held, corr)
	}
	d := sub.DefendantByID(corr.DefendantID)
	if d == nil {
		return domainerrors.New(domainerrors.CodeInvalidInput,
			fmt.Sprintf("correction targets unknown defendant %s", corr.DefendantID))
	}
	switch corr.Path {
	case domain.PathHearingDate:
		date, err := parseCorrectionDate(corr)
		if err != nil {
			return err
		}
		if d.Hearing == nil {
			d.Hearing = &domain.HearingDetails{}
		}
		d.Hearing.Date = date
		return nil
	case domain.PathCustodyStatus:
		d.CustodyStatus = corr.NewValue
		return nil
	}
	if corr.OffenceIndex < 0 || corr.OffenceIndex >= len(d.Offences) {
		return domainerrors.New(domainerrors.CodeInvalidInput,
			fmt.Sprintf("correction offence index %d out of range", corr.OffenceIndex))
	}
	off := &d.Offences[corr.OffenceIndex]
	switch corr.Path {
	case domain.PathOffenceCode:
		off.Code = corr.NewValue
		off.EffectiveFrom, off.EffectiveTo = nil, nil
	case domain.PathCommittedDate, domain.PathChargeDate, domain.PathArrestDate:
		date, err := parseCorrectionDate(corr)
		if err != nil {
			return err
		}
		switch corr.Path {
		case domain.PathCommittedDate:
			off.CommittedDate = date
		case domain.PathChargeDate:
			off.ChargeDate = date
		case domain.PathArrestDate:
			off.ArrestDate = date
		}
	default:
		return domainerrors.New(domainerrors.CodeInvalidInput,
			fmt.Sprintf("correction path %q is not a defendant field", corr.Path))
	}
	return nil
}

func applyCaseCorrection(sub *domain.Submission, held []domain.Problem, corr domain.Correction) error {
	switch corr.Path {
	case domain.PathInitiationCode:
		sub.InitiationCode = corr.NewValue
	case domain.PathCPSOrgCode:
		sub.CPSOrgCode = corr.NewValue
	case domain.PathProsecutor:
		sub.ProsecutorCode = corr.NewValue
	case domain.PathCaseMarker:
		// The offending marker value is recorded on the held problem.
		for _, p := range held {
			if p.Path != domain.PathCaseMarker || p.Severity != domain.SeverityError {
				continue
			}
			for i, m := range sub.CaseMarkers {
				if m == p.Value {
					sub.CaseMarkers[i] = corr.NewValue
					return nil
				}
			}
		}
		return domainerrors.New(domainerrors.CodeInvalidInput, "no outstanding case marker to correct")
	default:
		return domainerrors.New(domainerrors.CodeInvalidInput,
			fmt.Sprintf("correction path %q is not a case field", corr.Path))
	}
	return nil
}

func parseCorrectionDate(corr domain.Correction) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", corr.NewValue); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, corr.NewValue)
	if err != nil {
		return time.Time{}, domainerrors.New(domainerrors.CodeInvalidInput,
			fmt.Sprintf("correction value %q for %s is not a date", corr.NewValue, corr.Path))
	}
	return t, nil
}

// DecideCorrections resolves a correction cycle. The caller re-validates the
// corrected submission and passes the fresh findings; only problems at
// corrected fields are superseded, everything else keeps its recorded
// outcome. When all blocking problems clear, the admission events are
// re-derived from the corrected submission and ValidationCompleted closes
// the cycle.
func (c *Case) DecideCorrections(corrected domain.Submission, fresh []domain.Problem, set domain.CorrectionSet) ([]Event, error) {
	if c.Held == nil {
		return nil, domainerrors.New(domainerrors.CodeInvalidState, "no submission awaiting corrections")
	}

	correctedKeys := make(map[domain.ProblemKey]bool, len(set.Corrections))
	matchedAny := false
	for _, corr := range set.Corrections {
		k := domain.ProblemKey{DefendantID: corr.DefendantID, OffenceIndex: corr.OffenceIndex, Path: corr.Path}
		correctedKeys[k] = true
	}

	freshErrors := make(map[domain.ProblemKey][]domain.Problem)
	for _, p := range domain.Errors(fresh) {
		freshErrors[p.Key()] = append(freshErrors[p.Key()], p)
	}

	var (
		remaining []domain.Problem
		seenKeys  = make(map[domain.ProblemKey]bool)
	)
	for _, p := range domain.Errors(c.Held.Problems) {
		k := p.Key()
		if correctedKeys[k] {
			matchedAny = true
			if !seenKeys[k] {
				remaining = append(remaining, freshErrors[k]...)
			}
		} else {
			remaining = append(remaining, p)
		}
		seenKeys[k] = true
	}
	if !matchedAny {
		return nil, domainerrors.New(domainerrors.CodeInvalidInput, "corrections address no outstanding problems")
	}

	events := passedDefendants(domain.Errors(c.Held.Problems), remaining, corrected.CaseID)
	warnings := domain.Warnings(fresh)

	if len(remaining) == 0 {
		admitted, err := c.admitSubmission(corrected, warnings)
		if err != nil {
			return nil, err
		}
		events = append(events, admitted...)
		return append(events, ValidationCompleted{CaseID: corrected.CaseID}), nil
	}

	return append(events, CaseValidationFailed{
		CaseID:     corrected.CaseID,
		Submission: corrected,
		Problems:   append(remaining, warnings...),
	}), nil
}

// passedDefendants emits DefendantValidationPassed for every defendant whose
// blocking problems all cleared in this cycle.
func passedDefendants(before, after []domain.Problem, caseID string) []Event {
	had := make(map[string]bool)
	for _, p := range before {
		if p.DefendantID != "" {
			had[p.DefendantID] = true
		}
	}
	still := make(map[string]bool)
	for _, p := range after {
		if p.DefendantID != "" {
			still[p.DefendantID] = true
		}
	}
	var events []Event
	for _, p := range before {
		id := p.DefendantID
		if id == "" || !had[id] || still[id] {
			continue
		}
		had[id] = false
		events = append(events, DefendantValidationPassed{CaseID: caseID, DefendantID: id})
	}
	return events
}
