package casefile

import (
	"github.com/google/uuid"

	"caseflow/internal/domain"
	"caseflow/internal/match"
	domainerrors "caseflow/pkg/domain-errors"
)

// DecideReceive computes the events for an enriched submission and its
// validation problems. Blocking problems hold the submission for correction;
// otherwise defendants are deduplicated, matched against the case, and either
// received, added, or parked for summons approval.
func (c *Case) DecideReceive(sub domain.Submission, problems []domain.Problem) ([]Event, error) {
	if !c.Active() {
		return nil, domainerrors.New(domainerrors.CodeInvalidState, "case is closed to submissions")
	}

	if c.Exists() && sub.Channel == domain.ChannelSPI {
		if reason, conflict := c.sjpConflict(sub); conflict {
			return []Event{CaseUnsupported{CaseID: c.ID, Reason: reason}}, nil
		}
	}

	if errs := domain.Errors(problems); len(errs) > 0 {
		return c.holdSubmission(sub, problems), nil
	}
	return c.admitSubmission(sub, domain.Warnings(problems))
}

func (c *Case) sjpConflict(sub domain.Submission) (string, bool) {
	switch {
	case c.SJP && sub.SJP:
		return "duplicate single justice procedure submission", true
	case c.SJP != sub.SJP:
		return "initiation code family conflict with existing case", true
	}
	return "", false
}

// holdSubmission emits one informational event per defendant with blocking
// problems, then the holding event carrying the full submission and every
// problem, warnings included, so corrections can resurface them later.
func (c *Case) holdSubmission(sub domain.Submission, problems []domain.Problem) []Event {
	var events []Event
	for _, d := range sub.Defendants {
		var blocking []domain.Problem
		for _, p := range problems {
			if p.DefendantID == d.ID && p.Severity == domain.SeverityError {
				blocking = append(blocking, p)
			}
		}
		if len(blocking) > 0 {
			events = append(events, DefendantValidationFailed{
				CaseID:      sub.CaseID,
				DefendantID: d.ID,
				Problems:    blocking,
			})
		}
	}
	return append(events, CaseValidationFailed{
		CaseID:     sub.CaseID,
		Submission: sub,
		Problems:   problems,
	})
}

// admitSubmission handles the non-blocked path: dedup, match, and route to
// received / added / parked.
func (c *Case) admitSubmission(sub domain.Submission, warnings []domain.Problem) ([]Event, error) {
	unique, dupWithin := match.DedupeSubmission(sub.Defendants)

	var (
		fresh           []domain.Defendant
		updated         []domain.Defendant
		identityChanged []string
		duplicate       = dupWithin
	)
	for _, d := range unique {
		r := match.Match(c.Defendants, d)
		switch r.Outcome {
		case match.OutcomeUpdate:
			existing := c.defendantByID(r.MatchedID)
			merged, changed := existing.Merge(d)
			if changed {
				identityChanged = append(identityChanged, merged.ID)
			}
			updated = append(updated, merged)
		case match.OutcomeDuplicate:
			duplicate = true
		default:
			fresh = append(fresh, d)
		}
	}

	if sub.SummonsRequired && sub.Channel == domain.ChannelSPI && len(fresh) > 0 {
		return c.parkForSummons(sub, fresh, updated, identityChanged, warnings, duplicate), nil
	}

	admitted := append(append([]domain.Defendant{}, fresh...), updated...)
	if !c.Exists() {
		received := CaseReceived{
			CaseID:              sub.CaseID,
			Channel:             sub.Channel,
			InitiationCode:      sub.InitiationCode,
			SJP:                 sub.SJP,
			CaseMarkers:         sub.CaseMarkers,
			CPSOrgCode:          sub.CPSOrgCode,
			Defendants:          admitted,
			DuplicateDefendants: duplicate,
		}
		if len(warnings) > 0 {
			return []Event{CaseReceivedWithWarnings{CaseReceived: received, Warnings: warnings}}, nil
		}
		return []Event{received}, nil
	}

	if len(admitted) == 0 && !duplicate {
		return nil, nil
	}
	return []Event{DefendantsAdded{
		CaseID:              sub.CaseID,
		Defendants:          admitted,
		Warnings:            warnings,
		DuplicateDefendants: duplicate,
		IdentityChanged:     identityChanged,
	}}, nil
}

// parkForSummons holds new defendants under an application id. A still
// undecided application keeps accepting defendants; once any decision has
// been taken a fresh id is minted per submission.
func (c *Case) parkForSummons(sub domain.Submission, fresh, updated []domain.Defendant, identityChanged []string, warnings []domain.Problem, duplicate bool) []Event {
	appID := c.OpenApplicationID
	if appID == "" || c.SummonsDecisionSeen {
		appID = uuid.NewString()
	}
	events := []Event{DefendantsParked{
		CaseID:        sub.CaseID,
		ApplicationID: appID,
		Submission:    sub,
		Defendants:    fresh,
		Warnings:      warnings,
	}}
	if c.Exists() && (len(updated) > 0 || duplicate) {
		events = append(events, DefendantsAdded{
			CaseID:              sub.CaseID,
			Defendants:          updated,
			DuplicateDefendants: duplicate,
			IdentityChanged:     identityChanged,
		})
	}
	return events
}
