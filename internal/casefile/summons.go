package casefile

import (
	domainerrors "caseflow/pkg/domain-errors"
	stringsutil "caseflow/pkg/platform/strings"
)

// DecideApproveSummons merges a parked batch into the case. When the case was
// created solely by parked submissions, approval also materialises the case
// from the batch's submission, so the receive event precedes the approval.
func (c *Case) DecideApproveSummons(applicationID string, details ApprovalDetails) ([]Event, error) {
	if !c.Active() {
		return nil, domainerrors.New(domainerrors.CodeInvalidState, "case is closed to summons decisions")
	}
	batch, ok := c.Batch(applicationID)
	if !ok {
		return nil, domainerrors.New(domainerrors.CodeNotFound, "unknown summons application")
	}

	var events []Event
	if !c.Exists() {
		received := CaseReceived{
			CaseID:         batch.Submission.CaseID,
			Channel:        batch.Submission.Channel,
			InitiationCode: batch.Submission.InitiationCode,
			SJP:            batch.Submission.SJP,
			CaseMarkers:    batch.Submission.CaseMarkers,
			CPSOrgCode:     batch.Submission.CPSOrgCode,
		}
		if len(batch.Warnings) > 0 {
			events = append(events, CaseReceivedWithWarnings{CaseReceived: received, Warnings: batch.Warnings})
		} else {
			events = append(events, received)
		}
	}
	return append(events, SummonsApplicationApproved{
		CaseID:        c.caseIDOr(batch.Submission.CaseID),
		ApplicationID: applicationID,
		Defendants:    batch.Defendants,
		Details:       details,
	}), nil
}

// DecideRejectSummons discards a parked batch. Only that batch's defendants
// leave the working set; a case that was never received and holds nothing
// else reverts to non-existence via the reducer.
func (c *Case) DecideRejectSummons(applicationID string, reasons []string) ([]Event, error) {
	if !c.Active() {
		return nil, domainerrors.New(domainerrors.CodeInvalidState, "case is closed to summons decisions")
	}
	batch, ok := c.Batch(applicationID)
	if !ok {
		return nil, domainerrors.New(domainerrors.CodeNotFound, "unknown summons application")
	}

	ids := make([]string, 0, len(batch.Defendants))
	for _, d := range batch.Defendants {
		ids = append(ids, d.ID)
	}
	return []Event{SummonsApplicationRejected{
		CaseID:        c.caseIDOr(batch.Submission.CaseID),
		ApplicationID: applicationID,
		DefendantIDs:  ids,
		Reasons:       stringsutil.DedupeAndTrim(reasons),
	}}, nil
}

func (c *Case) caseIDOr(fallback string) string {
	if c.ID != "" {
		return c.ID
	}
	return fallback
}
