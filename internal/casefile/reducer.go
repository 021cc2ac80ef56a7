package casefile

import "caseflow/internal/domain"

// Apply folds one event into the aggregate. It is pure over its inputs: no
// clocks, no IO, no randomness, so replaying the same history always yields
// the same state.
func (c *Case) Apply(e Event) {
	switch ev := e.(type) {
	case CaseReceived:
		c.applyReceived(ev, StatusReceived)
	case CaseReceivedWithWarnings:
		c.applyReceived(ev.CaseReceived, StatusReceivedWarnings)
	case CaseValidationFailed:
		// A held increment on an established case blocks only the increment;
		// the case keeps its received status so acceptance and further
		// submissions stay possible while corrections are outstanding.
		if c.Status == StatusUninitialized || c.Status == StatusValidationFailed {
			c.Status = StatusValidationFailed
		}
		c.Held = &HeldSubmission{Submission: ev.Submission, Problems: ev.Problems}
	case DefendantValidationFailed:
		// Informational for consumers; held state travels on
		// CaseValidationFailed.
	case DefendantValidationPassed:
		c.clearDefendantProblems(ev.DefendantID)
	case ValidationCompleted:
		c.Held = nil
	case DefendantsAdded:
		c.mergeDefendants(ev.Defendants)
	case DefendantsParked:
		c.applyParked(ev)
	case SummonsApplicationApproved:
		c.mergeDefendants(ev.Defendants)
		c.dropBatch(ev.ApplicationID)
		c.SummonsDecisionSeen = true
		if c.Status == StatusParkedForSummons {
			c.Status = StatusReceived
		}
	case SummonsApplicationRejected:
		c.removeDefendants(ev.DefendantIDs)
		c.dropBatch(ev.ApplicationID)
		c.SummonsDecisionSeen = true
		if c.Status == StatusParkedForSummons && len(c.Summons) == 0 && len(c.Defendants) == 0 {
			c.Status = StatusUninitialized
		}
	case CaseUnsupported:
		c.Status = StatusRejected
	case CaseAccepted:
		c.Accepted = true
		c.ReferredToCourt = ev.ReferredToCourt
	case CaseEjected:
		c.Status = StatusEjected
	case CaseFiltered:
		c.PendingMaterials = nil
		c.Materials = nil
		c.ReviewRequired = nil
	case MaterialPending:
		c.removePendingMaterial(ev.Material.ID)
		c.PendingMaterials = append(c.PendingMaterials, domain.PendingMaterial{
			Material:   ev.Material,
			ReceivedAt: ev.ReceivedAt,
		})
	case MaterialAdded:
		c.removePendingMaterial(ev.Material.ID)
		c.Materials = append(c.Materials, ev.Material)
	case MaterialRejected:
		c.removePendingMaterial(ev.MaterialID)
	case DocumentReviewRequired:
		c.ReviewRequired = append(c.ReviewRequired, ev.MaterialID)
	}
	c.Version++
}

func (c *Case) applyReceived(ev CaseReceived, status Status) {
	c.ID = ev.CaseID
	c.Channel = ev.Channel
	c.InitiationCode = ev.InitiationCode
	c.SJP = ev.SJP
	c.CaseMarkers = ev.CaseMarkers
	c.CPSOrgCode = ev.CPSOrgCode
	c.mergeDefendants(ev.Defendants)
	c.Status = status
	c.Held = nil
}

func (c *Case) applyParked(ev DefendantsParked) {
	b, ok := c.Summons[ev.ApplicationID]
	if !ok {
		b = SummonsBatch{ApplicationID: ev.ApplicationID, Submission: ev.Submission}
	}
	for _, d := range ev.Defendants {
		if !containsDefendant(b.Defendants, d.ID) {
			b.Defendants = append(b.Defendants, d)
		}
	}
	b.Warnings = append(b.Warnings, ev.Warnings...)
	c.putBatch(b)
	if c.OpenApplicationID == "" && !c.SummonsDecisionSeen {
		c.OpenApplicationID = ev.ApplicationID
	}
	if c.Status == StatusUninitialized {
		c.Status = StatusParkedForSummons
	}
}

func (c *Case) clearDefendantProblems(defendantID string) {
	if c.Held == nil {
		return
	}
	kept := c.Held.Problems[:0]
	for _, p := range c.Held.Problems {
		if p.DefendantID != defendantID {
			kept = append(kept, p)
		}
	}
	c.Held.Problems = kept
}

func containsDefendant(ds []domain.Defendant, id string) bool {
	for _, d := range ds {
		if d.ID == id {
			return true
		}
	}
	return false
}
