package casefile

import (
	"caseflow/internal/domain"
)

// Status is the case lifecycle position derived purely from events.
type Status string

const (
	StatusUninitialized    Status = "uninitialized"
	StatusValidationFailed Status = "validation_failed"
	StatusReceived         Status = "received"
	StatusReceivedWarnings Status = "received_with_warnings"
	StatusParkedForSummons Status = "parked_for_summons_approval"
	StatusRejected         Status = "rejected"
	StatusEjected          Status = "ejected"
)

// HeldSubmission is a blocked submission awaiting corrections, together with
// every problem still outstanding against it.
type HeldSubmission struct {
	Submission domain.Submission `json:"submission"`
	Problems   []domain.Problem  `json:"problems"`
}

// OutstandingErrors returns the blocking subset of the held problems.
func (h *HeldSubmission) OutstandingErrors() []domain.Problem {
	return domain.Errors(h.Problems)
}

// SummonsBatch is one parked group of defendants keyed by application id.
type SummonsBatch struct {
	ApplicationID string             `json:"applicationId"`
	Submission    domain.Submission  `json:"submission"`
	Defendants    []domain.Defendant `json:"defendants"`
	Warnings      []domain.Problem   `json:"warnings,omitempty"`
}

// Case is the replayed aggregate state. It is JSON-serializable so snapshots
// can persist it verbatim.
type Case struct {
	ID             string         `json:"id"`
	Channel        domain.Channel `json:"channel,omitempty"`
	InitiationCode string         `json:"initiationCode,omitempty"`
	SJP            bool           `json:"sjp,omitempty"`
	CaseMarkers    []string       `json:"caseMarkers,omitempty"`
	CPSOrgCode     string         `json:"cpsOrgCode,omitempty"`

	Status          Status `json:"status"`
	Accepted        bool   `json:"accepted"`
	ReferredToCourt bool   `json:"referredToCourt,omitempty"`

	Defendants       []domain.Defendant       `json:"defendants,omitempty"`
	PendingMaterials []domain.PendingMaterial `json:"pendingMaterials,omitempty"`
	Materials        []domain.Material        `json:"materials,omitempty"`
	ReviewRequired   []string                 `json:"reviewRequired,omitempty"`

	Held *HeldSubmission `json:"held,omitempty"`

	Summons             map[string]SummonsBatch `json:"summons,omitempty"`
	OpenApplicationID   string                  `json:"openApplicationId,omitempty"`
	SummonsDecisionSeen bool                    `json:"summonsDecisionSeen"`

	// Version is the number of events applied. The store uses it as the
	// optimistic concurrency token on append.
	Version int64 `json:"version"`
}

// NewCase returns the empty aggregate for an id.
func NewCase(id string) *Case {
	return &Case{ID: id, Status: StatusUninitialized}
}

// Replay folds a history into a fresh aggregate.
func Replay(id string, events []Event) *Case {
	c := NewCase(id)
	for _, e := range events {
		c.Apply(e)
	}
	return c
}

// Exists reports whether the case has been received (directly or via an
// approved summons application).
func (c *Case) Exists() bool {
	switch c.Status {
	case StatusReceived, StatusReceivedWarnings:
		return true
	}
	return false
}

// Active reports whether the case still takes commands.
func (c *Case) Active() bool {
	return c.Status != StatusEjected && c.Status != StatusRejected
}

func (c *Case) defendantByID(id string) *domain.Defendant {
	for i := range c.Defendants {
		if c.Defendants[i].ID == id {
			return &c.Defendants[i]
		}
	}
	return nil
}

// mergeDefendants upserts by id. Replay of the same event is idempotent
// because a second upsert of an identical defendant changes nothing.
func (c *Case) mergeDefendants(ds []domain.Defendant) {
	for _, d := range ds {
		if existing := c.defendantByID(d.ID); existing != nil {
			*existing = d
			continue
		}
		c.Defendants = append(c.Defendants, d)
	}
}

func (c *Case) removeDefendants(ids []string) {
	if len(ids) == 0 {
		return
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := c.Defendants[:0]
	for _, d := range c.Defendants {
		if _, ok := drop[d.ID]; !ok {
			kept = append(kept, d)
		}
	}
	c.Defendants = kept
	if len(c.Defendants) == 0 {
		c.Defendants = nil
	}
}

func (c *Case) removePendingMaterial(materialID string) *domain.PendingMaterial {
	for i := range c.PendingMaterials {
		if c.PendingMaterials[i].Material.ID == materialID {
			pm := c.PendingMaterials[i]
			c.PendingMaterials = append(c.PendingMaterials[:i], c.PendingMaterials[i+1:]...)
			if len(c.PendingMaterials) == 0 {
				c.PendingMaterials = nil
			}
			return &pm
		}
	}
	return nil
}

// PendingMaterial returns the queued material with the given id, if any.
func (c *Case) PendingMaterial(materialID string) (domain.PendingMaterial, bool) {
	for _, pm := range c.PendingMaterials {
		if pm.Material.ID == materialID {
			return pm, true
		}
	}
	return domain.PendingMaterial{}, false
}

// Batch returns the parked summons batch for an application id.
func (c *Case) Batch(applicationID string) (SummonsBatch, bool) {
	b, ok := c.Summons[applicationID]
	return b, ok
}

func (c *Case) putBatch(b SummonsBatch) {
	if c.Summons == nil {
		c.Summons = make(map[string]SummonsBatch)
	}
	c.Summons[b.ApplicationID] = b
}

func (c *Case) dropBatch(applicationID string) {
	delete(c.Summons, applicationID)
	if len(c.Summons) == 0 {
		c.Summons = nil
	}
	if c.OpenApplicationID == applicationID {
		c.OpenApplicationID = ""
	}
}
