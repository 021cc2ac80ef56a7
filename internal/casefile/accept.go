package casefile

import (
	"context"

	"caseflow/internal/refdata"
	domainerrors "caseflow/pkg/domain-errors"
)

// AcceptanceDetails carries the downstream outcome attached to acceptance.
type AcceptanceDetails struct {
	ReferredToCourt bool `json:"referredToCourt,omitempty"`
}

// DecideAccept flips the acceptance flag and flushes the pending material
// queue in arrival order, validating each material now that the case is
// accepted. Accepting an already accepted case is a no-op.
func (c *Case) DecideAccept(ctx context.Context, gw refdata.Gateway, details AcceptanceDetails) ([]Event, error) {
	if !c.Exists() {
		return nil, domainerrors.New(domainerrors.CodeInvalidState, "case has not been received")
	}
	if c.Accepted {
		return nil, nil
	}

	events := []Event{CaseAccepted{CaseID: c.ID, ReferredToCourt: details.ReferredToCourt}}
	for _, pm := range c.PendingMaterials {
		resolved, err := c.resolveMaterial(ctx, gw, pm.Material)
		if err != nil {
			return nil, err
		}
		events = append(events, resolved...)
	}
	return events, nil
}

// DecideEject removes the case from further processing. Repeat ejections are
// a no-op.
func (c *Case) DecideEject() ([]Event, error) {
	if c.Status == StatusEjected {
		return nil, nil
	}
	if c.Status == StatusUninitialized {
		return nil, domainerrors.New(domainerrors.CodeNotFound, "case does not exist")
	}
	return []Event{CaseEjected{CaseID: c.ID}}, nil
}

// DecideFilter prunes the case's materials. Filtering always succeeds and is
// idempotent: filtering an already filtered case changes nothing.
func (c *Case) DecideFilter() ([]Event, error) {
	if c.Status == StatusUninitialized {
		return nil, domainerrors.New(domainerrors.CodeNotFound, "case does not exist")
	}
	return []Event{CaseFiltered{CaseID: c.ID}}, nil
}
