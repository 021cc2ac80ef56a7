package casefile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"caseflow/internal/domain"
	"caseflow/internal/match"
	"caseflow/internal/refdata"
	domainerrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/platform/sentinel"
)

// DefaultPendingMaterialTimeout bounds how long a queued material waits for
// case acceptance before it expires.
const DefaultPendingMaterialTimeout = 30 * 24 * time.Hour

// DecideAddMaterial routes one material. Before acceptance every material is
// queued as pending regardless of validity; after acceptance it is validated
// against the document type register immediately.
func (c *Case) DecideAddMaterial(ctx context.Context, gw refdata.Gateway, m domain.Material, now time.Time) ([]Event, error) {
	if !c.Active() {
		return nil, domainerrors.New(domainerrors.CodeInvalidState, "case is closed to materials")
	}
	if err := checkMaterialShape(m); err != nil {
		return nil, err
	}
	if !c.Accepted {
		return []Event{MaterialPending{CaseID: c.ID, Material: m, ReceivedAt: now}}, nil
	}
	ev, err := c.resolveMaterial(ctx, gw, m)
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// DecideAddMaterials routes a batch in submission order.
func (c *Case) DecideAddMaterials(ctx context.Context, gw refdata.Gateway, ms []domain.Material, now time.Time) ([]Event, error) {
	var events []Event
	for _, m := range ms {
		ev, err := c.DecideAddMaterial(ctx, gw, m, now)
		if err != nil {
			return nil, err
		}
		events = append(events, ev...)
	}
	return events, nil
}

// DecideExpirePendingMaterial converts a material still pending past the
// timeout into a rejection. Unknown or already-resolved materials are a
// no-op, so the sweep is safe to re-run.
func (c *Case) DecideExpirePendingMaterial(materialID string, now time.Time, timeout time.Duration) ([]Event, error) {
	pm, ok := c.PendingMaterial(materialID)
	if !ok {
		return nil, nil
	}
	if now.Sub(pm.ReceivedAt) < timeout {
		return nil, nil
	}
	return []Event{MaterialRejected{
		CaseID:     c.ID,
		MaterialID: materialID,
		Version:    pm.Material.Version,
		ErrorCode:  domain.ProblemPendingMaterialExpired,
		Reason:     fmt.Sprintf("pending since %s", pm.ReceivedAt.Format(time.RFC3339)),
	}}, nil
}

// resolveMaterial validates a material against the document type register and
// attaches it, rejecting on unknown type or disallowed content type.
// Rejections are business outcomes; only reference-data unavailability is a
// command failure.
func (c *Case) resolveMaterial(ctx context.Context, gw refdata.Gateway, m domain.Material) ([]Event, error) {
	access, err := gw.DocumentTypeAccess(ctx, m.DocumentType)
	if errors.Is(err, sentinel.ErrNotFound) {
		return []Event{MaterialRejected{
			CaseID:     c.ID,
			MaterialID: m.ID,
			Version:    m.Version,
			ErrorCode:  domain.ProblemDocumentTypeUnknown,
			Reason:     fmt.Sprintf("document type %q is not registered", m.DocumentType),
		}}, nil
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnavailable, "document type lookup")
	}
	if !access.Allows(m.ContentType) {
		return []Event{MaterialRejected{
			CaseID:     c.ID,
			MaterialID: m.ID,
			Version:    m.Version,
			ErrorCode:  domain.ProblemInvalidFileType,
			Reason:     fmt.Sprintf("content type %q not allowed for %s", m.ContentType, m.DocumentType),
		}}, nil
	}

	added := MaterialAdded{CaseID: c.ID, Material: m}
	if m.Version == domain.MaterialV1 && m.V1.DefendantID != "" {
		added.DefendantID = m.V1.DefendantID
		return []Event{added}, nil
	}
	switch r := match.MatchDocument(c.Defendants, m.DocSubject()); r.Outcome {
	case match.DocMatched:
		added.DefendantID = r.DefendantID
		return []Event{added}, nil
	case match.DocPending:
		return []Event{added, DocumentReviewRequired{CaseID: c.ID, MaterialID: m.ID}}, nil
	default:
		return []Event{added}, nil
	}
}

// checkMaterialShape enforces that the detail payload matches the version
// tag. Routing is by tag only, so a mismatch is a caller error.
func checkMaterialShape(m domain.Material) error {
	switch m.Version {
	case domain.MaterialV1:
		if m.V1 == nil || m.V2 != nil {
			return domainerrors.New(domainerrors.CodeInvalidInput, "v1 material must carry exactly the v1 detail")
		}
	case domain.MaterialV2:
		if m.V2 == nil || m.V1 != nil {
			return domainerrors.New(domainerrors.CodeInvalidInput, "v2 material must carry exactly the v2 detail")
		}
	default:
		return domainerrors.New(domainerrors.CodeUnsupported, fmt.Sprintf("unknown material version %q", m.Version))
	}
	if m.ID == "" || m.DocumentType == "" {
		return domainerrors.New(domainerrors.CodeInvalidInput, "material id and document type are required")
	}
	return nil
}
