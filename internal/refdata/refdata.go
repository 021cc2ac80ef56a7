// Package refdata defines the consumed interface to the reference data
// services: initiation codes, case markers, offence register, organisational
// units, custody statuses, document type access rules, and prosecutor
// records. All lookups are read-only and keyed.
package refdata

import (
	"context"
	"time"

	"caseflow/internal/domain"
)

// InitiationCode classifies a case's legal track.
type InitiationCode struct {
	Code            string
	Description     string
	SJP             bool
	SummonsRequired bool
	Channels        []domain.Channel
}

// ValidFor reports whether the code is issued on the given channel.
func (ic InitiationCode) ValidFor(ch domain.Channel) bool {
	for _, c := range ic.Channels {
		if c == ch {
			return true
		}
	}
	return false
}

// CaseMarker is a case-level flag resolved against reference data.
type CaseMarker struct {
	Code        string
	Description string
}

// OffenceDefinition carries the effective window for an offence code.
type OffenceDefinition struct {
	Code          string
	Title         string
	EffectiveFrom time.Time
	// EffectiveTo is nil for offences still in force.
	EffectiveTo *time.Time
}

// InEffectOn reports whether the offence was in force on the given date.
func (o OffenceDefinition) InEffectOn(d time.Time) bool {
	if d.Before(o.EffectiveFrom) {
		return false
	}
	if o.EffectiveTo != nil && d.After(*o.EffectiveTo) {
		return false
	}
	return true
}

// OrganisationalUnit is a CPS organisation record.
type OrganisationalUnit struct {
	Code string
	Name string
}

// CustodyStatus is a custody/bail status code.
type CustodyStatus struct {
	Code        string
	Description string
}

// DocumentTypeAccess is the rule set governing material attachment for one
// document type.
type DocumentTypeAccess struct {
	DocumentType        string
	AllowedContentTypes []string
}

// Allows reports whether the content type is permitted for this document type.
func (d DocumentTypeAccess) Allows(contentType string) bool {
	for _, ct := range d.AllowedContentTypes {
		if ct == contentType {
			return true
		}
	}
	return false
}

// Prosecutor is a registered prosecuting authority record.
type Prosecutor struct {
	Code       string
	Name       string
	CPSOrgCode string
}

// Gateway is the read-only reference data contract consumed by validation and
// the material workflow. Implementations must be safe for concurrent use.
// Lookups return sentinel.ErrNotFound (wrapped or bare) for unknown keys and
// sentinel.ErrUnavailable when the backing service cannot be reached.
type Gateway interface {
	InitiationCode(ctx context.Context, code string) (*InitiationCode, error)
	CaseMarker(ctx context.Context, code string) (*CaseMarker, error)
	Offence(ctx context.Context, code string) (*OffenceDefinition, error)
	OrganisationalUnit(ctx context.Context, code string) (*OrganisationalUnit, error)
	CustodyStatus(ctx context.Context, code string) (*CustodyStatus, error)
	DocumentTypeAccess(ctx context.Context, documentType string) (*DocumentTypeAccess, error)
	ProsecutorByCode(ctx context.Context, code string) (*Prosecutor, error)
}
