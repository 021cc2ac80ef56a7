package domain

import "time"

// MaterialVersion tags the two material schema generations. Routing is by
// this explicit tag, never by shape inspection.
type MaterialVersion string

const (
	MaterialV1 MaterialVersion = "v1"
	MaterialV2 MaterialVersion = "v2"
)

// Material is a document attached to a case. Exactly one of V1/V2 is set,
// matching the Version tag.
type Material struct {
	Version      MaterialVersion   `json:"version"`
	ID           string            `json:"id"`
	DocumentType string            `json:"documentType"`
	ContentType  string            `json:"contentType"`
	V1           *MaterialV1Detail `json:"v1,omitempty"`
	V2           *MaterialV2Detail `json:"v2,omitempty"`
}

// MaterialV1Detail is the flat first-generation shape.
type MaterialV1Detail struct {
	FileStoreID string `json:"fileStoreId"`
	DefendantID string `json:"defendantId,omitempty"`
}

// MaterialV2Detail is the richer second-generation shape with
// CPS-organisation-aware routing and a prosecution case subject for
// document-to-defendant matching.
type MaterialV2Detail struct {
	ExhibitReference string       `json:"exhibitReference,omitempty"`
	CPSOrgCode       string       `json:"cpsOrgCode,omitempty"`
	Subject          *CaseSubject `json:"subject,omitempty"`
}

// CaseSubject carries the identity details used to associate a scanned
// document with a known defendant.
type CaseSubject struct {
	FirstName   string     `json:"firstName,omitempty"`
	Surname     string     `json:"surname,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
}

// PendingMaterial is a material queued while the case is not yet accepted.
type PendingMaterial struct {
	Material   Material  `json:"material"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// DocSubject returns the identity details for document matching, or nil when
// the material carries no defendant context.
func (m Material) DocSubject() *CaseSubject {
	if m.Version == MaterialV2 && m.V2 != nil {
		return m.V2.Subject
	}
	return nil
}
