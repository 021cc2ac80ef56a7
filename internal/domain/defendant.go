package domain

import (
	"strings"
	"time"
)

// Defendant is a person or organisation prosecuted on a case. Identity for
// deduplication is never the surrogate ID alone: the strict feed may resend
// the same real-world defendant under a fresh ID.
type Defendant struct {
	ID                  string          `json:"id"`
	ProsecutorReference string          `json:"prosecutorReference,omitempty"`
	FirstName           string          `json:"firstName,omitempty"`
	Surname             string          `json:"surname,omitempty"`
	OrganisationName    string          `json:"organisationName,omitempty"`
	DateOfBirth         *time.Time      `json:"dateOfBirth,omitempty"`
	ArrestSummonsNumber string          `json:"arrestSummonsNumber,omitempty"`
	InitiationCode      string          `json:"initiationCode,omitempty"`
	CustodyStatus       string          `json:"custodyStatus,omitempty"`
	Offences            []Offence       `json:"offences,omitempty"`
	Hearing             *HearingDetails `json:"hearing,omitempty"`
}

// Offence carries the dates validated against reference data. EffectiveFrom
// and EffectiveTo are enriched from the offence register and bound the window
// within which the committed date must fall.
type Offence struct {
	Code          string     `json:"code"`
	CommittedDate time.Time  `json:"committedDate"`
	ChargeDate    time.Time  `json:"chargeDate,omitempty"`
	ArrestDate    time.Time  `json:"arrestDate,omitempty"`
	EffectiveFrom *time.Time `json:"effectiveFrom,omitempty"`
	EffectiveTo   *time.Time `json:"effectiveTo,omitempty"`
}

// HearingDetails records the listed hearing for a defendant.
type HearingDetails struct {
	Date        time.Time `json:"date"`
	CourtCentre string    `json:"courtCentre,omitempty"`
}

// NormalizeName collapses case and surrounding whitespace for the matching
// heuristic.
func NormalizeName(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), " "))
}

// SameDOB compares two optional dates of birth by calendar day.
func SameDOB(a, b *time.Time) bool {
	if a == nil || b == nil {
		return false
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// EarliestCommittedDate returns the earliest offence committed date, or the
// zero time when the defendant has no offences.
func (d Defendant) EarliestCommittedDate() time.Time {
	var earliest time.Time
	for _, off := range d.Offences {
		if off.CommittedDate.IsZero() {
			continue
		}
		if earliest.IsZero() || off.CommittedDate.Before(earliest) {
			earliest = off.CommittedDate
		}
	}
	return earliest
}

// Merge folds non-empty attributes of incoming into the receiver, returning
// the merged defendant and whether an identity-bearing field (name, DOB)
// changed. Used for UPDATE outcomes from the matcher.
func (d Defendant) Merge(incoming Defendant) (Defendant, bool) {
	identityChanged := false
	merged := d

	if incoming.FirstName != "" && incoming.FirstName != d.FirstName {
		merged.FirstName = incoming.FirstName
		identityChanged = true
	}
	if incoming.Surname != "" && incoming.Surname != d.Surname {
		merged.Surname = incoming.Surname
		identityChanged = true
	}
	if incoming.DateOfBirth != nil && !SameDOB(incoming.DateOfBirth, d.DateOfBirth) {
		merged.DateOfBirth = incoming.DateOfBirth
		identityChanged = true
	}
	if incoming.OrganisationName != "" {
		merged.OrganisationName = incoming.OrganisationName
	}
	if incoming.ProsecutorReference != "" {
		merged.ProsecutorReference = incoming.ProsecutorReference
	}
	if incoming.ArrestSummonsNumber != "" {
		merged.ArrestSummonsNumber = incoming.ArrestSummonsNumber
	}
	if incoming.CustodyStatus != "" {
		merged.CustodyStatus = incoming.CustodyStatus
	}
	if len(incoming.Offences) > 0 {
		merged.Offences = incoming.Offences
	}
	if incoming.Hearing != nil {
		merged.Hearing = incoming.Hearing
	}
	return merged, identityChanged
}
