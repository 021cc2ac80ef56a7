package domain

// Submission is a raw case submission from an upstream channel, prior to or
// after enrichment by the validation engine.
type Submission struct {
	CaseID         string      `json:"caseId"`
	Channel        Channel     `json:"channel"`
	InitiationCode string      `json:"initiationCode"`
	CaseMarkers    []string    `json:"caseMarkers,omitempty"`
	CPSOrgCode     string      `json:"cpsOrgCode,omitempty"`
	ProsecutorCode string      `json:"prosecutorCode,omitempty"`
	Defendants     []Defendant `json:"defendants"`

	// Enriched by the validation engine from the initiation code register.
	SJP             bool `json:"sjp"`
	SummonsRequired bool `json:"summonsRequired"`
}

// DefendantByID returns a pointer to the submission defendant with the given
// ID, or nil.
func (s *Submission) DefendantByID(id string) *Defendant {
	for i := range s.Defendants {
		if s.Defendants[i].ID == id {
			return &s.Defendants[i]
		}
	}
	return nil
}

// Correction addresses one previously reported problem. DefendantID is empty
// for case-level fields; OffenceIndex is negative for fields outside an
// offence.
type Correction struct {
	DefendantID  string    `json:"defendantId,omitempty"`
	OffenceIndex int       `json:"offenceIndex"`
	Path         FieldPath `json:"path"`
	NewValue     string    `json:"newValue"`
}

// CorrectionSet groups the corrections delivered by one command invocation.
type CorrectionSet struct {
	CaseID      string       `json:"caseId"`
	Corrections []Correction `json:"corrections"`
}
