package domain

// ProblemCode identifies a validation condition. Codes are stable identifiers
// carried on events and referenced by correction commands.
type ProblemCode string

const (
	ProblemInitiationCodeInvalid  ProblemCode = "INITIATION_CODE_INVALID"
	ProblemCaseMarkerUnknown      ProblemCode = "CASE_MARKER_UNKNOWN"
	ProblemCPSOrganisationUnknown ProblemCode = "CPS_ORGANISATION_UNKNOWN"
	ProblemHearingDateInPast      ProblemCode = "HEARING_DATE_IN_PAST"
	ProblemHearingBeforeOffence   ProblemCode = "HEARING_DATE_BEFORE_OFFENCE"
	ProblemChargeDateInFuture     ProblemCode = "CHARGE_DATE_IN_FUTURE"
	ProblemArrestDateInFuture     ProblemCode = "ARREST_DATE_IN_FUTURE"
	ProblemOffenceNotInEffect     ProblemCode = "OFFENCE_NOT_IN_EFFECT"
	ProblemOffenceCodeUnknown     ProblemCode = "OFFENCE_CODE_UNKNOWN"
	ProblemCustodyStatusUnknown   ProblemCode = "CUSTODY_STATUS_UNKNOWN"
	ProblemProsecutorUnknown      ProblemCode = "PROSECUTOR_UNKNOWN"
	ProblemDocumentTypeUnknown    ProblemCode = "DOCUMENT_TYPE_UNKNOWN"
	ProblemInvalidFileType        ProblemCode = "INVALID_FILE_TYPE"
	ProblemPendingMaterialExpired ProblemCode = "PENDING_MATERIAL_EXPIRED"
)

// Severity classifies a validation problem. Errors block inclusion for the
// originating channel; warnings are attached to the success event.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// FieldPath addresses the offending field within a submission. Correction
// commands reference the same paths.
type FieldPath string

const (
	PathInitiationCode FieldPath = "initiation-code"
	PathCaseMarker     FieldPath = "case-marker"
	PathCPSOrgCode     FieldPath = "cps-organisation"
	PathHearingDate    FieldPath = "hearing-date"
	PathChargeDate     FieldPath = "charge-date"
	PathArrestDate     FieldPath = "arrest-date"
	PathCommittedDate  FieldPath = "committed-date"
	PathOffenceCode    FieldPath = "offence-code"
	PathCustodyStatus  FieldPath = "custody-status"
	PathProsecutor     FieldPath = "prosecutor"
)

// Problem is a single validation finding. DefendantID is empty for case-level
// problems; OffenceIndex is negative when the problem is not offence-scoped.
type Problem struct {
	Code         ProblemCode `json:"code"`
	Path         FieldPath   `json:"path"`
	Value        string      `json:"value,omitempty"`
	Severity     Severity    `json:"severity"`
	DefendantID  string      `json:"defendantId,omitempty"`
	OffenceIndex int         `json:"offenceIndex"`
}

// IsCaseLevel reports whether the problem concerns the case rather than a
// defendant.
func (p Problem) IsCaseLevel() bool {
	return p.DefendantID == ""
}

// Key returns the (defendant, offence, path) identity of a problem. Two
// problems with the same key describe the same field, so a correction for
// that field supersedes both.
func (p Problem) Key() ProblemKey {
	return ProblemKey{DefendantID: p.DefendantID, OffenceIndex: p.OffenceIndex, Path: p.Path}
}

// ProblemKey identifies the field a problem is attached to.
type ProblemKey struct {
	DefendantID  string
	OffenceIndex int
	Path         FieldPath
}

// Errors filters problems down to blocking severity.
func Errors(problems []Problem) []Problem {
	var out []Problem
	for _, p := range problems {
		if p.Severity == SeverityError {
			out = append(out, p)
		}
	}
	return out
}

// Warnings filters problems down to warning severity.
func Warnings(problems []Problem) []Problem {
	var out []Problem
	for _, p := range problems {
		if p.Severity == SeverityWarning {
			out = append(out, p)
		}
	}
	return out
}
