// Package casefile implements the event-sourced case aggregate. A case's
// authoritative state is never stored directly: commands compute new domain
// events from replayed state, and the reducer in reducer.go folds events back
// into state. Events are the sole mechanism of state mutation.
package casefile

import (
	"time"

	"caseflow/internal/domain"
)

// EventType identifies an event shape on the wire and in the store.
type EventType string

const (
	TypeCaseReceived              EventType = "case-received"
	TypeCaseReceivedWithWarnings  EventType = "case-received-with-warnings"
	TypeCaseValidationFailed      EventType = "case-validation-failed"
	TypeDefendantValidationFailed EventType = "defendant-validation-failed"
	TypeDefendantValidationPassed EventType = "defendant-validation-passed"
	TypeValidationCompleted       EventType = "validation-completed"
	TypeDefendantsAdded           EventType = "defendants-added"
	TypeDefendantsParked          EventType = "defendants-parked-for-summons-approval"
	TypeSummonsApproved           EventType = "summons-application-approved"
	TypeSummonsRejected           EventType = "summons-application-rejected"
	TypeCaseUnsupported           EventType = "case-unsupported"
	TypeCaseAccepted              EventType = "case-accepted"
	TypeCaseEjected               EventType = "case-ejected"
	TypeCaseFiltered              EventType = "case-filtered"
	TypeMaterialPending           EventType = "material-pending"
	TypeMaterialAdded             EventType = "material-added"
	TypeMaterialRejected          EventType = "material-rejected"
	TypeDocumentReviewRequired    EventType = "case-document-review-required"
)

// Event is the sum type of everything the aggregate can emit.
type Event interface {
	EventType() EventType
}

// CaseReceived records successful first acceptance of a submission into a
// case. Defendants carried here are post-dedup.
type CaseReceived struct {
	CaseID              string             `json:"caseId"`
	Channel             domain.Channel     `json:"channel"`
	InitiationCode      string             `json:"initiationCode"`
	SJP                 bool               `json:"sjp"`
	CaseMarkers         []string           `json:"caseMarkers,omitempty"`
	CPSOrgCode          string             `json:"cpsOrgCode,omitempty"`
	Defendants          []domain.Defendant `json:"defendants"`
	DuplicateDefendants bool               `json:"duplicateDefendants,omitempty"`
}

func (CaseReceived) EventType() EventType { return TypeCaseReceived }

// CaseReceivedWithWarnings is CaseReceived with non-blocking findings
// attached. Warnings are never silently dropped.
type CaseReceivedWithWarnings struct {
	CaseReceived
	Warnings []domain.Problem `json:"warnings"`
}

func (CaseReceivedWithWarnings) EventType() EventType { return TypeCaseReceivedWithWarnings }

// CaseValidationFailed records a blocked submission held for correction. It
// carries the full enriched submission and every outstanding problem so the
// held state is replay-derivable. It is re-emitted by partial corrections
// with the corrected submission and the remaining problems.
type CaseValidationFailed struct {
	CaseID     string            `json:"caseId"`
	Submission domain.Submission `json:"submission"`
	Problems   []domain.Problem  `json:"problems"`
}

func (CaseValidationFailed) EventType() EventType { return TypeCaseValidationFailed }

// DefendantValidationFailed surfaces one defendant's blocking problems to
// consumers. State-wise it is informational: the held submission travels on
// CaseValidationFailed.
type DefendantValidationFailed struct {
	CaseID      string           `json:"caseId"`
	DefendantID string           `json:"defendantId"`
	Problems    []domain.Problem `json:"problems"`
}

func (DefendantValidationFailed) EventType() EventType { return TypeDefendantValidationFailed }

// DefendantValidationPassed records that every outstanding problem for one
// defendant has cleared.
type DefendantValidationPassed struct {
	CaseID      string `json:"caseId"`
	DefendantID string `json:"defendantId"`
}

func (DefendantValidationPassed) EventType() EventType { return TypeDefendantValidationPassed }

// ValidationCompleted closes a correction cycle: every problem for the held
// submission has cleared and the re-derived acceptance events precede it.
type ValidationCompleted struct {
	CaseID string `json:"caseId"`
}

func (ValidationCompleted) EventType() EventType { return TypeValidationCompleted }

// DefendantsAdded records new or updated defendants merging into an existing
// case. Updated defendants appear post-merge under their existing IDs.
// IdentityChanged lists the defendants whose name or date of birth changed
// during the merge; those records go back through validation.
type DefendantsAdded struct {
	CaseID              string             `json:"caseId"`
	Defendants          []domain.Defendant `json:"defendants"`
	Warnings            []domain.Problem   `json:"warnings,omitempty"`
	DuplicateDefendants bool               `json:"duplicateDefendants,omitempty"`
	IdentityChanged     []string           `json:"identityChanged,omitempty"`
}

func (DefendantsAdded) EventType() EventType { return TypeDefendantsAdded }

// DefendantsParked records defendants held in a summons batch awaiting an
// approval decision. The full submission rides along so approval of a
// not-yet-created case can replay it.
type DefendantsParked struct {
	CaseID        string             `json:"caseId"`
	ApplicationID string             `json:"applicationId"`
	Submission    domain.Submission  `json:"submission"`
	Defendants    []domain.Defendant `json:"defendants"`
	Warnings      []domain.Problem   `json:"warnings,omitempty"`
}

func (DefendantsParked) EventType() EventType { return TypeDefendantsParked }

// ApprovalDetails carries the outcome of a summons application decision.
// Details are intrinsic to the event; they are never recomputed later.
type ApprovalDetails struct {
	ServiceFlags []string `json:"serviceFlags,omitempty"`
	CostPence    int64    `json:"costPence,omitempty"`
	Suppressed   bool     `json:"suppressed,omitempty"`
}

// SummonsApplicationApproved merges a parked batch's defendants into the
// case.
type SummonsApplicationApproved struct {
	CaseID        string             `json:"caseId"`
	ApplicationID string             `json:"applicationId"`
	Defendants    []domain.Defendant `json:"defendants"`
	Details       ApprovalDetails    `json:"details"`
}

func (SummonsApplicationApproved) EventType() EventType { return TypeSummonsApproved }

// SummonsApplicationRejected discards a parked batch. Only the listed
// defendants leave the working set; other batches are untouched.
type SummonsApplicationRejected struct {
	CaseID        string   `json:"caseId"`
	ApplicationID string   `json:"applicationId"`
	DefendantIDs  []string `json:"defendantIds"`
	Reasons       []string `json:"reasons,omitempty"`
}

func (SummonsApplicationRejected) EventType() EventType { return TypeSummonsRejected }

// CaseUnsupported records a terminal incompatibility, such as a conflicting
// initiation code family. It is not retried automatically.
type CaseUnsupported struct {
	CaseID string `json:"caseId"`
	Reason string `json:"reason"`
}

func (CaseUnsupported) EventType() EventType { return TypeCaseUnsupported }

// CaseAccepted flips the acceptance flag. Pending material outcomes follow it
// within the same command result.
type CaseAccepted struct {
	CaseID          string `json:"caseId"`
	ReferredToCourt bool   `json:"referredToCourt,omitempty"`
}

func (CaseAccepted) EventType() EventType { return TypeCaseAccepted }

// CaseEjected removes the case from further processing.
type CaseEjected struct {
	CaseID string `json:"caseId"`
}

func (CaseEjected) EventType() EventType { return TypeCaseEjected }

// CaseFiltered prunes the case's materials.
type CaseFiltered struct {
	CaseID string `json:"caseId"`
}

func (CaseFiltered) EventType() EventType { return TypeCaseFiltered }

// MaterialPending queues a material while the case is not yet accepted.
// Validity is deferred to acceptance time.
type MaterialPending struct {
	CaseID     string          `json:"caseId"`
	Material   domain.Material `json:"material"`
	ReceivedAt time.Time       `json:"receivedAt"`
}

func (MaterialPending) EventType() EventType { return TypeMaterialPending }

// MaterialAdded records a material that passed document type validation.
// DefendantID is set when document matching found an unambiguous owner.
type MaterialAdded struct {
	CaseID      string          `json:"caseId"`
	Material    domain.Material `json:"material"`
	DefendantID string          `json:"defendantId,omitempty"`
}

func (MaterialAdded) EventType() EventType { return TypeMaterialAdded }

// MaterialRejected is an expected business rejection, not a command failure.
type MaterialRejected struct {
	CaseID     string                 `json:"caseId"`
	MaterialID string                 `json:"materialId"`
	Version    domain.MaterialVersion `json:"version"`
	ErrorCode  domain.ProblemCode     `json:"errorCode"`
	Reason     string                 `json:"reason,omitempty"`
}

func (MaterialRejected) EventType() EventType { return TypeMaterialRejected }

// DocumentReviewRequired flags a material whose defendant association was
// ambiguous and needs manual review.
type DocumentReviewRequired struct {
	CaseID     string `json:"caseId"`
	MaterialID string `json:"materialId"`
}

func (DocumentReviewRequired) EventType() EventType { return TypeDocumentReviewRequired }
