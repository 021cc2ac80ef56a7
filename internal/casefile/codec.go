package casefile

import (
	"encoding/json"
	"fmt"

	domainerrors "caseflow/pkg/domain-errors"
)

// Encode serializes an event to its wire type and JSON payload.
func Encode(e Event) (EventType, []byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "encode event")
	}
	return e.EventType(), data, nil
}

// Decode reconstructs an event from its wire type and JSON payload. Unknown
// types are an error: the store never holds types this package did not write.
func Decode(t EventType, data []byte) (Event, error) {
	var e Event
	switch t {
	case TypeCaseReceived:
		e = &CaseReceived{}
	case TypeCaseReceivedWithWarnings:
		e = &CaseReceivedWithWarnings{}
	case TypeCaseValidationFailed:
		e = &CaseValidationFailed{}
	case TypeDefendantValidationFailed:
		e = &DefendantValidationFailed{}
	case TypeDefendantValidationPassed:
		e = &DefendantValidationPassed{}
	case TypeValidationCompleted:
		e = &ValidationCompleted{}
	case TypeDefendantsAdded:
		e = &DefendantsAdded{}
	case TypeDefendantsParked:
		e = &DefendantsParked{}
	case TypeSummonsApproved:
		e = &SummonsApplicationApproved{}
	case TypeSummonsRejected:
		e = &SummonsApplicationRejected{}
	case TypeCaseUnsupported:
		e = &CaseUnsupported{}
	case TypeCaseAccepted:
		e = &CaseAccepted{}
	case TypeCaseEjected:
		e = &CaseEjected{}
	case TypeCaseFiltered:
		e = &CaseFiltered{}
	case TypeMaterialPending:
		e = &MaterialPending{}
	case TypeMaterialAdded:
		e = &MaterialAdded{}
	case TypeMaterialRejected:
		e = &MaterialRejected{}
	case TypeDocumentReviewRequired:
		e = &DocumentReviewRequired{}
	default:
		return nil, domainerrors.New(domainerrors.CodeUnsupported, fmt.Sprintf("unknown event type %q", t))
	}
	if err := json.Unmarshal(data, e); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, fmt.Sprintf("decode %s event", t))
	}
	return deref(e), nil
}

// deref returns the value form so callers can type-switch on concrete
// structs regardless of whether the event came from Decode or a decider.
func deref(e Event) Event {
	switch v := e.(type) {
	case *CaseReceived:
		return *v
	case *CaseReceivedWithWarnings:
		return *v
	case *CaseValidationFailed:
		return *v
	case *DefendantValidationFailed:
		return *v
	case *DefendantValidationPassed:
		return *v
	case *ValidationCompleted:
		return *v
	case *DefendantsAdded:
		return *v
	case *DefendantsParked:
		return *v
	case *SummonsApplicationApproved:
		return *v
	case *SummonsApplicationRejected:
		return *v
	case *CaseUnsupported:
		return *v
	case *CaseAccepted:
		return *v
	case *CaseEjected:
		return *v
	case *CaseFiltered:
		return *v
	case *MaterialPending:
		return *v
	case *MaterialAdded:
		return *v
	case *MaterialRejected:
		return *v
	case *DocumentReviewRequired:
		return *v
	default:
		return e
	}
}
