package match

import "caseflow/internal/domain"

// DocOutcome is the three-way result of associating a scanned material with a
// known defendant. It is deliberately distinct from the submission dedup
// outcomes: document matching never mutates defendant state.
type DocOutcome int

const (
	// DocMatched means exactly one defendant matched the subject details.
	DocMatched DocOutcome = iota
	// DocPending means no defendant or several defendants matched; the
	// material needs manual review.
	DocPending
	// DocNoContext means the material carried no defendant details at all.
	DocNoContext
)

// DocResult carries the document match outcome and, when matched, the
// defendant ID.
type DocResult struct {
	Outcome     DocOutcome
	DefendantID string
}

// MatchDocument reuses the surname/given-name/DOB heuristic to attach a
// material's subject to a known defendant.
func MatchDocument(existing []domain.Defendant, subject *domain.CaseSubject) DocResult {
	if subject == nil {
		return DocResult{Outcome: DocNoContext}
	}

	candidate := domain.Defendant{
		FirstName:   subject.FirstName,
		Surname:     subject.Surname,
		DateOfBirth: subject.DateOfBirth,
	}

	id, tie := bestCandidate(existing, candidate)
	if id == "" || tie {
		return DocResult{Outcome: DocPending}
	}
	return DocResult{Outcome: DocMatched, DefendantID: id}
}
