// Package match implements defendant deduplication and identity resolution.
// Identity is a function of prosecutor reference or surrogate ID combined
// with a name/DOB heuristic, never the surrogate ID alone: the strict feed
// may resend the same real-world defendant under a fresh ID.
package match

import "caseflow/internal/domain"

// Outcome classifies an incoming defendant against the case's known
// defendants.
type Outcome int

const (
	// OutcomeNew means no existing defendant matches; the incoming record is
	// added (or parked for summons approval).
	OutcomeNew Outcome = iota
	// OutcomeDuplicate means an existing defendant has the same derived
	// identity; the incoming record is dropped and a duplicate signal raised.
	OutcomeDuplicate
	// OutcomeUpdate means the same individual was identified by reference or
	// ID; incoming attributes merge into the existing record.
	OutcomeUpdate
)

// Result carries the match outcome and, for duplicates and updates, the ID of
// the existing defendant matched.
type Result struct {
	Outcome   Outcome
	MatchedID string
}

// Match applies the matching algorithm for one incoming defendant against all
// currently-known defendants on the case.
func Match(existing []domain.Defendant, incoming domain.Defendant) Result {
	// Explicit identifiers first: a shared prosecutor reference or surrogate
	// ID means the same individual, candidate for update.
	for _, known := range existing {
		if incoming.ProsecutorReference != "" && incoming.ProsecutorReference == known.ProsecutorReference {
			return Result{Outcome: OutcomeUpdate, MatchedID: known.ID}
		}
		if incoming.ID != "" && incoming.ID == known.ID {
			return Result{Outcome: OutcomeUpdate, MatchedID: known.ID}
		}
	}

	best, tie := bestCandidate(existing, incoming)
	if best == "" || tie {
		// Ambiguous ties resolve to NEW rather than guessing.
		return Result{Outcome: OutcomeNew}
	}
	return Result{Outcome: OutcomeDuplicate, MatchedID: best}
}

// bestCandidate scores the heuristic across all existing defendants and
// returns the single best match, or tie=true when several score equally.
func bestCandidate(existing []domain.Defendant, incoming domain.Defendant) (id string, tie bool) {
	bestScore := 0
	for _, known := range existing {
		if !qualifies(known, incoming) {
			continue
		}
		s := score(known, incoming)
		switch {
		case s > bestScore:
			bestScore, id, tie = s, known.ID, false
		case s == bestScore && bestScore > 0:
			tie = true
		}
	}
	return id, tie
}

// qualifies implements the minimum identity bar: surname OR (first name AND
// DOB) OR arrest summons number equality.
func qualifies(known, incoming domain.Defendant) bool {
	if surnameEqual(known, incoming) {
		return true
	}
	if firstNameEqual(known, incoming) && domain.SameDOB(known.DateOfBirth, incoming.DateOfBirth) {
		return true
	}
	return asnEqual(known, incoming)
}

func score(known, incoming domain.Defendant) int {
	s := 0
	if surnameEqual(known, incoming) {
		s++
	}
	if firstNameEqual(known, incoming) {
		s++
	}
	if domain.SameDOB(known.DateOfBirth, incoming.DateOfBirth) {
		s++
	}
	if asnEqual(known, incoming) {
		s++
	}
	return s
}

func surnameEqual(a, b domain.Defendant) bool {
	return a.Surname != "" && domain.NormalizeName(a.Surname) == domain.NormalizeName(b.Surname)
}

func firstNameEqual(a, b domain.Defendant) bool {
	return a.FirstName != "" && domain.NormalizeName(a.FirstName) == domain.NormalizeName(b.FirstName)
}

func asnEqual(a, b domain.Defendant) bool {
	return a.ArrestSummonsNumber != "" && a.ArrestSummonsNumber == b.ArrestSummonsNumber
}

// DedupeSubmission removes defendants within a single submission that share a
// derived identity with an earlier entry, keeping only the first occurrence.
// Reports whether any were dropped.
func DedupeSubmission(incoming []domain.Defendant) ([]domain.Defendant, bool) {
	var unique []domain.Defendant
	dropped := false
	for _, def := range incoming {
		if Match(unique, def).Outcome == OutcomeNew {
			unique = append(unique, def)
		} else {
			dropped = true
		}
	}
	return unique, dropped
}
