package validation

import "caseflow/internal/domain"

// Policy maps a (channel, condition) pair to a severity. Channel-specific
// routing lives in this one table rather than in per-channel code paths so
// the whole rule set is reviewable in one place.
type Policy struct {
	rules map[domain.Channel]map[domain.ProblemCode]domain.Severity
}

// DefaultPolicy returns the production routing table.
//
// SPI is the strict channel: every condition blocks and the submission is
// held for correction. CPPI, MCC and CIVIL demote the same conditions to
// warnings and the case proceeds as received-with-warnings. Conditions not
// listed for a channel fall back to that channel's default.
func DefaultPolicy() *Policy {
	allErrors := map[domain.ProblemCode]domain.Severity{}
	allWarnings := map[domain.ProblemCode]domain.Severity{}
	for _, code := range []domain.ProblemCode{
		domain.ProblemInitiationCodeInvalid,
		domain.ProblemCaseMarkerUnknown,
		domain.ProblemCPSOrganisationUnknown,
		domain.ProblemHearingDateInPast,
		domain.ProblemHearingBeforeOffence,
		domain.ProblemChargeDateInFuture,
		domain.ProblemArrestDateInFuture,
		domain.ProblemOffenceNotInEffect,
		domain.ProblemOffenceCodeUnknown,
		domain.ProblemCustodyStatusUnknown,
		domain.ProblemProsecutorUnknown,
	} {
		allErrors[code] = domain.SeverityError
		allWarnings[code] = domain.SeverityWarning
	}

	// MCC keeps structural lookups blocking but demotes date conditions;
	// CPPI demotes everything, including out-of-effect offences.
	mcc := map[domain.ProblemCode]domain.Severity{}
	for code, sev := range allWarnings {
		mcc[code] = sev
	}
	mcc[domain.ProblemInitiationCodeInvalid] = domain.SeverityError
	mcc[domain.ProblemOffenceCodeUnknown] = domain.SeverityError

	return &Policy{rules: map[domain.Channel]map[domain.ProblemCode]domain.Severity{
		domain.ChannelSPI:   allErrors,
		domain.ChannelCPPI:  allWarnings,
		domain.ChannelMCC:   mcc,
		domain.ChannelCivil: allWarnings,
	}}
}

// Severity resolves the severity of a condition on a channel. Unknown
// channels are treated as strict.
func (p *Policy) Severity(ch domain.Channel, code domain.ProblemCode) domain.Severity {
	channelRules, ok := p.rules[ch]
	if !ok {
		return domain.SeverityError
	}
	if sev, ok := channelRules[code]; ok {
		return sev
	}
	if ch == domain.ChannelSPI {
		return domain.SeverityError
	}
	return domain.SeverityWarning
}
