package validation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"caseflow/internal/domain"
	"caseflow/internal/refdata"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type EngineSuite struct {
	suite.Suite
	engine *Engine
	store  *refdata.InMemoryStore
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.store = refdata.NewSeededStore()
	s.engine = NewEngine(s.store, WithClock(func() time.Time { return testNow }))
}

func (s *EngineSuite) validSubmission(ch domain.Channel) domain.Submission {
	dob := time.Date(1990, 3, 4, 0, 0, 0, 0, time.UTC)
	return domain.Submission{
		CaseID:         "05AA1234567",
		Channel:        ch,
		InitiationCode: "C",
		CaseMarkers:    []string{"DV"},
		CPSOrgCode:     "045",
		Defendants: []domain.Defendant{{
			ID:          "d-1",
			FirstName:   "Ann",
			Surname:     "Smith",
			DateOfBirth: &dob,
			Offences: []domain.Offence{{
				Code:          "TH68001",
				CommittedDate: testNow.AddDate(0, -2, 0),
				ChargeDate:    testNow.AddDate(0, -1, 0),
			}},
			Hearing: &domain.HearingDetails{Date: testNow.AddDate(0, 1, 0)},
		}},
	}
}

func (s *EngineSuite) TestCleanSubmissionEnrichesWithoutProblems() {
	enriched, problems, err := s.engine.Validate(context.Background(), s.validSubmission(domain.ChannelSPI))
	s.Require().NoError(err)
	s.Empty(problems)
	s.False(enriched.SJP)
	s.Require().NotNil(enriched.Defendants[0].Offences[0].EffectiveFrom)
}

func (s *EngineSuite) TestInitiationCodeEnrichment() {
	s.Run("sjp code sets flag", func() {
		sub := s.validSubmission(domain.ChannelSPI)
		sub.InitiationCode = "J"
		enriched, problems, err := s.engine.Validate(context.Background(), sub)
		s.Require().NoError(err)
		s.Empty(problems)
		s.True(enriched.SJP)
	})

	s.Run("summons code sets flag", func() {
		sub := s.validSubmission(domain.ChannelSPI)
		sub.InitiationCode = "S"
		enriched, problems, err := s.engine.Validate(context.Background(), sub)
		s.Require().NoError(err)
		s.Empty(problems)
		s.True(enriched.SummonsRequired)
	})

	s.Run("unknown code reported", func() {
		sub := s.validSubmission(domain.ChannelSPI)
		sub.InitiationCode = "ZZ"
		_, problems, err := s.engine.Validate(context.Background(), sub)
		s.Require().NoError(err)
		s.Require().Len(problems, 1)
		s.Equal(domain.ProblemInitiationCodeInvalid, problems[0].Code)
		s.Equal(domain.SeverityError, problems[0].Severity)
	})

	s.Run("code not issued on channel reported", func() {
		// "S" is SPI-only in the fixtures.
		sub := s.validSubmission(domain.ChannelCPPI)
		sub.InitiationCode = "S"
		_, problems, err := s.engine.Validate(context.Background(), sub)
		s.Require().NoError(err)
		s.Require().Len(problems, 1)
		s.Equal(domain.ProblemInitiationCodeInvalid, problems[0].Code)
	})
}

func (s *EngineSuite) TestCaseLevelLookups() {
	s.Run("unknown marker", func() {
		sub := s.validSubmission(domain.ChannelSPI)
		sub.CaseMarkers = []string{"DV", "NOPE"}
		_, problems, err := s.engine.Validate(context.Background(), sub)
		s.Require().NoError(err)
		s.Require().Len(problems, 1)
		s.Equal(domain.ProblemCaseMarkerUnknown, problems[0].Code)
		s.Equal("NOPE", problems[0].Value)
	})

	s.Run("unknown cps organisation", func() {
		sub := s.validSubmission(domain.ChannelSPI)
		sub.CPSOrgCode = "999"
		_, problems, err := s.engine.Validate(context.Background(), sub)
		s.Require().NoError(err)
		s.Require().Len(problems, 1)
		s.Equal(domain.ProblemCPSOrganisationUnknown, problems[0].Code)
	})
}

func (s *EngineSuite) TestDateChecks() {
	s.Run("hearing in past", func() {
		sub := s.validSubmission(domain.ChannelSPI)
		sub.Defendants[0].Hearing.Date = testNow.AddDate(0, 0, -1)
		_, problems, err := s.engine.Validate(context.Background(), sub)
		s.Require().NoError(err)
		s.Require().Len(problems, 1)
		s.Equal(domain.ProblemHearingDateInPast, problems[0].Code)
		s.Equal("d-1", problems[0].DefendantID)
	})

	s.Run("hearing before earliest offence", func() {
		sub := s.validSubmission(domain.ChannelSPI)
		sub.Defendants[0].Offences[0].CommittedDate = testNow.AddDate(0, 2, 0)
		sub.Defendants[0].Offences[0].ChargeDate = time.Time{}
		_, problems, err := s.engine.Validate(context.Background(), sub)
		s.Require().NoError(err)
		codes := problemCodes(problems)
		s.Contains(codes, domain.ProblemHearingBeforeOffence)
	})

	s.Run("charge date in future", func() {
		sub := s.validSubmission(domain.ChannelSPI)
		sub.Defendants[0].Offences[0].ChargeDate = testNow.AddDate(0, 0, 7)
		_, problems, err := s.engine.Validate(context.Background(), sub)
		s.Require().NoError(err)
		s.Require().Len(problems, 1)
		s.Equal(domain.ProblemChargeDateInFuture, problems[0].Code)
		s.Equal(0, problems[0].OffenceIndex)
	})

	s.Run("arrest date in future", func() {
		sub := s.validSubmission(domain.ChannelSPI)
		sub.Defendants[0].Offences[0].ArrestDate = testNow.AddDate(0, 0, 7)
		_, problems, err := s.engine.Validate(context.Background(), sub)
		s.Require().NoError(err)
		s.Require().Len(problems, 1)
		s.Equal(domain.ProblemArrestDateInFuture, problems[0].Code)
	})

	s.Run("offence out of effective window", func() {
		sub := s.validSubmission(domain.ChannelSPI)
		// Committed before the 1968 act commenced.
		sub.Defendants[0].Offences[0].CommittedDate = time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)
		sub.Defendants[0].Offences[0].ChargeDate = time.Time{}
		_, problems, err := s.engine.Validate(context.Background(), sub)
		s.Require().NoError(err)
		s.Require().Len(problems, 1)
		s.Equal(domain.ProblemOffenceNotInEffect, problems[0].Code)
	})
}

func (s *EngineSuite) TestUnknownOffenceCode() {
	sub := s.validSubmission(domain.ChannelSPI)
	sub.Defendants[0].Offences[0].Code = "XX00000"
	_, problems, err := s.engine.Validate(context.Background(), sub)
	s.Require().NoError(err)
	s.Require().Len(problems, 1)
	s.Equal(domain.ProblemOffenceCodeUnknown, problems[0].Code)
}

func problemCodes(problems []domain.Problem) []domain.ProblemCode {
	out := make([]domain.ProblemCode, 0, len(problems))
	for _, p := range problems {
		out = append(out, p.Code)
	}
	return out
}

func (s *EngineSuite) TestCustodyStatusCheck() {
	s.Run("known status passes", func() {
		sub := s.validSubmission(domain.ChannelSPI)
		sub.Defendants[0].CustodyStatus = "B"
		_, problems, err := s.engine.Validate(context.Background(), sub)
		s.Require().NoError(err)
		s.Empty(problems)
	})

	s.Run("unknown status is flagged on the defendant", func() {
		sub := s.validSubmission(domain.ChannelSPI)
		sub.Defendants[0].CustodyStatus = "X"
		_, problems, err := s.engine.Validate(context.Background(), sub)
		s.Require().NoError(err)
		s.Require().Len(problems, 1)
		s.Equal(domain.ProblemCustodyStatusUnknown, problems[0].Code)
		s.Equal(domain.PathCustodyStatus, problems[0].Path)
		s.Equal("d-1", problems[0].DefendantID)
		s.Equal(domain.SeverityError, problems[0].Severity)
	})

	s.Run("absent status is not checked", func() {
		sub := s.validSubmission(domain.ChannelSPI)
		sub.Defendants[0].CustodyStatus = ""
		_, problems, err := s.engine.Validate(context.Background(), sub)
		s.Require().NoError(err)
		s.Empty(problems)
	})
}

func (s *EngineSuite) TestProsecutorEnrichment() {
	s.Run("register backfills cps organisation", func() {
		sub := s.validSubmission(domain.ChannelSPI)
		sub.CPSOrgCode = ""
		sub.ProsecutorCode = "CPS"
		enriched, problems, err := s.engine.Validate(context.Background(), sub)
		s.Require().NoError(err)
		s.Empty(problems)
		s.Equal("045", enriched.CPSOrgCode)
	})

	s.Run("explicit organisation wins", func() {
		s.store.AddOrganisationalUnit(refdata.OrganisationalUnit{Code: "099", Name: "North East"})
		sub := s.validSubmission(domain.ChannelSPI)
		sub.CPSOrgCode = "099"
		sub.ProsecutorCode = "CPS"
		enriched, problems, err := s.engine.Validate(context.Background(), sub)
		s.Require().NoError(err)
		s.Empty(problems)
		s.Equal("099", enriched.CPSOrgCode)
	})

	s.Run("unknown prosecutor is flagged", func() {
		sub := s.validSubmission(domain.ChannelSPI)
		sub.ProsecutorCode = "ZZZ"
		_, problems, err := s.engine.Validate(context.Background(), sub)
		s.Require().NoError(err)
		s.Require().Len(problems, 1)
		s.Equal(domain.ProblemProsecutorUnknown, problems[0].Code)
		s.Equal(domain.PathProsecutor, problems[0].Path)
		s.Empty(problems[0].DefendantID)
	})
}
