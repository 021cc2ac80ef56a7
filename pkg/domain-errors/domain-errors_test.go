package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives used at every trust
// boundary. Invariants like "wrapped domain errors preserve the original code"
// and "errors.Is matches by code" must hold for handler translation to work.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeNotFound, Message: "case not found"}
		s.Equal("case not found", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeNotFound}
		s.Equal("not_found", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	s.Run("returns wrapped error", func() {
		inner := errors.New("connection refused")
		err := &Error{Code: CodeUnavailable, Message: "reference data unavailable", Err: inner}
		s.Equal(inner, errors.Unwrap(err))
	})

	s.Run("returns nil when no wrapped error", func() {
		err := &Error{Code: CodeNotFound}
		s.Nil(errors.Unwrap(err))
	})
}

func (s *DomainErrorsSuite) TestWrapPreservesCode() {
	s.Run("wrap of plain error takes given code", func() {
		err := Wrap(errors.New("boom"), CodeUnavailable, "lookup failed")
		s.True(HasCode(err, CodeUnavailable))
	})

	s.Run("wrap of domain error keeps original code", func() {
		inner := New(CodeConflict, "version conflict")
		err := Wrap(inner, CodeInternal, "append failed")
		s.True(HasCode(err, CodeConflict))
		s.False(HasCode(err, CodeInternal))
	})
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.Run("matches direct code", func() {
		s.True(HasCode(New(CodeInvalidState, "case already accepted"), CodeInvalidState))
	})

	s.Run("matches through wrapping", func() {
		err := Wrap(New(CodeNotFound, "no batch"), CodeInternal, "approve failed")
		s.True(HasCode(err, CodeNotFound))
	})

	s.Run("plain errors never match", func() {
		s.False(HasCode(errors.New("not_found"), CodeNotFound))
	})
}

func (s *DomainErrorsSuite) TestCodeOf() {
	s.Equal(CodeConflict, CodeOf(New(CodeConflict, "")))
	s.Equal(CodeInternal, CodeOf(errors.New("anything")))
}
