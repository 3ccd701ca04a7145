package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives.
//
// These are the error primitives used at every trust boundary, so invariants
// like "wrapped domain errors preserve the original code" and "errors.Is
// matches by code" get their own coverage.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeNotFound, Message: "person not found"}
		s.Equal("person not found", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeNotFound}
		s.Equal("not_found", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	s.Run("returns wrapped error", func() {
		inner := errors.New("database connection failed")
		err := &Error{Code: CodeInternal, Message: "service error", Err: inner}
		s.Equal(inner, err.Unwrap())
	})

	s.Run("returns nil when no wrapped error", func() {
		err := &Error{Code: CodeNotFound, Message: "not found"}
		s.Nil(err.Unwrap())
	})
}

func (s *DomainErrorsSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		err1 := &Error{Code: CodeNotFound, Message: "person not found"}
		err2 := &Error{Code: CodeNotFound, Message: "area not found"}
		s.True(err1.Is(err2))
	})

	s.Run("does not match different codes", func() {
		err1 := &Error{Code: CodeNotFound}
		err2 := &Error{Code: CodeInternal}
		s.False(err1.Is(err2))
	})

	s.Run("works with errors.Is through chain", func() {
		inner := &Error{Code: CodeNotFound, Message: "original"}
		wrapped := &Error{Code: CodeInternal, Message: "wrapped", Err: inner}
		target := &Error{Code: CodeNotFound}
		s.True(errors.Is(wrapped, target))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("preserves original domain code", func() {
		original := New(CodeConflict, "area key already taken")
		wrapped := Wrap(original, CodeInternal, "save area")

		var e *Error
		s.Require().True(errors.As(wrapped, &e))
		s.Equal(CodeConflict, e.Code)
		s.Equal("save area", e.Message)
	})

	s.Run("applies code to plain errors", func() {
		wrapped := Wrap(errors.New("connection refused"), CodeUnavailable, "query permissions")
		s.True(HasCode(wrapped, CodeUnavailable))
	})
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.True(HasCode(New(CodeBadRequest, "missing fields"), CodeBadRequest))
	s.False(HasCode(New(CodeBadRequest, "missing fields"), CodeNotFound))
	s.False(HasCode(errors.New("plain"), CodeBadRequest))
	s.False(HasCode(nil, CodeBadRequest))
}
