package usecase

import (
	"fmt"

	"github.com/codealchemist/recruiter-dashboard/internal/dto"
)

// PersistenceError means the challenge exists on the generation side but was
// not recorded here. Result holds the links that were generated.
type PersistenceError struct {
	Result dto.ChallengeResult
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("could not save challenge to database: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

type SessionError struct {
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("could not create session: %v", e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

type ApprovalErrorKind string

const (
	ApprovalNotFound   ApprovalErrorKind = "not_found"
	ApprovalUnexpected ApprovalErrorKind = "unexpected"
)

// ApprovalError reports a failed approval. Committed is set when the status
// change was already written before the failure.
type ApprovalError struct {
	Kind      ApprovalErrorKind
	Committed bool
	Err       error
}

func (e *ApprovalError) Error() string {
	if e.Kind == ApprovalNotFound {
		return "User not found."
	}
	return "An unexpected error occurred during approval."
}

func (e *ApprovalError) Unwrap() error {
	return e.Err
}
