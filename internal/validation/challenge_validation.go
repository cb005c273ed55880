package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/codealchemist/recruiter-dashboard/internal/dto"
	"github.com/go-playground/validator/v10"
)

const (
	minNameLength = 2
	minTextLength = 100
)

var validate = validator.New()

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated rule, in form order.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	messages := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		messages[i] = fe.Message
	}
	return "invalid form data: " + strings.Join(messages, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// ValidateChallengeRequest checks all fields and returns the request unchanged
// when every rule passes.
func ValidateChallengeRequest(req dto.ChallengeRequest) (dto.ChallengeRequest, error) {
	verr := &ValidationError{}

	if utf8.RuneCountInString(req.CandidateName) < minNameLength {
		verr.add("candidateName", "Name must be at least 2 characters.")
	}
	if !IsEmail(req.CandidateEmail) {
		verr.add("candidateEmail", "Please enter a valid email.")
	}
	if utf8.RuneCountInString(req.JobTitle) < minNameLength {
		verr.add("jobTitle", "Job title must be at least 2 characters.")
	}
	if utf8.RuneCountInString(req.Resume) < minTextLength {
		verr.add("resume", "Resume must be at least 100 characters.")
	}
	if utf8.RuneCountInString(req.JobDescription) < minTextLength {
		verr.add("jobDescription", "Job description must be at least 100 characters.")
	}

	if len(verr.Errors) > 0 {
		return dto.ChallengeRequest{}, verr
	}
	return req, nil
}

func IsEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}
