package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrJobNotFound         = errors.New("job not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrLogNotFound         = errors.New("log not found")
	ErrCategoryNotFound    = errors.New("category not found")

	// ErrNoSession covers every authentication failure: missing row, expired
	// session, inactive user. Callers cannot tell which.
	ErrNoSession = errors.New("no valid session")

	ErrForbidden = errors.New("insufficient permissions")

	ErrDuplicateApplication = errors.New("an application with this email already exists for this job")
	ErrDuplicateUser        = errors.New("username or email already taken")

	ErrJobNotActive = errors.New("job is not accepting applications")
	ErrJobExpired   = errors.New("job has expired")

	// ErrJobHasAcceptedApplications rejects deletion; the job should be
	// transitioned to filled instead.
	ErrJobHasAcceptedApplications = errors.New("job has accepted applications; set status to filled instead of deleting")
)

// ValidationError aggregates every invalid or missing field found in a single
// validation pass.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing or invalid fields: %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Add(field string) {
	e.Fields = append(e.Fields, field)
}

func (e *ValidationError) Addf(format string, args ...any) {
	e.Fields = append(e.Fields, fmt.Sprintf(format, args...))
}

// OrNil returns the error only when something was collected, so callers can
// write `return v.OrNil()` at the end of a validation pass.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func NewValidationError(fields ...string) *ValidationError {
	return &ValidationError{Fields: fields}
}
