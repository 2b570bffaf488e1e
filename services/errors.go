package services

import "errors"

// Domain errors. Every rejected operation resolves to one of these so callers
// can branch on the reason with errors.Is / errors.As; how the reason is shown
// to an end user is the presentation layer's concern.
var (
	// ErrNotEligible means the principal lacks the role or profile the
	// operation requires.
	ErrNotEligible = errors.New("not eligible for this operation")

	// ErrDuplicateApplication means the candidate already applied to the job.
	ErrDuplicateApplication = errors.New("already applied to this job")

	// ErrInvalidStatus means the requested transition target is not a legal
	// settable state.
	ErrInvalidStatus = errors.New("invalid status transition")

	// ErrNotAuthorized means the acting principal does not own the resource
	// being mutated.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrUploadFailed means the external media upload did not complete.
	ErrUploadFailed = errors.New("media upload failed")

	// ErrNotFound means a referenced entity id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password without distinguishing the two.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a field-level constraint violation detected before
// any mutation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
