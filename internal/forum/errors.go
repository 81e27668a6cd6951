package forum

import (
	"errors"
	"fmt"
)

// Engine error taxonomy. Everything here is recovered at the request
// boundary; nothing is process-fatal.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrLocked       = errors.New("content is locked")
	ErrConflict     = errors.New("conflict")
	ErrCreateFailed = errors.New("create failed")
)

// ValidationError reports malformed or out-of-bounds input: bad ids,
// zero or multiple reaction targets, text length violations, replies
// past the depth cap.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
