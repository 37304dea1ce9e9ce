package visits

import (
	"errors"
)

// ValidationError marks caller-supplied input that failed a precondition. It
// is always raised before any write, and its message is safe to show to an
// end user. Storage failures are returned as plain errors and are not
// ValidationErrors.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(reason string) error {
	return &ValidationError{Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
