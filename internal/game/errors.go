package game

import (
	"errors"
	"fmt"
)

var (
	ErrScoreNotFound      = errors.New("score not found")
	ErrBadgeNotFound      = errors.New("badge not found")
	ErrAlreadyAwarded     = errors.New("badge already earned for this party")
	ErrInsufficientPoints = errors.New("not enough points for this badge")
	ErrPermission         = errors.New("operation not permitted")
)

// ValidationError marks malformed input. It is surfaced synchronously and
// never leaves partial state behind.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
