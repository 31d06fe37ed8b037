package creditcard

import (
	"errors"
	"strings"
)

var (
	ErrCardNotFound = errors.New("card not found")
	ErrInvalidCard  = errors.New("card details are invalid")
)

// ValidationError carries the per-field messages of a rejected card form.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	failed := e.Fields.Failed()
	msgs := make([]string, 0, len(failed))
	for _, field := range cardFields {
		if msg, ok := failed[field]; ok {
			msgs = append(msgs, msg)
		}
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidCard }
