package callbackdata

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedToken = errors.New("malformed callback data")
	ErrInvalidField   = errors.New("invalid callback data field")
	ErrTokenTooLong   = errors.New("callback data exceeds size limit")
	ErrUnregistered   = errors.New("action kind is not registered")
)

// DecodeError ошибка разбора callback data.
// Reason всегда ErrMalformedToken или ErrInvalidField.
type DecodeError struct {
	Token  string
	Field  string
	Reason error
	Err    error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("%v %q", e.Reason, e.Token)
	if e.Field != "" {
		msg += fmt.Sprintf(" (field %q)", e.Field)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

func malformed(token string, err error) error {
	return &DecodeError{Token: token, Reason: ErrMalformedToken, Err: err}
}

func invalidField(token, field string, err error) error {
	return &DecodeError{Token: token, Field: field, Reason: ErrInvalidField, Err: err}
}
