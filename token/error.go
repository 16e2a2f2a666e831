package token

import "fmt"

type ErrorReason string

const (
	REASON_ENCODING_FAILED     ErrorReason = "ENCODING_FAILED"
	REASON_TOKEN_NOT_PERSISTED ErrorReason = "TOKEN_NOT_PERSISTED"
)

type Error struct {
	Reason  ErrorReason
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s. Cause: %s", e.Reason, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newTokenError(reason ErrorReason, message string, cause error) *Error {
	return &Error{
		Reason:  reason,
		Message: message,
		Cause:   cause,
	}
}

func NewEncodingFailedError(message string, cause error) *Error {
	return newTokenError(REASON_ENCODING_FAILED, message, cause)
}

func NewTokenNotPersistedError(message string, cause error) *Error {
	return newTokenError(REASON_TOKEN_NOT_PERSISTED, message, cause)
}
