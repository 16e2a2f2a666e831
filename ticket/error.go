package ticket

import "fmt"

type ErrorReason string

const (
	REASON_RENDER_FAILED         ErrorReason = "RENDER_FAILED"
	REASON_ARTIFACT_WRITE_FAILED ErrorReason = "ARTIFACT_WRITE_FAILED"
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

func newTicketError(reason ErrorReason, message string, cause error) *Error {
	return &Error{
		Reason:  reason,
		Message: message,
		Cause:   cause,
	}
}

func NewRenderFailedError(message string, cause error) *Error {
	return newTicketError(REASON_RENDER_FAILED, message, cause)
}

func NewArtifactWriteFailedError(message string, cause error) *Error {
	return newTicketError(REASON_ARTIFACT_WRITE_FAILED, message, cause)
}
