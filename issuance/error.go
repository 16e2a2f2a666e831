package issuance

import (
	"errors"
	"fmt"

	"github.com/International-Combat-Archery-Alliance/event-tickets/events"
	"github.com/International-Combat-Archery-Alliance/event-tickets/registration"
)

type ErrorKind string

const (
	KIND_DUPLICATE  ErrorKind = "DUPLICATE"
	KIND_VALIDATION ErrorKind = "VALIDATION"
	KIND_INTERNAL   ErrorKind = "INTERNAL"
)

// Error is the only error IssueTicket returns. Kind is enough to pick a
// response; Cause holds the package error from the failing step.
type Error struct {
	Kind     ErrorKind
	TicketID string
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s. Cause: %s", e.Kind, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newIssuanceError(kind ErrorKind, ticketID string, message string, cause error) *Error {
	return &Error{
		Kind:     kind,
		TicketID: ticketID,
		Message:  message,
		Cause:    cause,
	}
}

func NewInternalError(ticketID string, message string, cause error) *Error {
	return newIssuanceError(KIND_INTERNAL, ticketID, message, cause)
}

// classifyRegistrationError maps registration step failures. Lookup and
// write failures in the store are internal.
func classifyRegistrationError(ticketID string, err error) *Error {
	var regErr *registration.Error
	if errors.As(err, &regErr) {
		switch regErr.Reason {
		case registration.REASON_REGISTRATION_ALREADY_EXISTS:
			return newIssuanceError(KIND_DUPLICATE, ticketID, "Registration already exists for this email and event", err)
		case registration.REASON_INVALID_REGISTRATION:
			return newIssuanceError(KIND_VALIDATION, ticketID, regErr.Message, err)
		}
	}
	return NewInternalError(ticketID, "Failed to save registration", err)
}

func classifyCatalogError(ticketID string, err error) *Error {
	var evErr *events.Error
	if errors.As(err, &evErr) && evErr.Reason == events.REASON_EVENT_DOES_NOT_EXIST {
		return newIssuanceError(KIND_VALIDATION, ticketID, evErr.Message, err)
	}
	return NewInternalError(ticketID, "Failed to look up event", err)
}
