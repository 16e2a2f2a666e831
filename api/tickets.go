package api

import (
	"context"
	"errors"

	"github.com/International-Combat-Archery-Alliance/event-tickets/issuance"
	"github.com/International-Combat-Archery-Alliance/event-tickets/ptr"
	"github.com/International-Combat-Archery-Alliance/event-tickets/registration"
	"github.com/oapi-codegen/runtime/types"
)

func (a *API) IssueTicket(ctx context.Context, request IssueTicketRequestObject) (IssueTicketResponseObject, error) {
	logger := getLoggerFromCtx(ctx, a.logger)

	if request.Body == nil {
		logger.Warn("Nil body for ticket request")
		return IssueTicket400JSONResponse{
			Code:    EmptyBody,
			Message: "Must specify a body",
		}, nil
	}

	req := issuance.Request{
		Name:      request.Body.Name,
		Email:     string(request.Body.Email),
		EventName: request.Body.EventName,
		Role:      request.Body.Role,
	}
	if request.Body.Contact != nil {
		req.Contact = *request.Body.Contact
	}

	ticket, err := a.issuer.IssueTicket(ctx, req)
	if err != nil {
		var issErr *issuance.Error
		if errors.As(err, &issErr) {
			switch issErr.Kind {
			case issuance.KIND_DUPLICATE:
				logger.Info("Duplicate ticket request", "error", err)
				return IssueTicket409JSONResponse{
					Code:    AlreadyExists,
					Message: "Registration already exists for this email and event",
				}, nil
			case issuance.KIND_VALIDATION:
				logger.Warn("Invalid ticket request", "error", err)
				return IssueTicket400JSONResponse{
					Code:    InputValidationError,
					Message: issErr.Message,
				}, nil
			}
			logger.Error("Failed to issue ticket", "error", err, "ticketId", issErr.TicketID)
		} else {
			logger.Error("Failed to issue ticket", "error", err)
		}

		return IssueTicket500JSONResponse{
			Code:    InternalError,
			Message: "Failed to issue ticket",
		}, nil
	}

	return IssueTicket201JSONResponse{
		Message:   "Registration successful",
		TicketId:  ticket.ID,
		QrToken:   ticket.QRToken,
		QrCode:    ticket.QRImage.DataURL(),
		EmailSent: ticket.Dispatch.Delivered,
	}, nil
}

func (a *API) GetTicket(ctx context.Context, request GetTicketRequestObject) (GetTicketResponseObject, error) {
	logger := getLoggerFromCtx(ctx, a.logger)

	reg, err := a.registrations.GetRegistration(ctx, request.TicketId)
	if err != nil {
		if registration.IsReason(err, registration.REASON_REGISTRATION_DOES_NOT_EXIST) {
			return GetTicket404JSONResponse{
				Code:    NotFound,
				Message: "Ticket not found",
			}, nil
		}
		logger.Error("Failed to get ticket", "error", err, "ticketId", request.TicketId)
		return GetTicket500JSONResponse{
			Code:    InternalError,
			Message: "Failed to get ticket",
		}, nil
	}

	return GetTicket200JSONResponse(registrationToApiRegistration(reg)), nil
}

func registrationToApiRegistration(reg registration.Registration) Registration {
	apiReg := Registration{
		Id:            reg.ID,
		Name:          reg.Name,
		Email:         types.Email(reg.Email),
		EventName:     reg.EventName,
		Role:          reg.Role,
		PaymentStatus: PaymentStatus(reg.PaymentStatus.String()),
		RegisteredAt:  reg.RegisteredAt,
	}
	if reg.Contact != "" {
		apiReg.Contact = ptr.String(reg.Contact)
	}
	if reg.ArtifactLocation != "" {
		apiReg.TicketLocation = ptr.String(reg.ArtifactLocation)
	}
	return apiReg
}
