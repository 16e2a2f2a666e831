package api

import (
	"context"

	"github.com/International-Combat-Archery-Alliance/event-tickets/registration"
	"github.com/International-Combat-Archery-Alliance/event-tickets/slices"
)

const defaultPageLimit = 10

func (a *API) ListRegistrations(ctx context.Context, request ListRegistrationsRequestObject) (ListRegistrationsResponseObject, error) {
	logger := getLoggerFromCtx(ctx, a.logger)

	limit := defaultPageLimit
	if request.Params.Limit != nil {
		userLimit := *request.Params.Limit
		if userLimit < 1 || userLimit > 50 {
			logger.Warn("Limit out of bounds", "limit", userLimit)
			return ListRegistrations400JSONResponse{
				Code:    LimitOutOfBounds,
				Message: "Limit must be between 1 and 50",
			}, nil
		}
		limit = userLimit
	}

	result, err := a.registrations.GetAllRegistrationsForEvent(ctx, request.EventName, int32(limit), request.Params.Cursor)
	if err != nil {
		if registration.IsReason(err, registration.REASON_INVALID_CURSOR) {
			return ListRegistrations400JSONResponse{
				Code:    InvalidCursor,
				Message: "Cursor is invalid",
			}, nil
		}
		logger.Error("Failed to get registrations for event", "error", err, "eventName", request.EventName)
		return ListRegistrations500JSONResponse{
			Code:    InternalError,
			Message: "Failed to get registrations",
		}, nil
	}

	return ListRegistrations200JSONResponse{
		Data:        slices.Map(result.Data, registrationToApiRegistration),
		Cursor:      result.Cursor,
		HasNextPage: result.HasNextPage,
	}, nil
}
