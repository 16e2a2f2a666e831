package registration

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Repository interface {
	GetRegistrationByEmail(ctx context.Context, eventKey string, email string) (Registration, error)
	GetRegistration(ctx context.Context, id string) (Registration, error)
	CreateRegistration(ctx context.Context, registration Registration) error
	UpdateRegistration(ctx context.Context, registration Registration) error
	GetAllRegistrationsForEvent(ctx context.Context, eventKey string, limit int32, cursor *string) (GetAllRegistrationsResponse, error)
}

type GetAllRegistrationsResponse struct {
	Data        []Registration
	Cursor      *string
	HasNextPage bool
}

type Registration struct {
	ID               string
	Version          int
	RegisteredAt     time.Time
	Name             string
	Email            string
	EventName        string
	Contact          string
	Role             string
	QRToken          string
	ArtifactLocation string
	PaymentStatus    PaymentStatus
}

// Request is a candidate registration. ID and RegisteredAt are assigned by
// the caller before the uniqueness check runs.
type Request struct {
	ID           string    `validate:"required"`
	RegisteredAt time.Time `validate:"required"`
	Name         string    `validate:"required,max=200"`
	Email        string    `validate:"required,email,max=320"`
	EventName    string    `validate:"required,max=200"`
	Contact      string    `validate:"omitempty,max=32"`
	Role         string    `validate:"required,max=64"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeRequest(req Request) Request {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = NormalizeEmail(req.Email)
	req.EventName = strings.TrimSpace(req.EventName)
	req.Contact = strings.TrimSpace(req.Contact)
	req.Role = strings.TrimSpace(req.Role)
	return req
}

// AttemptRegistration enforces (email, event) uniqueness and persists a new
// PENDING registration. Nothing is written when the request is invalid or a
// registration for the pair already exists.
func AttemptRegistration(ctx context.Context, req Request, repo Repository) (Registration, error) {
	req = normalizeRequest(req)

	if err := validateRequest(req); err != nil {
		return Registration{}, err
	}

	existing, err := repo.GetRegistrationByEmail(ctx, req.EventName, req.Email)
	if err == nil {
		return Registration{}, NewRegistrationAlreadyExistsError(fmt.Sprintf("Registration for %q at event %q already exists with ID %q", req.Email, req.EventName, existing.ID), nil)
	}
	if !IsReason(err, REASON_REGISTRATION_DOES_NOT_EXIST) {
		return Registration{}, NewFailedToFetchError(fmt.Sprintf("Failed to look up registration for %q at event %q", req.Email, req.EventName), err)
	}

	reg := Registration{
		ID:            req.ID,
		Version:       1,
		RegisteredAt:  req.RegisteredAt,
		Name:          req.Name,
		Email:         req.Email,
		EventName:     req.EventName,
		Contact:       req.Contact,
		Role:          req.Role,
		PaymentStatus: PAYMENT_PENDING,
	}

	// The store's conditional insert is what closes the read-then-write race;
	// a concurrent winner comes back as REGISTRATION_ALREADY_EXISTS.
	err = repo.CreateRegistration(ctx, reg)
	if err != nil {
		return Registration{}, err
	}

	return reg, nil
}
