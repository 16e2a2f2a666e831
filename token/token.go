package token

import (
	"context"
	"fmt"

	"github.com/International-Combat-Archery-Alliance/event-tickets/registration"
)

const separator = "-"

// Derive builds the scan token from the registrant email and ticket id.
// It is reconstructible from a stored registration, not unguessable.
func Derive(email string, id string) string {
	return email + separator + id
}

type Updater interface {
	UpdateRegistration(ctx context.Context, registration registration.Registration) error
}

type Minter struct {
	encoder Encoder
	repo    Updater
}

func NewMinter(encoder Encoder, repo Updater) *Minter {
	return &Minter{
		encoder: encoder,
		repo:    repo,
	}
}

// Mint derives the token, encodes it as a QR image and persists the token on
// the registration. A token already present is reused as is.
func (m *Minter) Mint(ctx context.Context, reg registration.Registration) (registration.Registration, QRImage, error) {
	if reg.QRToken != "" {
		img, err := m.encoder.Encode(reg.QRToken)
		if err != nil {
			return reg, QRImage{}, NewEncodingFailedError(fmt.Sprintf("Failed to encode existing token for ticket %q", reg.ID), err)
		}
		return reg, img, nil
	}

	tok := Derive(reg.Email, reg.ID)

	img, err := m.encoder.Encode(tok)
	if err != nil {
		return reg, QRImage{}, NewEncodingFailedError(fmt.Sprintf("Failed to encode token for ticket %q", reg.ID), err)
	}

	updated := reg
	updated.QRToken = tok
	updated.Version++

	err = m.repo.UpdateRegistration(ctx, updated)
	if err != nil {
		return reg, QRImage{}, NewTokenNotPersistedError(fmt.Sprintf("Failed to save token for ticket %q", reg.ID), err)
	}

	return updated, img, nil
}
