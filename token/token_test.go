package token

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/International-Combat-Archery-Alliance/event-tickets/registration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUpdater struct {
	UpdateRegistrationFunc func(ctx context.Context, reg registration.Registration) error
}

func (m *mockUpdater) UpdateRegistration(ctx context.Context, reg registration.Registration) error {
	return m.UpdateRegistrationFunc(ctx, reg)
}

type mockEncoder struct {
	EncodeFunc func(content string) (QRImage, error)
}

func (m *mockEncoder) Encode(content string) (QRImage, error) {
	return m.EncodeFunc(content)
}

func TestDerive(t *testing.T) {
	assert.Equal(t, "ada@x.com-T1", Derive("ada@x.com", "T1"))
	assert.Equal(t, Derive("ada@x.com", "T1"), Derive("ada@x.com", "T1"))
}

func TestMint(t *testing.T) {
	ctx := context.Background()
	reg := registration.Registration{ID: "T1", Version: 1, Email: "ada@x.com", EventName: "DevCon"}

	t.Run("persists the derived token", func(t *testing.T) {
		var saved []registration.Registration
		repo := &mockUpdater{
			UpdateRegistrationFunc: func(ctx context.Context, r registration.Registration) error {
				saved = append(saved, r)
				return nil
			},
		}
		var encoded string
		enc := &mockEncoder{
			EncodeFunc: func(content string) (QRImage, error) {
				encoded = content
				return QRImage{PNG: []byte("png"), Size: 10}, nil
			},
		}

		updated, img, err := NewMinter(enc, repo).Mint(ctx, reg)
		require.NoError(t, err)
		assert.Equal(t, "ada@x.com-T1", updated.QRToken)
		assert.Equal(t, 2, updated.Version)
		assert.Equal(t, "ada@x.com-T1", encoded)
		assert.Equal(t, []byte("png"), img.PNG)
		require.Len(t, saved, 1)
		assert.Equal(t, updated, saved[0])
	})

	t.Run("re-deriving from the persisted registration gives the same token", func(t *testing.T) {
		var saved registration.Registration
		repo := &mockUpdater{
			UpdateRegistrationFunc: func(ctx context.Context, r registration.Registration) error {
				saved = r
				return nil
			},
		}
		enc := &mockEncoder{EncodeFunc: func(content string) (QRImage, error) { return QRImage{}, nil }}

		_, _, err := NewMinter(enc, repo).Mint(ctx, reg)
		require.NoError(t, err)
		assert.Equal(t, saved.QRToken, Derive(saved.Email, saved.ID))
	})

	t.Run("encoder failure writes nothing", func(t *testing.T) {
		repo := &mockUpdater{
			UpdateRegistrationFunc: func(ctx context.Context, r registration.Registration) error {
				t.Fatal("UpdateRegistration must not be called when encoding fails")
				return nil
			},
		}
		enc := &mockEncoder{
			EncodeFunc: func(content string) (QRImage, error) {
				return QRImage{}, errors.New("data too long")
			},
		}

		_, _, err := NewMinter(enc, repo).Mint(ctx, reg)
		var tokErr *Error
		require.True(t, errors.As(err, &tokErr))
		assert.Equal(t, REASON_ENCODING_FAILED, tokErr.Reason)
	})

	t.Run("store failure is reported", func(t *testing.T) {
		repo := &mockUpdater{
			UpdateRegistrationFunc: func(ctx context.Context, r registration.Registration) error {
				return registration.NewVersionConflictError("stale", nil)
			},
		}
		enc := &mockEncoder{EncodeFunc: func(content string) (QRImage, error) { return QRImage{}, nil }}

		_, _, err := NewMinter(enc, repo).Mint(ctx, reg)
		var tokErr *Error
		require.True(t, errors.As(err, &tokErr))
		assert.Equal(t, REASON_TOKEN_NOT_PERSISTED, tokErr.Reason)
		assert.True(t, registration.IsReason(err, registration.REASON_VERSION_CONFLICT))
	})

	t.Run("existing token is never recomputed", func(t *testing.T) {
		repo := &mockUpdater{
			UpdateRegistrationFunc: func(ctx context.Context, r registration.Registration) error {
				t.Fatal("UpdateRegistration must not be called for an existing token")
				return nil
			},
		}
		var encoded string
		enc := &mockEncoder{
			EncodeFunc: func(content string) (QRImage, error) {
				encoded = content
				return QRImage{}, nil
			},
		}
		withToken := reg
		withToken.QRToken = "legacy-token"

		updated, _, err := NewMinter(enc, repo).Mint(ctx, withToken)
		require.NoError(t, err)
		assert.Equal(t, "legacy-token", updated.QRToken)
		assert.Equal(t, "legacy-token", encoded)
	})
}

func TestQREncoder(t *testing.T) {
	t.Run("produces a square png of the configured size", func(t *testing.T) {
		enc, err := NewQREncoder("M", 256)
		require.NoError(t, err)

		img, err := enc.Encode("ada@x.com-T1")
		require.NoError(t, err)
		assert.Equal(t, 256, img.Size)

		decoded, err := png.Decode(bytes.NewReader(img.PNG))
		require.NoError(t, err)
		assert.Equal(t, 256, decoded.Bounds().Dx())
		assert.Equal(t, 256, decoded.Bounds().Dy())
	})

	t.Run("same content encodes identically", func(t *testing.T) {
		enc, err := NewQREncoder("H", 128)
		require.NoError(t, err)

		a, err := enc.Encode("ada@x.com-T1")
		require.NoError(t, err)
		b, err := enc.Encode("ada@x.com-T1")
		require.NoError(t, err)
		assert.Equal(t, a.PNG, b.PNG)
	})

	t.Run("rejects unknown level and bad size", func(t *testing.T) {
		_, err := NewQREncoder("X", 256)
		assert.Error(t, err)

		_, err = NewQREncoder("L", 0)
		assert.Error(t, err)
	})

	t.Run("data url", func(t *testing.T) {
		img := QRImage{PNG: []byte{0x89, 'P', 'N', 'G'}}
		assert.True(t, strings.HasPrefix(img.DataURL(), "data:image/png;base64,"))
	})
}
