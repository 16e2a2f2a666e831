package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/International-Combat-Archery-Alliance/event-tickets/artifact"
	"github.com/International-Combat-Archery-Alliance/event-tickets/config"
	"github.com/International-Combat-Archery-Alliance/event-tickets/events"
	"github.com/International-Combat-Archery-Alliance/event-tickets/mail"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noopLogger = slog.New(slog.DiscardHandler)

func noAWS() (aws.Config, error) {
	return aws.Config{}, errors.New("aws not available")
}

func TestCreateEmailSender(t *testing.T) {
	t.Run("log", func(t *testing.T) {
		sender, err := createEmailSender(config.MailConfig{Provider: "log"}, noopLogger, noAWS)
		require.NoError(t, err)
		assert.IsType(t, &EmailLogger{}, sender)

		err = sender.SendEmail(context.Background(), mail.Message{
			ToAddresses: []string{"ada@x.com"},
			Subject:     "hi",
			Attachments: []mail.Attachment{{Name: "T1.pdf"}},
		})
		assert.NoError(t, err)
	})

	t.Run("smtp", func(t *testing.T) {
		sender, err := createEmailSender(config.MailConfig{Provider: "smtp", SMTPHost: "localhost", SMTPPort: 25}, noopLogger, noAWS)
		require.NoError(t, err)
		assert.IsType(t, &mail.SMTPSender{}, sender)
	})

	t.Run("ses needs aws config", func(t *testing.T) {
		_, err := createEmailSender(config.MailConfig{Provider: "ses"}, noopLogger, noAWS)
		assert.ErrorContains(t, err, "aws not available")
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := createEmailSender(config.MailConfig{Provider: "pigeon"}, noopLogger, noAWS)
		assert.Error(t, err)
	})
}

func TestCreateCatalog(t *testing.T) {
	fallback := events.Event{Dates: "March 15 - 16, 2025"}

	t.Run("without file uses fallback", func(t *testing.T) {
		catalog, err := createCatalog(config.EventConfig{Catalog: "file"}, nil, fallback)
		require.NoError(t, err)

		event, err := catalog.GetEvent(context.Background(), "DevCon")
		require.NoError(t, err)
		assert.Equal(t, "DevCon", event.Name)
		assert.Equal(t, "March 15 - 16, 2025", event.Dates)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := createCatalog(config.EventConfig{Catalog: "file", File: filepath.Join(t.TempDir(), "nope.json")}, nil, fallback)
		assert.Error(t, err)
	})
}

func TestCreateArtifactStore(t *testing.T) {
	t.Run("fs", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "artifacts")
		store, err := createArtifactStore(config.ArtifactConfig{Backend: "fs", Dir: dir}, noAWS)
		require.NoError(t, err)
		assert.IsType(t, &artifact.FSStore{}, store)

		_, err = os.Stat(dir)
		assert.NoError(t, err)
	})

	t.Run("s3 needs aws config", func(t *testing.T) {
		_, err := createArtifactStore(config.ArtifactConfig{Backend: "s3", Bucket: "b"}, noAWS)
		assert.Error(t, err)
	})
}
