package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/International-Combat-Archery-Alliance/event-tickets/config"
	"github.com/International-Combat-Archery-Alliance/event-tickets/mail"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
)

var _ mail.Sender = &EmailLogger{}

// mail.Sender that logs out the email instead of sending it, for local dev
type EmailLogger struct {
	logger *slog.Logger
}

func (el *EmailLogger) SendEmail(ctx context.Context, m mail.Message) error {
	attachments := make([]string, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		attachments = append(attachments, a.Name)
	}

	el.logger.InfoContext(ctx, "email that would be sent",
		slog.String("from", m.FromAddress),
		slog.Any("to", m.ToAddresses),
		slog.String("subject", m.Subject),
		slog.Any("attachments", attachments),
		slog.String("text", m.TextBody),
	)

	return nil
}

func createEmailSender(cfg config.MailConfig, logger *slog.Logger, awsCfg func() (aws.Config, error)) (mail.Sender, error) {
	switch cfg.Provider {
	case "ses":
		c, err := awsCfg()
		if err != nil {
			return nil, err
		}
		return mail.NewSESSender(sesv2.NewFromConfig(c)), nil
	case "smtp":
		return mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword), nil
	case "log":
		return &EmailLogger{logger: logger}, nil
	}

	return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
}
