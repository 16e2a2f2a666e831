package notification

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	texttemplate "text/template"
	"time"

	"github.com/International-Combat-Archery-Alliance/event-tickets/events"
	"github.com/International-Combat-Archery-Alliance/event-tickets/mail"
	"github.com/International-Combat-Archery-Alliance/event-tickets/metrics"
	"github.com/International-Combat-Archery-Alliance/event-tickets/registration"
	"github.com/International-Combat-Archery-Alliance/event-tickets/token"
)

//go:embed templates
var templates embed.FS

var (
	htmlTemplate = template.Must(template.ParseFS(templates, "templates/ticket-confirmation.tmpl"))
	textTemplate = texttemplate.Must(texttemplate.ParseFS(templates, "templates/ticket-confirmation-textonly.tmpl"))
)

const (
	qrContentID      = "qrcode"
	qrAttachmentName = "QRCode.png"
)

// Gateway delivers composed messages.
type Gateway = mail.Sender

type ArtifactReader interface {
	Read(ctx context.Context, location string) ([]byte, error)
}

type DispatchResult struct {
	Delivered bool
	Err       error
}

type Dispatcher struct {
	gateway     Gateway
	artifacts   ArtifactReader
	labels      LabelTable
	fromAddress string
	timeout     time.Duration
	logger      *slog.Logger
}

func NewDispatcher(gateway Gateway, artifacts ArtifactReader, labels LabelTable, fromAddress string, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		gateway:     gateway,
		artifacts:   artifacts,
		labels:      labels,
		fromAddress: fromAddress,
		timeout:     timeout,
		logger:      logger,
	}
}

// Dispatch sends the ticket confirmation for reg. Failures are reported in
// the result and never abort the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, reg registration.Registration, event events.Event, artifactLocation string, qr token.QRImage) DispatchResult {
	logger := d.logger.With(slog.String("ticketId", reg.ID))

	result := d.dispatch(ctx, reg, event, artifactLocation, qr)
	metrics.RecordDispatch(result.Delivered)
	if result.Err != nil {
		logger.Error("failed to send ticket confirmation email", slog.String("error", result.Err.Error()))
	}
	return result
}

func (d *Dispatcher) dispatch(ctx context.Context, reg registration.Registration, event events.Event, artifactLocation string, qr token.QRImage) DispatchResult {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	pdf, err := d.artifacts.Read(ctx, artifactLocation)
	if err != nil {
		return DispatchResult{Err: fmt.Errorf("failed to read ticket artifact: %w", err)}
	}

	msg, err := ComposeMessage(d.fromAddress, reg, event, d.labels.Lookup(reg.Role), qr, pdf)
	if err != nil {
		return DispatchResult{Err: err}
	}

	if err := d.gateway.SendEmail(ctx, msg); err != nil {
		return DispatchResult{Err: fmt.Errorf("failed to send message: %w", err)}
	}

	return DispatchResult{Delivered: true}
}

type templateData struct {
	Event        events.Event
	Registration registration.Registration
	Label        TicketLabel
	// OrderID is the raw ticket id. Only the printed ticket uses the
	// display form.
	OrderID      string
	Venue        string
}

func ComposeMessage(from string, reg registration.Registration, event events.Event, label TicketLabel, qr token.QRImage, pdf []byte) (mail.Message, error) {
	data := templateData{
		Event:        event,
		Registration: reg,
		Label:        label,
		OrderID:      reg.ID,
		Venue:        event.EventLocation.Short(),
	}

	var htmlBody bytes.Buffer
	if err := htmlTemplate.Execute(&htmlBody, data); err != nil {
		return mail.Message{}, fmt.Errorf("failed to execute email template: %w", err)
	}

	var textBody bytes.Buffer
	if err := textTemplate.Execute(&textBody, data); err != nil {
		return mail.Message{}, fmt.Errorf("failed to execute email template: %w", err)
	}

	return mail.Message{
		FromAddress: from,
		ToAddresses: []string{reg.Email},
		Subject:     fmt.Sprintf("🎉 %s - Your Ticket Confirmation", event.Name),
		HTMLBody:    htmlBody.String(),
		TextBody:    textBody.String(),
		Attachments: []mail.Attachment{
			{
				Name:        qrAttachmentName,
				ContentType: "image/png",
				Data:        qr.PNG,
				InlineID:    qrContentID,
			},
			{
				Name:        fmt.Sprintf("%s.pdf", reg.ID),
				ContentType: "application/pdf",
				Data:        pdf,
			},
		},
	}, nil
}
