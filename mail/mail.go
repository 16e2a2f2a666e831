package mail

import (
	"context"
)

type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
	// InlineID makes the attachment addressable from the HTML body as cid:<InlineID>.
	InlineID string
}

type Message struct {
	FromAddress string
	ToAddresses []string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

type Sender interface {
	SendEmail(ctx context.Context, m Message) error
}
