package mail

import (
	"bytes"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

const defaultAttachmentType = "application/octet-stream"

// newMsg builds the go-mail message for m. Attachments with an InlineID are
// embedded next to the HTML body and addressable as cid:<InlineID>; the rest
// are regular attachments.
func newMsg(m Message) (*gomail.Msg, error) {
	if m.FromAddress == "" {
		return nil, fmt.Errorf("message has no from address")
	}
	if len(m.ToAddresses) == 0 {
		return nil, fmt.Errorf("message has no recipients")
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.FromAddress); err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", m.FromAddress, err)
	}
	if err := msg.To(m.ToAddresses...); err != nil {
		return nil, fmt.Errorf("invalid recipients %v: %w", m.ToAddresses, err)
	}
	msg.Subject(m.Subject)

	switch {
	case m.TextBody != "" && m.HTMLBody != "":
		msg.SetBodyString(gomail.TypeTextPlain, m.TextBody)
		msg.AddAlternativeString(gomail.TypeTextHTML, m.HTMLBody)
	case m.HTMLBody != "":
		msg.SetBodyString(gomail.TypeTextHTML, m.HTMLBody)
	default:
		msg.SetBodyString(gomail.TypeTextPlain, m.TextBody)
	}

	for _, a := range m.Attachments {
		contentType := a.ContentType
		if contentType == "" {
			contentType = defaultAttachmentType
		}
		opts := []gomail.FileOption{gomail.WithFileContentType(gomail.ContentType(contentType))}

		if a.InlineID != "" {
			opts = append(opts, gomail.WithFileContentID(fmt.Sprintf("<%s>", a.InlineID)))
			if err := msg.EmbedReader(a.Name, bytes.NewReader(a.Data), opts...); err != nil {
				return nil, fmt.Errorf("failed to embed %q: %w", a.Name, err)
			}
			continue
		}

		if err := msg.AttachReader(a.Name, bytes.NewReader(a.Data), opts...); err != nil {
			return nil, fmt.Errorf("failed to attach %q: %w", a.Name, err)
		}
	}

	return msg, nil
}

// rawMessage renders m as RFC 5322 bytes.
func rawMessage(m Message) ([]byte, error) {
	msg, err := newMsg(m)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write message: %w", err)
	}
	return buf.Bytes(), nil
}
