package mail

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

var _ Sender = &SMTPSender{}

// SMTPSender upgrades to TLS when the server offers STARTTLS and
// authenticates with PLAIN when a username is set.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
}

func NewSMTPSender(host string, port int, username string, password string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
	}
}

func (s *SMTPSender) clientOptions(ctx context.Context) []gomail.Option {
	opts := []gomail.Option{
		gomail.WithPort(s.port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if deadline, ok := ctx.Deadline(); ok {
		opts = append(opts, gomail.WithTimeout(time.Until(deadline)))
	}
	if s.username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.username),
			gomail.WithPassword(s.password),
		)
	}
	return opts
}

func (s *SMTPSender) SendEmail(ctx context.Context, m Message) error {
	msg, err := newMsg(m)
	if err != nil {
		return fmt.Errorf("failed to build email: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to connect to smtp server: %w", err)
	}

	c, err := gomail.NewClient(s.host, s.clientOptions(ctx)...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := c.DialWithContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to smtp server: %w", err)
	}
	defer c.Close()

	if err := c.Send(msg); err != nil {
		return fmt.Errorf("failed to send email over smtp: %w", err)
	}

	return nil
}
