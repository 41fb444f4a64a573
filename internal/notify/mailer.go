package notify

import (
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"
)

// Mailer is the port for the external mail transport.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPMailer sends plain-text mail over SMTP. Each Send dials, authenticates
// once, delivers one message, and closes the connection.
type SMTPMailer struct {
	host     string
	port     int
	from     string
	username string
	password string
}

// NewSMTPMailer creates a mailer for the given SMTP relay.
func NewSMTPMailer(host string, port int, from, username, password string) *SMTPMailer {
	return &SMTPMailer{host: host, port: port, from: from, username: username, password: password}
}

// Send delivers one message to one recipient.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("mail from %q: %w", m.from, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("mail to %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %q: %w", to, err)
	}
	return nil
}
