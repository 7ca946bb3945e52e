package mail

import (
	"context"
	"fmt"
	"io"

	gomail "gopkg.in/gomail.v2"
)

// SMTPMailer implements Mailer over SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer creates an SMTPMailer for the given server and sender.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers the message. The dial is not cancellable mid-flight; the
// context is checked before any connection is opened.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)
	if msg.AttachmentName != "" {
		gm.Attach(msg.AttachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(msg.Attachment)
			return err
		}))
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}
