package smtp

import (
	"context"

	"github.com/bloomaccess/backend/pkg/email"

	"github.com/go-gomail/gomail"
	"github.com/pkg/errors"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPSender struct {
	from   string
	dialer dialer
}

func NewSMTPSender(from, pass, host string, port int) (*SMTPSender, error) {
	if !email.IsEmailValid(from) {
		return nil, errors.New("invalid from email")
	}

	return &SMTPSender{from: from, dialer: gomail.NewDialer(host, port, from, pass)}, nil
}

// Send delivers the message or gives up when ctx is done. gomail has no
// context support, so an abandoned dial keeps running in the background
// until the server or the OS times it out.
func (s *SMTPSender) Send(ctx context.Context, input email.SendEmailInput) error {
	if err := input.Validate(); err != nil {
		return errors.Wrap(err, "invalid email input")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", input.To)
	msg.SetHeader("Subject", input.Subject)
	msg.SetBody("text/html", input.Body)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return errors.Wrap(err, "failed to send email via smtp")
		}
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "smtp send aborted")
	}
}
