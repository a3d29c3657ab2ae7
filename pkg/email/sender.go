package email

import (
	"bytes"
	"context"
	"html/template"
	"io/fs"
	"regexp"

	"github.com/pkg/errors"
)

var emailRegexp = regexp.MustCompile(`^[\w\-.+]+@([\w-]+\.)+[\w-]{2,}$`)

var (
	ErrEmptyRecipient   = errors.New("empty recipient")
	ErrEmptyContent     = errors.New("empty subject or body")
	ErrInvalidRecipient = errors.New("invalid recipient address")
)

// SendEmailInput is one HTML message to a single recipient.
type SendEmailInput struct {
	To      string
	Subject string
	Body    string
}

type Sender interface {
	Send(ctx context.Context, input SendEmailInput) error
}

// RenderHTML executes the named template from fsys into Body.
func (e *SendEmailInput) RenderHTML(fsys fs.FS, name string, data any) error {
	t, err := template.ParseFS(fsys, name)
	if err != nil {
		return errors.Wrapf(err, "parse template %s", name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return errors.Wrapf(err, "execute template %s", name)
	}
	e.Body = buf.String()

	return nil
}

func (e *SendEmailInput) Validate() error {
	switch {
	case e.To == "":
		return ErrEmptyRecipient
	case e.Subject == "" || e.Body == "":
		return ErrEmptyContent
	case !IsEmailValid(e.To):
		return ErrInvalidRecipient
	}
	return nil
}

func IsEmailValid(email string) bool {
	return emailRegexp.MatchString(email)
}
