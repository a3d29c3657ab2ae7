package service

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/bloomaccess/backend/internal/config"
	emailProvider "github.com/bloomaccess/backend/pkg/email"
	"github.com/bloomaccess/backend/pkg/logger"

	"go.uber.org/zap"
)

const verificationEmailSubject = "Please, Verify your Email!"

type EmailService struct {
	sender    emailProvider.Sender
	templates fs.FS
	config    config.EmailConfig
	enabled   bool
}

func newEmailsService(sender emailProvider.Sender, templates fs.FS, config config.EmailConfig) *EmailService {
	return &EmailService{
		enabled:   config.Enabled,
		sender:    sender,
		templates: templates,
		config:    config,
	}
}

type verificationEmailInput struct {
	Link      string
	ExpiresIn string
}

type VerificationEmailInput struct {
	Email string
	Link  string
	TTL   time.Duration
}

func (s *EmailService) SendUserVerificationEmail(ctx context.Context, input VerificationEmailInput) error {
	if !s.enabled {
		logger.Debug("email disabled, verification link not sent", zap.String("email", input.Email), zap.String("link", input.Link))
		return nil
	}

	templateInput := verificationEmailInput{Link: input.Link, ExpiresIn: humanizeTTL(input.TTL)}
	sendInput := emailProvider.SendEmailInput{Subject: verificationEmailSubject, To: input.Email}

	if err := sendInput.RenderHTML(s.templates, s.config.Templates.Verification, templateInput); err != nil {
		return fmt.Errorf("generate email failed: %w", err)
	}

	return s.sender.Send(ctx, sendInput)
}

func humanizeTTL(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "Hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "Minute")
	default:
		return d.String()
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
