package service

import (
	"context"
	"fmt"
	"io/fs"
	"time"

	"github.com/vibe-gaming/signup/internal/config"
	"github.com/vibe-gaming/signup/internal/templates"
	emailProvider "github.com/vibe-gaming/signup/pkg/email"
)

const verificationSubject = "Your OTP for Registration"

type EmailService struct {
	sender    emailProvider.Sender
	templates fs.FS
	config    config.EmailConfig
	codeTTL   time.Duration
}

func newEmailsService(sender emailProvider.Sender, templates fs.FS, config config.EmailConfig, codeTTL time.Duration) *EmailService {
	return &EmailService{
		sender:    sender,
		templates: templates,
		config:    config,
		codeTTL:   codeTTL,
	}
}

type verificationEmailInput struct {
	Username         string
	Code             string
	ExpiresInMinutes int
}

type VerificationEmailInput struct {
	Email            string
	Username         string
	VerificationCode string
}

// SendUserVerificationEmail delivers the code once. A send that outlives
// EMAIL_SEND_TIMEOUT is reported as a failure even if it completes later.
func (s *EmailService) SendUserVerificationEmail(ctx context.Context, input VerificationEmailInput) error {
	templateInput := verificationEmailInput{
		Username:         input.Username,
		Code:             input.VerificationCode,
		ExpiresInMinutes: int(s.codeTTL.Minutes()),
	}
	sendInput := emailProvider.SendEmailInput{Subject: verificationSubject, To: input.Email}

	if err := sendInput.GenerateBodyFromHTML(s.templates, s.config.Templates.Verification, templateInput); err != nil {
		return fmt.Errorf("generate email failed: %w", err)
	}

	if err := sendInput.GenerateTextFromTemplate(s.templates, templates.TextName(s.config.Templates.Verification), templateInput); err != nil {
		return fmt.Errorf("generate email text failed: %w", err)
	}

	return s.send(ctx, sendInput)
}

func (s *EmailService) send(ctx context.Context, input emailProvider.SendEmailInput) error {
	if s.config.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.SendTimeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- s.sender.Send(input)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send email failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send email aborted: %w", ctx.Err())
	}
}
