package worker

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/vibe-gaming/signup/internal/config"
	"github.com/vibe-gaming/signup/internal/templates"
	emailProvider "github.com/vibe-gaming/signup/pkg/email"
)

const welcomeSubject = "Welcome! Your registration is complete"

type emailSender struct {
	sender    emailProvider.Sender
	templates fs.FS
	config    config.EmailConfig
}

func newEmailSender(
	sender emailProvider.Sender,
	templates fs.FS,
	config config.EmailConfig,
) *emailSender {
	return &emailSender{
		sender:    sender,
		templates: templates,
		config:    config,
	}
}

type welcomeEmailInput struct {
	Email    string
	Username string
}

func (s *emailSender) SendWelcomeEmail(ctx context.Context, email string, username string) error {
	templateInput := welcomeEmailInput{Email: email, Username: username}
	sendInput := emailProvider.SendEmailInput{Subject: welcomeSubject, To: email}

	if err := sendInput.GenerateBodyFromHTML(s.templates, s.config.Templates.Welcome, templateInput); err != nil {
		return fmt.Errorf("generate email failed: %w", err)
	}

	if err := sendInput.GenerateTextFromTemplate(s.templates, templates.TextName(s.config.Templates.Welcome), templateInput); err != nil {
		return fmt.Errorf("generate email text failed: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.sender.Send(sendInput); err != nil {
		return fmt.Errorf("send email failed: %w", err)
	}

	return nil
}
