package worker

import (
	"context"
	"io/fs"

	"github.com/vibe-gaming/signup/internal/config"
	emailProvider "github.com/vibe-gaming/signup/pkg/email"
)

type Workers struct {
	EmailSender EmailSender
}

type Deps struct {
	EmailProvider  emailProvider.Sender
	EmailTemplates fs.FS
	Config         *config.Config
}

type EmailSender interface {
	SendWelcomeEmail(ctx context.Context, email string, username string) error
}

func NewWorkers(deps Deps) *Workers {
	return &Workers{
		EmailSender: newEmailSender(deps.EmailProvider, deps.EmailTemplates, deps.Config.Email),
	}
}
