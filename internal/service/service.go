package service

import (
	"context"
	"io/fs"

	"github.com/vibe-gaming/signup/internal/config"
	"github.com/vibe-gaming/signup/internal/domain"
	"github.com/vibe-gaming/signup/internal/repository"
	"github.com/vibe-gaming/signup/pkg/auth"
	emailProvider "github.com/vibe-gaming/signup/pkg/email"
	"github.com/vibe-gaming/signup/pkg/hash"
	"github.com/vibe-gaming/signup/pkg/otp"

	"github.com/jonboulle/clockwork"
)

type Services struct {
	Registrations Registrations
	Emails        Emails
}

type Deps struct {
	Config           *config.Config
	Clock            clockwork.Clock
	Hasher           hash.PasswordHasher
	SessionCodec     auth.SessionCodec
	OtpGenerator     otp.Generator
	EmailSender      emailProvider.Sender
	EmailTemplates   fs.FS
	WelcomePublisher WelcomePublisher
	Repos            *repository.Repositories
}

func NewServices(deps Deps) *Services {
	emails := newEmailsService(deps.EmailSender, deps.EmailTemplates, deps.Config.Email, deps.Config.Auth.VerificationCodeTTL)

	return &Services{
		Registrations: newRegistrationService(deps.Repos.Accounts,
			deps.Repos.VerificationRecords,
			emails,
			deps.WelcomePublisher,
			deps.SessionCodec,
			deps.OtpGenerator,
			deps.Hasher,
			deps.Clock,
			deps.Config.Auth,
		),
		Emails: emails,
	}
}

// Registrations drives an account from provisional to verified.
type Registrations interface {
	Start(ctx context.Context, input StartRegistrationInput) (*Session, error)
	Verify(ctx context.Context, token string, code string) (*domain.Account, error)
	Resend(ctx context.Context, token string) (*Session, error)
}

type Emails interface {
	SendUserVerificationEmail(ctx context.Context, input VerificationEmailInput) error
}

// WelcomePublisher schedules the welcome email for a freshly verified account.
type WelcomePublisher interface {
	EnqueueWelcomeEmail(ctx context.Context, email string, username string) error
}
