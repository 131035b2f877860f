package mailer

import (
	"fmt"

	"github.com/vibe-gaming/signup/internal/config"
	"github.com/vibe-gaming/signup/pkg/email"
	"github.com/vibe-gaming/signup/pkg/email/resend"
	"github.com/vibe-gaming/signup/pkg/email/smtp"
)

const (
	ProviderSMTP   = "smtp"
	ProviderResend = "resend"
	ProviderLog    = "log"
)

// NewSender builds the outbound email transport selected by EMAIL_PROVIDER.
func NewSender(cfg *config.Config) (email.Sender, error) {
	switch cfg.Email.Provider {
	case ProviderSMTP:
		return smtp.NewSMTPSender(cfg.SMTP.From, cfg.SMTP.Pass, cfg.SMTP.Host, cfg.SMTP.Port)
	case ProviderResend:
		return resend.NewResendSender(cfg.Resend.APIKey, cfg.Resend.From)
	case ProviderLog:
		return email.NewLogSender(), nil
	default:
		return nil, fmt.Errorf("unsupported email provider %q", cfg.Email.Provider)
	}
}
