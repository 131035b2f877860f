package email

import (
	"github.com/vibe-gaming/signup/pkg/logger"

	"go.uber.org/zap"
)

// LogSender writes messages to the log instead of delivering them. Local use only.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(input SendEmailInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	logger.Info("email delivery skipped, log provider",
		zap.String("to", input.To),
		zap.String("subject", input.Subject),
		zap.String("text", input.Text),
	)

	return nil
}
