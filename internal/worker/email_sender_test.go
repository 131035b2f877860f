package worker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vibe-gaming/signup/internal/config"
	"github.com/vibe-gaming/signup/internal/templates"
	"github.com/vibe-gaming/signup/pkg/email"
	mock_email "github.com/vibe-gaming/signup/pkg/email/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestWorkers(sender email.Sender) *Workers {
	cfg := &config.Config{}
	cfg.Email.Templates.Welcome = "welcome.html"

	return NewWorkers(Deps{EmailProvider: sender, EmailTemplates: templates.FS(), Config: cfg})
}

func TestEmailSender_SendWelcomeEmail(t *testing.T) {
	sender := new(mock_email.EmailSender)
	sender.On("Send", mock.MatchedBy(func(in email.SendEmailInput) bool {
		return in.To == "a@x.com" &&
			strings.Contains(in.Body, "alice") &&
			strings.Contains(in.Text, "a@x.com")
	})).Return(nil).Once()

	require.NoError(t, newTestWorkers(sender).EmailSender.SendWelcomeEmail(context.Background(), "a@x.com", "alice"))
	sender.AssertExpectations(t)
}

func TestEmailSender_SendError(t *testing.T) {
	sender := new(mock_email.EmailSender)
	sender.On("Send", mock.Anything).Return(errors.New("smtp down"))

	err := newTestWorkers(sender).EmailSender.SendWelcomeEmail(context.Background(), "a@x.com", "alice")
	assert.ErrorContains(t, err, "smtp down")
}

func TestEmailSender_CancelledContext(t *testing.T) {
	sender := new(mock_email.EmailSender)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newTestWorkers(sender).EmailSender.SendWelcomeEmail(ctx, "a@x.com", "alice")
	assert.ErrorIs(t, err, context.Canceled)
	sender.AssertNotCalled(t, "Send", mock.Anything)
}
