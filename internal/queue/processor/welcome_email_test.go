package processor

import (
	"context"
	"errors"
	"testing"

	"github.com/vibe-gaming/signup/internal/queue/task"
	"github.com/vibe-gaming/signup/internal/worker"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type emailSenderMock struct {
	mock.Mock
}

func (m *emailSenderMock) SendWelcomeEmail(ctx context.Context, email string, username string) error {
	args := m.Called(ctx, email, username)

	return args.Error(0)
}

func TestWelcomeEmailProcessor_ProcessTask(t *testing.T) {
	sender := new(emailSenderMock)
	sender.On("SendWelcomeEmail", mock.Anything, "a@x.com", "alice").Return(nil).Once()

	p := NewWelcomeEmailProcessor(&worker.Workers{EmailSender: sender})

	welcome, err := task.NewWelcomeEmailTask("a@x.com", "alice")
	require.NoError(t, err)

	require.NoError(t, p.ProcessTask(context.Background(), welcome))
	sender.AssertExpectations(t)
}

func TestWelcomeEmailProcessor_SenderError(t *testing.T) {
	sender := new(emailSenderMock)
	sender.On("SendWelcomeEmail", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	p := NewWelcomeEmailProcessor(&worker.Workers{EmailSender: sender})

	welcome, err := task.NewWelcomeEmailTask("a@x.com", "alice")
	require.NoError(t, err)

	err = p.ProcessTask(context.Background(), welcome)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestWelcomeEmailProcessor_BadPayload(t *testing.T) {
	sender := new(emailSenderMock)
	p := NewWelcomeEmailProcessor(&worker.Workers{EmailSender: sender})

	err := p.ProcessTask(context.Background(), asynq.NewTask(task.WelcomeEmailTaskName, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	sender.AssertNotCalled(t, "SendWelcomeEmail", mock.Anything, mock.Anything, mock.Anything)
}
