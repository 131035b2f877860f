package processor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vibe-gaming/signup/internal/queue/task"
	"github.com/vibe-gaming/signup/internal/worker"

	"github.com/hibiken/asynq"
)

type welcomeEmailProcessor struct {
	workers *worker.Workers
}

func NewWelcomeEmailProcessor(workers *worker.Workers) *welcomeEmailProcessor {
	return &welcomeEmailProcessor{
		workers: workers,
	}
}

func (p *welcomeEmailProcessor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var data task.WelcomeEmail
	err := json.Unmarshal(t.Payload(), &data)
	if err != nil {
		// a malformed payload never becomes valid, retrying is pointless
		return fmt.Errorf("process welcome email task json unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}

	if err = p.workers.EmailSender.SendWelcomeEmail(ctx, data.Email, data.Username); err != nil {
		return fmt.Errorf("send welcome email failed: %w", err)
	}

	return nil
}
