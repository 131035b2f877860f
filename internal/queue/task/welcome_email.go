package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	WelcomeEmailTaskName  = "welcomeEmailTask"
	WelcomeEmailQueueName = "welcomeEmailQueue"
)

type WelcomeEmail struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

func NewWelcomeEmailTask(email string, username string) (*asynq.Task, error) {
	var data WelcomeEmail
	data.Email = email
	data.Username = username

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("json data marshal failed: %w", err)
	}

	return asynq.NewTask(
		WelcomeEmailTaskName,
		payload,
		asynq.MaxRetry(5),
		asynq.Queue(WelcomeEmailQueueName),
	), nil
}
