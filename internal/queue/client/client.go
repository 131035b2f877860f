package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vibe-gaming/signup/internal/queue/task"

	"github.com/hibiken/asynq"
)

type ctxKey int

const (
	_ ctxKey = iota
	asyncQCtxKey
)

var (
	globalClient *asynq.Client
	globalMu     sync.RWMutex

	ErrNoClient = errors.New("asynq client is not configured")
)

// GetClient returns the client stored in ctx, or the global one set with SetClient.
// It's safe for concurrent use.
func GetClient(ctx context.Context) *asynq.Client {
	if client, ok := ctx.Value(asyncQCtxKey).(*asynq.Client); ok {
		return client
	}

	globalMu.RLock()
	client := globalClient
	globalMu.RUnlock()

	return client
}

// SetClient replaces the global Client, and returns a
// function to restore the original value. It's safe for concurrent use.
func SetClient(client *asynq.Client) func() {
	globalMu.Lock()
	prev := globalClient
	globalClient = client
	globalMu.Unlock()
	return func() { SetClient(prev) }
}

// WithClient makes GetClient return client for ctx and everything derived from it.
func WithClient(ctx context.Context, client *asynq.Client) context.Context {
	return context.WithValue(ctx, asyncQCtxKey, client)
}

// Publisher enqueues background tasks through the client resolved from the request context.
type Publisher struct{}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) EnqueueWelcomeEmail(ctx context.Context, email string, username string) error {
	client := GetClient(ctx)
	if client == nil {
		return ErrNoClient
	}

	t, err := task.NewWelcomeEmailTask(email, username)
	if err != nil {
		return fmt.Errorf("create welcome email task failed: %w", err)
	}

	if _, err := client.EnqueueContext(ctx, t); err != nil {
		return fmt.Errorf("enqueue welcome email task failed: %w", err)
	}

	return nil
}
