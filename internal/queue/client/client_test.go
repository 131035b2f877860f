package client

import (
	"context"
	"testing"

	"github.com/vibe-gaming/signup/internal/queue/task"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisher_NoClient(t *testing.T) {
	restore := SetClient(nil)
	defer restore()

	err := NewPublisher().EnqueueWelcomeEmail(context.Background(), "a@x.com", "alice")
	assert.ErrorIs(t, err, ErrNoClient)
}

func TestPublisher_EnqueueWelcomeEmail(t *testing.T) {
	mr := miniredis.RunT(t)
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: mr.Addr()})
	t.Cleanup(func() { _ = asynqClient.Close() })

	ctx := WithClient(context.Background(), asynqClient)
	require.NoError(t, NewPublisher().EnqueueWelcomeEmail(ctx, "a@x.com", "alice"))

	pending, err := mr.List("asynq:{" + task.WelcomeEmailQueueName + "}:pending")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestGetClient_ContextOverridesGlobal(t *testing.T) {
	global := asynq.NewClient(asynq.RedisClientOpt{Addr: "127.0.0.1:0"})
	scoped := asynq.NewClient(asynq.RedisClientOpt{Addr: "127.0.0.1:0"})
	t.Cleanup(func() {
		_ = global.Close()
		_ = scoped.Close()
	})

	restore := SetClient(global)
	defer restore()

	assert.Same(t, global, GetClient(context.Background()))
	assert.Same(t, scoped, GetClient(WithClient(context.Background(), scoped)))
}
