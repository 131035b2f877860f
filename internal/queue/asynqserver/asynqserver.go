package asynqserver

import (
	"github.com/vibe-gaming/signup/internal/cache"
	"github.com/vibe-gaming/signup/internal/config"
	"github.com/vibe-gaming/signup/internal/queue/processor"
	"github.com/vibe-gaming/signup/internal/queue/task"
	"github.com/vibe-gaming/signup/internal/worker"

	"github.com/hibiken/asynq"
)

func New(cfg config.Cache, queueCfg config.QueueConfig, workers *worker.Workers) (*asynq.Server, *asynq.ServeMux) {
	mux, queues := getQueues(workers)
	srv := asynq.NewServer(
		RedisOptions(cfg),
		asynq.Config{
			Concurrency: queueCfg.Concurrency,
			LogLevel:    asynq.ErrorLevel,
			Queues:      queues,
		},
	)

	return srv, mux
}

func RedisOptions(cfg config.Cache) asynq.RedisConnOpt {
	var opts asynq.RedisConnOpt
	if cfg.Type == cache.RedisTypeCluster {
		opts = asynq.RedisClusterClientOpt{Addrs: cfg.RedisCluster.Addresses, Password: cfg.RedisCluster.Password}
	} else {
		opts = asynq.RedisClientOpt{Addr: cfg.Redis.Address, Password: cfg.Redis.Password}
	}
	return opts
}

func getQueues(workers *worker.Workers) (*asynq.ServeMux, map[string]int) {
	mux := asynq.NewServeMux()
	mux.Handle(task.WelcomeEmailTaskName, processor.NewWelcomeEmailProcessor(workers))
	queues := map[string]int{
		task.WelcomeEmailQueueName: 1,
	}
	return mux, queues
}
