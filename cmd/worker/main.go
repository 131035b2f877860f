package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/vibe-gaming/signup/internal/config"
	"github.com/vibe-gaming/signup/internal/mailer"
	"github.com/vibe-gaming/signup/internal/queue/asynqserver"
	"github.com/vibe-gaming/signup/internal/templates"
	"github.com/vibe-gaming/signup/internal/worker"
	"github.com/vibe-gaming/signup/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoad()

	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	if err := cfg.ValidateWorker(); err != nil {
		logger.Fatal("invalid worker config", zap.Error(err))
	}

	logger.Info("starting signup worker", zap.String("env", cfg.Env))

	emailSender, err := mailer.NewSender(cfg)
	if err != nil {
		logger.Fatal("email sender creation failed", zap.Error(err))
	}

	workers := worker.NewWorkers(worker.Deps{
		EmailProvider:  emailSender,
		EmailTemplates: templates.FS(),
		Config:         cfg,
	})

	srv, mux := asynqserver.New(cfg.Cache, cfg.Queue, workers)
	if err := srv.Start(mux); err != nil {
		logger.Fatal("asynq server start failed", zap.Error(err))
	}
	logger.Info("worker started", zap.Int("concurrency", cfg.Queue.Concurrency))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	srv.Shutdown()

	logger.Info("worker stopped")
}
