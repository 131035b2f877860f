package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apiHttp "github.com/vibe-gaming/signup/internal/api/http"
	"github.com/vibe-gaming/signup/internal/cache"
	"github.com/vibe-gaming/signup/internal/config"
	"github.com/vibe-gaming/signup/internal/db"
	"github.com/vibe-gaming/signup/internal/mailer"
	"github.com/vibe-gaming/signup/internal/queue/asynqserver"
	queueClient "github.com/vibe-gaming/signup/internal/queue/client"
	"github.com/vibe-gaming/signup/internal/repository"
	"github.com/vibe-gaming/signup/internal/server"
	"github.com/vibe-gaming/signup/internal/service"
	"github.com/vibe-gaming/signup/internal/templates"
	"github.com/vibe-gaming/signup/pkg/auth"
	"github.com/vibe-gaming/signup/pkg/hash"
	"github.com/vibe-gaming/signup/pkg/logger"
	"github.com/vibe-gaming/signup/pkg/otp"

	"github.com/hibiken/asynq"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Init cfg from environment variables
	cfg := config.MustLoad()

	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting signup api", zap.String("env", cfg.Env))
	logger.Debug("debug messages are enabled")

	// Init database
	dbConn, err := db.New(cfg.Database)
	if err != nil {
		logger.Fatal("database connect problem", zap.Error(err))
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("error when closing database", zap.Error(err))
		}
	}()
	logger.Info("database connection done", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.Migrate {
		if err := db.Migrate(context.Background(), dbConn, cfg.Database.Driver); err != nil {
			logger.Fatal("database migration failed", zap.Error(err))
		}
		logger.Info("database migrations applied")
	}

	var redisClient redis.UniversalClient
	if cfg.NeedsRedis() {
		redisClient, err = cache.NewRedis(cfg.Cache)
		if err != nil {
			logger.Fatal("redis connect problem", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("error when closing redis", zap.Error(err))
			}
		}()
		logger.Info("redis connection done")
	}

	emailSender, err := mailer.NewSender(cfg)
	if err != nil {
		logger.Fatal("email sender creation failed", zap.Error(err))
	}

	clock := clockwork.NewRealClock()

	sessionCodec, err := auth.NewManager(cfg.Auth.Session, clock)
	if err != nil {
		logger.Fatal("session codec creation failed", zap.Error(err))
	}

	hasher := hash.NewBcryptHasher(cfg.Auth.BcryptCost)
	otpGenerator := otp.NewGOTPGenerator()

	// Services, Repos & API Handlers
	repos := repository.NewRepositories(dbConn)
	if cfg.Verification.Store == "redis" {
		repos.VerificationRecords = repository.NewRedisVerificationRecordRepository(redisClient, clock, cfg.Verification.Retention)
	}

	var welcomePublisher service.WelcomePublisher
	if cfg.Email.WelcomeEnabled {
		asynqClient := asynq.NewClient(asynqserver.RedisOptions(cfg.Cache))
		defer asynqClient.Close()
		defer queueClient.SetClient(asynqClient)()

		welcomePublisher = queueClient.NewPublisher()
	}

	services := service.NewServices(service.Deps{
		Config:           cfg,
		Clock:            clock,
		Hasher:           hasher,
		SessionCodec:     sessionCodec,
		OtpGenerator:     otpGenerator,
		EmailSender:      emailSender,
		EmailTemplates:   templates.FS(),
		WelcomePublisher: welcomePublisher,
		Repos:            repos,
	})
	handlers := apiHttp.NewHandlers(services, cfg)

	// HTTP Server
	srv := server.NewServer(cfg, handlers.Init(cfg))
	go func() {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("error occurred while running http server", zap.Error(err))
		}
	}()
	logger.Info("server started", zap.String("port", cfg.HttpServer.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	const timeout = 5 * time.Second

	ctx, shutdown := context.WithTimeout(context.Background(), timeout)
	defer shutdown()

	if err := srv.Stop(ctx); err != nil {
		logger.Error("failed to stop server", zap.Error(err))
	}

	logger.Info("app stopped")
}
