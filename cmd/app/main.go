package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apiHttp "github.com/bloomaccess/backend/internal/api/http"
	"github.com/bloomaccess/backend/internal/cache"
	"github.com/bloomaccess/backend/internal/config"
	"github.com/bloomaccess/backend/internal/db"
	"github.com/bloomaccess/backend/internal/queue/asynqserver"
	queueClient "github.com/bloomaccess/backend/internal/queue/client"
	"github.com/bloomaccess/backend/internal/queue/task"
	"github.com/bloomaccess/backend/internal/repository"
	"github.com/bloomaccess/backend/internal/server"
	"github.com/bloomaccess/backend/internal/service"
	"github.com/bloomaccess/backend/internal/worker"
	"github.com/bloomaccess/backend/pkg/auth"
	"github.com/bloomaccess/backend/pkg/email/smtp"
	"github.com/bloomaccess/backend/pkg/hash"
	"github.com/bloomaccess/backend/pkg/logger"
	"github.com/bloomaccess/backend/templates"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	// Init cfg from environment variables
	cfg := config.MustLoad()

	if _, err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		log.Fatalf("logger init failed: %s", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting bloomaccess backend", zap.String("env", cfg.Env))
	logger.Debug("debug messages are enabled")

	// Init database
	dbMySQL, err := db.New(cfg.Database)
	if err != nil {
		logger.Fatal("mysql connect problem", zap.Error(err))
	}
	defer func() {
		if err := dbMySQL.Close(); err != nil {
			logger.Error("error when closing mysql", zap.Error(err))
		}
	}()
	logger.Info("mysql connection done")

	if cfg.Database.MigrateOnStart {
		if err := db.Migrate(context.Background(), dbMySQL); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
		logger.Info("migrations applied")
	}

	redisClient, err := cache.NewRedis(cfg.Cache)
	if err != nil {
		logger.Fatal("redis connect problem", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("error when closing redis", zap.Error(err))
		}
	}()
	logger.Info("redis connection done")

	hasher, err := hash.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("hasher creation failed", zap.Error(err))
	}

	emailSender, err := smtp.NewSMTPSender(cfg.SMTP.From, cfg.SMTP.Pass, cfg.SMTP.Host, cfg.SMTP.Port)
	if err != nil {
		logger.Fatal("smtp sender creation failed", zap.Error(err))
	}

	tokenManager, err := auth.NewManager(cfg.Auth.JWT)
	if err != nil {
		logger.Fatal("auth manager creation failed", zap.Error(err))
	}

	// Services, Repos & API Handlers
	repos := repository.NewRepositories(dbMySQL)
	services := service.NewServices(service.Deps{
		Config:       cfg,
		Hasher:       hasher,
		TokenManager: tokenManager,
		EmailSender:  emailSender,
		Templates:    templates.FS,
		Repos:        repos,
	})
	handlers := apiHttp.NewHandlers(services, tokenManager,
		apiHttp.MySQLCheck(dbMySQL),
		apiHttp.RedisCheck(redisClient),
	)

	// Reaper of expired verifications
	var (
		queueServer *asynq.Server
		scheduler   *asynq.Scheduler
	)
	if cfg.Reaper.Enabled {
		workers := worker.NewWorkers(worker.Deps{Purger: services.Verifications})

		var mux *asynq.ServeMux
		queueServer, mux = asynqserver.New(cfg.Cache, workers)
		if err := queueServer.Start(mux); err != nil {
			logger.Fatal("asynq server start failed", zap.Error(err))
		}

		scheduler, err = asynqserver.NewScheduler(cfg.Cache, cfg.Reaper)
		if err != nil {
			logger.Fatal("asynq scheduler creation failed", zap.Error(err))
		}
		if err := scheduler.Start(); err != nil {
			logger.Fatal("asynq scheduler start failed", zap.Error(err))
		}

		client := asynq.NewClient(asynqserver.RedisOptions(cfg.Cache))
		defer func() { _ = client.Close() }()
		defer queueClient.SetClient(client)()

		// catch up on whatever expired while the service was down
		if _, err := queueClient.Enqueue(context.Background(), task.NewPurgeExpiredTask()); err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
			logger.Warn("initial reaper run not enqueued", zap.Error(err))
		}

		logger.Info("reaper started", zap.String("cron", cfg.Reaper.Cron))
	}

	// HTTP Server
	srv := server.NewServer(cfg.HttpServer, handlers.Init(cfg))
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

	if scheduler != nil {
		scheduler.Shutdown()
	}
	if queueServer != nil {
		queueServer.Shutdown()
	}

	logger.Info("app stopped")
}
