package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/Poco-dev/todo-bot/api/handler"
	"github.com/Poco-dev/todo-bot/bot"
	"github.com/Poco-dev/todo-bot/internal/botstate"
	"github.com/Poco-dev/todo-bot/internal/config"
	"github.com/Poco-dev/todo-bot/internal/infrastructure/monitor"
	pgInfra "github.com/Poco-dev/todo-bot/internal/infrastructure/postgres"
	redisInfra "github.com/Poco-dev/todo-bot/internal/infrastructure/redis"
	"github.com/Poco-dev/todo-bot/internal/middleware"
	"github.com/Poco-dev/todo-bot/internal/router"
	"github.com/Poco-dev/todo-bot/internal/services/lifecycle"
	"github.com/Poco-dev/todo-bot/pkg/httpcontext"
	"github.com/Poco-dev/todo-bot/pkg/logger"
	"github.com/Poco-dev/todo-bot/repository/postgres"
	redisRepo "github.com/Poco-dev/todo-bot/repository/redis"
	identityUC "github.com/Poco-dev/todo-bot/usecase/identity"
	taskUC "github.com/Poco-dev/todo-bot/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		// missing bot token or storage connection string is fatal by design
		log.Fatalf("configuration invalid: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	stateStore, err := botstate.Open(cfg.Bot.StatePath)
	if err != nil {
		zapLogger.Fatal("failed to open bot state store", zap.Error(err))
	}
	manager.Register("bot_state", func(ctx context.Context) error {
		return stateStore.Close()
	})

	mon := monitor.New(pool, redisClient, stateStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	taskRepo := postgres.NewTaskRepository(pool)
	presenceRepo := redisRepo.NewPresenceRepository(redisClient, cfg.Presence.TTL)

	taskService := taskUC.New(taskRepo, zapLogger)

	signer := identityUC.NewTokenSigner(cfg.Link.Secret, cfg.Link.Issuer, cfg.Link.TTL)
	resolver := identityUC.NewResolver(signer, cfg.Bot.Token, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:   apiHandler.NewTaskHandler(taskService, ctxAdapter, zapLogger),
		Status: apiHandler.NewStatusHandler(mon, ctxAdapter, zapLogger),
	}

	identityMiddleware := middleware.Identity(resolver, presenceRepo, zapLogger)
	r := router.New(handlers, identityMiddleware, cfg.HTTP.WebDir)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	links := bot.NewLinkBuilder(cfg.Bot.WebAppURL, signer)
	tgBot, err := bot.New(cfg.Bot.Token, taskService, presenceRepo, stateStore, links, zapLogger)
	if err != nil {
		zapLogger.Fatal("bot startup failed", zap.Error(err))
	}
	go tgBot.Run(appCtx)

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
