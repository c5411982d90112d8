package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mentorlink/sphere-api/internal/api"
	"github.com/mentorlink/sphere-api/internal/core/service"
	"github.com/mentorlink/sphere-api/internal/infrastructure/config"
	mongodb "github.com/mentorlink/sphere-api/internal/infrastructure/db/mongo"
	redisdb "github.com/mentorlink/sphere-api/internal/infrastructure/db/redis"
	"github.com/mentorlink/sphere-api/internal/infrastructure/mail"
	"github.com/mentorlink/sphere-api/internal/infrastructure/queue"
	"github.com/mentorlink/sphere-api/internal/realtime"
	"github.com/mentorlink/sphere-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not up yet; panic carries the cause.
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure user indexes")
	}
	mentorRepo := mongodb.NewMentorRepository(db)
	updateRepo := mongodb.NewUpdateRepository(db)
	feed := redisdb.NewUpdateFeed(rdb)

	// --- Services ---
	tokens := service.NewTokenIssuer(cfg.JWTSecret)
	mailer := mail.NewSMTPMailer(mail.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		BaseURL:  cfg.BaseURL,
	}, log)

	authService := service.NewAuthService(userRepo, tokens, mailer, log)
	mentorService := service.NewMentorService(mentorRepo, log)
	updateService := service.NewUpdateService(updateRepo, feed, feed, log)
	chatBot := service.NewChatBot()

	// --- Realtime fan-out ---
	hub := realtime.NewHub(log)
	go hub.Run(ctx)
	go feed.Relay(ctx, hub, log)

	dispatcher := queue.NewDispatcher(cfg.Realtime.Workers, updateService, log)
	dispatcher.Start(ctx)

	e := api.NewRouter(api.Deps{
		AuthService:   authService,
		MentorService: mentorService,
		UpdateService: updateService,
		Dispatcher:    dispatcher,
		ChatBot:       chatBot,
		Tokens:        tokens,
		Hub:           hub,
		Mongo:         db,
		Redis:         rdb,
		Log:           log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
