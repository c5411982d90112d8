package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mentorlink/sphere-api/internal/api/handler"
	"github.com/mentorlink/sphere-api/internal/api/middleware"
	"github.com/mentorlink/sphere-api/internal/core/ports"
	"github.com/mentorlink/sphere-api/internal/core/service"
	"github.com/mentorlink/sphere-api/internal/realtime"
)

// Deps carries the explicitly constructed collaborators the router wires
// into handlers. Everything is built once at process start and injected;
// there are no ambient singletons behind the handlers.
type Deps struct {
	AuthService   ports.AuthService
	MentorService ports.MentorService
	UpdateService ports.UpdateService
	Dispatcher    handler.UpdateDispatcher
	ChatBot       *service.ChatBot
	Tokens        *service.TokenIssuer
	Hub           *realtime.Hub
	Mongo         *mongo.Database
	Redis         *redis.Client
	Log           zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("mentorlink"))

	authHandler := handler.NewAuthHandler(d.AuthService)
	mentorHandler := handler.NewMentorHandler(d.MentorService)
	updateHandler := handler.NewUpdateHandler(d.Dispatcher, d.UpdateService)
	chatHandler := handler.NewChatHandler(d.ChatBot)
	sessionHandler := handler.NewSessionHandler()
	requireAuth := middleware.Auth(d.Tokens)

	// --- User / auth routes ---
	e.POST("/users/signup", authHandler.Signup)
	e.POST("/users/login", authHandler.Login)
	e.GET("/users/verify-email", authHandler.VerifyEmail)
	e.POST("/users/request-password-reset", authHandler.RequestPasswordReset)
	e.POST("/users/reset-password", authHandler.ResetPassword)
	e.GET("/users/me", authHandler.Me, requireAuth)
	e.GET("/users", authHandler.ListUsers, requireAuth)

	// --- Mentor directory ---
	e.GET("/mentors", mentorHandler.List)
	e.POST("/mentors", mentorHandler.Create)
	e.GET("/mentors/:id", mentorHandler.Get)
	e.PUT("/mentors/:id", mentorHandler.Update)
	e.DELETE("/mentors/:id", mentorHandler.Delete)

	// --- Course updates ---
	e.POST("/updates", updateHandler.Publish, requireAuth, middleware.RequireMentor())
	e.GET("/updates/:courseID", updateHandler.Recent)

	// --- Chat assistant / video sessions ---
	e.POST("/chat", chatHandler.Query)
	e.POST("/sessions", sessionHandler.Create, requireAuth)

	// --- Realtime channel ---
	e.GET("/ws", d.Hub.Serve)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
