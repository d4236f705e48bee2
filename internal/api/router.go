package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/newsnotify/notification-system/internal/api/handler"
	"github.com/newsnotify/notification-system/internal/api/middleware"
	"github.com/newsnotify/notification-system/internal/core/service"
	mongodb "github.com/newsnotify/notification-system/internal/infrastructure/db/mongo"
	redisdb "github.com/newsnotify/notification-system/internal/infrastructure/db/redis"
	"github.com/newsnotify/notification-system/internal/infrastructure/email"
	"github.com/newsnotify/notification-system/internal/infrastructure/http/handlers"
	"github.com/newsnotify/notification-system/internal/pkg/config"
	"github.com/newsnotify/notification-system/internal/token"
)

const (
	sessionTokenTTL = 30 * 24 * time.Hour
	actionTokenTTL  = 30 * time.Minute
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("notify"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	notificationRepo := mongodb.NewNotificationRepository(db)

	sessionTokens := token.NewIssuer(cfg.JWTSecret, sessionTokenTTL)
	actionTokens := token.NewIssuer(cfg.JWTSecret, actionTokenTTL)

	mailer := email.NewSendGridMailer(cfg.SendGrid.APIKey, cfg.SendGrid.From)
	limiter := redisdb.NewRateLimiter(rdb, 0, 0)

	authService := service.NewAuthService(userRepo, mailer, limiter, sessionTokens, actionTokens, service.AuthConfig{
		BaseURL:     cfg.BaseURL,
		FrontendURL: cfg.FrontendURL,
	}, log)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, mailer, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService, cfg.FrontendURL)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	sessionGuard := middleware.Auth(sessionTokens, userRepo)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password/:token", authHandler.ResetPassword)

	// --- User routes (email-link endpoints, no session required) ---
	users := e.Group("/api/users")
	users.GET("/verify-email/:token", userHandler.VerifyEmail)
	users.POST("/resend-verification", userHandler.ResendVerification)

	// --- Notification routes (session required) ---
	notifications := e.Group("/api/notifications", sessionGuard)
	notifications.POST("", notificationHandler.Create)
	notifications.GET("", notificationHandler.List)
	notifications.PUT("/:id", notificationHandler.Update)
	notifications.DELETE("/:id", notificationHandler.Delete)

	// --- Operational endpoints ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
