package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"civic-issues-be/config"
	"civic-issues-be/controllers"
	"civic-issues-be/logger"
	"civic-issues-be/middlewares"
	"civic-issues-be/notify"
	"civic-issues-be/repository"
	"civic-issues-be/routes"
	"civic-issues-be/services"
	"civic-issues-be/storage"
	"civic-issues-be/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	if err := utils.RegisterValidators(); err != nil {
		return err
	}

	mongoClient, db, err := config.ConnectDB(cfg)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()
	log.Info("MongoDB connection established successfully!")

	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = repository.EnsureIndexes(indexCtx, db)
	cancel()
	if err != nil {
		return err
	}

	redisClient, err := config.ConnectRedis(cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	var mailer notify.Mailer = notify.LogMailer{Logger: log}
	if cfg.SMTP.Enabled() {
		mailer = notify.NewSMTPMailer(cfg.SMTP)
	}
	var sms notify.SMSSender = notify.LogSMSSender{Logger: log}
	if cfg.Twilio.Enabled() {
		sms = notify.NewTwilioSender(cfg.Twilio)
	}
	var photos storage.PhotoStore
	if cfg.S3.Enabled() {
		store, err := storage.NewS3PhotoStore(context.Background(), cfg.S3)
		if err != nil {
			return err
		}
		photos = store
	} else {
		log.Warn("S3 not configured, photo uploads disabled")
	}

	users := repository.NewUserRepository(db)
	issues := repository.NewIssueRepository(db)
	assignments := repository.NewAssignmentRepository(db)

	authService := services.NewAuthService(services.AuthDeps{
		Users:       users,
		OTPs:        repository.NewOTPStore(redisClient),
		Tokens:      utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry),
		Mailer:      mailer,
		SMS:         sms,
		Logger:      log,
		FrontendURL: cfg.FrontendURL,
	})
	issueService := services.NewIssueService(issues, users)
	assignmentService := services.NewAssignmentService(issues, assignments, users)
	engagementService := services.NewEngagementService(issues)
	analyticsService := services.NewAnalyticsService(repository.NewAnalyticsRepository(db))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middlewares.RequestID(), logger.RequestLogger(log), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/health", healthHandler(mongoClient, redisClient))

	routes.Register(r, routes.Handlers{
		Auth:          controllers.NewAuthController(authService, cfg.IsProduction(), cfg.JWTExpiry),
		Users:         controllers.NewUserController(authService),
		Issues:        controllers.NewIssueController(issueService, engagementService),
		Admin:         controllers.NewAdminController(issueService, assignmentService, analyticsService),
		Uploads:       controllers.NewUploadController(photos),
		Authenticator: authService,
		IssueLimiter:  middlewares.IssueRateLimiter(redisClient, cfg.IssueLimitQueue, cfg.IssueDailyLimit),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func healthHandler(mongoClient *mongo.Client, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{"mongo": "ok", "redis": "ok"}
		healthy := true
		if err := mongoClient.Ping(ctx, nil); err != nil {
			checks["mongo"] = err.Error()
			healthy = false
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, utils.Response{Success: healthy, Data: checks})
	}
}
