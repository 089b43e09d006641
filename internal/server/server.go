package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/veloworks/user-service/internal/cache"
	"github.com/veloworks/user-service/internal/circuitbreaker"
	"github.com/veloworks/user-service/internal/clients"
	"github.com/veloworks/user-service/internal/config"
	"github.com/veloworks/user-service/internal/handler"
	"github.com/veloworks/user-service/internal/middleware"
	"github.com/veloworks/user-service/internal/observability"
	"github.com/veloworks/user-service/internal/ratelimit"
	"github.com/veloworks/user-service/internal/repository"
	"github.com/veloworks/user-service/internal/service"
	"github.com/veloworks/user-service/internal/storage"
	"github.com/veloworks/user-service/internal/worker"
)

type Server struct {
	router              *gin.Engine
	config              *config.Config
	logger              *observability.Logger
	redis               *storage.RedisClient
	postgres            *storage.Postgres
	notificationBreaker *circuitbreaker.CircuitBreaker
	cleanupWorker       *worker.CleanupWorker
	authService         *service.AuthService
	authHandler         *handler.AuthHandler
	userHandler         *handler.UserHandler
	httpServer          *http.Server
}

func New(cfg *config.Config, logger *observability.Logger, redis *storage.RedisClient, pg *storage.Postgres) *Server {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// One breaker per guarded collaborator, shared by all requests.
	notificationBreaker := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.Breaker.FailureThreshold,
		Cooldown:         cfg.Breaker.Cooldown,
	})

	notifications := clients.NewNotificationClient(
		cfg.Collaborators.NotificationsURL, cfg.Collaborators.Timeout, notificationBreaker)
	expenses := clients.NewExpensesClient(cfg.Collaborators.ExpensesURL, cfg.Collaborators.Timeout)
	analytics := clients.NewAnalyticsClient(cfg.Collaborators.AnalyticsURL, cfg.Collaborators.Timeout)

	cleanupWorker := worker.NewCleanupWorker(analytics, logger, cfg.Cleanup.QueueSize, cfg.Cleanup.Timeout)
	cleanupWorker.Start()

	userRepo := repository.NewUserRepository(pg)
	userCache := cache.NewUserCache(redis, cfg.Cache.TTL, cfg.Cache.Enabled)
	throttle := ratelimit.NewLoginThrottle(redis, logger, cfg.Throttle.MaxAttempts, cfg.Throttle.Window)

	authService := service.NewAuthService(userRepo, notifications, logger, cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	userService := service.NewUserService(userRepo, userCache, logger)
	accountService := service.NewAccountService(userRepo, expenses, cleanupWorker, logger)

	s := &Server{
		router:              router,
		config:              cfg,
		logger:              logger,
		redis:               redis,
		postgres:            pg,
		notificationBreaker: notificationBreaker,
		cleanupWorker:       cleanupWorker,
		authService:         authService,
		authHandler:         handler.NewAuthHandler(authService, throttle),
		userHandler:         handler.NewUserHandler(userService, accountService),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery(s.logger))
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Logger(s.logger))
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	auth := s.router.Group("/v1/auth")
	{
		auth.POST("/register", s.authHandler.Register)
		auth.POST("/login", s.authHandler.Login)
	}

	users := s.router.Group("/v1/users")
	users.Use(middleware.RequireAuth(s.authService))
	{
		users.GET("/:id", s.userHandler.GetProfile)
		users.PATCH("/:id", s.userHandler.UpdateProfile)
		users.DELETE("/:id", s.userHandler.DeleteAccount)
	}

	// Service-to-service surface, reachable only inside the cluster.
	internal := s.router.Group("/v1/internal")
	{
		internal.GET("/users/:id", s.userHandler.GetInternalUser)
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	redisHealthy := true
	if err := s.redis.Ping(ctx); err != nil {
		redisHealthy = false
	}

	dbHealthy := true
	if err := s.postgres.Ping(ctx); err != nil {
		dbHealthy = false
	}

	status := "healthy"
	statusCode := http.StatusOK

	// Redis is volatile by design: its absence degrades features but
	// does not take the service down.
	if !dbHealthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	} else if !redisHealthy {
		status = "degraded"
	}

	c.JSON(statusCode, gin.H{
		"status":    status,
		"service":   "user-service",
		"timestamp": time.Now().Unix(),
		"checks": gin.H{
			"redis":                redisHealthy,
			"database":             dbHealthy,
			"notification_breaker": s.notificationBreaker.State().String(),
		},
	})
}

func (s *Server) Run(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	s.logger.Info("server_starting", map[string]any{
		"addr":        addr,
		"environment": s.config.Server.Environment,
	})

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	// Stop accepting requests first, then drain pending cleanups so
	// enqueued analytics deletions are not lost on deploy.
	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.cleanupWorker.Stop()

	return err
}

func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
