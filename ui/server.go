package ui

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"findash/adapters/datareadiness/coercer"
	"findash/app"
	"findash/internal"
	"findash/internal/config"
	"findash/internal/errors"
	"findash/ui/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server represents the JSON API server for the financial dashboard
type Server struct {
	router   *gin.Engine
	service  *app.DashboardService
	coercer  *coercer.TypeCoercer
	config   config.ServerConfig
	logger   *internal.Logger
	registry *prometheus.Registry
	metrics  *apiMetrics
}

// NewServer creates a server with routes and middleware installed
func NewServer(service *app.DashboardService, c *coercer.TypeCoercer, cfg config.ServerConfig, logger *internal.Logger) *Server {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	if c == nil {
		c = coercer.Default()
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	registry := prometheus.NewRegistry()
	s := &Server{
		router:   gin.New(),
		service:  service,
		coercer:  c,
		config:   cfg,
		logger:   logger.With("API"),
		registry: registry,
		metrics:  newAPIMetrics(registry),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupRoutes registers every endpoint
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealthz)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	api := s.router.Group("/api/v1")
	api.POST("/validate", s.handleValidate)
	api.POST("/analyze", s.handleAnalyze)
	api.POST("/predict", s.handlePredict)
	api.POST("/report", s.handleReport)

	s.router.NoRoute(func(c *gin.Context) {
		s.fail(c, "route", errors.NotFound(c.Request.Method+" "+c.Request.URL.Path))
	})
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.logger.Error("panic serving %s: %v", c.Request.URL.Path, recovered)
		s.fail(c, "panic", errors.InternalError("internal error"))
	}))
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestLogger(s.logger))
	s.router.Use(s.metrics.instrument())
	s.router.Use(middleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst, s.logger))
	if s.config.MaxBodyBytes > 0 {
		s.router.Use(middleware.BodyLimit(s.config.MaxBodyBytes))
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("Shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
