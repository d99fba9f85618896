package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"topicscope/internal/broker"
	"topicscope/internal/config"
	"topicscope/internal/constants"
	"topicscope/internal/decode"
	"topicscope/internal/ingest"
	"topicscope/internal/logger"
	"topicscope/internal/store"
	"topicscope/internal/stream"
	"topicscope/internal/topics"
	"topicscope/internal/web"
	"topicscope/pkg/bootstrap"
	"topicscope/pkg/health"
	"topicscope/pkg/metrics"
	"topicscope/pkg/middleware"
	"topicscope/pkg/ratelimit"
)

type App struct {
	*bootstrap.Base
	store    *store.Store
	decoder  *decode.Registry
	ingestor *ingest.Ingestor
	router   *gin.Engine
	server   *http.Server
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	if sugaredLogger, ok := log.(*logger.SugaredLogger); ok {
		sugaredLogger.SetServiceName("monitor-service")
	}
	return &App{
		Base: bootstrap.NewBase(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	a.store = store.New(a.Config.Monitor.WindowSize)

	if a.Config.Monitor.DecoderEnabled {
		a.decoder = decode.NewRegistry(a.Logger)
		a.decoder.RegisterFallback(decode.JSON)
		a.Logger.InfowCtx(ctx, "Payload decoder enabled")
	}

	a.ingestor = ingest.New(a.store, a.decoder, a.Logger)

	if err := a.InitBroker(); err != nil {
		return fmt.Errorf("failed to initialize broker: %w", err)
	}

	metrics.RegisterMonitorMetrics()
	metrics.RegisterStreamMetrics()
	metrics.RegisterBrokerMetrics()
	if a.Config.Server.RateLimit.Enabled {
		metrics.RegisterHTTPMetrics()
	}

	if err := a.initRouter(ctx); err != nil {
		return fmt.Errorf("failed to initialize router: %w", err)
	}

	a.initServer()
	return nil
}

func (a *App) initRouter(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(a.Logger))
	router.Use(middleware.LoggerMiddleware(a.Logger))
	router.Use(middleware.RequestIDMiddleware())

	if a.Config.Server.RateLimit.Enabled {
		rateLimitConfig := ratelimit.RateLimitConfig{
			RPS:             a.Config.Server.RateLimit.RPS,
			Burst:           a.Config.Server.RateLimit.Burst,
			CleanupInterval: time.Duration(a.Config.Server.RateLimit.CleanupInterval) * time.Second,
			MaxAge:          time.Duration(a.Config.Server.RateLimit.MaxAge) * time.Second,
		}
		router.Use(ratelimit.RateLimitMiddleware(rateLimitConfig))
		a.Logger.InfowCtx(ctx, "Rate limiting enabled",
			"rps", rateLimitConfig.RPS,
			"burst", rateLimitConfig.Burst,
		)
	}

	tmpl, err := web.Template()
	if err != nil {
		return fmt.Errorf("failed to parse page template: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	webHandler := web.NewHandler(a.decoder != nil, a.Config.Monitor.RecomputeInterval.Milliseconds())
	webHandler.RegisterRoutes(router)

	streamHandler := stream.NewHandler(a.store, a.Config.Monitor.RecomputeInterval, a.Logger)
	streamHandler.RegisterRoutes(router)

	topicsHandler := topics.NewHandler(a.store, a.Logger)
	topicsHandler.RegisterRoutes(router)

	healthRegistry := health.NewCheckerRegistry()
	healthRegistry.Register(health.NewIngestionChecker(a.ingestor))

	router.GET("/health", func(c *gin.Context) {
		h := healthRegistry.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.router = router
	return nil
}

func (a *App) initServer() {
	// No write timeout: SSE responses stay open for the life of the
	// consumer.
	a.server = &http.Server{
		Addr:        fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:     a.router,
		ReadTimeout: a.Config.Server.ReadTimeout,
	}
}

func (a *App) Run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfowCtx(ctx, "HTTP server starting", "port", a.Config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		err := a.ingestor.Run(gCtx, a.Consumer)
		if errors.Is(err, broker.ErrBusFailed) {
			// Stale-but-available: consumers keep their delivery loops and
			// the health endpoint reports degraded.
			a.Logger.ErrorwCtx(gCtx, "Bus session failed, serving last-known state",
				"error", err,
			)
			return nil
		}
		return err
	})

	return g.Wait()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.Logger.InfowCtx(ctx, "Shutting down monitor service")
	return a.Base.Shutdown(ctx, nil)
}
