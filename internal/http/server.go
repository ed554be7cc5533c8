package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoMid "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jmehdipour/insights/internal/config"
	"github.com/jmehdipour/insights/internal/http/middleware"
	"github.com/jmehdipour/insights/internal/logger"
	"github.com/jmehdipour/insights/internal/metrics"
	"github.com/jmehdipour/insights/internal/service/accounts"
	"github.com/jmehdipour/insights/internal/util"
)

type Server struct{ e *echo.Echo }

// newEcho builds the middleware chain shared by the API and dashboard servers.
func newEcho(level string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(echoLevel(level))
	e.Use(
		echoMid.Recover(),
		echoMid.RequestIDWithConfig(echoMid.RequestIDConfig{Generator: util.NewID}),
		echoMid.Logger(),
	)

	metrics.MustRegister(prometheus.DefaultRegisterer)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}

func echoLevel(level string) log.Lvl {
	switch level {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}

// NewServer wires the accounts API. rds may be nil (no rate limiting).
func NewServer(cfg config.Config, svc *accounts.Service, rds *redis.Client) *Server {
	e := newEcho(cfg.Log.Level)

	e.Use(echoMid.CORSWithConfig(echoMid.CORSConfig{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"*"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: true,
	}))

	rlMW := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
		Redis:          rds,
		RPS:            cfg.RateLimit.RPS,
		KeyPrefix:      "rl:ip:",
		Window:         time.Second,
		RetryAfterHint: true,
	})

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Dashboard Page"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("", rlMW)
	api.GET("/records", listRecordsHandler(svc))
	api.GET("/summary", summaryHandler(svc))
	api.GET("/ingestion-report", ingestionReportHandler(svc))

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	logger.Log.Info("http: listening", zap.String("addr", addr))
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.e }
