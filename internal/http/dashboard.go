package http

import (
	"bytes"
	"net/http"

	echo "github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/jmehdipour/insights/internal/config"
	"github.com/jmehdipour/insights/internal/dashboard"
	"github.com/jmehdipour/insights/internal/logger"
	"github.com/jmehdipour/insights/internal/model"
)

// NewDashboardServer serves the rendered dashboard. Every page load fetches
// the API resources once through f.
func NewDashboardServer(cfg config.Config, f dashboard.Fetcher) *Server {
	e := newEcho(cfg.Log.Level)

	e.GET("/", dashboardHandler(f, cfg.Dashboard.RecordsLimit))
	e.GET("/favicon.ico", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	return &Server{e: e}
}

func dashboardHandler(f dashboard.Fetcher, limit int) echo.HandlerFunc {
	if limit <= 0 {
		limit = 100
	}
	return func(c echo.Context) error {
		params := model.FilterParams{
			SearchText:   c.QueryParam("q"),
			StatusFilter: c.QueryParam("status"),
		}

		st := dashboard.Load(c.Request().Context(), f, limit)

		var buf bytes.Buffer
		if err := dashboard.Render(&buf, dashboard.NewPage(st, params)); err != nil {
			logger.Log.Error("render dashboard", zap.Error(err))
			return c.String(http.StatusInternalServerError, "render failed")
		}
		return c.HTMLBlob(http.StatusOK, buf.Bytes())
	}
}
