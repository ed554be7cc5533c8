package http

import (
	"net/http"

	echo "github.com/labstack/echo/v4"

	"github.com/jmehdipour/insights/internal/service/accounts"
)

func summaryHandler(svc *accounts.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, svc.Summary())
	}
}

func ingestionReportHandler(svc *accounts.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, svc.Report())
	}
}
