package http

import (
	"net/http"
	"strconv"
	"strings"

	echo "github.com/labstack/echo/v4"

	"github.com/jmehdipour/insights/internal/model"
	"github.com/jmehdipour/insights/internal/service/accounts"
)

func unprocessable(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": msg})
}

func listRecordsHandler(svc *accounts.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		q := accounts.Query{Limit: accounts.DefaultLimit}
		params := c.QueryParams()

		// a present but empty value is rejected, not defaulted
		if params.Has("limit") {
			n, err := strconv.Atoi(params.Get("limit"))
			if err != nil {
				return unprocessable(c, "limit must be an integer")
			}
			q.Limit = n
		}
		if params.Has("offset") {
			n, err := strconv.Atoi(params.Get("offset"))
			if err != nil {
				return unprocessable(c, "offset must be an integer")
			}
			q.Offset = n
		}
		if raw := c.QueryParam("subscription_status"); raw != "" {
			q.Status = model.SubscriptionStatus(raw)
		}
		q.Q = strings.TrimSpace(c.QueryParam("q"))

		if err := q.Validate(); err != nil {
			return unprocessable(c, "limit must be 1..100, offset >= 0, subscription_status active|inactive")
		}

		return c.JSON(http.StatusOK, svc.List(q))
	}
}
