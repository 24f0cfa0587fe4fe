package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rivacortez/management-demo/prometheus"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request counts, durations and status categories
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := responseStatus(c, err)
			prometheus.RecordHTTPRequest(
				c.Request().Method,
				c.Path(),
				strconv.Itoa(status),
				statusCategory(status),
				time.Since(start).Seconds(),
			)

			return err
		}
	}
}

// responseStatus is the status the client will see, including errors the
// echo error handler has not written yet
func responseStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	default:
		return ""
	}
}
