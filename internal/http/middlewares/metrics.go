package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"snow-board.com/snow-board/internal/metrics"
)

func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method

			m.RequestsTotal.WithLabelValues(route, method, strconv.Itoa(c.Response().Status)).Inc()
			m.RequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())

			return nil
		}
	}
}
